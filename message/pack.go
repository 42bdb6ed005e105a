/*
NAME
  pack.go

DESCRIPTION
  pack.go serializes a Variant into its 77-bit payload, dispatching on Kind
  to the bit layout spec §6 assigns each message shape.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package message

import (
	"strconv"
	"strings"

	"github.com/ausocean/ft8/bitpack"
	"github.com/ausocean/ft8/callsign"
)

// Pack serializes variant into its 77-bit payload. cache, if non-nil,
// receives the callsigns of Standard, EU-VHF and non-standard messages and
// the hashed callsign of a DXpedition message, so a later hashed reference
// to the same station can be resolved; the callsigns of RTTY Roundup and
// Field Day messages and the two plain callsigns of a DXpedition message
// are not inserted. It may be nil.
func Pack(v Variant, cache *callsign.Cache) ([]byte, error) {
	switch v.Kind {
	case KindStandard:
		return packStandardLike(v.Standard, I3Standard, cache)
	case KindEUVHF:
		return packStandardLike(v.Standard, I3EUVHF, cache)
	case KindRTTYRoundup:
		return packRTTY(v.RTTY)
	case KindNonStandard:
		return packNonStandard(v.NonStandard, cache)
	case KindFreeText:
		return packFreeText(v.FreeText)
	case KindDXpedition:
		return packDXpedition(v.DXpedition, cache)
	case KindFieldDay:
		return packFieldDay(v.FieldDay)
	case KindTelemetry:
		return packTelemetry(v.Telemetry)
	default:
		return nil, ErrUnknownVariant
	}
}

// packCallsignOrHash packs a callsign token for the 28-bit standard-variant
// fields, handling the "<CALL>" bracket syntax (a hashed reference rather
// than a spelled-out callsign) at this layer, since Pack28 itself only
// understands plain tokens.
func packCallsignOrHash(call string, cache *callsign.Cache) (uint32, error) {
	if strings.HasPrefix(call, "<") && strings.HasSuffix(call, ">") && len(call) >= 2 {
		inner := call[1 : len(call)-1]
		if cache != nil {
			cache.Insert(inner)
		}
		return callsign.HashedCallsignBase + callsign.Hash22(inner), nil
	}
	return callsign.Pack28AndCache(call, cache)
}

func packStandardLike(f *StandardFields, i3 uint32, cache *callsign.Cache) ([]byte, error) {
	if f == nil {
		return nil, ErrInvalidField
	}
	n28a, err := packCallsignOrHash(f.Call1, cache)
	if err != nil {
		return nil, err
	}
	n28b, err := packCallsignOrHash(f.Call2, cache)
	if err != nil {
		return nil, err
	}
	g15, err := EncodeGridOrReport(f.Report)
	if err != nil {
		return nil, err
	}

	var b bitpack.Builder
	b.WriteUint(uint64(n28a), 28)
	b.WriteBool(f.Call1Suffix)
	b.WriteUint(uint64(n28b), 28)
	b.WriteBool(f.Call2Suffix)
	b.WriteBool(f.Ack)
	b.WriteUint(uint64(g15), 15)
	b.WriteUint(uint64(i3), 3)
	return b.Bits(), nil
}

func packRTTY(f *RTTYFields) ([]byte, error) {
	if f == nil {
		return nil, ErrInvalidField
	}
	n28a, err := callsign.Pack28(f.Call1)
	if err != nil {
		return nil, err
	}
	n28b, err := callsign.Pack28(f.Call2)
	if err != nil {
		return nil, err
	}
	if f.RST < 0 || f.RST > 7 {
		return nil, ErrInvalidField
	}
	nexch, err := EncodeRTTYExchange(f.Exchange)
	if err != nil {
		return nil, err
	}

	var b bitpack.Builder
	b.WriteBool(f.TU)
	b.WriteUint(uint64(n28a), 28)
	b.WriteUint(uint64(n28b), 28)
	b.WriteBool(f.Ack)
	b.WriteUint(uint64(f.RST), 3)
	b.WriteUint(uint64(nexch), 13)
	b.WriteUint(uint64(I3RTTYRoundup), 3)
	return b.Bits(), nil
}

func ackCode(ack string) (uint64, error) {
	switch ack {
	case "":
		return 0, nil
	case "RRR":
		return 1, nil
	case "RR73":
		return 2, nil
	case "73":
		return 3, nil
	default:
		return 0, ErrInvalidField
	}
}

func packNonStandard(f *NonStandardFields, cache *callsign.Cache) ([]byte, error) {
	if f == nil {
		return nil, ErrInvalidField
	}
	nrpt, err := ackCode(f.Ack)
	if err != nil {
		return nil, err
	}

	var n12 uint64
	if f.CQ {
		n12 = uint64(callsign.Hash12(f.Compound))
	} else if f.HashCall != "" {
		n12 = uint64(callsign.Hash12(f.HashCall))
	}

	n58, err := callsign.Pack58(f.Compound)
	if err != nil {
		return nil, err
	}

	if cache != nil {
		cache.Insert(f.Compound)
		if f.HashCall != "" {
			cache.Insert(f.HashCall)
		}
	}

	var b bitpack.Builder
	b.WriteUint(n12, 12)
	b.WriteUint(n58, 58)
	b.WriteBool(f.Flip)
	b.WriteUint(nrpt, 2)
	b.WriteBool(f.CQ)
	b.WriteUint(uint64(I3NonStandard), 3)
	return b.Bits(), nil
}

func packFreeText(text string) ([]byte, error) {
	bits, err := EncodeFreeText(text)
	if err != nil {
		return nil, err
	}
	var b bitpack.Builder
	b.WriteBits(bits)
	b.WriteUint(uint64(N3FreeText), 3)
	b.WriteUint(uint64(I3Type0), 3)
	return b.Bits(), nil
}

func packDXpedition(f *DXpeditionFields, cache *callsign.Cache) ([]byte, error) {
	if f == nil {
		return nil, ErrInvalidField
	}
	n28a, err := callsign.Pack28(f.Call1)
	if err != nil {
		return nil, err
	}
	n28b, err := callsign.Pack28(f.Call2)
	if err != nil {
		return nil, err
	}
	if f.Report < -30 || f.Report > 32 || f.Report%2 != 0 {
		return nil, ErrInvalidField
	}
	n10 := callsign.Hash10(f.HashCall)
	if cache != nil {
		cache.Insert(f.HashCall)
	}
	n5 := uint64((f.Report + 30) / 2)

	var b bitpack.Builder
	b.WriteUint(uint64(n28a), 28)
	b.WriteUint(uint64(n28b), 28)
	b.WriteUint(uint64(n10), 10)
	b.WriteUint(n5, 5)
	b.WriteUint(uint64(N3DXpedition), 3)
	b.WriteUint(uint64(I3Type0), 3)
	return b.Bits(), nil
}

func packFieldDay(f *FieldDayFields) ([]byte, error) {
	if f == nil {
		return nil, ErrInvalidField
	}
	n28a, err := callsign.Pack28(f.Call1)
	if err != nil {
		return nil, err
	}
	n28b, err := callsign.Pack28(f.Call2)
	if err != nil {
		return nil, err
	}
	isec, err := EncodeARRLSection(f.Section)
	if err != nil {
		return nil, err
	}
	if f.Class > 5 {
		return nil, ErrInvalidField
	}

	var intx int
	switch f.N3 {
	case N3FieldDay3:
		if f.Transmitters < 1 || f.Transmitters > 16 {
			return nil, ErrInvalidField
		}
		intx = f.Transmitters - 1
	case N3FieldDay4:
		if f.Transmitters < 17 || f.Transmitters > 32 {
			return nil, ErrInvalidField
		}
		intx = f.Transmitters - 17
	default:
		return nil, ErrInvalidField
	}

	var b bitpack.Builder
	b.WriteUint(uint64(n28a), 28)
	b.WriteUint(uint64(n28b), 28)
	b.WriteBool(f.Ack)
	b.WriteUint(uint64(intx), 4)
	b.WriteUint(uint64(f.Class), 3)
	b.WriteUint(uint64(isec), 7)
	b.WriteUint(uint64(f.N3), 3)
	b.WriteUint(uint64(I3Type0), 3)
	return b.Bits(), nil
}

func packTelemetry(f *TelemetryFields) ([]byte, error) {
	if f == nil || len(f.Hex) != 18 {
		return nil, ErrInvalidField
	}
	ntel1, err1 := strconv.ParseUint(f.Hex[0:6], 16, 32)
	ntel2, err2 := strconv.ParseUint(f.Hex[6:12], 16, 32)
	ntel3, err3 := strconv.ParseUint(f.Hex[12:18], 16, 32)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, ErrInvalidCharset
	}

	var b bitpack.Builder
	b.WriteUint(ntel1, 23)
	b.WriteUint(ntel2, 24)
	b.WriteUint(ntel3, 24)
	b.WriteUint(uint64(N3Telemetry), 3)
	b.WriteUint(uint64(I3Type0), 3)
	return b.Bits(), nil
}
