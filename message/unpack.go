/*
NAME
  unpack.go

DESCRIPTION
  unpack.go deserializes a 77-bit payload into a Variant, the inverse of
  pack.go, dispatching on the trailing i3 (and, for Type-0, n3) field.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package message

import (
	"fmt"

	"github.com/ausocean/ft8/bitpack"
	"github.com/ausocean/ft8/callsign"
)

// Unpack deserializes a 77-bit payload into a Variant. cache, if non-nil,
// resolves hashed callsign references in Standard, EU-VHF and non-standard
// messages and the hashed callsign of a DXpedition message; the callsign
// fields of RTTY Roundup and Field Day messages and the two plain callsigns
// of a DXpedition message are unpacked without it. It may be nil; a hashed
// reference that is not resolved becomes a placeholder.
func Unpack(bits []byte, cache *callsign.Cache) (Variant, error) {
	if len(bits) != PayloadBits {
		return Variant{}, ErrInvalidField
	}
	i3 := bitsToUint(bits[74:77])
	switch i3 {
	case I3Standard:
		return unpackStandardLike(bits, KindStandard, cache)
	case I3EUVHF:
		return unpackStandardLike(bits, KindEUVHF, cache)
	case I3RTTYRoundup:
		return unpackRTTY(bits)
	case I3NonStandard:
		return unpackNonStandard(bits, cache)
	case I3Type0:
		return unpackType0(bits, cache)
	default:
		return Variant{}, ErrUnknownVariant
	}
}

func bitsToUint(bits []byte) uint64 {
	var v uint64
	for _, b := range bits {
		v = (v << 1) | uint64(b)
	}
	return v
}

func unpackStandardLike(bits []byte, kind Kind, cache *callsign.Cache) (Variant, error) {
	c := bitpack.NewCursor(bits)
	n28a := uint32(c.ReadUint(28))
	call1Suffix := c.ReadBool()
	n28b := uint32(c.ReadUint(28))
	call2Suffix := c.ReadBool()
	ack := c.ReadBool()
	g15 := uint32(c.ReadUint(15))
	c.ReadUint(3) // i3, already dispatched on

	call1, err := callsign.Unpack28(n28a, cache)
	if err != nil {
		return Variant{}, err
	}
	call2, err := callsign.Unpack28(n28b, cache)
	if err != nil {
		return Variant{}, err
	}
	report, err := DecodeGridOrReport(g15)
	if err != nil {
		return Variant{}, err
	}

	return Variant{
		Kind: kind,
		Standard: &StandardFields{
			Call1: call1, Call1Suffix: call1Suffix,
			Call2: call2, Call2Suffix: call2Suffix,
			Ack: ack, Report: report,
		},
	}, nil
}

func unpackRTTY(bits []byte) (Variant, error) {
	c := bitpack.NewCursor(bits)
	tu := c.ReadBool()
	n28a := uint32(c.ReadUint(28))
	n28b := uint32(c.ReadUint(28))
	ack := c.ReadBool()
	rst := int(c.ReadUint(3))
	nexch := uint32(c.ReadUint(13))
	c.ReadUint(3)

	call1, err := callsign.Unpack28(n28a, nil)
	if err != nil {
		return Variant{}, err
	}
	call2, err := callsign.Unpack28(n28b, nil)
	if err != nil {
		return Variant{}, err
	}
	exchange, err := DecodeRTTYExchange(nexch)
	if err != nil {
		return Variant{}, err
	}

	return Variant{
		Kind: KindRTTYRoundup,
		RTTY: &RTTYFields{TU: tu, Call1: call1, Call2: call2, Ack: ack, RST: rst, Exchange: exchange},
	}, nil
}

func ackText(code uint64) (string, error) {
	switch code {
	case 0:
		return "", nil
	case 1:
		return "RRR", nil
	case 2:
		return "RR73", nil
	case 3:
		return "73", nil
	default:
		return "", ErrInvalidField
	}
}

func unpackNonStandard(bits []byte, cache *callsign.Cache) (Variant, error) {
	c := bitpack.NewCursor(bits)
	n12 := uint16(c.ReadUint(12))
	n58 := c.ReadUint(58)
	flip := c.ReadBool()
	nrpt := c.ReadUint(2)
	cq := c.ReadBool()
	c.ReadUint(3)

	compound, err := callsign.Unpack58(n58)
	if err != nil {
		return Variant{}, err
	}
	ack, err := ackText(nrpt)
	if err != nil {
		return Variant{}, err
	}

	var hashCall string
	if !cq {
		if cache != nil {
			if cq12, ok := cache.Lookup12(n12); ok {
				hashCall = cq12
			}
		}
		if hashCall == "" {
			hashCall = "..."
		}
	}

	return Variant{
		Kind: KindNonStandard,
		NonStandard: &NonStandardFields{
			Compound: compound, HashCall: hashCall, CQ: cq, Flip: flip, Ack: ack,
		},
	}, nil
}

func unpackType0(bits []byte, cache *callsign.Cache) (Variant, error) {
	n3 := bitsToUint(bits[71:74])
	switch n3 {
	case N3FreeText:
		text, err := DecodeFreeText(bits[0:71])
		if err != nil {
			return Variant{}, err
		}
		return Variant{Kind: KindFreeText, FreeText: text}, nil
	case N3DXpedition:
		return unpackDXpedition(bits, cache)
	case N3FieldDay3, N3FieldDay4:
		return unpackFieldDay(bits, n3)
	case N3Telemetry:
		return unpackTelemetry(bits)
	default:
		return Variant{}, ErrUnknownVariant
	}
}

func unpackDXpedition(bits []byte, cache *callsign.Cache) (Variant, error) {
	c := bitpack.NewCursor(bits)
	n28a := uint32(c.ReadUint(28))
	n28b := uint32(c.ReadUint(28))
	n10 := uint16(c.ReadUint(10))

	call1, err := callsign.Unpack28(n28a, nil)
	if err != nil {
		return Variant{}, err
	}
	call2, err := callsign.Unpack28(n28b, nil)
	if err != nil {
		return Variant{}, err
	}
	n5 := c.ReadUint(5)
	c.ReadUint(3)
	c.ReadUint(3)

	hashCall := "..."
	if cache != nil {
		if call, ok := cache.Lookup10(n10); ok {
			hashCall = call
		}
	}
	report := int(n5)*2 - 30

	return Variant{
		Kind: KindDXpedition,
		DXpedition: &DXpeditionFields{
			Call1: call1, Call2: call2, HashCall: hashCall, Report: report,
		},
	}, nil
}

func unpackFieldDay(bits []byte, n3 uint64) (Variant, error) {
	c := bitpack.NewCursor(bits)
	n28a := uint32(c.ReadUint(28))
	n28b := uint32(c.ReadUint(28))
	ack := c.ReadBool()
	intx := int(c.ReadUint(4))
	class := byte(c.ReadUint(3))
	isec := uint32(c.ReadUint(7))
	c.ReadUint(3)
	c.ReadUint(3)

	call1, err := callsign.Unpack28(n28a, nil)
	if err != nil {
		return Variant{}, err
	}
	call2, err := callsign.Unpack28(n28b, nil)
	if err != nil {
		return Variant{}, err
	}
	section, err := DecodeARRLSection(isec)
	if err != nil {
		return Variant{}, err
	}

	transmitters := intx + 1
	if n3 == N3FieldDay4 {
		transmitters = intx + 17
	}

	return Variant{
		Kind: KindFieldDay,
		FieldDay: &FieldDayFields{
			Call1: call1, Call2: call2, Ack: ack,
			Transmitters: transmitters, Class: class, Section: section, N3: uint32(n3),
		},
	}, nil
}

func unpackTelemetry(bits []byte) (Variant, error) {
	c := bitpack.NewCursor(bits)
	ntel1 := c.ReadUint(23)
	ntel2 := c.ReadUint(24)
	ntel3 := c.ReadUint(24)
	c.ReadUint(3)
	c.ReadUint(3)

	hex := fmt.Sprintf("%06X%06X%06X", ntel1, ntel2, ntel3)
	return Variant{Kind: KindTelemetry, Telemetry: &TelemetryFields{Hex: hex}}, nil
}
