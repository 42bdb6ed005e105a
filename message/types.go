/*
NAME
  types.go

DESCRIPTION
  types.go defines the FT8 message variant tagged union and the i3/n3
  subtype discriminators used throughout the codec and parser.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package message implements the FT8 message variant codec: parsing plain
// text into a tagged variant, serializing a variant to its 77-bit payload
// (and back), per spec §4.2 and the bit layout table in §6.
package message

import "github.com/pkg/errors"

// i3, the 3-bit top-level message type discriminator.
const (
	I3Type0       uint32 = 0
	I3Standard    uint32 = 1
	I3EUVHF       uint32 = 2
	I3RTTYRoundup uint32 = 3
	I3NonStandard uint32 = 4
)

// n3, the Type-0 subtype discriminator (only meaningful when i3=I3Type0).
const (
	N3FreeText   uint32 = 0
	N3DXpedition uint32 = 1
	N3FieldDay3  uint32 = 3
	N3FieldDay4  uint32 = 4
	N3Telemetry  uint32 = 5
)

// Kind identifies which arm of Variant is populated.
type Kind int

const (
	KindStandard Kind = iota
	KindEUVHF
	KindRTTYRoundup
	KindNonStandard
	KindFreeText
	KindDXpedition
	KindFieldDay
	KindTelemetry
)

// PayloadBits is the width of the serialized message payload.
const PayloadBits = 77

// Errors returned by this package.
var (
	ErrUnknownShape   = errors.New("message: text does not match any known variant shape")
	ErrUnknownVariant = errors.New("message: unrecognized i3/n3 subtype on decode")
	ErrInvalidField   = errors.New("message: field value outside its valid range")
	ErrInvalidChar    = errors.New("message: character not permitted in this field")
	ErrTextTooLong    = errors.New("message: text exceeds its variant's length budget")
	ErrInvalidCharset = errors.New("message: text contains a character outside the applicable charset")
)

// StandardFields covers both the Standard (i3=1) and EU-VHF contest (i3=2)
// variants, which share an identical bit layout and differ only in whether
// the two position flags mean "/R" (Standard) or "/P" (EU-VHF).
type StandardFields struct {
	Call1       string
	Call1Suffix bool // /R for Standard, /P for EU-VHF
	Call2       string
	Call2Suffix bool
	Ack         bool   // R acknowledgment flag
	Report      string // grid square, RRR/RR73/73, signed dB report, or ""
}

// RTTYFields covers the ARRL RTTY Roundup variant (i3=3).
type RTTYFields struct {
	TU       bool // "TU;" flag
	Call1    string
	Call2    string
	Ack      bool
	RST      int    // 0-7: the middle digit of a 5X9-style report, minus 2
	Exchange string // a 1-7999 serial number, or a US/VE state/province code
}

// NonStandardFields covers the non-standard-callsign variant (i3=4): a
// compound callsign (e.g. "PJ4/K1ABC") paired with either a CQ flag or a
// hashed reference to the other station.
type NonStandardFields struct {
	Compound string // the base-38-encoded compound callsign
	HashCall string // the callsign the 12-bit hash was computed from; "" if CQ
	CQ       bool
	Flip     bool   // position flag: true when the hash callsign comes second in text
	Ack      string // "", "RRR", "RR73", or "73"
}

// DXpeditionFields covers the Type-0/1 DXpedition variant.
type DXpeditionFields struct {
	Call1    string
	Call2    string
	HashCall string
	Report   int // signal report in dB, even, -30..+32
}

// FieldDayFields covers the Type-0/3 and Type-0/4 ARRL Field Day variants;
// N3 distinguishes which (3: transmitters 1-16, 4: transmitters 17-32).
type FieldDayFields struct {
	Call1        string
	Call2        string
	Ack          bool
	Transmitters int    // number of transmitters, 1-32
	Class        byte   // 0='A' .. 5='F'
	Section      string // ARRL/RAC section code
	N3           uint32
}

// TelemetryFields covers the Type-0/5 telemetry variant: 18 hex digits
// packed as three 6-digit groups.
type TelemetryFields struct {
	Hex string // exactly 18 hex characters
}

// Variant is a tagged union over all message shapes the payload layout in
// spec §6 supports. Only the field matching Kind is meaningful.
type Variant struct {
	Kind Kind

	Standard    *StandardFields
	RTTY        *RTTYFields
	NonStandard *NonStandardFields
	FreeText    string
	DXpedition  *DXpeditionFields
	FieldDay    *FieldDayFields
	Telemetry   *TelemetryFields
}
