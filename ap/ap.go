/*
NAME
  ap.go

DESCRIPTION
  ap.go implements a-priori (AP) decoding support: fixed bit patterns for
  common message shapes (a bare "CQ" call, the operator's own callsign, a
  full QSO exchange) that, when known in advance, can be forced into the
  LDPC decoder's LLR vector to recover a message too weak to decode blind,
  per spec §4.10.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package ap supplies a-priori hint patterns that force selected LDPC
// codeword bits to known values ahead of belief propagation, trading
// specificity (the operator must expect a particular exchange) for extra
// decode sensitivity on marginal signals.
package ap

import (
	"github.com/ausocean/ft8/callsign"
	"github.com/ausocean/ft8/message"
)

// DefaultMagnitude is the LLR magnitude forced onto known-value bits; large
// enough to dominate belief propagation's normal LLR range without being so
// large it destabilizes the tanh-product kernel.
const DefaultMagnitude = 10.0

// Type identifies which a-priori message shape a Hints call should assume.
type Type int

const (
	// CQAny assumes only a bare "CQ" prefix with a standard-message type tag.
	CQAny Type = iota
	// MyCallAny assumes the operator's own callsign opens the message.
	MyCallAny
	// MyCallDxCallAny assumes both callsigns are known, report unconstrained.
	MyCallDxCallAny
	// MyCallDxCallRRR assumes a full "mycall dxcall RRR" exchange.
	MyCallDxCallRRR
	// MyCallDxCall73 assumes a full "mycall dxcall 73" exchange.
	MyCallDxCall73
	// MyCallDxCallRR73 assumes a full "mycall dxcall RR73" exchange.
	MyCallDxCallRR73
)

// cqPattern is the 29-bit encoding of a standard message's "CQ" callsign
// field, taken from the reference decoder's WSJT-X-derived constant table.
var cqPattern = [29]int8{
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1,
	-1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, -1, 1, -1, -1,
}

// rrrPattern, msg73Pattern, and rr73Pattern are the 19-bit encodings of a
// standard message's report field for the three acknowledgment shorthands.
var (
	rrrPattern   = [19]int8{-1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1, -1, -1, 1, -1, -1, -1, 1}
	msg73Pattern = [19]int8{-1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1, -1, 1, -1, -1, -1, -1, 1}
	rr73Pattern  = [19]int8{-1, 1, 1, 1, 1, 1, 1, -1, 1, -1, -1, 1, -1, -1, 1, 1, -1, -1, 1}
)

// Hints holds a 174-bit codeword mask (true where the bit is forced) and the
// matching LLR values to force onto the masked positions.
type Hints struct {
	Mask [174]bool
	LLR  [174]float64
}

// Merge OR-merges other into h: any bit other forces becomes forced in h
// too, overwriting h's existing hint at that position.
func (h *Hints) Merge(other Hints) {
	for i := range h.Mask {
		if other.Mask[i] {
			h.Mask[i] = true
			h.LLR[i] = other.LLR[i]
		}
	}
}

// Decoder generates a-priori hints for an operator's configured callsign
// pair, encoding "mycall hiscall RRR" once and slicing out its callsign
// bits for reuse across every AP pass.
type Decoder struct {
	myCall, hisCall string
	apsym           [58]int8
	haveApsym       bool
	magnitude       float64
}

// NewDecoder builds an AP decoder for the given operator callsign and
// (optionally empty) DX callsign, at DefaultMagnitude.
func NewDecoder(myCall, hisCall string) *Decoder {
	d := &Decoder{myCall: myCall, hisCall: hisCall, magnitude: DefaultMagnitude}
	d.generateApsym()
	return d
}

// generateApsym encodes "mycall hiscall RRR" (substituting a placeholder DX
// call if none was configured, matching the reference decoder's behavior)
// and caches the first 58 payload bits: the two 28-bit callsign fields plus
// their flanking flag bits.
func (d *Decoder) generateApsym() {
	if len(d.myCall) < 3 {
		return
	}
	hisCall := d.hisCall
	if hisCall == "" {
		hisCall = "KA1ABC"
	}

	v, err := message.ParseText(d.myCall + " " + hisCall + " RRR")
	if err != nil {
		return
	}
	bits, err := message.Pack(v, callsign.NewCache())
	if err != nil {
		return
	}
	for i := 0; i < 58 && i < len(bits); i++ {
		if bits[i] == 1 {
			d.apsym[i] = 1
		} else {
			d.apsym[i] = -1
		}
	}
	d.haveApsym = true
}

// Generate builds the hint mask and LLR vector for the given AP type. It
// returns ok=false when the request needs configuration this Decoder
// wasn't given (e.g. MyCallAny without a configured callsign).
func (d *Decoder) Generate(t Type) (hints Hints, ok bool) {
	forceMessageTypeBits := func() {
		hints.Mask[74], hints.Mask[75], hints.Mask[76] = true, true, true
		hints.LLR[74] = -d.magnitude
		hints.LLR[75] = -d.magnitude
		hints.LLR[76] = d.magnitude
	}
	forceCallsigns := func(n int) bool {
		if !d.haveApsym {
			return false
		}
		for i := 0; i < n; i++ {
			hints.Mask[i] = true
			hints.LLR[i] = float64(d.apsym[i]) * d.magnitude
		}
		return true
	}
	forceReport := func(pattern []int8) {
		for i, v := range pattern {
			hints.Mask[58+i] = true
			hints.LLR[58+i] = float64(v) * d.magnitude
		}
	}

	switch t {
	case CQAny:
		for i, v := range cqPattern {
			hints.Mask[i] = true
			hints.LLR[i] = float64(v) * d.magnitude
		}
		forceMessageTypeBits()
		return hints, true

	case MyCallAny:
		if !forceCallsigns(29) {
			return hints, false
		}
		forceMessageTypeBits()
		return hints, true

	case MyCallDxCallAny:
		if d.hisCall == "" || !forceCallsigns(58) {
			return hints, false
		}
		forceMessageTypeBits()
		return hints, true

	case MyCallDxCallRRR:
		if d.hisCall == "" || !forceCallsigns(58) {
			return hints, false
		}
		forceReport(rrrPattern[:])
		return hints, true

	case MyCallDxCall73:
		if d.hisCall == "" || !forceCallsigns(58) {
			return hints, false
		}
		forceReport(msg73Pattern[:])
		return hints, true

	case MyCallDxCallRR73:
		if d.hisCall == "" || !forceCallsigns(58) {
			return hints, false
		}
		forceReport(rr73Pattern[:])
		return hints, true

	default:
		return hints, false
	}
}

// Passes lists the AP types worth trying given this Decoder's
// configuration: a bare CQ pass is always available; richer passes unlock
// as the operator's own callsign, then the DX callsign, become known.
func (d *Decoder) Passes() []Type {
	passes := []Type{CQAny}
	if !d.haveApsym {
		return passes
	}
	passes = append(passes, MyCallAny)
	if d.hisCall != "" {
		passes = append(passes, MyCallDxCallAny, MyCallDxCallRRR, MyCallDxCall73, MyCallDxCallRR73)
	}
	return passes
}
