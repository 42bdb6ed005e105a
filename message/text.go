/*
NAME
  text.go

DESCRIPTION
  text.go renders a Variant back to the canonical operator-facing text form,
  the inverse of parse.go.

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
	"strings"
)

// Text renders v back to its canonical text form.
func (v Variant) Text() (string, error) {
	switch v.Kind {
	case KindStandard, KindEUVHF:
		return v.standardText()
	case KindRTTYRoundup:
		return v.rttyText()
	case KindNonStandard:
		return v.nonStandardText()
	case KindFreeText:
		return v.FreeText, nil
	case KindDXpedition:
		return v.dxpeditionText()
	case KindFieldDay:
		return v.fieldDayText()
	case KindTelemetry:
		return v.Telemetry.Hex, nil
	default:
		return "", ErrUnknownVariant
	}
}

func suffixTag(kind Kind) string {
	if kind == KindEUVHF {
		return "/P"
	}
	return "/R"
}

func (v Variant) standardText() (string, error) {
	f := v.Standard
	if f == nil {
		return "", ErrInvalidField
	}
	tag := suffixTag(v.Kind)

	call1 := f.Call1
	if f.Call1Suffix {
		call1 += tag
	}
	call2 := f.Call2
	if f.Call2Suffix {
		call2 += tag
	}

	fields := []string{call1, call2}
	if f.Report != "" {
		report := f.Report
		if f.Ack && (strings.HasPrefix(report, "+") || strings.HasPrefix(report, "-")) {
			report = "R" + report
		} else if f.Ack {
			fields = append(fields, "R")
		}
		fields = append(fields, report)
	} else if f.Ack {
		fields = append(fields, "R")
	}

	return strings.Join(fields, " "), nil
}

func (v Variant) rttyText() (string, error) {
	f := v.RTTY
	if f == nil {
		return "", ErrInvalidField
	}
	fields := []string{}
	if f.TU {
		fields = append(fields, "TU;")
	}
	fields = append(fields, f.Call1, f.Call2)
	if f.Ack {
		fields = append(fields, "R")
	}
	fields = append(fields, fmt.Sprintf("5%d9", f.RST+2))
	fields = append(fields, f.Exchange)
	return strings.Join(fields, " "), nil
}

func (v Variant) nonStandardText() (string, error) {
	f := v.NonStandard
	if f == nil {
		return "", ErrInvalidField
	}

	var fields []string
	switch {
	case f.CQ:
		fields = []string{"CQ", f.Compound}
	case f.Flip:
		fields = []string{f.Compound, "<" + f.HashCall + ">"}
	default:
		fields = []string{"<" + f.HashCall + ">", f.Compound}
	}
	if f.Ack != "" {
		fields = append(fields, f.Ack)
	}
	return strings.Join(fields, " "), nil
}

func (v Variant) dxpeditionText() (string, error) {
	f := v.DXpedition
	if f == nil {
		return "", ErrInvalidField
	}
	return fmt.Sprintf("%s RR73; %s <%s> %+03d", f.Call1, f.Call2, f.HashCall, f.Report), nil
}

func (v Variant) fieldDayText() (string, error) {
	f := v.FieldDay
	if f == nil {
		return "", ErrInvalidField
	}
	class := string(rune('A' + f.Class))
	fields := []string{f.Call1, f.Call2}
	if f.Ack {
		fields = append(fields, "R")
	}
	fields = append(fields, fmt.Sprintf("%d%s", f.Transmitters, class), f.Section)
	return strings.Join(fields, " "), nil
}
