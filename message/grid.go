/*
NAME
  grid.go

DESCRIPTION
  grid.go packs and unpacks the 15-bit grid/report field shared by the
  Standard and EU-VHF variants: a 4-character Maidenhead grid locator, one
  of the four fixed acknowledgment tokens, or a signed dB report.

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
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/ausocean/ft8/bitpack"
	"github.com/ausocean/ft8/callsign"
)

const maxGrid4 = 32400

// otherReports are the fixed acknowledgment tokens occupying the 4 values
// immediately above maxGrid4.
var otherReports = [4]string{"", "RRR", "RR73", "73"}

// reportCenter is the packed value for a report of 0 dB; reports run
// reportCenter-30 .. reportCenter+30. This is spec.md's literal stated
// range (32435..=32495 for -30..+30); see DESIGN.md "Open questions" for
// why that does not match original_source/'s internally-inconsistent
// encode/decode formulas for the same field.
const reportCenter = 32465

var gridTables = []string{callsign.TableGridsquareAlpha, callsign.TableGridsquareAlpha, callsign.TableNumeric, callsign.TableNumeric}

// EncodeGridOrReport packs a grid square, acknowledgment token, or signed
// report into the 15-bit g15 field.
func EncodeGridOrReport(text string) (uint32, error) {
	text = strings.TrimSpace(text)

	for i, other := range otherReports {
		if text == other {
			return maxGrid4 + uint32(i) + 1, nil
		}
	}

	if len(text) == 4 {
		upper := strings.ToUpper(text)
		if v, err := bitpack.FromMixedRadix(upper, gridTables); err == nil && uint32(v) <= maxGrid4 {
			return uint32(v), nil
		}
	}

	if n, ok := parseSignedReport(text); ok {
		if n < -30 || n > 30 {
			return 0, ErrInvalidField
		}
		return uint32(reportCenter + n), nil
	}

	return 0, ErrInvalidField
}

// DecodeGridOrReport is the inverse of EncodeGridOrReport.
func DecodeGridOrReport(value uint32) (string, error) {
	switch {
	case value <= maxGrid4:
		s, err := bitpack.ToMixedRadix(uint64(value), gridTables)
		if err != nil {
			return "", errors.Wrap(ErrInvalidField, err.Error())
		}
		return s, nil
	case value >= maxGrid4+1 && value <= maxGrid4+4:
		return otherReports[value-maxGrid4-1], nil
	case value >= reportCenter-30 && value <= reportCenter+30:
		n := int(value) - reportCenter
		return fmt.Sprintf("%+03d", n), nil
	default:
		return "", ErrInvalidField
	}
}

// parseSignedReport accepts a leading-sign, 2-digit-magnitude report such
// as "+00", "-10", "+30".
func parseSignedReport(text string) (int, bool) {
	if len(text) < 2 || (text[0] != '+' && text[0] != '-') {
		return 0, false
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, false
	}
	return n, true
}
