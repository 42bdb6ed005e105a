/*
NAME
  arrl.go

DESCRIPTION
  arrl.go packs and unpacks the ARRL/RAC Field Day section code used by the
  Type-0/3 and Type-0/4 Field Day variants: a 7-bit field holding a 1-based
  index into the fixed 86-entry section table.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package message

// arrlSections is the fixed ARRL/RAC section table. A section's packed
// value is one plus its index here, e.g. "WI" packs to 0b1001100 (76).
var arrlSections = [...]string{
	"AB", "AK", "AL", "AR", "AZ", "BC", "CO", "CT", "DE", "EB",
	"EMA", "ENY", "EPA", "EWA", "GA", "GH", "IA", "ID", "IL", "IN",
	"KS", "KY", "LA", "LAX", "NS", "MB", "MDC", "ME", "MI", "MN",
	"MO", "MS", "MT", "NC", "ND", "NE", "NFL", "NH", "NL", "NLI",
	"NM", "NNJ", "NNY", "TER", "NTX", "NV", "OH", "OK", "ONE", "ONN",
	"ONS", "OR", "ORG", "PAC", "PR", "QC", "RI", "SB", "SC", "SCV",
	"SD", "SDG", "SF", "SFL", "SJV", "SK", "SNJ", "STX", "SV", "TN",
	"UT", "VA", "VI", "VT", "WCF", "WI", "WMA", "WNY", "WPA", "WTX",
	"WV", "WWA", "WY", "DX", "PE", "NB",
}

var arrlIndexOf = func() map[string]int {
	m := make(map[string]int, len(arrlSections))
	for i, s := range arrlSections {
		m[s] = i + 1 // packed values are 1-based
	}
	return m
}()

// EncodeARRLSection packs a section code into its 1-based table index.
func EncodeARRLSection(section string) (uint32, error) {
	idx, ok := arrlIndexOf[section]
	if !ok {
		return 0, ErrInvalidField
	}
	return uint32(idx), nil
}

// DecodeARRLSection is the inverse of EncodeARRLSection.
func DecodeARRLSection(packed uint32) (string, error) {
	if packed == 0 || int(packed) > len(arrlSections) {
		return "", ErrInvalidField
	}
	return arrlSections[packed-1], nil
}
