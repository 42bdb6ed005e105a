/*
NAME
  parse.go

DESCRIPTION
  parse.go converts plain operator text (as typed into an FT8 application)
  into a Variant, trying each message shape from most to least specific and
  falling back to free text, per spec §4.2.

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
)

// ParseText parses operator-typed text into a Variant.
func ParseText(text string) (Variant, error) {
	trimmed := strings.TrimSpace(text)
	parts := strings.Fields(trimmed)

	if len(parts) == 3 && strings.EqualFold(parts[0], "CQ") {
		return parseCQ("CQ", parts[1], parts[2])
	}
	if len(parts) == 4 && strings.EqualFold(parts[0], "CQ") {
		return parseCQ("CQ "+strings.ToUpper(parts[1]), parts[2], parts[3])
	}

	switch len(parts) {
	case 2:
		if v, err := parseTwoWord(parts, trimmed); err == nil {
			return v, nil
		}
	case 3:
		if v, err := parseThreeWord(parts, trimmed); err == nil {
			return v, nil
		}
	case 4:
		if v, err := parseFourWord(parts); err == nil {
			return v, nil
		}
	}

	if len(parts) == 5 && parts[1] == "RR73;" {
		if v, err := parseDXpedition(parts); err == nil {
			return v, nil
		}
	}

	if len(parts) >= 4 {
		if v, err := parseRTTY(parts); err == nil {
			return v, nil
		}
		if v, err := parseFieldDay(parts); err == nil {
			return v, nil
		}
	}

	if len(trimmed) <= 18 && isAllHex(trimmed) {
		if v, err := parseTelemetry(trimmed); err == nil {
			return v, nil
		}
	}

	return parseFreeTextMessage(trimmed)
}

func isAllHex(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'A' && c <= 'F') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

func validateCallsignBasic(call string) error {
	switch call {
	case "CQ", "DE", "QRZ":
		return nil
	}
	if len(call) < 2 || len(call) > 11 {
		return ErrInvalidField
	}
	hasDigit := false
	for i := 0; i < len(call); i++ {
		c := call[i]
		isAlnum := (c >= '0' && c <= '9') || (c >= 'A' && c <= 'Z') || c == '/'
		if !isAlnum {
			return ErrInvalidChar
		}
		if c >= '0' && c <= '9' {
			hasDigit = true
		}
	}
	if !hasDigit {
		return ErrInvalidField
	}
	return nil
}

func validateGridBasic(grid string) error {
	if grid == "" {
		return nil
	}
	switch grid {
	case "RRR", "RR73", "73":
		return nil
	}
	_, err := EncodeGridOrReport(grid)
	return err
}

func isNonStandardCallsign(call string) bool {
	return strings.Contains(call, "/") && !strings.HasSuffix(call, "/P") && !strings.HasSuffix(call, "/R")
}

// parseSuffix splits off a trailing /R or /P, reporting whether a suffix was
// present and, if so, whether it was /P (EU-VHF) rather than /R (Standard).
func parseSuffix(call string) (base string, hasSuffix, isP bool) {
	if strings.HasSuffix(call, "/R") {
		return call[:len(call)-2], true, false
	}
	if strings.HasSuffix(call, "/P") {
		return call[:len(call)-2], true, true
	}
	return call, false, false
}

func parseCQ(cqPrefix, callsignStr, gridStr string) (Variant, error) {
	callsign := strings.ToUpper(callsignStr)
	grid := strings.ToUpper(gridStr)

	base, hasSuffix, isP := parseSuffix(callsign)
	if err := validateCallsignBasic(base); err != nil {
		return Variant{}, err
	}
	if err := validateGridBasic(grid); err != nil {
		return Variant{}, err
	}

	if isP {
		return Variant{Kind: KindEUVHF, Standard: &StandardFields{
			Call1: cqPrefix, Call2: base, Call2Suffix: true, Report: grid,
		}}, nil
	}
	return Variant{Kind: KindStandard, Standard: &StandardFields{
		Call1: cqPrefix, Call2: base, Call2Suffix: hasSuffix, Report: grid,
	}}, nil
}

func parseTwoWord(parts []string, trimmed string) (Variant, error) {
	call1 := strings.ToUpper(parts[0])
	call2 := strings.ToUpper(parts[1])

	if call1 == "CQ" && isNonStandardCallsign(call2) {
		return nonStandardFromText(trimmed)
	}
	firstHash := isHashBracket(call1)
	secondHash := isHashBracket(call2)
	if isNonStandardCallsign(call1) && secondHash {
		return nonStandardFromText(trimmed)
	}
	if firstHash && isNonStandardCallsign(call2) {
		return nonStandardFromText(trimmed)
	}
	if (firstHash && isNonStandardCallsign(call2)) || (secondHash && isNonStandardCallsign(call1)) {
		return nonStandardFromText(trimmed)
	}

	base1, hasSuffix1 := stripSuffix(call1)
	base2, hasSuffix2 := stripSuffix(call2)
	if err := validateCallsignBasic(base1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(base2); err != nil {
		return Variant{}, err
	}

	return Variant{Kind: KindStandard, Standard: &StandardFields{
		Call1: base1, Call1Suffix: hasSuffix1, Call2: base2, Call2Suffix: hasSuffix2,
	}}, nil
}

func isHashBracket(s string) bool {
	return strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">")
}

func stripSuffix(call string) (string, bool) {
	if strings.HasSuffix(call, "/R") || strings.HasSuffix(call, "/P") {
		return call[:len(call)-2], true
	}
	return call, false
}

func nonStandardFromText(trimmed string) (Variant, error) {
	v, err := parseNonStandardText(trimmed)
	if err != nil {
		return Variant{}, err
	}
	return v, nil
}

func parseThreeWord(parts []string, trimmed string) (Variant, error) {
	call1 := strings.ToUpper(parts[0])
	call2 := strings.ToUpper(parts[1])
	gridOrReport := strings.ToUpper(parts[2])

	firstHash := isHashBracket(call1)
	secondHash := isHashBracket(call2)
	firstNonStd := isNonStandardCallsign(call1)
	secondNonStd := isNonStandardCallsign(call2)
	isAck := gridOrReport == "RRR" || gridOrReport == "RR73" || gridOrReport == "73"

	if isAck && ((firstHash && secondNonStd) || (firstNonStd && secondHash)) {
		return nonStandardFromText(trimmed)
	}

	base1, hasSuffix1, isP1 := parseSuffix(call1)
	base2, hasSuffix2, isP2 := parseSuffix(call2)

	rFlag := false
	final := gridOrReport
	if strings.HasPrefix(gridOrReport, "R-") || strings.HasPrefix(gridOrReport, "R+") {
		rFlag = true
		final = gridOrReport[1:]
	}

	if err := validateCallsignBasic(base1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(base2); err != nil {
		return Variant{}, err
	}
	if err := validateGridBasic(final); err != nil {
		return Variant{}, err
	}

	if isP1 || isP2 {
		return Variant{Kind: KindEUVHF, Standard: &StandardFields{
			Call1: base1, Call1Suffix: isP1, Call2: base2, Call2Suffix: isP2,
			Ack: rFlag, Report: final,
		}}, nil
	}
	return Variant{Kind: KindStandard, Standard: &StandardFields{
		Call1: base1, Call1Suffix: hasSuffix1, Call2: base2, Call2Suffix: hasSuffix2,
		Ack: rFlag, Report: final,
	}}, nil
}

func parseFourWord(parts []string) (Variant, error) {
	if !strings.EqualFold(parts[2], "R") {
		return Variant{}, ErrUnknownShape
	}
	call1 := strings.ToUpper(parts[0])
	call2 := strings.ToUpper(parts[1])
	gridOrReport := strings.ToUpper(parts[3])

	base1, hasSuffix1, isP1 := parseSuffix(call1)
	base2, hasSuffix2, isP2 := parseSuffix(call2)

	if err := validateCallsignBasic(base1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(base2); err != nil {
		return Variant{}, err
	}
	if err := validateGridBasic(gridOrReport); err != nil {
		return Variant{}, err
	}

	if isP1 || isP2 {
		return Variant{Kind: KindEUVHF, Standard: &StandardFields{
			Call1: base1, Call1Suffix: isP1, Call2: base2, Call2Suffix: isP2,
			Ack: true, Report: gridOrReport,
		}}, nil
	}
	return Variant{Kind: KindStandard, Standard: &StandardFields{
		Call1: base1, Call1Suffix: hasSuffix1, Call2: base2, Call2Suffix: hasSuffix2,
		Ack: true, Report: gridOrReport,
	}}, nil
}

func parseDXpedition(parts []string) (Variant, error) {
	call1 := strings.ToUpper(parts[0])
	call2 := strings.ToUpper(parts[2])
	hashBracketed := parts[3]
	reportStr := parts[4]

	if !isHashBracket(hashBracketed) {
		return Variant{}, ErrUnknownShape
	}
	hashCall := hashBracketed[1 : len(hashBracketed)-1]
	report, err := strconv.Atoi(reportStr)
	if err != nil {
		return Variant{}, ErrInvalidField
	}
	if report < -30 || report > 32 {
		return Variant{}, ErrInvalidField
	}
	if err := validateCallsignBasic(call1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(call2); err != nil {
		return Variant{}, err
	}

	return Variant{Kind: KindDXpedition, DXpedition: &DXpeditionFields{
		Call1: call1, Call2: call2, HashCall: hashCall, Report: report,
	}}, nil
}

func parseRTTY(parts []string) (Variant, error) {
	idx := 0
	tu := false
	if parts[0] == "TU;" {
		idx = 1
		tu = true
	}
	if idx+3 >= len(parts) {
		return Variant{}, ErrUnknownShape
	}

	call1 := strings.ToUpper(parts[idx])
	call2 := strings.ToUpper(parts[idx+1])
	hasR := parts[idx+2] == "R"
	exchangeIdx := idx + 2
	if hasR {
		exchangeIdx = idx + 3
	}
	stateIdx := exchangeIdx + 1
	if stateIdx >= len(parts) {
		return Variant{}, ErrUnknownShape
	}

	exchangeStr := parts[exchangeIdx]
	stateStr := strings.ToUpper(parts[stateIdx])

	if len(exchangeStr) != 3 || exchangeStr[0] != '5' || exchangeStr[2] != '9' {
		return Variant{}, ErrUnknownShape
	}
	mid := exchangeStr[1]
	if mid < '2' || mid > '9' {
		return Variant{}, ErrUnknownShape
	}

	isState := len(stateStr) >= 2 && len(stateStr) <= 3 && isAllAlpha(stateStr)
	isSerial := len(stateStr) == 4 && isAllDigits(stateStr)
	if !isState && !isSerial {
		return Variant{}, ErrUnknownShape
	}

	if err := validateCallsignBasic(call1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(call2); err != nil {
		return Variant{}, err
	}

	return Variant{Kind: KindRTTYRoundup, RTTY: &RTTYFields{
		TU: tu, Call1: call1, Call2: call2, Ack: hasR,
		RST: int(mid - '0' - 2), Exchange: stateStr,
	}}, nil
}

func isAllAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func parseFieldDay(parts []string) (Variant, error) {
	hasR := len(parts) >= 5 && parts[2] == "R"
	classIdx := 2
	if hasR {
		classIdx = 3
	}
	sectionIdx := classIdx + 1
	if sectionIdx >= len(parts) {
		return Variant{}, ErrUnknownShape
	}

	call1 := strings.ToUpper(parts[0])
	call2 := strings.ToUpper(parts[1])
	classStr := parts[classIdx]
	sectionStr := strings.ToUpper(parts[sectionIdx])

	if len(classStr) < 2 {
		return Variant{}, ErrUnknownShape
	}
	numStr := classStr[:len(classStr)-1]
	letterChar := classStr[len(classStr)-1] &^ 0x20 // uppercase ASCII letters

	if letterChar < 'A' || letterChar > 'F' {
		return Variant{}, ErrUnknownShape
	}
	ntx, err := strconv.Atoi(numStr)
	if err != nil || ntx < 1 || ntx > 32 {
		return Variant{}, ErrUnknownShape
	}
	if _, err := EncodeARRLSection(sectionStr); err != nil {
		return Variant{}, ErrUnknownShape
	}
	if err := validateCallsignBasic(call1); err != nil {
		return Variant{}, err
	}
	if err := validateCallsignBasic(call2); err != nil {
		return Variant{}, err
	}

	n3 := uint32(N3FieldDay3)
	if ntx > 16 {
		n3 = N3FieldDay4
	}

	return Variant{Kind: KindFieldDay, FieldDay: &FieldDayFields{
		Call1: call1, Call2: call2, Ack: hasR,
		Transmitters: ntx, Class: letterChar - 'A', Section: sectionStr, N3: n3,
	}}, nil
}

func parseTelemetry(trimmed string) (Variant, error) {
	hex := strings.ToUpper(trimmed)
	if len(hex) < 18 {
		hex = strings.Repeat("0", 18-len(hex)) + hex
	}
	if _, err := strconv.ParseUint(hex[0:6], 16, 32); err != nil {
		return Variant{}, ErrInvalidCharset
	}
	if _, err := strconv.ParseUint(hex[6:12], 16, 32); err != nil {
		return Variant{}, ErrInvalidCharset
	}
	if _, err := strconv.ParseUint(hex[12:18], 16, 32); err != nil {
		return Variant{}, ErrInvalidCharset
	}
	ntel1, _ := strconv.ParseUint(hex[0:6], 16, 32)
	if ntel1 >= 0x800000 {
		return Variant{}, ErrInvalidField
	}
	return Variant{Kind: KindTelemetry, Telemetry: &TelemetryFields{Hex: hex}}, nil
}

// parseNonStandardText extracts the compound-callsign/hash-callsign/CQ/flip
// shape directly from text, mirroring the three-case dispatch
// encode_nonstandard_call in the original implementation performed inline
// at encode time.
func parseNonStandardText(text string) (Variant, error) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return Variant{}, ErrUnknownShape
	}

	isCQ := strings.EqualFold(parts[0], "CQ")
	firstIsHash := isHashBracket(parts[0])
	secondIsHash := isHashBracket(parts[1])

	var ack string
	if len(parts) >= 3 {
		switch parts[2] {
		case "RRR", "RR73", "73":
			ack = parts[2]
		default:
			return Variant{}, ErrInvalidField
		}
	}

	var compound, hashCall string
	var flip, cq bool
	switch {
	case isCQ:
		compound, cq = parts[1], true
	case secondIsHash:
		hashCall = strings.Trim(parts[1], "<>")
		compound, flip = parts[0], true
	case firstIsHash:
		hashCall = strings.Trim(parts[0], "<>")
		compound = parts[1]
	default:
		return Variant{}, ErrUnknownShape
	}

	return Variant{Kind: KindNonStandard, NonStandard: &NonStandardFields{
		Compound: strings.ToUpper(compound), HashCall: strings.ToUpper(hashCall),
		CQ: cq, Flip: flip, Ack: ack,
	}}, nil
}

func parseFreeTextMessage(trimmed string) (Variant, error) {
	if len(trimmed) > 13 {
		return Variant{}, ErrTextTooLong
	}
	upper := strings.ToUpper(trimmed)
	for _, c := range upper {
		if !strings.ContainsRune(" 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ+-./?", c) {
			return Variant{}, ErrInvalidCharset
		}
	}
	return Variant{Kind: KindFreeText, FreeText: upper}, nil
}
