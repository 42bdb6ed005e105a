package message

import (
	"bytes"
	"testing"

	"github.com/ausocean/ft8/callsign"
	"github.com/ausocean/ft8/crc"
)

func bitsFromString(s string) []byte {
	bits := make([]byte, len(s))
	for i, c := range s {
		if c == '1' {
			bits[i] = 1
		}
	}
	return bits
}

func bitsToString(bits []byte) string {
	buf := make([]byte, len(bits))
	for i, b := range bits {
		if b == 1 {
			buf[i] = '1'
		} else {
			buf[i] = '0'
		}
	}
	return string(buf)
}

// TestFieldDayKnownPayload reproduces spec.md's concrete scenario #4: encoding
// "K1ABC W9XYZ 6A WI" must produce the literal 77-bit Field Day payload.
func TestFieldDayKnownPayload(t *testing.T) {
	const wantPayload = "00001001101111011110001101010000110000101001001110111000001010001001100011000"

	v, err := ParseText("K1ABC W9XYZ 6A WI")
	if err != nil {
		t.Fatalf("ParseText error: %v", err)
	}
	if v.Kind != KindFieldDay {
		t.Fatalf("Kind = %v, want KindFieldDay", v.Kind)
	}

	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	if len(bits) != PayloadBits {
		t.Fatalf("Pack produced %d bits, want %d", len(bits), PayloadBits)
	}
	if got := bitsToString(bits); got != wantPayload {
		t.Errorf("payload = %s, want %s", got, wantPayload)
	}
}

// TestStandardCQCRCKnownVector reproduces spec.md's concrete scenario #3: the
// CRC-14 of "CQ SOTA N0YPR/R DM42"'s 77-bit encoding equals a literal value.
func TestStandardCQCRCKnownVector(t *testing.T) {
	const wantCRC = "00001001100101"

	v, err := ParseText("CQ SOTA N0YPR/R DM42")
	if err != nil {
		t.Fatalf("ParseText error: %v", err)
	}
	if v.Kind != KindStandard {
		t.Fatalf("Kind = %v, want KindStandard", v.Kind)
	}

	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}

	got := crc.Compute(bits)
	want := bitsToUint(bitsFromString(wantCRC))
	if uint64(got) != want {
		t.Errorf("Compute() = %014b, want %s", got, wantCRC)
	}
}

func TestPackUnpackStandardRoundTrip(t *testing.T) {
	cases := []Variant{
		{Kind: KindStandard, Standard: &StandardFields{Call1: "K1ABC", Call2: "W9XYZ", Report: "EN37"}},
		{Kind: KindStandard, Standard: &StandardFields{Call1: "CQ", Call2: "N0YPR", Call2Suffix: true, Report: "DM42"}},
		{Kind: KindEUVHF, Standard: &StandardFields{Call1: "G4ABC", Call1Suffix: true, Call2: "PA9XYZ", Ack: true, Report: "JO22"}},
	}
	for _, v := range cases {
		bits, err := Pack(v, nil)
		if err != nil {
			t.Fatalf("Pack(%+v) error: %v", v.Standard, err)
		}
		if len(bits) != PayloadBits {
			t.Fatalf("Pack produced %d bits, want %d", len(bits), PayloadBits)
		}
		got, err := Unpack(bits, nil)
		if err != nil {
			t.Fatalf("Unpack error: %v", err)
		}
		if got.Kind != v.Kind {
			t.Errorf("Kind = %v, want %v", got.Kind, v.Kind)
		}
		if *got.Standard != *v.Standard {
			t.Errorf("Standard = %+v, want %+v", *got.Standard, *v.Standard)
		}
	}
}

func TestPackUnpackFreeTextRoundTrip(t *testing.T) {
	v := Variant{Kind: KindFreeText, FreeText: "TNX BOB 73 GL"}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	if len(bits) != PayloadBits {
		t.Fatalf("Pack produced %d bits, want %d", len(bits), PayloadBits)
	}
	got, err := Unpack(bits, nil)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if got.FreeText != v.FreeText {
		t.Errorf("FreeText = %q, want %q", got.FreeText, v.FreeText)
	}
}

func TestPackUnpackFieldDayRoundTrip(t *testing.T) {
	v := Variant{Kind: KindFieldDay, FieldDay: &FieldDayFields{
		Call1: "K1ABC", Call2: "W9XYZ", Transmitters: 6, Class: 0, Section: "WI", N3: N3FieldDay3,
	}}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	got, err := Unpack(bits, nil)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if *got.FieldDay != *v.FieldDay {
		t.Errorf("FieldDay = %+v, want %+v", *got.FieldDay, *v.FieldDay)
	}
}

func TestPackUnpackTelemetryRoundTrip(t *testing.T) {
	v := Variant{Kind: KindTelemetry, Telemetry: &TelemetryFields{Hex: "123456789ABCDEF012"}}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	got, err := Unpack(bits, nil)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if *got.Telemetry != *v.Telemetry {
		t.Errorf("Telemetry = %+v, want %+v", *got.Telemetry, *v.Telemetry)
	}
}

func TestPackUnpackDXpeditionRoundTrip(t *testing.T) {
	v := Variant{Kind: KindDXpedition, DXpedition: &DXpeditionFields{
		Call1: "K1ABC", Call2: "W9XYZ", HashCall: "KH1/KH7Z", Report: -8,
	}}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	got, err := Unpack(bits, nil)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if got.DXpedition.Call1 != v.DXpedition.Call1 || got.DXpedition.Call2 != v.DXpedition.Call2 || got.DXpedition.Report != v.DXpedition.Report {
		t.Errorf("DXpedition = %+v, want %+v", *got.DXpedition, *v.DXpedition)
	}
}

func TestPackUnpackRTTYRoundTrip(t *testing.T) {
	v := Variant{Kind: KindRTTYRoundup, RTTY: &RTTYFields{
		Call1: "K1ABC", Call2: "W9XYZ", RST: 5, Exchange: "WI",
	}}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	got, err := Unpack(bits, nil)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if *got.RTTY != *v.RTTY {
		t.Errorf("RTTY = %+v, want %+v", *got.RTTY, *v.RTTY)
	}
}

// TestNonStandardHashRoundTripsThroughCache verifies a compound callsign
// paired with a hashed reference can be packed, then unpacked against a
// cache primed with the same callsign, recovering the original text.
func TestNonStandardHashRoundTripsThroughCache(t *testing.T) {
	cache := callsign.NewCache()
	v := Variant{Kind: KindNonStandard, NonStandard: &NonStandardFields{
		Compound: "PJ4/K1ABC", HashCall: "W9XYZ", Flip: true,
	}}
	bits, err := Pack(v, cache)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	got, err := Unpack(bits, cache)
	if err != nil {
		t.Fatalf("Unpack error: %v", err)
	}
	if got.NonStandard.Compound != v.NonStandard.Compound {
		t.Errorf("Compound = %q, want %q", got.NonStandard.Compound, v.NonStandard.Compound)
	}
	if got.NonStandard.HashCall != v.NonStandard.HashCall {
		t.Errorf("HashCall = %q, want %q (cache should have resolved the 12-bit hash)", got.NonStandard.HashCall, v.NonStandard.HashCall)
	}
}

func TestParseTextVariantShapes(t *testing.T) {
	cases := []struct {
		text string
		kind Kind
	}{
		{"CQ N0YPR DM42", KindStandard},
		{"CQ SOTA N0YPR DM42", KindStandard},
		{"CQ K1ABC/P FN42", KindEUVHF},
		{"K1ABC W9XYZ", KindStandard},
		{"K1ABC W9XYZ EN37", KindStandard},
		{"K1ABC W9XYZ 6A WI", KindFieldDay},
		{"K1ABC W9XYZ 579 WI", KindRTTYRoundup},
		{"K1ABC RR73; W9XYZ <KH1/KH7Z> -08", KindDXpedition},
		{"123456789ABC", KindTelemetry},
		{"TNX BOB 73 GL", KindFreeText},
	}
	for _, c := range cases {
		v, err := ParseText(c.text)
		if err != nil {
			t.Fatalf("ParseText(%q) error: %v", c.text, err)
		}
		if v.Kind != c.kind {
			t.Errorf("ParseText(%q).Kind = %v, want %v", c.text, v.Kind, c.kind)
		}
	}
}

func TestEncodeFreeTextRejectsOversizedText(t *testing.T) {
	if _, err := EncodeFreeText("THIS MESSAGE IS WAY TOO LONG"); err != ErrTextTooLong {
		t.Errorf("EncodeFreeText error = %v, want ErrTextTooLong", err)
	}
}

func TestEncodeFreeTextRoundTrip(t *testing.T) {
	cases := []string{"HELLO WORLD", "TEST+123-4.5/", "73"}
	for _, text := range cases {
		bits, err := EncodeFreeText(text)
		if err != nil {
			t.Fatalf("EncodeFreeText(%q) error: %v", text, err)
		}
		if len(bits) != FreeTextBits {
			t.Fatalf("EncodeFreeText produced %d bits, want %d", len(bits), FreeTextBits)
		}
		got, err := DecodeFreeText(bits)
		if err != nil {
			t.Fatalf("DecodeFreeText error: %v", err)
		}
		want := text
		for len(want) < 13 {
			want = " " + want
		}
		if got != want {
			t.Errorf("DecodeFreeText round-trip = %q, want %q", got, want)
		}
	}
}

func TestGridOrReportRoundTrip(t *testing.T) {
	cases := []string{"DM42", "FN42", "RRR", "RR73", "73", "+05", "-15", "+00"}
	for _, text := range cases {
		v, err := EncodeGridOrReport(text)
		if err != nil {
			t.Fatalf("EncodeGridOrReport(%q) error: %v", text, err)
		}
		got, err := DecodeGridOrReport(v)
		if err != nil {
			t.Fatalf("DecodeGridOrReport error: %v", err)
		}
		if got != text {
			t.Errorf("round trip of %q = %q", text, got)
		}
	}
}

func TestARRLSectionKnownVector(t *testing.T) {
	// WI packs to 0b1001100 (76); a literal fixture from the reference
	// implementation's own test suite.
	v, err := EncodeARRLSection("WI")
	if err != nil {
		t.Fatalf("EncodeARRLSection error: %v", err)
	}
	if v != 0b1001100 {
		t.Errorf("EncodeARRLSection(WI) = %07b, want 1001100", v)
	}
	got, err := DecodeARRLSection(v)
	if err != nil {
		t.Fatalf("DecodeARRLSection error: %v", err)
	}
	if got != "WI" {
		t.Errorf("DecodeARRLSection(%d) = %q, want WI", v, got)
	}
}

func TestKnownPayloadMatchesCRCFixture(t *testing.T) {
	const wantPayload = "00000000010111100101100110000000010100100110110011100110110001100111110010001"

	v, err := ParseText("CQ SOTA N0YPR/R DM42")
	if err != nil {
		t.Fatalf("ParseText error: %v", err)
	}
	bits, err := Pack(v, nil)
	if err != nil {
		t.Fatalf("Pack error: %v", err)
	}
	if !bytes.Equal(bits, bitsFromString(wantPayload)) {
		t.Errorf("payload = %s, want %s", bitsToString(bits), wantPayload)
	}
}
