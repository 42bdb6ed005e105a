package symbol

import "testing"

func bitsFromString(s string) []byte {
	bits := make([]byte, len(s))
	for i, c := range s {
		if c == '1' {
			bits[i] = 1
		}
	}
	return bits
}

func TestMapPlacesCostasArrays(t *testing.T) {
	codeword := make([]byte, CodewordBits)
	symbols, err := Map(codeword)
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	for i, want := range Costas {
		if symbols[i] != want {
			t.Errorf("symbols[%d] = %d, want %d (first Costas array)", i, symbols[i], want)
		}
		if symbols[36+i] != want {
			t.Errorf("symbols[%d] = %d, want %d (middle Costas array)", 36+i, symbols[36+i], want)
		}
		if symbols[72+i] != want {
			t.Errorf("symbols[%d] = %d, want %d (last Costas array)", 72+i, symbols[72+i], want)
		}
	}
}

func TestMapRejectsWrongLength(t *testing.T) {
	if _, err := Map(make([]byte, 100)); err != ErrCodewordLength {
		t.Errorf("Map error = %v, want ErrCodewordLength", err)
	}
}

func TestGrayMapIsSelfInverse(t *testing.T) {
	for tone := 0; tone < 8; tone++ {
		idx := graymapInv[tone]
		if graymap[idx] != byte(tone) {
			t.Errorf("graymap[graymapInv[%d]] = %d, want %d", tone, graymap[idx], tone)
		}
	}
}

func TestMapDemapRoundTrip(t *testing.T) {
	codeword := make([]byte, CodewordBits)
	for i := range codeword {
		codeword[i] = byte((i * 5 / 3) % 2)
	}

	symbols, err := Map(codeword)
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}
	got := Demap(symbols)
	for i := range codeword {
		if got[i] != codeword[i] {
			t.Fatalf("bit %d = %d, want %d", i, got[i], codeword[i])
		}
	}
}

// TestMapKnownVector runs Map on a codeword whose first 77 bits are the
// "CQ SOTA N0YPR/R DM42" payload shared with crc/crc14_test.go and
// ldpc/ldpc_test.go, checking the Costas sync symbols at 0..6, 36..42 and
// 72..78 and that every data symbol at 7..35 and 43..71 is a valid tone.
func TestMapKnownVector(t *testing.T) {
	const knownPayloadStr = "00000000010111100101100110000000010100100110110011100110110001100111110010001"
	payload := bitsFromString(knownPayloadStr)

	codeword := make([]byte, CodewordBits)
	copy(codeword, payload)

	symbols, err := Map(codeword)
	if err != nil {
		t.Fatalf("Map error: %v", err)
	}

	for _, i := range []int{0, 36, 72} {
		for j, want := range Costas {
			if symbols[i+j] != want {
				t.Fatalf("sync symbol at %d = %d, want %d", i+j, symbols[i+j], want)
			}
		}
	}

	for _, i := range []int{7, 43} {
		for j := 0; j < 29; j++ {
			if symbols[i+j] > 7 {
				t.Fatalf("data symbol at %d = %d, out of tone range", i+j, symbols[i+j])
			}
		}
	}
}
