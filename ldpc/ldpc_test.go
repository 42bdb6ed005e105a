package ldpc

import (
	"bytes"
	"testing"

	"github.com/ausocean/ft8/crc"
)

const knownPayloadStr = "00000000010111100101100110000000010100100110110011100110110001100111110010001"
const knownCRCStr = "00001001100101"

func bitsFromStr(s string) []byte {
	bits := make([]byte, len(s))
	for i, c := range s {
		if c == '1' {
			bits[i] = 1
		}
	}
	return bits
}

func knownFrame91() []byte {
	payload := bitsFromStr(knownPayloadStr)
	return crc.Append(payload)
}

func llrFromCodeword(codeword []byte, magnitude float64) []float64 {
	llr := make([]float64, len(codeword))
	for i, b := range codeword {
		if b == 1 {
			llr[i] = magnitude
		} else {
			llr[i] = -magnitude
		}
	}
	return llr
}

func TestEncodeProducesValidParity(t *testing.T) {
	frame := knownFrame91()
	codeword := EncodeBits(frame)
	if len(codeword) != N {
		t.Fatalf("EncodeBits produced %d bits, want %d", len(codeword), N)
	}
	hard := make([]byte, N)
	copy(hard, codeword)
	if !satisfiesParity(hard) {
		t.Fatal("encoded codeword does not satisfy all parity checks")
	}
}

func TestDecodeNoiseFreeConvergesImmediately(t *testing.T) {
	frame := knownFrame91()
	codeword := EncodeBits(frame)
	llr := llrFromCodeword(codeword, 5.0)

	res, ok := Decode(llr, 20)
	if !ok {
		t.Fatal("Decode failed on a noise-free codeword")
	}
	if !bytes.Equal(res.Message91, frame) {
		t.Errorf("Message91 = %v, want %v", res.Message91, frame)
	}
	if res.Iterations != 0 {
		t.Errorf("Iterations = %d, want 0 for a noise-free codeword", res.Iterations)
	}
}

func TestDecodeCorrectsFlippedBits(t *testing.T) {
	frame := knownFrame91()
	codeword := EncodeBits(frame)
	llr := llrFromCodeword(codeword, 5.0)

	// Weaken a handful of bits rather than fully flipping them, so belief
	// propagation has to work to recover the right hard decision.
	for _, idx := range []int{10, 40, 100} {
		llr[idx] = -llr[idx] * 0.2
	}

	res, ok := Decode(llr, 30)
	if !ok {
		t.Fatal("Decode failed to converge on a lightly perturbed codeword")
	}
	if !bytes.Equal(res.Message91, frame) {
		t.Errorf("Message91 = %v, want %v", res.Message91, frame)
	}
}

func TestOSDDecodeRecoversFromUnreliableBits(t *testing.T) {
	frame := knownFrame91()
	codeword := EncodeBits(frame)
	llr := llrFromCodeword(codeword, 5.0)

	// Flip the least-reliable-looking bits outright; OSD's low orders
	// should still find the true codeword via combinatorial retry.
	for _, idx := range []int{5, 60} {
		if codeword[idx] == 1 {
			llr[idx] = -1.0
		} else {
			llr[idx] = 1.0
		}
	}

	res, ok := OSDDecode(llr, 2)
	if !ok {
		t.Fatal("OSDDecode failed to recover a 2-bit-flip codeword")
	}
	if !bytes.Equal(res.Message91, frame) {
		t.Errorf("Message91 = %v, want %v", res.Message91, frame)
	}
}

func TestOSDDecodeRejectsGarbage(t *testing.T) {
	llr := make([]float64, N)
	for i := range llr {
		if i%2 == 0 {
			llr[i] = 3.0
		} else {
			llr[i] = -3.0
		}
	}
	if _, ok := OSDDecode(llr, 0); ok {
		t.Error("OSDDecode succeeded on a non-codeword at order 0, want false")
	}
}

func TestBuildInformationSetHasFullRank(t *testing.T) {
	order := make([]int, N)
	for i := range order {
		order[i] = i
	}
	rows := parityCheckRows()
	pivots, _, isInfo := buildInformationSet(order, rows)
	if len(pivots) != M {
		t.Fatalf("got %d pivot columns, want %d", len(pivots), M)
	}
	infoCount := 0
	for _, v := range isInfo {
		if v {
			infoCount++
		}
	}
	if infoCount != K {
		t.Fatalf("got %d information columns, want %d", infoCount, K)
	}
}
