package llr

import (
	"math"
	"testing"

	"github.com/ausocean/ft8/symbol"
)

// exactToneBaseband builds a baseband signal whose k-th symbol is a pure
// discrete complex exponential at exactly tone bin symbols[k], one full
// cycle set per nfftSym-sample symbol - the per-symbol FFT recovers this
// tone with zero leakage, making the resulting LLR signs fully predictable.
func exactToneBaseband(symbols [symbol.NN]byte) []complex128 {
	nsps := nfftSym
	baseband := make([]complex128, symbol.NN*nsps)
	for k, tone := range symbols {
		for j := 0; j < nsps; j++ {
			phase := 2 * math.Pi * float64(tone) * float64(j) / float64(nfftSym)
			baseband[k*nsps+j] = complex(math.Cos(phase), math.Sin(phase))
		}
	}
	return baseband
}

func codewordFromPattern(pattern func(i int) byte) []byte {
	codeword := make([]byte, symbol.CodewordBits)
	for i := range codeword {
		codeword[i] = pattern(i)
	}
	return codeword
}

func TestExtractNsym1RecoversBitSigns(t *testing.T) {
	codeword := codewordFromPattern(func(i int) byte { return byte((i * 7) % 2) })
	symbols, err := symbol.Map(codeword)
	if err != nil {
		t.Fatalf("symbol.Map error: %v", err)
	}

	baseband := exactToneBaseband(symbols)
	out, err := Extract(baseband, 0, nfftSym, 1)
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if len(out) != 174 {
		t.Fatalf("len(Extract(...)) = %d, want 174", len(out))
	}

	for i, bit := range codeword {
		wantPositive := bit == 1
		gotPositive := out[i] > 0
		if wantPositive != gotPositive {
			t.Errorf("bit %d: codeword bit=%d, LLR=%v (want sign matching positive=1)", i, bit, out[i])
		}
	}
}

func TestExtractRejectsInvalidNsym(t *testing.T) {
	if _, err := Extract(nil, 0, nfftSym, 0); err != ErrInvalidNsym {
		t.Errorf("Extract(nsym=0) error = %v, want ErrInvalidNsym", err)
	}
	if _, err := Extract(nil, 0, nfftSym, 4); err != ErrInvalidNsym {
		t.Errorf("Extract(nsym=4) error = %v, want ErrInvalidNsym", err)
	}
}

func TestExtractRejectsWeakSync(t *testing.T) {
	baseband := make([]complex128, symbol.NN*nfftSym)
	if _, err := Extract(baseband, 0, nfftSym, 1); err != ErrSyncQualityTooLow {
		t.Errorf("Extract on a zero signal error = %v, want ErrSyncQualityTooLow", err)
	}
}

func TestExtractNsym2And3RunWithoutError(t *testing.T) {
	codeword := codewordFromPattern(func(i int) byte { return byte((i * 3) % 2) })
	symbols, err := symbol.Map(codeword)
	if err != nil {
		t.Fatalf("symbol.Map error: %v", err)
	}
	baseband := exactToneBaseband(symbols)

	for _, nsym := range []int{2, 3} {
		out, err := Extract(baseband, 0, nfftSym, nsym)
		if err != nil {
			t.Fatalf("Extract(nsym=%d) error: %v", nsym, err)
		}
		if len(out) != 174 {
			t.Errorf("Extract(nsym=%d): len = %d, want 174", nsym, len(out))
		}
	}
}
