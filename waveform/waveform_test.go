package waveform

import (
	"math"
	"testing"

	"github.com/ausocean/ft8/symbol"
)

func TestGenerateLengthAndRange(t *testing.T) {
	var symbols [symbol.NN]byte
	for i := range symbols {
		symbols[i] = byte(i % 8)
	}

	wave, err := Generate(symbols, 1500, SampleRate, SamplesPerSymbol)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	want := symbol.NN * SamplesPerSymbol
	if len(wave) != want {
		t.Fatalf("len(wave) = %d, want %d", len(wave), want)
	}
	for i, s := range wave {
		if s < -1.0001 || s > 1.0001 {
			t.Fatalf("sample %d = %v, outside [-1,1]", i, s)
		}
	}
}

func TestGenerateRejectsInvalidParams(t *testing.T) {
	var symbols [symbol.NN]byte
	if _, err := Generate(symbols, 1500, 0, SamplesPerSymbol); err != ErrInvalidParams {
		t.Errorf("Generate with zero sampleRate error = %v, want ErrInvalidParams", err)
	}
	if _, err := Generate(symbols, 1500, SampleRate, 0); err != ErrInvalidParams {
		t.Errorf("Generate with zero nsps error = %v, want ErrInvalidParams", err)
	}
}

func TestGenerateEdgesRampToZero(t *testing.T) {
	var symbols [symbol.NN]byte
	for i := range symbols {
		symbols[i] = 4
	}
	wave, err := Generate(symbols, 1500, SampleRate, SamplesPerSymbol)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	if math.Abs(wave[0]) > 1e-6 {
		t.Errorf("wave[0] = %v, want ~0", wave[0])
	}
	if math.Abs(wave[len(wave)-1]) > 0.05 {
		t.Errorf("wave[last] = %v, want near 0", wave[len(wave)-1])
	}
}

func TestGenerateComplexMatchesRealPart(t *testing.T) {
	var symbols [symbol.NN]byte
	for i := range symbols {
		symbols[i] = byte((i * 3) % 8)
	}

	wave, err := Generate(symbols, 1500, SampleRate, SamplesPerSymbol)
	if err != nil {
		t.Fatalf("Generate error: %v", err)
	}
	iq, err := GenerateComplex(symbols, 1500, SampleRate, SamplesPerSymbol)
	if err != nil {
		t.Fatalf("GenerateComplex error: %v", err)
	}
	if len(iq) != len(wave) {
		t.Fatalf("len(iq) = %d, want %d", len(iq), len(wave))
	}
	for i := range wave {
		if math.Abs(imag(iq[i])-wave[i]) > 1e-9 {
			t.Fatalf("imag(iq[%d]) = %v, want %v (matching Generate's sin phi)", i, imag(iq[i]), wave[i])
		}
	}
}

func TestGFSKPulsePeaksAtCenter(t *testing.T) {
	p0 := gfskPulse(BT, 0)
	pOff := gfskPulse(BT, 0.5)
	if p0 <= pOff {
		t.Errorf("gfskPulse(0) = %v, want greater than gfskPulse(0.5) = %v", p0, pOff)
	}
}
