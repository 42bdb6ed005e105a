package testsim

import (
	"math"
	"testing"

	"github.com/ausocean/ft8/crc"
	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/symbol"
	"github.com/ausocean/ft8/waveform"
)

func fixedSymbols() [symbol.NN]byte {
	var symbols [symbol.NN]byte
	for i := range symbols {
		symbols[i] = byte(i % 8)
	}
	copy(symbols[0:7], symbol.Costas[:])
	copy(symbols[36:43], symbol.Costas[:])
	copy(symbols[72:79], symbol.Costas[:])
	return symbols
}

func TestFromSymbolsLength(t *testing.T) {
	buf, err := FromSymbols(fixedSymbols(), Options{FrequencyHz: 1500, SNRDB: 10, Seed: 1})
	if err != nil {
		t.Fatalf("FromSymbols error: %v", err)
	}
	if len(buf) != spectrogram.MaxSamples {
		t.Errorf("len(buf) = %d, want %d", len(buf), spectrogram.MaxSamples)
	}
}

func TestFromPayloadRejectsShortPayload(t *testing.T) {
	short := make([]byte, crc.PayloadBits-1)
	if _, err := FromPayload(short, Options{}); err != ErrShortPayload {
		t.Errorf("FromPayload(short) error = %v, want ErrShortPayload", err)
	}
}

func TestFromPayloadRoundTripsThroughEncodingStages(t *testing.T) {
	payload := make([]byte, crc.PayloadBits)
	for i := range payload {
		payload[i] = byte((i * 5) % 2)
	}
	buf, err := FromPayload(payload, Options{FrequencyHz: 1000, TimeOffsetS: 0, SNRDB: 30, Seed: 7})
	if err != nil {
		t.Fatalf("FromPayload error: %v", err)
	}
	if len(buf) != spectrogram.MaxSamples {
		t.Errorf("len(buf) = %d, want %d", len(buf), spectrogram.MaxSamples)
	}
}

func TestAddNoiseApproximatesRequestedSNR(t *testing.T) {
	const freq, snrDB, seed = 1500.0, 0.0, 42
	symbols := fixedSymbols()

	buf, err := FromSymbols(symbols, Options{FrequencyHz: freq, TimeOffsetS: 0, SNRDB: snrDB, Seed: seed})
	if err != nil {
		t.Fatalf("FromSymbols error: %v", err)
	}

	wave, err := waveform.Generate(symbols, freq, spectrogram.SampleRate, spectrogram.SamplesPerSymbol)
	if err != nil {
		t.Fatalf("waveform.Generate error: %v", err)
	}
	wantStd := signalRMS(wave) / math.Pow(10, snrDB/20)

	// Measure the noise-only region before the signal starts (signal
	// begins at 0.5s = 6000 samples in).
	region := buf[:4000]
	var sum, sumSq float64
	for _, s := range region {
		sum += s
		sumSq += s * s
	}
	n := float64(len(region))
	mean := sum / n
	gotStd := math.Sqrt(sumSq/n - mean*mean)

	if ratio := gotStd / wantStd; ratio < 0.8 || ratio > 1.2 {
		t.Errorf("measured noise stddev = %v, want near %v (requested SNR %v dB)", gotStd, wantStd, snrDB)
	}
}
