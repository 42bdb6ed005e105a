package spectrogram

import (
	"math"
	"testing"
)

func TestComputeRejectsShortSignal(t *testing.T) {
	if _, err := Compute(make([]float64, 100)); err != ErrSignalTooShort {
		t.Errorf("Compute error = %v, want ErrSignalTooShort", err)
	}
}

func TestComputeToneAppearsInExpectedBin(t *testing.T) {
	const freq = 1500.0
	signal := make([]float64, MaxSamples)
	for i := range signal {
		t := float64(i) / SampleRate
		signal[i] = math.Sin(2 * math.Pi * freq * t)
	}

	spec, err := Compute(signal)
	if err != nil {
		t.Fatalf("Compute error: %v", err)
	}
	if len(spec.Bins) != NumBins {
		t.Fatalf("len(Bins) = %d, want %d", len(spec.Bins), NumBins)
	}
	if len(spec.Avg) != NumBins {
		t.Fatalf("len(Avg) = %d, want %d", len(spec.Avg), NumBins)
	}

	wantBin := BinForFrequency(freq)
	peakBin := 0
	for i, p := range spec.Avg {
		if p > spec.Avg[peakBin] {
			peakBin = i
			_ = p
		}
	}
	if diff := peakBin - wantBin; diff < -1 || diff > 1 {
		t.Errorf("peak average power at bin %d, want near %d (%.1f Hz)", peakBin, wantBin, freq)
	}
}

func TestNumFramesMatchesSpecBudget(t *testing.T) {
	// spec §4.7: 372 frames cover the 15-second analysis window.
	if got := NumFrames(); got != 372 {
		t.Errorf("NumFrames() = %d, want 372", got)
	}
}

func TestFrameTimeMonotonic(t *testing.T) {
	if FrameTime(0) != 0 {
		t.Errorf("FrameTime(0) = %v, want 0", FrameTime(0))
	}
	if FrameTime(10) <= FrameTime(9) {
		t.Errorf("FrameTime not monotonic: FrameTime(10)=%v, FrameTime(9)=%v", FrameTime(10), FrameTime(9))
	}
}
