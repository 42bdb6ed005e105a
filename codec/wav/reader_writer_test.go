package wav

import (
	"math"
	"os"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	samples := make([]float64, 1200)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/SampleRate)
	}

	f, err := os.CreateTemp(t.TempDir(), "roundtrip-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if err := Write(f, samples); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	got, err := Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("Read returned %d samples, want %d", len(got), len(samples))
	}
	for i := range samples {
		if diff := math.Abs(got[i] - samples[i]); diff > 1.0/fullScale {
			t.Fatalf("sample %d = %v, want %v (within quantization error)", i, got[i], samples[i])
			break
		}
	}
}

func TestWriteClampsOutOfRangeSamples(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "clamp-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()

	if err := Write(f, []float64{2.0, -2.0}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}
	got, err := Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got[0] < 0.99 {
		t.Errorf("clamped +2.0 sample = %v, want near +1.0", got[0])
	}
	if got[1] > -0.99 {
		t.Errorf("clamped -2.0 sample = %v, want near -1.0", got[1])
	}
}

func TestReadRejectsUnsupportedFormat(t *testing.T) {
	// EncodeFixedFormat always uses the package's fixed SampleRate, so
	// forge a header-level mismatch directly via the low-level WAV struct.
	w := &WAV{Metadata: Metadata{AudioFormat: PCMFormat, Channels: 2, SampleRate: 48000, BitDepth: 16}}
	if _, err := w.Write(make([]byte, 8)); err != nil {
		t.Fatalf("WAV.Write: %v", err)
	}

	f, err := os.CreateTemp(t.TempDir(), "bad-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(w.Audio); err != nil {
		t.Fatalf("file Write: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	if _, err := Read(f); err != ErrUnsupportedFormat {
		t.Errorf("Read on a 48kHz stereo file: err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestEncodeFixedFormatProducesReadableWAV(t *testing.T) {
	samples := []int16{0, 1000, -1000, 32767, -32768}
	data, err := EncodeFixedFormat(samples)
	if err != nil {
		t.Fatalf("EncodeFixedFormat: %v", err)
	}
	if len(data) != 44+len(samples)*2 {
		t.Fatalf("len(data) = %d, want %d", len(data), 44+len(samples)*2)
	}

	f, err := os.CreateTemp(t.TempDir(), "fixed-*.wav")
	if err != nil {
		t.Fatalf("CreateTemp: %v", err)
	}
	defer f.Close()
	if _, err := f.Write(data); err != nil {
		t.Fatalf("file Write: %v", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatalf("Seek: %v", err)
	}

	got, err := Read(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(samples) {
		t.Fatalf("Read returned %d samples, want %d", len(got), len(samples))
	}
}
