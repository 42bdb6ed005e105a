package decoder

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/ft8/crc"
	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/internal/testsim"
)

func TestDefaultConfigMatchesSpec(t *testing.T) {
	cfg := DefaultConfig()
	want := DecoderConfig{FreqMinHz: 100, FreqMaxHz: 3000, SyncThreshold: 0.5, MaxCandidates: 100, DecodeTopN: 50}
	if cfg != want {
		t.Errorf("DefaultConfig() = %+v, want %+v", cfg, want)
	}
}

func TestScaleLLRMultipliesEveryElement(t *testing.T) {
	in := []float64{1, -2, 3}
	got := scaleLLR(in, 2.5)
	want := []float64{2.5, -5, 7.5}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("scaleLLR(...)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	// The input slice must not be mutated in place, since callers reuse it
	// across every scale in DefaultLLRScales.
	if in[0] != 1 || in[1] != -2 || in[2] != 3 {
		t.Errorf("scaleLLR mutated its input: %v", in)
	}
}

func TestSNREstimateFormula(t *testing.T) {
	got := snrEstimate(1.0)
	want := 10*math.Log10(1.0) - 30
	if got != want {
		t.Errorf("snrEstimate(1.0) = %v, want %v", got, want)
	}
	if got := snrEstimate(0); got != negativeInfinityDB {
		t.Errorf("snrEstimate(0) = %v, want %v", got, negativeInfinityDB)
	}
	if got := snrEstimate(-1); got != negativeInfinityDB {
		t.Errorf("snrEstimate(-1) = %v, want %v", got, negativeInfinityDB)
	}
}

func TestRoundInt(t *testing.T) {
	cases := map[float64]int{0.4: 0, 0.5: 1, 0.6: 1, -0.4: 0, -0.6: -1, 29.6: 30}
	for in, want := range cases {
		if got := roundInt(in); got != want {
			t.Errorf("roundInt(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestDedupOrderedDropsNilAndDuplicateText(t *testing.T) {
	a := &Message{Text: "CQ AB1CDE FN42", FrequencyHz: 1000}
	b := &Message{Text: "AB1CDE XY9Z RR73", FrequencyHz: 1500}
	dupeOfA := &Message{Text: "CQ AB1CDE FN42", FrequencyHz: 2000}

	got := dedupOrdered([]*Message{a, nil, b, dupeOfA})
	want := []Message{*a, *b}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("dedupOrdered mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeOnSilenceReportsNothing(t *testing.T) {
	o := New(DefaultConfig())
	signal := make([]float64, spectrogram.MaxSamples)

	called := false
	err := o.Decode(signal, func(Message) bool {
		called = true
		return true
	})
	if err != nil {
		t.Fatalf("Decode on silence returned error: %v", err)
	}
	if called {
		t.Errorf("Decode on silence invoked the sink, want zero candidates found")
	}
}

func TestDecodeSinkStopEndsEarly(t *testing.T) {
	// Replays Decode's write-back loop over a fixed result set: a sink that
	// returns false on its first message ends delivery there.
	calls := 0
	sink := Sink(func(Message) bool {
		calls++
		return false
	})
	results := []*Message{
		{Text: "first"},
		{Text: "second"},
		{Text: "third"},
	}
	for _, m := range dedupOrdered(results) {
		if !sink(m) {
			break
		}
	}
	if calls != 1 {
		t.Errorf("sink-stop loop ran %d iterations, want 1", calls)
	}
}

// TestDecodeRunsFullPipelineWithoutError is a wiring smoke test: a strong,
// noise-free synthetic transmission exercises spectrogram -> coarse sync ->
// fine sync -> LLR extraction -> BP/OSD end to end without panicking or
// returning a structural error. It deliberately does not assert that the
// candidate actually decodes, since that depends on exact numerical
// agreement across several DSP stages that this test suite can't verify by
// execution.
func TestDecodeRunsFullPipelineWithoutError(t *testing.T) {
	payload := make([]byte, crc.PayloadBits)
	for i := range payload {
		payload[i] = byte((i * 3) % 2)
	}
	signal, err := testsim.FromPayload(payload, testsim.Options{FrequencyHz: 1500, SNRDB: 40, Seed: 1})
	if err != nil {
		t.Fatalf("testsim.FromPayload: %v", err)
	}

	o := New(DefaultConfig())
	if err := o.Decode(signal, func(Message) bool { return true }); err != nil {
		t.Fatalf("Decode: %v", err)
	}
}
