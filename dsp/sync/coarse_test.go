package sync

import (
	"testing"

	"github.com/ausocean/ft8/dsp/spectrogram"
)

func TestComputeSurfaceShape(t *testing.T) {
	spec := &spectrogram.Spectrogram{
		Bins: make([][]float64, spectrogram.NumBins),
		Avg:  make([]float64, spectrogram.NumBins),
	}
	for i := range spec.Bins {
		spec.Bins[i] = make([]float64, spectrogram.NumFrames())
	}

	const binLo, binHi = 400, 420
	surf := ComputeSurface(spec, binLo, binHi)

	if surf.BinLo != binLo || surf.BinHi != binHi {
		t.Errorf("Surface bin range = [%d,%d], want [%d,%d]", surf.BinLo, surf.BinHi, binLo, binHi)
	}
	if len(surf.Scores) != binHi-binLo+1 {
		t.Fatalf("len(Scores) = %d, want %d", len(surf.Scores), binHi-binLo+1)
	}
	for _, row := range surf.Scores {
		if len(row) != 2*MaxLag+1 {
			t.Fatalf("row length = %d, want %d", len(row), 2*MaxLag+1)
		}
	}
}

func TestComputeSurfaceClampsBinHi(t *testing.T) {
	spec := &spectrogram.Spectrogram{
		Bins: make([][]float64, 10),
		Avg:  make([]float64, 10),
	}
	for i := range spec.Bins {
		spec.Bins[i] = make([]float64, 5)
	}

	surf := ComputeSurface(spec, 5, 100)
	if surf.BinHi != 9 {
		t.Errorf("BinHi = %d, want clamped to 9", surf.BinHi)
	}
	if len(surf.Scores) != 9-5+1 {
		t.Errorf("len(Scores) = %d, want %d", len(surf.Scores), 9-5+1)
	}
}

func TestFindCandidatesEmptySurface(t *testing.T) {
	surf := &Surface{BinLo: 0, BinHi: 0, Scores: [][]float64{make([]float64, 2*MaxLag+1)}}
	if got := FindCandidates(surf, 1.0, 10); got != nil {
		t.Errorf("FindCandidates on an all-zero surface = %v, want nil", got)
	}
}

func TestDedupDropsNearbyWeakerCandidate(t *testing.T) {
	candidates := []Candidate{
		{FrequencyHz: 1500, TimeOffsetS: 0.0, SyncPower: 5.0},
		{FrequencyHz: 1501, TimeOffsetS: 0.01, SyncPower: 3.0}, // within dedup window, weaker
		{FrequencyHz: 1600, TimeOffsetS: 0.0, SyncPower: 4.0},  // far enough to survive
	}
	got := dedup(candidates, 0)
	if len(got) != 2 {
		t.Fatalf("dedup returned %d candidates, want 2: %+v", len(got), got)
	}
	if got[0].FrequencyHz != 1500 || got[1].FrequencyHz != 1600 {
		t.Errorf("dedup kept %+v, want the stronger of each cluster", got)
	}
}

func TestDedupAppliesThreshold(t *testing.T) {
	candidates := []Candidate{
		{FrequencyHz: 1500, TimeOffsetS: 0, SyncPower: 0.5},
		{FrequencyHz: 2000, TimeOffsetS: 0, SyncPower: 5.0},
	}
	got := dedup(candidates, 1.0)
	if len(got) != 1 || got[0].FrequencyHz != 2000 {
		t.Fatalf("dedup(syncMin=1.0) = %+v, want only the 2000Hz candidate", got)
	}
}

func TestNormalizeBy40thPercentile(t *testing.T) {
	candidates := []Candidate{
		{SyncPower: 1}, {SyncPower: 2}, {SyncPower: 3}, {SyncPower: 4}, {SyncPower: 5},
	}
	normalizeBy40thPercentile(candidates)
	for i := 1; i < len(candidates); i++ {
		if candidates[i].SyncPower <= candidates[i-1].SyncPower {
			t.Errorf("normalization should preserve candidate ordering, got %+v", candidates)
		}
	}
}
