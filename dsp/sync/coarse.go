/*
NAME
  coarse.go

DESCRIPTION
  coarse.go implements coarse time/frequency synchronization: correlating a
  spectrogram against the Costas sync pattern at all three of its expected
  positions, scoring every (frequency, time-lag) cell, and reducing that
  surface to a ranked, deduplicated list of sync candidates, per spec §4.7.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package sync implements FT8's two-stage synchronization: a coarse scan
// of the full 15-second spectrogram for Costas-pattern correlation peaks,
// followed by a fine refinement of a single candidate's time/frequency
// offset against a baseband-shifted extract of the signal.
package sync

import (
	"math"
	"sort"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/symbol"
)

// MaxLag is the full coarse time-lag search radius, in quarter-symbol steps
// (±2.5s at 4 steps/symbol).
const MaxLag = 62

// CoarseLag is the narrow per-bin lag search radius used for the primary
// peak, in quarter-symbol steps.
const CoarseLag = 10

// stepsPerSymbol is the number of spectrogram frames spanning one symbol.
const stepsPerSymbol = spectrogram.SamplesPerSymbol / spectrogram.HopSize

// freqOversample is how many frequency bins separate adjacent FSK tones,
// given the spectrogram's 3.125 Hz bins and FT8's 6.25 Hz tone spacing.
const freqOversample = 2

// startFrame is the nominal frame offset of a signal's first Costas array,
// assuming transmissions begin 0.5s into the analysis window.
var startFrame = int(0.5 / tstep())

// dedupFreqHz and dedupTime bound how close two candidates must be in
// frequency and time before the weaker is dropped as a duplicate.
const (
	dedupFreqHz = 4.0
	dedupTime   = 0.04
)

// Candidate is one candidate FT8 transmission: an approximate center
// frequency and time offset, with a relative sync quality score.
type Candidate struct {
	FrequencyHz float64
	TimeOffsetS float64
	SyncPower   float64
}

// costasMetric sums the Costas-correlated power and its baseline for a
// single sync array (7 tones starting symbolsBefore symbols into the
// transmission) at frequency bin i, time lag j.
func costasMetric(spec *spectrogram.Spectrogram, i, j, symbolsBefore int) (t, t0 float64) {
	for n, tone := range symbol.Costas {
		m := j + startFrame + stepsPerSymbol*(n+symbolsBefore)
		if m < 0 || m >= len(spec.Bins[0]) {
			continue
		}
		freqIdx := i + freqOversample*int(tone)
		if freqIdx < 0 || freqIdx >= len(spec.Bins) {
			continue
		}
		t += spec.Bins[freqIdx][m]
		for k := 0; k < 7; k++ {
			baseIdx := i + freqOversample*k
			if baseIdx < len(spec.Bins) {
				t0 += spec.Bins[baseIdx][m]
			}
		}
	}
	return t, t0
}

// syncScore computes the sync metric at (i, j): the ratio of Costas-tone
// power to a smoothed baseline of all 7 tone rows at the same frames,
// taking the better of scoring with all three sync arrays or only the
// last two (to catch a transmission that starts later than expected).
func syncScore(spec *spectrogram.Spectrogram, i, j int) float64 {
	ta, t0a := costasMetric(spec, i, j, 0)
	tb, t0b := costasMetric(spec, i, j, 36)
	tc, t0c := costasMetric(spec, i, j, 72)

	t := ta + tb + tc
	t0 := (t0a + t0b + t0c - t) / 6
	full := 0.0
	if t0 > 0 {
		full = t / t0
	}

	tBC := tb + tc
	t0BC := (t0b + t0c - tBC) / 6
	late := 0.0
	if t0BC > 0 {
		late = tBC / t0BC
	}

	if late > full {
		return late
	}
	return full
}

// Surface holds the 2-D sync score computed across a frequency-bin range
// and the full coarse lag window, Scores[binOffset][lag+MaxLag].
type Surface struct {
	BinLo, BinHi int
	Scores       [][]float64
}

// ComputeSurface scores every (frequency bin, time lag) cell in
// [binLo, binHi] x [-MaxLag, MaxLag].
func ComputeSurface(spec *spectrogram.Spectrogram, binLo, binHi int) *Surface {
	if binHi >= len(spec.Bins) {
		binHi = len(spec.Bins) - 1
	}
	n := binHi - binLo + 1
	scores := make([][]float64, n)
	for bi := range scores {
		row := make([]float64, 2*MaxLag+1)
		for lag := -MaxLag; lag <= MaxLag; lag++ {
			row[lag+MaxLag] = syncScore(spec, binLo+bi, lag)
		}
		// Smooth the raw per-lag row with a 3-tap moving average so a
		// single noisy bin doesn't dominate the narrow-window peak search
		// below; computed as an FFT fast convolution, the same
		// pad-to-power-of-2/FFTReal/IFFT shape as the teacher's own
		// fastConvolve helper.
		scores[bi] = smoothRow(row)
	}
	return &Surface{BinLo: binLo, BinHi: binHi, Scores: scores}
}

// movingAverageKernel is the 3-tap averaging FIR smoothRow convolves each
// row with.
var movingAverageKernel = []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}

// smoothRow convolves row with movingAverageKernel via an FFT fast
// convolution, trimming the result back down to row's original length.
func smoothRow(row []float64) []float64 {
	h := movingAverageKernel
	convLen := len(row) + len(h) - 1
	padLen := int(math.Pow(2, math.Ceil(math.Log2(float64(convLen)))))

	x := make([]float64, padLen)
	copy(x, row)
	hp := make([]float64, padLen)
	copy(hp, h)

	xFFT, hFFT := fft.FFTReal(x), fft.FFTReal(hp)
	yFFT := make([]complex128, padLen)
	for i := range xFFT {
		yFFT[i] = xFFT[i] * hFFT[i]
	}
	y := fft.IFFT(yFFT)

	out := make([]float64, len(row))
	// The kernel is centered (tap 1 of 3 is the "current" sample), so the
	// convolution's causal output is offset by one tap from row's index.
	for i := range out {
		out[i] = real(y[i+1])
	}
	return out
}

// tstep is the time, in seconds, one coarse lag step represents.
func tstep() float64 { return spectrogram.HopSize / spectrogram.SampleRate }

// df is the frequency, in Hz, one spectrogram bin spans.
func df() float64 { return spectrogram.BinWidth }

// FindCandidates reduces a coarse sync surface to a ranked list of
// candidates: for each frequency bin, the best lag within ±CoarseLag and
// (if distinct) the best lag over the full search range; normalized by the
// 40th percentile of all raw scores, deduplicated within dedupFreqHz and
// dedupTime, and thresholded at syncMin.
func FindCandidates(surf *Surface, syncMin float64, maxCandidates int) []Candidate {
	var candidates []Candidate

	for bi, row := range surf.Scores {
		freqHz := float64(surf.BinLo+bi) * df()

		bestLag, bestScore := bestInWindow(row, -CoarseLag, CoarseLag)
		if bestScore > 0 {
			candidates = append(candidates, Candidate{
				FrequencyHz: freqHz,
				TimeOffsetS: (float64(bestLag) - 0.5) * tstep(),
				SyncPower:   bestScore,
			})
		}

		bestLag2, bestScore2 := bestInWindow(row, -MaxLag, MaxLag)
		if bestLag2 != bestLag && bestScore2 > 0 {
			candidates = append(candidates, Candidate{
				FrequencyHz: freqHz,
				TimeOffsetS: (float64(bestLag2) - 0.5) * tstep(),
				SyncPower:   bestScore2,
			})
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	normalizeBy40thPercentile(candidates)
	filtered := dedup(candidates, syncMin)

	sort.Slice(filtered, func(i, j int) bool { return filtered[i].SyncPower > filtered[j].SyncPower })
	if len(filtered) > maxCandidates {
		filtered = filtered[:maxCandidates]
	}
	return filtered
}

func bestInWindow(row []float64, lagLo, lagHi int) (lag int, score float64) {
	for l := lagLo; l <= lagHi; l++ {
		idx := l + MaxLag
		if idx < 0 || idx >= len(row) {
			continue
		}
		if row[idx] > score {
			score = row[idx]
			lag = l
		}
	}
	return lag, score
}

func normalizeBy40thPercentile(candidates []Candidate) {
	values := make([]float64, len(candidates))
	for i, c := range candidates {
		values[i] = c.SyncPower
	}
	sort.Float64s(values)
	baseline := stat.Quantile(0.4, stat.Empirical, values, nil)
	if baseline <= 0 {
		return
	}
	for i := range candidates {
		candidates[i].SyncPower /= baseline
	}
}

func dedup(candidates []Candidate, syncMin float64) []Candidate {
	var filtered []Candidate
	for _, cand := range candidates {
		dupe := false
		for k, existing := range filtered {
			fdiff := cand.FrequencyHz - existing.FrequencyHz
			if fdiff < 0 {
				fdiff = -fdiff
			}
			tdiff := cand.TimeOffsetS - existing.TimeOffsetS
			if tdiff < 0 {
				tdiff = -tdiff
			}
			if fdiff < dedupFreqHz && tdiff < dedupTime {
				dupe = true
				if cand.SyncPower > existing.SyncPower {
					filtered[k] = cand
				}
				break
			}
		}
		if !dupe && cand.SyncPower >= syncMin {
			filtered = append(filtered, cand)
		}
	}
	return filtered
}
