/*
NAME
  fine.go

DESCRIPTION
  fine.go refines a coarse sync candidate's time and frequency offset:
  extracting a narrowband complex baseband signal around the candidate
  frequency and searching a dense local time/frequency grid for the offset
  that maximizes Costas correlation, per spec §4.8.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package sync

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/symbol"
)

// basebandFFTSize is the width of the frequency-domain buffer the
// candidate band is copied into before the inverse FFT brings it to
// baseband.
const basebandFFTSize = 4096

// basebandTaper is the width, in bins, of the cosine taper applied to the
// extracted band's edges to limit spectral leakage.
const basebandTaper = 101

// ExtractBaseband band-limits signal (sampled at spectrogram.SampleRate) to
// [f0-1.5*baud, f0+8.5*baud], shifts it so f0 lands at DC, and returns the
// resulting complex baseband signal via a high-resolution forward FFT
// followed by a basebandFFTSize-bin inverse FFT, along with the baseband
// signal's effective sample rate (basebandFFTSize bins spanning the same
// time duration as the original n-sample forward FFT, so the rate scales
// with however signal was zero-padded to the next power of 2).
func ExtractBaseband(signal []float64, f0, baud float64) ([]complex128, float64) {
	n := nextPow2(len(signal))
	actualSampleRate := spectrogram.SampleRate * float64(basebandFFTSize) / float64(n)
	fwd := fourier.NewCmplxFFT(n)

	in := make([]complex128, n)
	for i, s := range signal {
		in[i] = complex(s, 0)
	}
	spectrum := fwd.Coefficients(nil, in)

	sampleRate := spectrogram.SampleRate
	df := sampleRate / float64(n)
	loBin := int((f0 - 1.5*baud) / df)
	hiBin := int((f0 + 8.5*baud) / df)

	band := make([]complex128, basebandFFTSize)
	width := hiBin - loBin
	for i := 0; i < width && i < basebandFFTSize; i++ {
		srcBin := loBin + i
		if srcBin < 0 || srcBin >= len(spectrum) {
			continue
		}
		band[i] = spectrum[srcBin]
	}
	occupied := width
	if occupied > basebandFFTSize {
		occupied = basebandFFTSize
	}
	taperCosine(band[:occupied], basebandTaper)

	// Circularly shift so f0 lands at DC: rotate the band left by f0's
	// offset, in bins, from the band's low edge (1.5 baud below f0).
	shift := int(f0/df) - loBin
	rotated := make([]complex128, basebandFFTSize)
	for i := range band {
		rotated[(i-shift+basebandFFTSize)%basebandFFTSize] = band[i]
	}

	inv := fourier.NewCmplxFFT(basebandFFTSize)
	baseband := inv.Sequence(nil, rotated)
	scale := 1 / float64(basebandFFTSize)
	for i := range baseband {
		baseband[i] *= complex(scale, 0)
	}
	return baseband, actualSampleRate
}

// taperCosine applies a raised-cosine taper of width taps to both ends of
// band, zeroing out spectral leakage from a hard-edged band extraction.
func taperCosine(band []complex128, taps int) {
	half := taps / 2
	for i := 0; i < half && i < len(band); i++ {
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(half)))
		band[i] *= complex(w, 0)
	}
	for i := 0; i < half && i < len(band); i++ {
		idx := len(band) - 1 - i
		w := 0.5 * (1 - math.Cos(math.Pi*float64(i)/float64(half)))
		band[idx] *= complex(w, 0)
	}
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Refined is a fine-synced candidate: offsets relative to the coarse
// candidate's nominal position, in seconds and Hz.
type Refined struct {
	TimeOffsetS float64
	FreqOffset  float64
	Power       float64
}

// RefineCandidate searches a dense grid of time offsets (±20ms in 5ms
// steps) and frequency offsets (±2.5Hz in 0.5Hz steps) around a baseband
// extract sampled at sampleRate, applying each offset as a per-sample
// phasor rotation and a whole-sample shift (dt rounded to the nearest
// baseband sample), and returns the offset
// pair maximizing the sum-of-squared-magnitude Costas correlation across
// all three sync positions.
func RefineCandidate(baseband []complex128, samplesPerSymbol, sampleRate float64) Refined {
	const (
		timeStepS   = 0.005
		timeRangeS  = 0.020
		freqStepHz  = 0.5
		freqRangeHz = 2.5
	)

	var best Refined
	for dt := -timeRangeS; dt <= timeRangeS+1e-9; dt += timeStepS {
		shiftSamples := int(math.Round(dt * sampleRate))
		for df := -freqRangeHz; df <= freqRangeHz+1e-9; df += freqStepHz {
			power := costasCorrelation(baseband, shiftSamples, df, samplesPerSymbol, sampleRate)
			if power > best.Power {
				best = Refined{TimeOffsetS: dt, FreqOffset: df, Power: power}
			}
		}
	}
	return best
}

// costasCorrelation scores how strongly a shifted, frequency-rotated copy
// of baseband (sampled at sampleRate) matches the Costas tone pattern at
// all three of its sync positions (symbols 0, 36, 72), summing
// squared-magnitude correlation.
func costasCorrelation(baseband []complex128, shiftSamples int, freqOffset, samplesPerSymbol, sampleRate float64) float64 {
	n := len(baseband)
	var total float64

	twoPi := 2 * math.Pi
	for _, start := range []int{0, 36, 72} {
		var sum complex128
		for k, tone := range symbol.Costas {
			symIdx := start + k
			idx := int(float64(symIdx)*samplesPerSymbol) + shiftSamples
			if idx < 0 || idx >= n {
				continue
			}
			phase := twoPi * freqOffset * float64(idx) / sampleRate
			rotated := baseband[idx] * complex(math.Cos(phase), math.Sin(phase))
			expected := complex(math.Cos(twoPi*float64(tone)/8), math.Sin(twoPi*float64(tone)/8))
			sum += rotated * complexConj(expected)
		}
		total += real(sum)*real(sum) + imag(sum)*imag(sum)
	}
	return total
}

func complexConj(c complex128) complex128 { return complex(real(c), -imag(c)) }

// ApplyPhaseCorrection rotates baseband in place by a constant frequency
// offset freqOffsetHz (sampled at sampleRate), removing the residual
// frequency error RefineCandidate found so nsym≥2 coherent symbol
// combining isn't decorrelated by phase drift across the combined symbols.
func ApplyPhaseCorrection(baseband []complex128, freqOffsetHz, sampleRate float64) {
	dphi := 2 * math.Pi * freqOffsetHz / sampleRate
	phi := 0.0
	for i := range baseband {
		rot := complex(math.Cos(phi), math.Sin(phi))
		baseband[i] *= rot
		phi += dphi
		if phi > math.Pi {
			phi -= 2 * math.Pi
		}
	}
}
