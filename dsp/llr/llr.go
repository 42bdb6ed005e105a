/*
NAME
  llr.go

DESCRIPTION
  llr.go extracts 174 soft log-likelihood ratios from a fine-synced baseband
  signal: per-symbol FFTs recover each of the 79 tones' complex amplitude,
  multi-symbol coherent combining (nsym 1-3) scores the 58 data symbols'
  Gray-coded bits by max-log-MAP, and the result is normalized and scaled
  to the range the belief-propagation decoder expects, per spec §4.9.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package llr extracts soft-decision log-likelihood ratios for a
// fine-synchronized FT8 candidate's 174 codeword bits.
package llr

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"

	"github.com/ausocean/ft8/symbol"
)

// nfftSym is the per-symbol FFT size, fixed regardless of the caller's
// actual baseband sample rate: nsps (the caller-supplied per-symbol sample
// count) is typically a little under nfftSym, so Extract zero-pads the
// unused tail bins rather than requiring the tone spacing to land exactly
// on an FFT bin.
const nfftSym = 32

// scaleFactor matches the reference decoder's normalizebmet scaling, chosen
// to match the belief-propagation decoder's expected LLR magnitude range.
const scaleFactor = 2.83

// minSyncHits is the minimum number of the 21 Costas tones (across all
// three sync arrays) that must land on their expected tone for a candidate
// to be considered worth extracting LLRs from.
const minSyncHits = 3

// Errors returned by this package.
var (
	ErrInvalidNsym       = errors.New("llr: nsym must be 1, 2, or 3")
	ErrSyncQualityTooLow = errors.New("llr: too few Costas tones matched to trust this extraction")
)

// Extract computes 174 soft LLRs from baseband (as produced by
// sync.ExtractBaseband, at whatever sample rate that call returned),
// starting the first symbol at sample startOffset and spacing symbols nsps
// samples apart, combining nsym (1, 2, or 3) consecutive data symbols
// coherently per group.
func Extract(baseband []complex128, startOffset, nsps, nsym int) ([]float64, error) {
	if nsym < 1 || nsym > 3 {
		return nil, ErrInvalidNsym
	}

	var cs [8][symbol.NN]complex128
	var s8 [8][symbol.NN]float64

	fft := fourier.NewCmplxFFT(nfftSym)
	fftOffset := 0
	if nsps < nfftSym {
		fftOffset = 1
	}

	buf := make([]complex128, nfftSym)
	for k := 0; k < symbol.NN; k++ {
		i1 := startOffset + k*nsps
		if i1 < 0 || i1+nsps > len(baseband) {
			continue
		}

		for i := range buf {
			buf[i] = 0
		}
		for j := 0; j < nsps && j+fftOffset < nfftSym; j++ {
			buf[j+fftOffset] = baseband[i1+j]
		}

		coeffs := fft.Coefficients(nil, buf)
		for tone := 0; tone < 8; tone++ {
			cs[tone][k] = coeffs[tone]
			s8[tone][k] = cmplxAbs(coeffs[tone])
		}
	}

	if countCostasHits(s8) < minSyncHits {
		return nil, ErrSyncQualityTooLow
	}

	llr := make([]float64, 174)
	bitIdx := 0
	grayMap := symbol.GrayMap()
	grayMapInv := symbol.GrayMapInv()

	for half := 0; half < 2; half++ {
		base := symbol.DataStart(half)
		k := 1
		for k <= 29 && bitIdx < 174 {
			// Each half owns 87 bits. A trailing nsym=3 group runs 3 bits
			// past its half; the next half's first group overwrites them.
			bitIdx = half*87 + (k-1)*3
			ks := base + k - 1
			switch {
			case nsym == 1 || (nsym == 2 && k == 29):
				bitIdx = decodeSingle(llr, bitIdx, s8, ks, grayMapInv)
				k++
			case nsym == 2:
				bitIdx = decodePair(llr, bitIdx, cs, ks, grayMap)
				k += 2
			default: // nsym == 3
				bitIdx = decodeTriple(llr, bitIdx, cs, ks, grayMap)
				k += 3
			}
		}
	}

	normalizeAndScale(llr)
	return llr, nil
}

// countCostasHits counts, across all three 7-symbol Costas arrays (symbols
// 0-6, 36-42, 72-78), how many symbols' strongest tone matches the expected
// Costas tone - a quick quality gate before the expensive LDPC pass.
func countCostasHits(s8 [8][symbol.NN]float64) int {
	hits := 0
	for k, want := range symbol.Costas {
		for _, start := range []int{0, 36, 72} {
			if strongestTone(s8, start+k) == int(want) {
				hits++
			}
		}
	}
	return hits
}

// strongestTone returns the tone with the most power at sym, or -1 when
// every tone is silent.
func strongestTone(s8 [8][symbol.NN]float64, sym int) int {
	best, bestTone := 0.0, -1
	for tone := 0; tone < 8; tone++ {
		if s8[tone][sym] > best {
			best = s8[tone][sym]
			bestTone = tone
		}
	}
	return bestTone
}

// decodeSingle extracts 3 max-log-MAP bits for a single data symbol at ks.
func decodeSingle(llr []float64, bitIdx int, s8 [8][symbol.NN]float64, ks int, grayMapInv [8]byte) int {
	s2 := make([]float64, 8)
	for tone := 0; tone < 8; tone++ {
		s2[grayMapInv[tone]] = s8[tone][ks]
	}
	return maxLogBits(llr, bitIdx, s2, 3)
}

// decodePair coherently combines the two data symbols at ks, ks+1, scoring
// all 64 tone-index combinations, and extracts 6 bits.
func decodePair(llr []float64, bitIdx int, cs [8][symbol.NN]complex128, ks int, grayMap [8]byte) int {
	const nt = 64
	s2 := make([]float64, nt)
	if ks+1 >= symbol.NN {
		return maxLogBits(llr, bitIdx, s2, 6)
	}
	for i := 0; i < nt; i++ {
		i2, i3 := (i/8)%8, i%8
		sum := cs[grayMap[i2]][ks] + cs[grayMap[i3]][ks+1]
		s2[i] = cmplxAbs(sum)
	}
	return maxLogBits(llr, bitIdx, s2, 6)
}

// decodeTriple coherently combines the three data symbols at ks, ks+1,
// ks+2, scoring all 512 tone-index combinations, and extracts 9 bits.
func decodeTriple(llr []float64, bitIdx int, cs [8][symbol.NN]complex128, ks int, grayMap [8]byte) int {
	const nt = 512
	s2 := make([]float64, nt)
	if ks+2 >= symbol.NN {
		return maxLogBits(llr, bitIdx, s2, 9)
	}
	for i := 0; i < nt; i++ {
		i1, i2, i3 := i/64, (i/8)%8, i%8
		sum := cs[grayMap[i1]][ks] + cs[grayMap[i2]][ks+1] + cs[grayMap[i3]][ks+2]
		s2[i] = cmplxAbs(sum)
	}
	return maxLogBits(llr, bitIdx, s2, 9)
}

// maxLogBits writes up to nbits max-log-MAP LLRs into llr starting at
// bitIdx, one per bit position of the index into s2 (MSB first), stopping
// early if llr fills up.
func maxLogBits(llr []float64, bitIdx int, s2 []float64, nbits int) int {
	for bit := 0; bit < nbits && bitIdx < len(llr); bit++ {
		bitPos := nbits - 1 - bit
		max1, max0 := math.Inf(-1), math.Inf(-1)
		for i, mag := range s2 {
			if (i>>uint(bitPos))&1 == 1 {
				if mag > max1 {
					max1 = mag
				}
			} else if mag > max0 {
				max0 = mag
			}
		}
		llr[bitIdx] = max1 - max0
		bitIdx++
	}
	return bitIdx
}

// normalizeAndScale divides llr by its sample standard deviation and scales
// it by scaleFactor, matching the input magnitude range the belief
// propagation decoder was tuned against.
func normalizeAndScale(llr []float64) {
	sd := stat.StdDev(llr, nil)
	if sd > 0 {
		for i := range llr {
			llr[i] /= sd
		}
	}
	for i := range llr {
		llr[i] *= scaleFactor
	}
}

func cmplxAbs(c complex128) float64 {
	re, im := real(c), imag(c)
	return math.Sqrt(re*re + im*im)
}
