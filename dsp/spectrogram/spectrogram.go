/*
NAME
  spectrogram.go

DESCRIPTION
  spectrogram.go computes the sliding-window power spectrogram an FT8
  decoder searches for Costas sync patterns, per spec §4.7.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package spectrogram computes the short-time power spectrum a decoder
// slides across a 15-second recording in search of Costas sync patterns.
package spectrogram

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"
)

// SampleRate is the expected input sample rate, Hz.
const SampleRate = 12000.0

// SamplesPerSymbol is the analysis window width, one FT8 symbol.
const SamplesPerSymbol = 1920

// FFTSize is the real-FFT size each window is zero-padded to.
const FFTSize = 4096

// HopSize is the stride between successive windows: one quarter symbol.
const HopSize = SamplesPerSymbol / 4

// WindowSeconds is the duration of one FT8 transmission's analysis window.
const WindowSeconds = 15

// MaxSamples is WindowSeconds of audio at SampleRate.
const MaxSamples = WindowSeconds * SampleRate

// NumBins is the number of real-FFT output bins (including DC and Nyquist).
const NumBins = FFTSize/2 + 1

// BinWidth is the frequency spacing between adjacent bins, Hz.
const BinWidth = SampleRate / FFTSize

// scale matches the reference decoder's input attenuation ahead of the FFT,
// keeping power values in a convenient dynamic range.
const scale = 1.0 / 300.0

// ErrSignalTooShort is returned when the input is shorter than the 15-second
// analysis window Compute requires.
var ErrSignalTooShort = errors.New("spectrogram: signal shorter than the 15-second analysis window")

// NumFrames returns the number of analysis windows a full-length recording
// produces.
func NumFrames() int { return MaxSamples/HopSize - 3 }

// Spectrogram holds the squared-magnitude power spectrum of a recording,
// indexed Bins[freqBin][frame], plus the frame-averaged power per bin.
type Spectrogram struct {
	Bins [][]float64
	Avg  []float64
}

// Compute slides a SamplesPerSymbol-wide, FFTSize-zero-padded real FFT
// across signal every HopSize samples, returning the squared-magnitude
// power at each (frequency bin, frame) pair.
func Compute(signal []float64) (*Spectrogram, error) {
	if len(signal) < MaxSamples {
		return nil, ErrSignalTooShort
	}

	nFrames := NumFrames()
	fft := fourier.NewFFT(FFTSize)

	bins := make([][]float64, NumBins)
	for i := range bins {
		bins[i] = make([]float64, nFrames)
	}
	avg := make([]float64, NumBins)

	window := make([]float64, FFTSize)
	for j := 0; j < nFrames; j++ {
		ia := j * HopSize
		ib := ia + SamplesPerSymbol
		if ib > len(signal) {
			break
		}

		for i := 0; i < SamplesPerSymbol; i++ {
			window[i] = scale * signal[ia+i]
		}
		for i := SamplesPerSymbol; i < FFTSize; i++ {
			window[i] = 0
		}

		coeffs := fft.Coefficients(nil, window)
		for i := 0; i < NumBins; i++ {
			power := real(coeffs[i])*real(coeffs[i]) + imag(coeffs[i])*imag(coeffs[i])
			bins[i][j] = power
			avg[i] += power
		}
	}
	for i := range avg {
		avg[i] /= float64(nFrames)
	}

	return &Spectrogram{Bins: bins, Avg: avg}, nil
}

// BinForFrequency converts a frequency in Hz to its nearest bin index.
func BinForFrequency(hz float64) int {
	return int(hz/BinWidth + 0.5)
}

// FrameTime converts a frame index to its time offset in seconds from the
// start of the recording.
func FrameTime(frame int) float64 {
	return float64(frame*HopSize) / SampleRate
}
