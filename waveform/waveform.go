/*
NAME
  waveform.go

DESCRIPTION
  waveform.go synthesizes the audio waveform an FT8 transmitter sends: a
  phase-continuous 8-FSK signal with Gaussian (GFSK) pulse shaping between
  tones, per spec §4.6.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package waveform synthesizes and consumes the Gaussian-pulse-shaped,
// phase-continuous 8-FSK waveform FT8 transmits, and generates the
// envelope ramps that mark a transmission's edges.
package waveform

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"github.com/ausocean/ft8/symbol"
)

// SampleRate is FT8's standard audio sample rate in Hz.
const SampleRate = 12000.0

// SamplesPerSymbol is the number of audio samples one symbol occupies at
// SampleRate (0.16s * 12000Hz).
const SamplesPerSymbol = 1920

// BT is the Gaussian filter's bandwidth-time product.
const BT = 2.0

// ToneSpacing is the frequency separation between adjacent FSK tones, Hz.
const ToneSpacing = 6.25

// ErrInvalidParams is returned when Generate is given a non-positive sample
// rate or samples-per-symbol count.
var ErrInvalidParams = errors.New("waveform: sampleRate and samplesPerSymbol must be positive")

// gfskPulse evaluates the Gaussian frequency-smoothing pulse at time t,
// normalized so one symbol period spans -0.5..0.5.
func gfskPulse(bt, t float64) float64 {
	c := math.Pi * math.Sqrt(2/math.Ln2)
	return 0.5 * (math.Erf(c*bt*(t+0.5)) - math.Erf(c*bt*(t-0.5)))
}

// buildPulse returns the GFSK pulse sampled across 3 symbol periods
// (extending 1.5 symbols to either side of center), the window within which
// one symbol's tone smears into its neighbors.
func buildPulse(nsps int) []float64 {
	n := 3 * nsps
	tt := make([]float64, n)
	floats.Span(tt, -1.5, 1.5-1.0/float64(nsps))
	pulse := make([]float64, n)
	for i, t := range tt {
		pulse[i] = gfskPulse(BT, t)
	}
	return pulse
}

// phaseTrajectory computes the per-sample phase increment dphi[n] for the
// full symbol sequence plus one dummy symbol's worth of GFSK smoothing on
// each side, per spec §4.6's frequency trajectory formula.
func phaseTrajectory(symbols [symbol.NN]byte, f0, sampleRate float64, nsps int) []float64 {
	const nsym = symbol.NN
	twoPi := 2 * math.Pi
	dt := 1 / sampleRate
	const hmod = 1.0

	pulse := buildPulse(nsps)
	pulseLen := len(pulse)

	dphiLen := (nsym + 2) * nsps
	dphi := make([]float64, dphiLen)
	dphiPeak := twoPi * hmod / float64(nsps)

	for j := 0; j < nsym; j++ {
		ib := j * nsps
		for k, p := range pulse {
			if ib+k < dphiLen {
				dphi[ib+k] += dphiPeak * p * float64(symbols[j])
			}
		}
	}

	// Dummy symbol before the first: extends the first tone's pulse
	// leftward so the waveform ramps up cleanly at t=0.
	for k := 0; k < 2*nsps && k < dphiLen; k++ {
		if nsps+k < pulseLen {
			dphi[k] += dphiPeak * float64(symbols[0]) * pulse[nsps+k]
		}
	}

	// Dummy symbol after the last: extends the last tone's pulse rightward.
	lastStart := nsym * nsps
	for k := 0; k < 2*nsps && lastStart+k < dphiLen; k++ {
		if k < pulseLen {
			dphi[lastStart+k] += dphiPeak * float64(symbols[nsym-1]) * pulse[k]
		}
	}

	f0dphi := twoPi * f0 * dt
	for i := range dphi {
		dphi[i] += f0dphi
	}
	return dphi
}

// Generate synthesizes a real-valued audio waveform from a symbol sequence:
// a phase-continuous sine wave frequency-modulated by the GFSK-smoothed
// tone sequence, centered at f0 Hz, with a raised-cosine ramp applied to the
// first and last 1/8 symbol to avoid a sharp transmission edge.
func Generate(symbols [symbol.NN]byte, f0, sampleRate float64, nsps int) ([]float64, error) {
	if sampleRate <= 0 || nsps <= 0 {
		return nil, ErrInvalidParams
	}

	dphi := phaseTrajectory(symbols, f0, sampleRate, nsps)
	nwave := symbol.NN * nsps
	twoPi := 2 * math.Pi

	wave := make([]float64, nwave)
	phi := 0.0
	for i := 0; i < nwave; i++ {
		j := nsps + i // skip the leading dummy symbol
		wave[i] = math.Sin(phi)
		phi = math.Mod(phi+dphi[j], twoPi)
	}

	applyEdgeRamp(wave, nsps)
	return wave, nil
}

// GenerateComplex is Generate's I/Q counterpart for SDR pipelines: the same
// phase-continuous trajectory, output as (cos phi, sin phi) pairs instead of
// a single real sin phi sample.
func GenerateComplex(symbols [symbol.NN]byte, f0, sampleRate float64, nsps int) ([]complex128, error) {
	if sampleRate <= 0 || nsps <= 0 {
		return nil, ErrInvalidParams
	}

	dphi := phaseTrajectory(symbols, f0, sampleRate, nsps)
	nwave := symbol.NN * nsps
	twoPi := 2 * math.Pi

	wave := make([]complex128, nwave)
	phi := 0.0
	for i := 0; i < nwave; i++ {
		j := nsps + i
		wave[i] = complex(math.Cos(phi), math.Sin(phi))
		phi = math.Mod(phi+dphi[j], twoPi)
	}

	applyComplexEdgeRamp(wave, nsps)
	return wave, nil
}

// applyEdgeRamp tapers the first and last 1/8 symbol of wave with a
// raised-cosine envelope so the transmission starts and ends at zero
// amplitude rather than an audible click.
func applyEdgeRamp(wave []float64, nsps int) {
	nramp := nsps / 8
	twoPi := 2 * math.Pi

	for i := 0; i < nramp; i++ {
		envelope := (1 - math.Cos(twoPi*float64(i)/(2*float64(nramp)))) / 2
		wave[i] *= envelope
	}

	start := len(wave) - nramp
	for i := 0; i < nramp; i++ {
		envelope := (1 + math.Cos(twoPi*float64(i)/(2*float64(nramp)))) / 2
		if start+i < len(wave) {
			wave[start+i] *= envelope
		}
	}
}

// applyComplexEdgeRamp is applyEdgeRamp's complex counterpart.
func applyComplexEdgeRamp(wave []complex128, nsps int) {
	nramp := nsps / 8
	twoPi := 2 * math.Pi

	for i := 0; i < nramp; i++ {
		envelope := (1 - math.Cos(twoPi*float64(i)/(2*float64(nramp)))) / 2
		wave[i] *= complex(envelope, 0)
	}

	start := len(wave) - nramp
	for i := 0; i < nramp; i++ {
		envelope := (1 + math.Cos(twoPi*float64(i)/(2*float64(nramp)))) / 2
		if start+i < len(wave) {
			wave[start+i] *= complex(envelope, 0)
		}
	}
}
