/*
NAME
  testsim.go

DESCRIPTION
  testsim.go synthesizes full 15-second FT8 test recordings: a GFSK
  waveform placed at a chosen frequency and time offset within the
  analysis window, with additive white Gaussian noise at a chosen SNR, for
  exercising the sync/LLR/decoder pipeline without real audio fixtures.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package testsim builds synthetic FT8 recordings for tests: a known
// message, encoded and placed at a known frequency/time offset, with
// additive Gaussian noise at a requested SNR.
package testsim

import (
	"math"
	"math/rand"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ausocean/ft8/crc"
	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/ldpc"
	"github.com/ausocean/ft8/symbol"
	"github.com/ausocean/ft8/waveform"
)

// Options configures a synthesized recording.
type Options struct {
	FrequencyHz float64 // center frequency of the transmission, Hz
	TimeOffsetS float64 // offset from the nominal 0.5s transmission start, seconds
	SNRDB       float64 // target signal-to-noise ratio in decibels
	Seed        int64   // RNG seed, for reproducible noise
}

// ErrShortPayload is returned when a caller-supplied payload is not exactly
// crc.PayloadBits long.
var ErrShortPayload = errors.New("testsim: payload must be exactly crc.PayloadBits bits")

// FromPayload encodes a 77-bit payload through CRC, LDPC, and symbol
// mapping, and synthesizes the resulting 15-second noisy recording.
func FromPayload(payload []byte, opts Options) ([]float64, error) {
	if len(payload) != crc.PayloadBits {
		return nil, ErrShortPayload
	}

	frame := crc.Append(payload)
	codeword := ldpc.EncodeBits(frame)
	symbols, err := symbol.Map(codeword)
	if err != nil {
		return nil, errors.Wrap(err, "testsim: map codeword to symbols")
	}

	return FromSymbols(symbols, opts)
}

// FromSymbols synthesizes a 15-second noisy recording directly from a
// 79-symbol tone sequence, skipping the message/LDPC layers - useful for
// sync-only tests that don't need a decodable payload.
func FromSymbols(symbols [symbol.NN]byte, opts Options) ([]float64, error) {
	wave, err := waveform.Generate(symbols, opts.FrequencyHz, spectrogram.SampleRate, spectrogram.SamplesPerSymbol)
	if err != nil {
		return nil, errors.Wrap(err, "testsim: generate waveform")
	}

	buf := make([]float64, spectrogram.MaxSamples)
	start := int((0.5 + opts.TimeOffsetS) * spectrogram.SampleRate)
	for i, s := range wave {
		idx := start + i
		if idx < 0 || idx >= len(buf) {
			continue
		}
		buf[idx] = s
	}

	addNoise(buf, signalRMS(wave), opts.SNRDB, opts.Seed)
	return buf, nil
}

// signalRMS computes the root-mean-square amplitude of a waveform, used as
// the reference signal level for the requested SNR.
func signalRMS(wave []float64) float64 {
	var sumSq float64
	for _, s := range wave {
		sumSq += s * s
	}
	if len(wave) == 0 {
		return 0
	}
	return math.Sqrt(sumSq / float64(len(wave)))
}

// addNoise adds zero-mean Gaussian noise to buf in place, with standard
// deviation set so that signalRMS / noiseStdDev equals the requested SNR in
// decibels.
func addNoise(buf []float64, signalLevel, snrDB float64, seed int64) {
	noiseStd := signalLevel / math.Pow(10, snrDB/20)
	if noiseStd <= 0 {
		return
	}

	noise := distuv.Normal{Mu: 0, Sigma: noiseStd, Src: rand.NewSource(seed)}
	for i := range buf {
		buf[i] += noise.Rand()
	}
}
