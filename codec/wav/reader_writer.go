/*
NAME
  reader_writer.go

DESCRIPTION
  reader_writer.go provides Read and Write functions for the fixed 16-bit
  PCM mono 12kHz format this library's audio boundary requires (spec §6),
  built on go-audio/wav's RIFF chunk handling. They do not call the
  low-level header codec in wav.go; they share only its PCMFormat constant.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package wav

import (
	"io"
	"math"

	"github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/pkg/errors"
)

// SampleRate, NumChannels, and BitDepth are the fixed audio parameters
// Reader and Writer require, per spec §6.
const (
	SampleRate  = 12000
	NumChannels = 1
	BitDepth    = 16
)

// fullScale is the largest magnitude a 16-bit signed PCM sample can hold;
// float samples are assumed to lie in [-1, 1] and are scaled by this factor
// on the way to and from the wire format.
const fullScale = 32767.0

// Errors returned by this package.
var (
	ErrUnsupportedFormat = errors.New("wav: file is not 16-bit PCM mono at 12000 Hz")
	ErrNotAWAVFile       = errors.New("wav: input is not a valid WAV/RIFF file")
)

// Read decodes a WAV file from r (which must support seeking, since RIFF
// chunk sizes are read up front), returning its audio as float64 samples:
// each 16-bit value divided by fullScale, so 32767 reads as 1 and -32768 as
// slightly below -1.
func Read(r io.ReadSeeker) ([]float64, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, ErrNotAWAVFile
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "wav: read PCM buffer")
	}
	if buf.Format.SampleRate != SampleRate || buf.Format.NumChannels != NumChannels || buf.SourceBitDepth != BitDepth {
		return nil, ErrUnsupportedFormat
	}

	samples := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		samples[i] = float64(v) / fullScale
	}
	return samples, nil
}

// Write encodes samples (float64 in [-1, 1], clamped if out of range) as a
// 16-bit PCM mono 12kHz WAV file to w, which must support seeking so the
// encoder can patch in the final RIFF chunk sizes on Close.
func Write(w io.WriteSeeker, samples []float64) error {
	enc := gowav.NewEncoder(w, SampleRate, BitDepth, NumChannels, int(PCMFormat))

	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(quantize(s))
	}
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: NumChannels, SampleRate: SampleRate},
		Data:           ints,
		SourceBitDepth: BitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return errors.Wrap(err, "wav: write PCM buffer")
	}
	return enc.Close()
}

// quantize clamps s to [-1, 1] and scales it to a 16-bit signed PCM value,
// the same conversion WSJT-X-derived encoders use ahead of a standard RIFF
// header.
func quantize(s float64) int16 {
	if s > 1 {
		s = 1
	} else if s < -1 {
		s = -1
	}
	return int16(math.Round(s * fullScale))
}
