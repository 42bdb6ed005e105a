/*
NAME
  main.go

DESCRIPTION
  ft8encode is a CLI that encodes an FT8 message into a standards-compliant
  12kHz mono WAV recording: text -> 77-bit payload -> CRC-14 -> LDPC
  codeword -> 79 tone symbols -> GFSK waveform.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command ft8encode renders an FT8 message text to a WAV file.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/ft8/callsign"
	"github.com/ausocean/ft8/codec/wav"
	"github.com/ausocean/ft8/crc"
	"github.com/ausocean/ft8/dsp/spectrogram"
	"github.com/ausocean/ft8/ldpc"
	"github.com/ausocean/ft8/message"
	"github.com/ausocean/ft8/symbol"
	"github.com/ausocean/ft8/waveform"
)

func main() {
	text := pflag.StringP("text", "t", "", "Message text to encode, e.g. \"CQ AB1CDE FN42\".")
	freq := pflag.Float64P("freq", "f", 1500, "Center frequency of the transmission, Hz.")
	out := pflag.StringP("out", "o", "out.wav", "Output WAV file path.")
	logfile := pflag.String("logfile", "", "If set, also write logs to this file (rotated via lumberjack).")
	pflag.Parse()

	logger := newLogger(*logfile)

	if *text == "" {
		logger.Fatal("-text is required")
	}

	if err := run(*text, *freq, *out, logger); err != nil {
		logger.Fatal("encode failed", "error", err)
	}
}

func run(text string, freqHz float64, outPath string, logger *log.Logger) error {
	variant, err := message.ParseText(text)
	if err != nil {
		return errors.Wrap(err, "parse message text")
	}

	payload, err := message.Pack(variant, callsign.NewCache())
	if err != nil {
		return errors.Wrap(err, "pack message")
	}
	logger.Debug("packed payload", "bits", len(payload))

	frame := crc.Append(payload)
	codeword := ldpc.EncodeBits(frame)
	symbols, err := symbol.Map(codeword)
	if err != nil {
		return errors.Wrap(err, "map codeword to symbols")
	}

	samples, err := waveform.Generate(symbols, freqHz, spectrogram.SampleRate, spectrogram.SamplesPerSymbol)
	if err != nil {
		return errors.Wrap(err, "generate waveform")
	}
	logger.Info("generated waveform", "samples", len(samples), "freq_hz", freqHz)

	f, err := os.Create(outPath)
	if err != nil {
		return errors.Wrap(err, "create output file")
	}
	defer f.Close()

	if err := wav.Write(f, samples); err != nil {
		return errors.Wrap(err, "write wav")
	}
	fmt.Printf("wrote %s (%d samples)\n", outPath, len(samples))
	return nil
}

// newLogger builds a charmbracelet/log logger writing to stderr, optionally
// tee'd to a lumberjack-rotated file when logfile is non-empty - the same
// file-rotation shape the teacher's cmd/looper and cmd/rv use.
func newLogger(logfile string) *log.Logger {
	if logfile == "" {
		return log.New(os.Stderr)
	}
	fileLog := &lumberjack.Logger{Filename: logfile, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
	return log.New(io.MultiWriter(os.Stderr, fileLog))
}
