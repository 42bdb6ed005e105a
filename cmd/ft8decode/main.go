/*
NAME
  main.go

DESCRIPTION
  ft8decode is a CLI that decodes FT8 transmissions from a 12kHz mono WAV
  recording, or continuously from every new WAV file dropped into a watched
  directory, printing each unique decoded message.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Command ft8decode decodes FT8 transmissions out of WAV recordings.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"github.com/ausocean/ft8/ap"
	"github.com/ausocean/ft8/codec/wav"
	"github.com/ausocean/ft8/decoder"
)

// fileConfig mirrors decoder.DecoderConfig for YAML deserialization; flags
// override whatever a config file supplies, matching SPEC_FULL.md's
// "flags override file values" rule.
type fileConfig struct {
	FreqMinHz     *float64 `yaml:"freq_min_hz"`
	FreqMaxHz     *float64 `yaml:"freq_max_hz"`
	SyncThreshold *float64 `yaml:"sync_threshold"`
	MaxCandidates *int     `yaml:"max_candidates"`
	DecodeTopN    *int     `yaml:"decode_top_n"`
}

func main() {
	in := pflag.StringP("in", "i", "", "WAV file to decode.")
	watchDir := pflag.String("watch-dir", "", "Instead of -in, watch this directory and decode every new .wav file dropped into it.")
	configPath := pflag.StringP("config", "c", "", "Optional YAML file supplying DecoderConfig defaults.")
	freqMin := pflag.Float64("freq-min", 0, "Minimum search frequency, Hz (overrides config file; 0 keeps the config/default value).")
	freqMax := pflag.Float64("freq-max", 0, "Maximum search frequency, Hz (overrides config file; 0 keeps the config/default value).")
	syncThreshold := pflag.Float64("sync-threshold", 0, "Normalized sync score threshold (overrides config file; 0 keeps the config/default value).")
	maxCandidates := pflag.Int("max-candidates", 0, "Max coarse-sync candidates (overrides config file; 0 keeps the config/default value).")
	decodeTopN := pflag.Int("decode-top-n", 0, "Number of top candidates actually decoded (overrides config file; 0 keeps the config/default value).")
	myCall := pflag.String("mycall", "", "Operator's own callsign, enables a-priori decode hints.")
	hisCall := pflag.String("hiscall", "", "Expected DX callsign, enables richer a-priori decode hints.")
	logfile := pflag.String("logfile", "", "If set, also write logs to this file (rotated via lumberjack).")
	metrics := pflag.Bool("metrics", false, "Register Prometheus decode counters/histograms on a fresh registry.")
	pflag.Parse()

	logger := newLogger(*logfile)

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logger.Fatal("load config", "error", err)
	}
	applyFlagOverrides(&cfg, *freqMin, *freqMax, *syncThreshold, *maxCandidates, *decodeTopN)

	o := decoder.New(cfg)
	o.Logger = logger
	if *myCall != "" {
		o.AP = ap.NewDecoder(*myCall, *hisCall)
	}
	if *metrics {
		o.Metrics = decoder.NewMetrics(prometheus.NewRegistry())
	}

	switch {
	case *watchDir != "":
		err = watchAndDecode(o, *watchDir, logger)
	case *in != "":
		err = decodeFile(o, *in)
	default:
		logger.Fatal("one of -in or -watch-dir is required")
	}
	if err != nil {
		logger.Fatal("decode failed", "error", err)
	}
}

// loadConfig reads path as YAML into a DecoderConfig seeded with
// decoder.DefaultConfig's values; an empty path returns the defaults
// unchanged.
func loadConfig(path string) (decoder.DecoderConfig, error) {
	cfg := decoder.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config file")
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, errors.Wrap(err, "parse config file")
	}
	if fc.FreqMinHz != nil {
		cfg.FreqMinHz = *fc.FreqMinHz
	}
	if fc.FreqMaxHz != nil {
		cfg.FreqMaxHz = *fc.FreqMaxHz
	}
	if fc.SyncThreshold != nil {
		cfg.SyncThreshold = *fc.SyncThreshold
	}
	if fc.MaxCandidates != nil {
		cfg.MaxCandidates = *fc.MaxCandidates
	}
	if fc.DecodeTopN != nil {
		cfg.DecodeTopN = *fc.DecodeTopN
	}
	return cfg, nil
}

// applyFlagOverrides overwrites cfg with any non-zero flag value, the
// flags-beat-config-file half of the precedence rule.
func applyFlagOverrides(cfg *decoder.DecoderConfig, freqMin, freqMax, syncThreshold float64, maxCandidates, decodeTopN int) {
	if freqMin != 0 {
		cfg.FreqMinHz = freqMin
	}
	if freqMax != 0 {
		cfg.FreqMaxHz = freqMax
	}
	if syncThreshold != 0 {
		cfg.SyncThreshold = syncThreshold
	}
	if maxCandidates != 0 {
		cfg.MaxCandidates = maxCandidates
	}
	if decodeTopN != 0 {
		cfg.DecodeTopN = decodeTopN
	}
}

// decodeFile decodes a single WAV file and prints each unique message.
func decodeFile(o *decoder.Orchestrator, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "open wav file")
	}
	defer f.Close()

	samples, err := wav.Read(f)
	if err != nil {
		return errors.Wrap(err, "read wav file")
	}

	return o.Decode(samples, func(m decoder.Message) bool {
		fmt.Printf("%6.1f Hz  %+5.1f s  %5.1f dB  %s\n", m.FrequencyHz, m.TimeOffsetS, m.SNRDB, m.Text)
		return true
	})
}

// watchAndDecode watches dir for newly created .wav files and decodes each
// one as it arrives, running until the watcher's channel closes.
func watchAndDecode(o *decoder.Orchestrator, dir string, logger *log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create fsnotify watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return errors.Wrapf(err, "watch directory %q", dir)
	}
	logger.Info("watching for new recordings", "dir", dir)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) || !strings.EqualFold(filepath.Ext(event.Name), ".wav") {
				continue
			}
			logger.Info("decoding new recording", "path", event.Name)
			if err := decodeFile(o, event.Name); err != nil {
				logger.Error("decode failed", "path", event.Name, "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// newLogger builds a charmbracelet/log logger writing to stderr, optionally
// tee'd to a lumberjack-rotated file when logfile is non-empty.
func newLogger(logfile string) *log.Logger {
	if logfile == "" {
		return log.New(os.Stderr)
	}
	fileLog := &lumberjack.Logger{Filename: logfile, MaxSize: 10, MaxBackups: 3, MaxAge: 28}
	return log.New(io.MultiWriter(os.Stderr, fileLog))
}
