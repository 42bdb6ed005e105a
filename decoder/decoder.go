/*
NAME
  decoder.go

DESCRIPTION
  decoder.go implements the FT8 decode orchestrator: coarse sync across a
  configured frequency band, then per-candidate fine sync, multi-pass
  LLR extraction/rescaling/BP decode (with an OSD fallback), optional
  a-priori hints, and deduplicated, deterministically-ordered delivery of
  decoded messages to a caller-supplied sink, per spec §4.10-§7.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package decoder orchestrates the full FT8 receive pipeline: spectrogram,
// coarse sync, fine sync, LLR extraction, and LDPC/OSD decode, over a 15
// second audio frame.
package decoder

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pkg/errors"

	"github.com/ausocean/ft8/ap"
	"github.com/ausocean/ft8/callsign"
	"github.com/ausocean/ft8/crc"
	"github.com/ausocean/ft8/dsp/llr"
	"github.com/ausocean/ft8/dsp/spectrogram"
	syncpkg "github.com/ausocean/ft8/dsp/sync"
	"github.com/ausocean/ft8/ldpc"
	"github.com/ausocean/ft8/message"
	"github.com/ausocean/ft8/waveform"
)

// symbolPeriodS is the duration of one FT8 symbol, seconds.
const symbolPeriodS = 1.0 / waveform.ToneSpacing

// Message is one decoded FT8 transmission, reported to a Sink.
type Message struct {
	Text           string
	FrequencyHz    float64
	TimeOffsetS    float64
	SyncPower      float64
	SNRDB          float64
	LDPCIterations int
	LLRScale       float64
	Nsym           int
}

// Sink receives one decoded Message at a time, in candidate-priority order,
// with duplicate message text already suppressed. Returning false stops
// the decode early.
type Sink func(Message) bool

// Orchestrator runs the decode pipeline over one audio frame. The zero
// value is not usable; construct with New.
type Orchestrator struct {
	Config DecoderConfig

	// AP, if non-nil, supplies a-priori hint passes (§4.10); for each LLR
	// scale they are tried right after that scale's blind BP attempt fails.
	AP *ap.Decoder

	// Cache resolves hashed callsign references encountered during unpack;
	// shared read-only across a single decode's candidates (§5).
	Cache *callsign.Cache

	// Logger, if non-nil, receives per-candidate diagnostic logging.
	Logger *log.Logger

	// Metrics, if non-nil, receives decode-pipeline counters.
	Metrics *Metrics
}

// New builds an Orchestrator with the given configuration, a fresh
// callsign cache, and no AP hints, logger, or metrics configured.
func New(cfg DecoderConfig) *Orchestrator {
	return &Orchestrator{Config: cfg, Cache: callsign.NewCache()}
}

// Decode runs the full pipeline over a 15-second, 12kHz mono signal,
// invoking sink once per unique decoded message in candidate-priority
// order. It returns only structural errors (e.g. a malformed signal);
// per-candidate decode failures are swallowed per §7's propagation policy.
func (o *Orchestrator) Decode(signal []float64, sink Sink) error {
	spec, err := spectrogram.Compute(signal)
	if err != nil {
		return errors.Wrap(err, "decoder: compute spectrogram")
	}

	binLo := spectrogram.BinForFrequency(o.Config.FreqMinHz)
	binHi := spectrogram.BinForFrequency(o.Config.FreqMaxHz)
	surf := syncpkg.ComputeSurface(spec, binLo, binHi)
	candidates := syncpkg.FindCandidates(surf, o.Config.SyncThreshold, o.Config.MaxCandidates)
	o.Metrics.addCandidates(len(candidates))
	if len(candidates) == 0 {
		return nil
	}

	topN := candidates
	if len(topN) > o.Config.DecodeTopN {
		topN = topN[:o.Config.DecodeTopN]
	}

	// Per-candidate work is embarrassingly parallel (§5); results land in
	// an index-aligned slice so write-back below stays deterministic
	// regardless of goroutine completion order.
	results := make([]*Message, len(topN))
	var wg sync.WaitGroup
	for i, cand := range topN {
		wg.Add(1)
		go func(i int, cand syncpkg.Candidate) {
			defer wg.Done()
			results[i] = o.decodeCandidate(signal, cand)
		}(i, cand)
	}
	wg.Wait()

	for _, m := range dedupOrdered(results) {
		o.Metrics.observeDecodeSuccess(m.LDPCIterations)
		if !sink(m) {
			break
		}
	}
	return nil
}

// dedupOrdered drops nil entries and duplicate message text from results,
// preserving the input order (candidate-index, i.e. coarse-sync priority)
// so callers see a deterministic, non-wall-clock-ordered sequence (§5).
func dedupOrdered(results []*Message) []Message {
	seen := make(map[string]bool, len(results))
	var out []Message
	for _, m := range results {
		if m == nil || seen[m.Text] {
			continue
		}
		seen[m.Text] = true
		out = append(out, *m)
	}
	return out
}

// decodeCandidate runs fine sync, LLR extraction, and BP/OSD decode for one
// coarse-sync candidate, returning nil if every attempt fails.
func (o *Orchestrator) decodeCandidate(signal []float64, cand syncpkg.Candidate) *Message {
	baseband, sampleRate := syncpkg.ExtractBaseband(signal, cand.FrequencyHz, waveform.ToneSpacing)
	nsps := roundInt(sampleRate * symbolPeriodS)
	if nsps <= 0 {
		return nil
	}

	refined := syncpkg.RefineCandidate(baseband, float64(nsps), sampleRate)
	startOffset := roundInt((cand.TimeOffsetS + refined.TimeOffsetS + 0.5) * sampleRate)

	for _, nsym := range []int{1, 2, 3} {
		corrected := baseband
		if nsym >= 2 && refined.FreqOffset != 0 {
			corrected = make([]complex128, len(baseband))
			copy(corrected, baseband)
			syncpkg.ApplyPhaseCorrection(corrected, refined.FreqOffset, sampleRate)
		}

		bits, err := llr.Extract(corrected, startOffset, nsps, nsym)
		if err != nil {
			o.logDebug("llr extract failed", "freq", cand.FrequencyHz, "nsym", nsym, "err", err)
			continue
		}

		for _, scale := range DefaultLLRScales {
			scaled := scaleLLR(bits, scale)
			if msg := o.tryBP(scaled, cand, scale, nsym); msg != nil {
				return msg
			}
			if apMsg := o.tryAPPasses(scaled, cand, scale, nsym); apMsg != nil {
				return apMsg
			}
		}

		if nsym == 1 {
			if msg := o.tryOSD(bits, cand, nsym); msg != nil {
				return msg
			}
		}
	}
	return nil
}

// tryBP runs a single (nsym, scale) belief-propagation attempt and unpacks
// the result on success.
func (o *Orchestrator) tryBP(llrBits []float64, cand syncpkg.Candidate, scale float64, nsym int) *Message {
	res, ok := ldpc.Decode(llrBits, maxBPIterations)
	if !ok {
		return nil
	}
	return o.toMessage(res, cand, scale, nsym)
}

// tryAPPasses re-runs BP once per configured a-priori hint pass, each time
// forcing the hinted bits to their expected values before decoding.
func (o *Orchestrator) tryAPPasses(llrBits []float64, cand syncpkg.Candidate, scale float64, nsym int) *Message {
	if o.AP == nil {
		return nil
	}
	for _, passType := range o.AP.Passes() {
		hints, ok := o.AP.Generate(passType)
		if !ok {
			continue
		}
		forced := make([]float64, len(llrBits))
		copy(forced, llrBits)
		for i, on := range hints.Mask {
			if on {
				forced[i] = hints.LLR[i]
			}
		}
		if msg := o.tryBP(forced, cand, scale, nsym); msg != nil {
			return msg
		}
	}
	return nil
}

// tryOSD falls back to ordered-statistics decoding for nsym=1 extractions
// that blind BP never converged on, across a small set of rescalings.
func (o *Orchestrator) tryOSD(llrBits []float64, cand syncpkg.Candidate, nsym int) *Message {
	for _, scale := range osdFallbackScales {
		scaled := scaleLLR(llrBits, scale)
		for _, order := range ldpc.OSDOrders {
			res, ok := ldpc.OSDDecode(scaled, order)
			if !ok {
				continue
			}
			if msg := o.toMessage(res, cand, scale, nsym); msg != nil {
				return msg
			}
		}
	}
	return nil
}

// toMessage validates a converged LDPC result's CRC-protected payload,
// unpacks it to text, and builds the reported Message.
func (o *Orchestrator) toMessage(res ldpc.Result, cand syncpkg.Candidate, scale float64, nsym int) *Message {
	if !crc.Check(res.Message91) {
		return nil
	}
	variant, err := message.Unpack(res.Message91[:crc.PayloadBits], o.Cache)
	if err != nil {
		return nil
	}
	text, err := variant.Text()
	if err != nil || text == "" {
		return nil
	}
	return &Message{
		Text:           text,
		FrequencyHz:    cand.FrequencyHz,
		TimeOffsetS:    cand.TimeOffsetS,
		SyncPower:      cand.SyncPower,
		SNRDB:          snrEstimate(cand.SyncPower),
		LDPCIterations: res.Iterations,
		LLRScale:       scale,
		Nsym:           nsym,
	}
}

// snrEstimate converts a normalized sync power to an approximate SNR in
// decibels, per the result sink contract in §6.
func snrEstimate(syncPower float64) float64 {
	if syncPower <= 0 {
		return negativeInfinityDB
	}
	return 10*math.Log10(syncPower) - 30
}

// negativeInfinityDB stands in for an SNR estimate on a non-positive sync
// power, which log10 cannot represent; such candidates should already have
// been filtered by the sync threshold, so this is a defensive floor only.
const negativeInfinityDB = -999

func scaleLLR(llrBits []float64, scale float64) []float64 {
	scaled := make([]float64, len(llrBits))
	for i, v := range llrBits {
		scaled[i] = v * scale
	}
	return scaled
}

func roundInt(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func (o *Orchestrator) logDebug(msg string, keyvals ...interface{}) {
	if o.Logger == nil {
		return
	}
	o.Logger.Debug(msg, keyvals...)
}
