/*
NAME
  config.go

DESCRIPTION
  config.go defines the decoder orchestrator's tunable parameters and their
  defaults, per spec §6.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoder

// DecoderConfig bounds which frequencies the orchestrator searches and how
// many candidates it carries through to the expensive per-candidate decode
// pipeline.
type DecoderConfig struct {
	// FreqMinHz and FreqMaxHz bound the coarse-sync frequency search.
	FreqMinHz, FreqMaxHz float64
	// SyncThreshold is the minimum normalized sync score (§4.7) a candidate
	// must clear to survive coarse sync.
	SyncThreshold float64
	// MaxCandidates caps how many candidates coarse sync returns.
	MaxCandidates int
	// DecodeTopN caps how many of those candidates are actually run through
	// fine sync and LDPC decode.
	DecodeTopN int
}

// DefaultConfig returns the spec's documented defaults: 100-3000 Hz search
// band, 0.5 normalized sync threshold, up to 100 coarse candidates, the top
// 50 of which are decoded.
func DefaultConfig() DecoderConfig {
	return DecoderConfig{
		FreqMinHz:     100,
		FreqMaxHz:     3000,
		SyncThreshold: 0.5,
		MaxCandidates: 100,
		DecodeTopN:    50,
	}
}

// maxBPIterations bounds belief propagation's iteration count per
// (nsym, scale) attempt.
const maxBPIterations = 200

// DefaultLLRScales is the ordered list of scalar rescalings tried against
// each nsym's extracted LLRs before moving on to the next nsym, per §4.10.
var DefaultLLRScales = []float64{
	1.0, 1.5, 0.75, 2.0, 0.5, 1.25, 0.9, 1.1, 1.3, 1.7, 2.5, 3.0, 4.0, 5.0, 0.6, 0.8,
}

// osdFallbackScales is the small set of rescalings tried against OSD when
// BP fails to converge for nsym=1, per §4.10's "small set of rescalings as
// a fallback".
var osdFallbackScales = []float64{1.0, 0.5, 2.0}
