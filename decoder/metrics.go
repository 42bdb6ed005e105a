/*
NAME
  metrics.go

DESCRIPTION
  metrics.go wires optional Prometheus counters/histograms into the
  orchestrator: candidates found, BP iterations spent, decode successes -
  nil-safe the same way Orchestrator.Logger is, so a caller that doesn't
  want metrics never has to construct one.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package decoder

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the orchestrator's optional Prometheus collectors. A nil
// *Metrics is valid everywhere it's used; every method on it is a no-op in
// that case.
type Metrics struct {
	candidatesFound prometheus.Counter
	decodeSuccesses prometheus.Counter
	bpIterations    prometheus.Histogram
}

// NewMetrics constructs a Metrics instance and registers its collectors
// against reg (typically prometheus.DefaultRegisterer, or a fresh registry
// in a test).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		candidatesFound: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ft8_decoder_candidates_found_total",
			Help: "Number of coarse-sync candidates found per decode call.",
		}),
		decodeSuccesses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ft8_decoder_decode_successes_total",
			Help: "Number of candidates that produced a unique decoded message.",
		}),
		bpIterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ft8_decoder_bp_iterations",
			Help:    "Belief-propagation iterations spent on successful decodes.",
			Buckets: prometheus.LinearBuckets(0, 20, 10),
		}),
	}
	reg.MustRegister(m.candidatesFound, m.decodeSuccesses, m.bpIterations)
	return m
}

func (m *Metrics) addCandidates(n int) {
	if m == nil {
		return
	}
	m.candidatesFound.Add(float64(n))
}

func (m *Metrics) observeDecodeSuccess(iterations int) {
	if m == nil {
		return
	}
	m.decodeSuccesses.Inc()
	m.bpIterations.Observe(float64(iterations))
}
