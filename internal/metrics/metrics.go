// Package metrics exposes Prometheus instrumentation for the planning core.
// Collectors are registered with the default registry at init time; binaries
// that never scrape them pay only the counter increments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlansBuilt counts finished plans per platform.
	PlansBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mediamorph",
		Subsystem: "planner",
		Name:      "plans_built_total",
		Help:      "Transformation plans built, by platform.",
	}, []string{"platform"})

	// SamplerCollisions counts candidate vectors rejected for being within
	// tolerance of a session's previous emission.
	SamplerCollisions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediamorph",
		Subsystem: "sampler",
		Name:      "collisions_total",
		Help:      "Candidate parameter vectors rejected as repeats.",
	})

	// ForcedPerturbations counts samples that exhausted the retry budget and
	// fell back to the deterministic minimum-offset perturbation.
	ForcedPerturbations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediamorph",
		Subsystem: "sampler",
		Name:      "forced_perturbations_total",
		Help:      "Samples that exhausted the resample budget.",
	})

	// HistoryEvictions counts session records dropped by the lazy sweep.
	HistoryEvictions = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mediamorph",
		Subsystem: "history",
		Name:      "evictions_total",
		Help:      "Session records evicted after the inactivity window.",
	})
)
