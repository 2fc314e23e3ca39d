// Package sampler draws concrete parameter vectors for effect specs while
// steering away from a session's recent emissions. Sampling is purely
// functional with respect to history: the caller owns recording, the sampler
// only reads the previous vector it is handed.
package sampler

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/metrics"
)

// Config holds the collision-avoidance tunables.
type Config struct {
	// Window is the inactivity window within which repeats are suppressed.
	Window time.Duration
	// Tolerance is the per-parameter repeat tolerance as a fraction of the
	// parameter's range.
	Tolerance float64
	// RetryBudget bounds resampling before the forced perturbation kicks in.
	RetryBudget int
	// MinOffset is the forced-perturbation step as a fraction of the range.
	MinOffset float64
}

// Sampler produces parameter vectors within an effect's declared bounds.
type Sampler struct {
	cfg    Config
	logger *zap.Logger

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// New creates a sampler. A nil rng gets seeded from the wall clock; tests
// inject a fixed-seed source for reproducibility.
func New(cfg Config, rng *rand.Rand, logger *zap.Logger) *Sampler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Sampler{
		cfg:    cfg,
		logger: logger.Named("sampler"),
		rng:    rng,
	}
}

// Sample draws a concrete vector for spec. If last is the vector emitted for
// this effect at lastAt and the inactivity window has not elapsed, candidates
// within tolerance of last are resampled up to the retry budget and then
// perturbed by the fixed minimum offset, so the call always terminates and
// never emits a bit-identical repeat within the window (for any parameter
// with more than one representable value).
func (s *Sampler) Sample(spec schemas.EffectSpec, last schemas.ParamVector, lastAt time.Time, now time.Time) schemas.ParamVector {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate := s.draw(spec)
	if last == nil || now.Sub(lastAt) >= s.cfg.Window {
		return candidate
	}

	for attempt := 0; attempt < s.cfg.RetryBudget; attempt++ {
		if !s.collides(spec, candidate, last) {
			return candidate
		}
		metrics.SamplerCollisions.Inc()
		candidate = s.draw(spec)
	}
	if s.collides(spec, candidate, last) {
		metrics.ForcedPerturbations.Inc()
		s.logger.Debug("resample budget exhausted, forcing perturbation",
			zap.String("effect", spec.Name))
		candidate = s.perturb(spec, candidate, last)
	}
	return candidate
}

// draw produces a uniform candidate within the spec's bounds.
func (s *Sampler) draw(spec schemas.EffectSpec) schemas.ParamVector {
	vec := make(schemas.ParamVector, len(spec.Parameters))
	for _, p := range spec.Parameters {
		switch p.Kind {
		case schemas.ParamDiscrete:
			vec[p.Name] = schemas.Choice(p.Choices[s.rng.Intn(len(p.Choices))])
		default:
			vec[p.Name] = schemas.Num(p.Min + s.rng.Float64()*p.Span())
		}
	}
	return vec
}

// collides reports whether every parameter of candidate is within tolerance
// of the stored vector: continuous parameters within Tolerance of the range
// width, discrete parameters equal. A single parameter outside tolerance is
// enough to make the vector distinct.
func (s *Sampler) collides(spec schemas.EffectSpec, candidate, last schemas.ParamVector) bool {
	for _, p := range spec.Parameters {
		c, okC := candidate[p.Name]
		l, okL := last[p.Name]
		if !okC || !okL {
			return false
		}
		if p.Kind == schemas.ParamDiscrete {
			if c.Choice != l.Choice {
				return false
			}
			continue
		}
		if diff := c.Number - l.Number; diff > s.cfg.Tolerance*p.Span() || -diff > s.cfg.Tolerance*p.Span() {
			return false
		}
	}
	return true
}

// perturb nudges each continuous parameter by the fixed minimum offset in a
// random direction (flipping at the bounds) and forces each discrete
// parameter with more than one choice onto a different value than last time.
func (s *Sampler) perturb(spec schemas.EffectSpec, candidate, last schemas.ParamVector) schemas.ParamVector {
	out := candidate.Clone()
	for _, p := range spec.Parameters {
		if p.Kind == schemas.ParamDiscrete {
			if len(p.Choices) < 2 {
				continue
			}
			prev := last[p.Name].Choice
			others := make([]string, 0, len(p.Choices)-1)
			for _, choice := range p.Choices {
				if choice != prev {
					others = append(others, choice)
				}
			}
			out[p.Name] = schemas.Choice(others[s.rng.Intn(len(others))])
			continue
		}

		offset := s.cfg.MinOffset * p.Span()
		dir := 1.0
		if s.rng.Intn(2) == 0 {
			dir = -1.0
		}
		v := out[p.Name].Number + dir*offset
		if v > p.Max || v < p.Min {
			v = out[p.Name].Number - dir*offset
		}
		v = clamp(v, p.Min, p.Max)
		// Clamping at a bound can land exactly on the stored value; step
		// back inward in that case.
		if v == last[p.Name].Number {
			v = clamp(v-dir*offset, p.Min, p.Max)
		}
		out[p.Name] = schemas.Num(v)
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
