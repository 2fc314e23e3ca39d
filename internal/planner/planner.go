// Package planner composes the policy set, the effect registry, the variation
// sampler and the session history into transformation plans. Build is the
// single externally callable entry point of the planning core.
package planner

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/history"
	"github.com/lukaigt/MediaMorph/internal/metrics"
	"github.com/lukaigt/MediaMorph/internal/policy"
	"github.com/lukaigt/MediaMorph/internal/registry"
	"github.com/lukaigt/MediaMorph/internal/sampler"
)

// ErrNoEligibleEffect is returned when a required category has no effects
// compatible with the requested media kind.
var ErrNoEligibleEffect = errors.New("no eligible effect")

// Builder builds transformation plans.
type Builder struct {
	registry *registry.Registry
	policies *policy.Set
	sampler  *sampler.Sampler
	history  *history.History
	logger   *zap.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// New wires a builder from its collaborators. A nil rng gets seeded from the
// wall clock.
func New(reg *registry.Registry, policies *policy.Set, smp *sampler.Sampler, hist *history.History, rng *rand.Rand, logger *zap.Logger) *Builder {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Builder{
		registry: reg,
		policies: policies,
		sampler:  smp,
		history:  hist,
		logger:   logger.Named("planner"),
		rng:      rng,
	}
}

// Build produces an ordered plan for the given platform, session and media
// kind. The plan's category order matches the policy's required sequence
// verbatim. Session history is the only side effect, and it is touched only
// after every category has been verified to have eligible candidates, so a
// failed Build never mutates history.
func (b *Builder) Build(platform, session string, kind schemas.MediaKind, now time.Time) (*schemas.TransformationPlan, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unsupported media kind %q", kind)
	}

	pol, err := b.policies.PolicyFor(platform)
	if err != nil {
		return nil, err
	}

	// Resolve candidates for every category up front.
	candidates := make([][]schemas.EffectSpec, len(pol.RequiredSequence))
	for i, req := range pol.RequiredSequence {
		eligible := filterByKind(b.registry.Lookup(req.Category), kind)
		if len(eligible) == 0 {
			return nil, fmt.Errorf("%w: category %q for media kind %q", ErrNoEligibleEffect, req.Category, kind)
		}
		candidates[i] = eligible
	}

	sess := b.history.Acquire(session, now)
	defer sess.Release()

	var steps []schemas.PlanStep
	for i, req := range pol.RequiredSequence {
		for _, spec := range b.pick(candidates[i], req) {
			var lastVec schemas.ParamVector
			var lastAt time.Time
			if last, ok := sess.Get(spec.Name); ok {
				lastVec, lastAt = last.Vector, last.At
			}
			vec := b.sampler.Sample(spec, lastVec, lastAt, now)
			sess.RecordEmission(spec.Name, vec, now)
			steps = append(steps, schemas.PlanStep{Effect: spec.Name, Params: vec})
		}
	}

	plan := &schemas.TransformationPlan{
		ID:       uuid.NewString(),
		Platform: platform,
		Session:  session,
		Media:    kind,
		BuiltAt:  now,
		Steps:    steps,
	}
	metrics.PlansBuilt.WithLabelValues(platform).Inc()
	b.logger.Debug("plan built",
		zap.String("plan_id", plan.ID),
		zap.String("platform", platform),
		zap.String("session", session),
		zap.Int("steps", len(steps)))
	return plan, nil
}

// pick selects the requirement's effect count uniformly in [min, max] and
// chooses that many candidates without replacement. A pool smaller than the
// drawn count yields the whole pool: the policy asks for variety, and a thin
// registry should not fail a build that has at least one eligible effect.
func (b *Builder) pick(pool []schemas.EffectSpec, req schemas.CategoryRequirement) []schemas.EffectSpec {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := req.Min
	if req.Max > req.Min {
		count += b.rng.Intn(req.Max - req.Min + 1)
	}
	if count > len(pool) {
		count = len(pool)
	}

	picked := make([]schemas.EffectSpec, 0, count)
	for _, idx := range b.rng.Perm(len(pool))[:count] {
		picked = append(picked, pool[idx])
	}
	return picked
}

func filterByKind(specs []schemas.EffectSpec, kind schemas.MediaKind) []schemas.EffectSpec {
	out := specs[:0:0]
	for _, spec := range specs {
		if spec.AppliesTo(kind) {
			out = append(out, spec)
		}
	}
	return out
}
