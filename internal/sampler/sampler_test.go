package sampler_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
	"github.com/lukaigt/MediaMorph/internal/sampler"
)

var testConfig = sampler.Config{
	Window:      10 * time.Minute,
	Tolerance:   0.05,
	RetryBudget: 8,
	MinOffset:   0.08,
}

func newSampler(t *testing.T, cfg sampler.Config, seed int64) *sampler.Sampler {
	t.Helper()
	return sampler.New(cfg, rand.New(rand.NewSource(seed)), zap.NewNop())
}

func continuousSpec(min, max float64) schemas.EffectSpec {
	return schemas.EffectSpec{
		Name:     "testEffect",
		Category: schemas.CategoryColor,
		Media:    []schemas.MediaKind{schemas.MediaVideo},
		Parameters: []schemas.ParamSpec{
			{Name: "value", Kind: schemas.ParamContinuous, Min: min, Max: max},
		},
	}
}

func discreteSpec(choices ...string) schemas.EffectSpec {
	return schemas.EffectSpec{
		Name:     "testEffect",
		Category: schemas.CategoryColor,
		Media:    []schemas.MediaKind{schemas.MediaVideo},
		Parameters: []schemas.ParamSpec{
			{Name: "mode", Kind: schemas.ParamDiscrete, Choices: choices},
		},
	}
}

// -- Bounds --

func TestSampleStaysWithinBounds(t *testing.T) {
	s := newSampler(t, testConfig, 1)
	spec := schemas.EffectSpec{
		Name:     "mixed",
		Category: schemas.CategoryColor,
		Media:    []schemas.MediaKind{schemas.MediaVideo},
		Parameters: []schemas.ParamSpec{
			{Name: "value", Kind: schemas.ParamContinuous, Min: 1.05, Max: 1.18},
			{Name: "mode", Kind: schemas.ParamDiscrete, Choices: []string{"a", "b", "c"}},
		},
	}
	now := time.Now()

	for i := 0; i < 200; i++ {
		vec := s.Sample(spec, nil, time.Time{}, now)
		v := vec["value"]
		require.Equal(t, schemas.ParamContinuous, v.Kind)
		assert.GreaterOrEqual(t, v.Number, 1.05)
		assert.LessOrEqual(t, v.Number, 1.18)
		assert.Contains(t, []string{"a", "b", "c"}, vec["mode"].Choice)
	}
}

// -- Collision avoidance --

func TestNoBitIdenticalRepeatWithinWindow(t *testing.T) {
	s := newSampler(t, testConfig, 2)
	spec := continuousSpec(0, 1)
	now := time.Now()

	last := s.Sample(spec, nil, time.Time{}, now)
	for i := 0; i < 500; i++ {
		vec := s.Sample(spec, last, now, now)
		assert.False(t, vec.Equal(last), "iteration %d emitted a bit-identical repeat", i)
		last = vec
	}
}

func TestForcedPerturbationAfterBudget(t *testing.T) {
	// Tolerance covering the whole range makes every candidate collide, so
	// the retry budget is always exhausted and the perturbation must run.
	cfg := testConfig
	cfg.Tolerance = 1.0
	cfg.RetryBudget = 2
	s := newSampler(t, cfg, 3)
	spec := continuousSpec(0, 1)
	now := time.Now()

	last := schemas.ParamVector{"value": schemas.Num(0.5)}
	for i := 0; i < 100; i++ {
		vec := s.Sample(spec, last, now, now)
		v := vec["value"].Number
		assert.NotEqual(t, last["value"].Number, v)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
		last = vec
	}
}

func TestForcedPerturbationFlipsDiscreteChoice(t *testing.T) {
	// With two choices and no retry budget the result must always be the
	// other choice: either the draw differs, or the perturbation forces it.
	cfg := testConfig
	cfg.RetryBudget = 0
	s := newSampler(t, cfg, 4)
	spec := discreteSpec("horizontal", "vertical")
	now := time.Now()

	last := schemas.ParamVector{"mode": schemas.Choice("horizontal")}
	for i := 0; i < 50; i++ {
		vec := s.Sample(spec, last, now, now)
		assert.Equal(t, "vertical", vec["mode"].Choice)
	}
}

func TestSingleChoiceParameterCannotVary(t *testing.T) {
	// A one-choice discrete parameter has a single representable value; the
	// no-repeat guarantee explicitly does not apply to it.
	cfg := testConfig
	cfg.RetryBudget = 0
	s := newSampler(t, cfg, 5)
	spec := discreteSpec("only")
	now := time.Now()

	last := schemas.ParamVector{"mode": schemas.Choice("only")}
	vec := s.Sample(spec, last, now, now)
	assert.Equal(t, "only", vec["mode"].Choice)
}

// -- Window expiry --

func TestElapsedWindowPermitsRepeats(t *testing.T) {
	cfg := testConfig
	cfg.RetryBudget = 0
	s := newSampler(t, cfg, 6)
	spec := discreteSpec("horizontal", "vertical")
	now := time.Now()
	lastAt := now.Add(-2 * cfg.Window)

	last := schemas.ParamVector{"mode": schemas.Choice("horizontal")}
	repeated := false
	for i := 0; i < 64 && !repeated; i++ {
		vec := s.Sample(spec, last, lastAt, now)
		repeated = vec["mode"].Choice == "horizontal"
	}
	assert.True(t, repeated, "a stale emission should not suppress repeats")
}

func TestNilHistorySkipsCollisionChecks(t *testing.T) {
	s := newSampler(t, testConfig, 7)
	spec := continuousSpec(0, 1)

	vec := s.Sample(spec, nil, time.Time{}, time.Now())
	require.Contains(t, vec, "value")
}
