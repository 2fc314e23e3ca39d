package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lukaigt/MediaMorph/internal/config"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.NotEmpty(t, cfg.Effects)
	assert.NotEmpty(t, cfg.Policies)
}

func TestSetDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)

	var cfg config.Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 10*time.Minute, cfg.Planner.Window)
	assert.Equal(t, 0.05, cfg.Planner.Tolerance)
	assert.Equal(t, 8, cfg.Planner.RetryBudget)
	assert.Equal(t, 0.08, cfg.Planner.MinOffset)
	assert.Equal(t, 4, cfg.Planner.SweepBatch)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "mediamorph", cfg.Logger.ServiceName)
}

func TestApplyBuiltins(t *testing.T) {
	var cfg config.Config
	cfg.ApplyBuiltins()
	assert.NotEmpty(t, cfg.Effects)
	assert.NotEmpty(t, cfg.Policies)

	// Explicit configuration wins over the builtins.
	custom := config.NewDefaultConfig()
	custom.Effects = custom.Effects[:1]
	custom.ApplyBuiltins()
	assert.Len(t, custom.Effects, 1)
}

func TestValidateRejectsBadTunables(t *testing.T) {
	mutate := func(f func(*config.Config)) *config.Config {
		cfg := config.NewDefaultConfig()
		f(cfg)
		return cfg
	}

	cases := []struct {
		name string
		cfg  *config.Config
	}{
		{"zero window", mutate(func(c *config.Config) { c.Planner.Window = 0 })},
		{"negative tolerance", mutate(func(c *config.Config) { c.Planner.Tolerance = -0.1 })},
		{"tolerance of one", mutate(func(c *config.Config) { c.Planner.Tolerance = 1 })},
		{"negative retry budget", mutate(func(c *config.Config) { c.Planner.RetryBudget = -1 })},
		{"zero min offset", mutate(func(c *config.Config) { c.Planner.MinOffset = 0 })},
		{"min offset of one", mutate(func(c *config.Config) { c.Planner.MinOffset = 1 })},
		{"zero sweep batch", mutate(func(c *config.Config) { c.Planner.SweepBatch = 0 })},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.cfg.Validate())
		})
	}
}

func TestBuiltinEffectsCoverPolicyCategories(t *testing.T) {
	cfg := config.NewDefaultConfig()

	byCategory := make(map[string]int)
	for _, spec := range cfg.Effects {
		byCategory[string(spec.Category)]++
	}
	for _, pol := range cfg.Policies {
		for _, req := range pol.RequiredSequence {
			assert.Positivef(t, byCategory[string(req.Category)],
				"policy %s requires category %s with no builtin effects", pol.Platform, req.Category)
		}
	}
}
