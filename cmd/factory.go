package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/internal/config"
	"github.com/lukaigt/MediaMorph/internal/history"
	"github.com/lukaigt/MediaMorph/internal/planner"
	"github.com/lukaigt/MediaMorph/internal/policy"
	"github.com/lukaigt/MediaMorph/internal/registry"
	"github.com/lukaigt/MediaMorph/internal/sampler"
	"github.com/lukaigt/MediaMorph/internal/store"
)

// Components is the wired object graph behind every subcommand.
type Components struct {
	Registry *registry.Registry
	Policies *policy.Set
	History  *history.History
	Planner  *planner.Builder
	// Store is nil when no archive URL is configured.
	Store *store.Store

	pool *pgxpool.Pool
}

// NewComponents builds the component graph from the loaded configuration.
func NewComponents(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Components, error) {
	policies, err := policy.New(cfg.Policies)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform policies: %w", err)
	}

	reg, err := registry.New(cfg.Effects, policies.All(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize effect registry: %w", err)
	}

	// rand.Rand is not safe for concurrent use, and the sampler and the
	// builder lock their generators independently, so each gets its own.
	var samplerRNG, builderRNG *rand.Rand
	if cfg.Planner.Seed != 0 {
		samplerRNG = rand.New(rand.NewSource(cfg.Planner.Seed))
		builderRNG = rand.New(rand.NewSource(cfg.Planner.Seed + 1))
	}

	smp := sampler.New(sampler.Config{
		Window:      cfg.Planner.Window,
		Tolerance:   cfg.Planner.Tolerance,
		RetryBudget: cfg.Planner.RetryBudget,
		MinOffset:   cfg.Planner.MinOffset,
	}, samplerRNG, logger)

	hist := history.New(history.Config{
		Window:     cfg.Planner.Window,
		SweepBatch: cfg.Planner.SweepBatch,
	}, logger)

	c := &Components{
		Registry: reg,
		Policies: policies,
		History:  hist,
		Planner:  planner.New(reg, policies, smp, hist, builderRNG, logger),
	}

	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to create database pool: %w", err)
		}
		st, err := store.New(ctx, pool, logger)
		if err != nil {
			pool.Close()
			return nil, err
		}
		if err := st.Init(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		c.Store = st
		c.pool = pool
		logger.Info("plan archive enabled")
	}

	return c, nil
}

// Close releases the database pool, if any.
func (c *Components) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// now exists so command code reads the clock in exactly one place.
func now() time.Time {
	return time.Now()
}
