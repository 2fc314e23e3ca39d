// Package store is the optional Postgres plan archive. It is write-mostly
// bookkeeping for audit and inspection; the planner never reads it back and
// the anti-repeat memory stays in-process.
package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/lukaigt/MediaMorph/api/schemas"
)

// DBPool abstracts pgxpool.Pool so tests can substitute a mock.
type DBPool interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store provides the PostgreSQL plan archive.
type Store struct {
	pool DBPool
	log  *zap.Logger
}

// New creates a store instance and verifies the connection.
func New(ctx context.Context, pool DBPool, logger *zap.Logger) (*Store, error) {
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &Store{
		pool: pool,
		log:  logger.Named("store"),
	}, nil
}

const createSchemaSQL = `
	CREATE TABLE IF NOT EXISTS plans (
		id UUID PRIMARY KEY,
		platform TEXT NOT NULL,
		session_id TEXT NOT NULL,
		media TEXT NOT NULL,
		steps JSONB NOT NULL,
		built_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS plans_session_idx ON plans (session_id, built_at DESC);
`

// Init creates the archive schema if it does not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createSchemaSQL); err != nil {
		return fmt.Errorf("failed to create plan archive schema: %w", err)
	}
	return nil
}

const insertPlanSQL = `
	INSERT INTO plans (id, platform, session_id, media, steps, built_at)
	VALUES ($1, $2, $3, $4, $5, $6);
`

// SavePlan archives one finished plan. Steps go in as jsonb so ad hoc queries
// can dig into individual effects and parameters.
func (s *Store) SavePlan(ctx context.Context, plan *schemas.TransformationPlan) error {
	steps, err := json.Marshal(plan.Steps)
	if err != nil {
		return fmt.Errorf("failed to encode plan steps: %w", err)
	}
	if _, err := s.pool.Exec(ctx, insertPlanSQL,
		plan.ID, plan.Platform, plan.Session, string(plan.Media), steps, plan.BuiltAt); err != nil {
		return fmt.Errorf("failed to insert plan %s: %w", plan.ID, err)
	}
	s.log.Debug("plan archived", zap.String("plan_id", plan.ID))
	return nil
}

const selectPlansSQL = `
	SELECT id, platform, media, steps, built_at
	FROM plans
	WHERE session_id = $1
	ORDER BY built_at DESC
	LIMIT $2;
`

// PlansForSession returns the most recent archived plans for a session,
// newest first.
func (s *Store) PlansForSession(ctx context.Context, session string, limit int) ([]schemas.TransformationPlan, error) {
	rows, err := s.pool.Query(ctx, selectPlansSQL, session, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var plans []schemas.TransformationPlan
	for rows.Next() {
		var (
			p        schemas.TransformationPlan
			media    string
			rawSteps []byte
		)
		if err := rows.Scan(&p.ID, &p.Platform, &media, &rawSteps, &p.BuiltAt); err != nil {
			return nil, fmt.Errorf("failed to scan plan row: %w", err)
		}
		if err := json.Unmarshal(rawSteps, &p.Steps); err != nil {
			return nil, fmt.Errorf("failed to decode steps for plan %s: %w", p.ID, err)
		}
		p.Media = schemas.MediaKind(media)
		p.Session = session
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}
	return plans, nil
}
