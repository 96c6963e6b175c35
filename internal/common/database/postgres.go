package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"qscore-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// HistorySchema creates the score history table and the indexes the
// percentile cohort and latest-score lookups rely on.
const HistorySchema = `
CREATE TABLE IF NOT EXISTS qscore_history (
	id                   UUID PRIMARY KEY,
	user_id              TEXT NOT NULL,
	overall_score        INTEGER NOT NULL CHECK (overall_score BETWEEN 0 AND 100),
	percentile           INTEGER,
	grade                TEXT NOT NULL,
	market_score         INTEGER NOT NULL,
	product_score        INTEGER NOT NULL,
	gtm_score            INTEGER NOT NULL,
	financial_score      INTEGER NOT NULL,
	team_score           INTEGER NOT NULL,
	traction_score       INTEGER NOT NULL,
	data_source          TEXT NOT NULL DEFAULT 'assessment',
	source_artifact_type TEXT,
	previous_score_id    UUID,
	calculated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_qscore_history_user_calculated
	ON qscore_history (user_id, calculated_at DESC);
CREATE UNIQUE INDEX IF NOT EXISTS idx_qscore_history_artifact_boost
	ON qscore_history (user_id, source_artifact_type)
	WHERE data_source = 'agent_completion';
`

type PostgresClient struct {
	DB *sql.DB
}

func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxConnections)
	db.SetMaxIdleConns(cfg.MaxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func (c *PostgresClient) Ping(ctx context.Context) error {
	return c.DB.PingContext(ctx)
}

// EnsureSchema applies HistorySchema. Every statement is idempotent.
func (c *PostgresClient) EnsureSchema(ctx context.Context) error {
	if _, err := c.DB.ExecContext(ctx, HistorySchema); err != nil {
		return fmt.Errorf("apply qscore_history schema: %w", err)
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

func (c *PostgresClient) GetDB() *sql.DB {
	return c.DB
}
