package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
)

// PostgresKnowledgeRepository reads knowledge sections from a Postgres
// database, such as the one behind a hosted Supabase project.
type PostgresKnowledgeRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresKnowledgeRepository connects to the database at url. A non-empty
// serviceKey replaces the password of the connection string.
func NewPostgresKnowledgeRepository(ctx context.Context, url, serviceKey string) (*PostgresKnowledgeRepository, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if serviceKey != "" {
		cfg.ConnConfig.Password = serviceKey
	}
	cfg.MaxConns = 4
	cfg.ConnConfig.ConnectTimeout = 5 * time.Second

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &PostgresKnowledgeRepository{pool: pool}, nil
}

// EnsureSchema creates the portfolio_data table when missing
func (r *PostgresKnowledgeRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS portfolio_data (
			section TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			updated_at TIMESTAMPTZ DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// ListSections retrieves all sections ordered by section name
func (r *PostgresKnowledgeRepository) ListSections(ctx context.Context) ([]domain.KnowledgeSection, error) {
	return r.query(ctx, `SELECT section, content FROM portfolio_data ORDER BY section`)
}

// SampleSections retrieves at most limit sections
func (r *PostgresKnowledgeRepository) SampleSections(ctx context.Context, limit int) ([]domain.KnowledgeSection, error) {
	return r.query(ctx, `SELECT section, content FROM portfolio_data ORDER BY section LIMIT $1`, limit)
}

func (r *PostgresKnowledgeRepository) query(ctx context.Context, q string, args ...any) ([]domain.KnowledgeSection, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.KnowledgeSection, error) {
		var s domain.KnowledgeSection
		err := row.Scan(&s.Section, &s.Content)
		return s, err
	})
}

// UpsertSections inserts or replaces sections in one transaction
func (r *PostgresKnowledgeRepository) UpsertSections(ctx context.Context, sections []domain.KnowledgeSection) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, s := range sections {
		batch.Queue(`
			INSERT INTO portfolio_data (section, content, updated_at)
			VALUES ($1, $2, now())
			ON CONFLICT (section) DO UPDATE SET content = EXCLUDED.content, updated_at = now()
		`, s.Section, s.Content)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to upsert sections: %w", err)
	}

	return tx.Commit(ctx)
}

// Ping checks the database connection
func (r *PostgresKnowledgeRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool
func (r *PostgresKnowledgeRepository) Close() error {
	r.pool.Close()
	return nil
}
