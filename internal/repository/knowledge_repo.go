package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
)

// KnowledgeRepository handles knowledge section persistence in sqlite
type KnowledgeRepository struct {
	db *DB
}

// NewKnowledgeRepository creates a new knowledge repository
func NewKnowledgeRepository(db *DB) *KnowledgeRepository {
	return &KnowledgeRepository{db: db}
}

// ListSections retrieves all sections ordered by section name
func (r *KnowledgeRepository) ListSections(ctx context.Context) ([]domain.KnowledgeSection, error) {
	return r.query(ctx, `SELECT section, content FROM portfolio_data ORDER BY section`)
}

// SampleSections retrieves at most limit sections
func (r *KnowledgeRepository) SampleSections(ctx context.Context, limit int) ([]domain.KnowledgeSection, error) {
	return r.query(ctx, `SELECT section, content FROM portfolio_data ORDER BY section LIMIT ?`, limit)
}

func (r *KnowledgeRepository) query(ctx context.Context, q string, args ...any) ([]domain.KnowledgeSection, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []domain.KnowledgeSection
	for rows.Next() {
		var s domain.KnowledgeSection
		if err := rows.Scan(&s.Section, &s.Content); err != nil {
			return nil, err
		}
		sections = append(sections, s)
	}

	return sections, rows.Err()
}

// UpsertSections inserts or replaces sections in one transaction
func (r *KnowledgeRepository) UpsertSections(ctx context.Context, sections []domain.KnowledgeSection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	for _, s := range sections {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO portfolio_data (section, content, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(section) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at
		`, s.Section, s.Content, now); err != nil {
			return fmt.Errorf("failed to upsert section %q: %w", s.Section, err)
		}
	}

	return tx.Commit()
}

// Ping checks the database connection
func (r *KnowledgeRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database
func (r *KnowledgeRepository) Close() error {
	return r.db.Close()
}
