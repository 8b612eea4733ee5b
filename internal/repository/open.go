package repository

import (
	"context"
	"fmt"

	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
)

// Open opens the knowledge store selected by cfg.Driver.
// The "none" driver returns domain.ErrStoreUnavailable.
func Open(ctx context.Context, cfg config.DatabaseConfig) (knowledge.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		db, err := NewDB(cfg.Path)
		if err != nil {
			return nil, err
		}
		return NewKnowledgeRepository(db), nil
	case config.DriverPostgres:
		return NewPostgresKnowledgeRepository(ctx, cfg.URL, cfg.ServiceKey)
	case config.DriverNone:
		return nil, domain.ErrStoreUnavailable
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.Driver)
	}
}

// Compile-time interface checks
var (
	_ knowledge.Store = (*KnowledgeRepository)(nil)
	_ knowledge.Store = (*PostgresKnowledgeRepository)(nil)
)
