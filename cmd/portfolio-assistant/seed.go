package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
	"github.com/fatmaabchouk/portfolio-assistant/internal/repository"
)

var seedCmd = &cobra.Command{
	Use:   "seed [file]",
	Short: "Write knowledge sections into the store",
	Long: `Upsert the sections of a knowledge base YAML document into the
configured store. Without a file the bundled knowledge base is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSeed,
}

// schemaEnsurer is implemented by stores that do not migrate on open
type schemaEnsurer interface {
	EnsureSchema(ctx context.Context) error
}

func runSeed(cmd *cobra.Command, args []string) error {
	base := knowledge.Default()
	if len(args) == 1 {
		var err error
		base, err = knowledge.LoadFile(args[0])
		if err != nil {
			return err
		}
	}

	n, err := seed(cmd.Context(), cfg, base, logger)
	if err != nil {
		return err
	}

	logger.Info("Knowledge store seeded",
		zap.String("driver", cfg.Database.Driver),
		zap.Int("version", base.Version),
		zap.Int("sections", n),
	)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d sections\n", n)
	return nil
}

func seed(ctx context.Context, cfg *config.Config, base *knowledge.Base, logger *zap.Logger) (int, error) {
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		return 0, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	if s, ok := store.(schemaEnsurer); ok {
		if err := s.EnsureSchema(ctx); err != nil {
			store.Close()
			return 0, err
		}
	}

	// through the cache so a cached section list is invalidated
	store = withCache(ctx, store, cfg.Cache, logger)
	defer store.Close()

	if err := store.UpsertSections(ctx, base.Sections); err != nil {
		return 0, err
	}
	return len(base.Sections), nil
}
