package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fatmaabchouk/portfolio-assistant/internal/api"
	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
	"github.com/fatmaabchouk/portfolio-assistant/internal/llm"
	"github.com/fatmaabchouk/portfolio-assistant/internal/observability"
	"github.com/fatmaabchouk/portfolio-assistant/internal/prompt"
	"github.com/fatmaabchouk/portfolio-assistant/internal/repository"
	"github.com/fatmaabchouk/portfolio-assistant/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat endpoint",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

// app is the wired chat pipeline
type app struct {
	store  knowledge.Store
	router *gin.Engine
}

func (a *app) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// loadFallback returns the configured fallback knowledge base, or the
// bundled one when no path is set
func loadFallback(cfg config.KnowledgeConfig) (*knowledge.Base, error) {
	if cfg.FallbackPath == "" {
		return knowledge.Default(), nil
	}
	return knowledge.LoadFile(cfg.FallbackPath)
}

// openStore opens the knowledge store. An unreachable store is not fatal:
// chat requests are then answered from the fallback.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) knowledge.Store {
	store, err := repository.Open(ctx, cfg.Database)
	if err != nil {
		if errors.Is(err, domain.ErrStoreUnavailable) {
			logger.Info("Knowledge store disabled, using fallback knowledge base")
		} else {
			logger.Warn("Failed to open knowledge store, using fallback knowledge base",
				zap.String("driver", cfg.Database.Driver),
				zap.Error(err),
			)
		}
		return nil
	}
	return withCache(ctx, store, cfg.Cache, logger)
}

// withCache puts the Redis cache in front of store when one is configured
// and reachable
func withCache(ctx context.Context, store knowledge.Store, cfg config.CacheConfig, logger *zap.Logger) knowledge.Store {
	if cfg.RedisURL == "" {
		return store
	}
	rdb, err := repository.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn("Knowledge cache unavailable, reading the store directly", zap.Error(err))
		return store
	}
	return repository.NewCachedKnowledgeStore(store, rdb, cfg.Key, cfg.TTL, logger)
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	fallback, err := loadFallback(cfg.Knowledge)
	if err != nil {
		return nil, err
	}

	generator, err := llm.NewGeminiGenerator(ctx, cfg.Gemini, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Gemini.APIKey == "" {
		logger.Warn("GEMINI_API_KEY is not set, chat requests will fail")
	}

	store := openStore(ctx, cfg, logger)

	chatService := service.NewChatService(
		knowledge.NewLoader(store, fallback, logger),
		prompt.NewBuilder(fallback.Profile),
		generator,
		logger,
	)
	diagnosticService := service.NewDiagnosticService(store, logger)

	routerCfg := api.RouterConfig{
		RequestTimeout: cfg.Server.RequestTimeout,
		Logger:         logger,
	}
	if cfg.Tracing.Enabled {
		routerCfg.TracingService = cfg.Tracing.ServiceName
	}
	router := api.SetupRouter(chatService, diagnosticService, routerCfg)

	logger.Info("Chat pipeline ready",
		zap.Int("fallback_version", fallback.Version),
		zap.Int("fallback_sections", len(fallback.Sections)),
		zap.Bool("store", store != nil),
	)
	return &app{store: store, router: router}, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.InitTracing(ctx, cfg.Tracing, logger)
	if err != nil {
		return err
	}

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      a.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting portfolio assistant",
			zap.String("address", cfg.Address()),
			zap.String("store", cfg.Database.Driver),
			zap.String("model", cfg.Gemini.Model),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return errors.Join(srv.Shutdown(shutdownCtx), shutdownTracing(shutdownCtx))
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server exited")
	return nil
}
