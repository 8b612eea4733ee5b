package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/api/chat"
	"github.com/fatmaabchouk/portfolio-assistant/internal/api/middleware"
	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	RequestTimeout time.Duration
	Logger         *zap.Logger
	// TracingService names the server spans; empty disables request tracing
	TracingService string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	chatService *service.ChatService,
	diagnosticService *service.DiagnosticService,
	cfg RouterConfig,
) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.Error("Panic while handling request", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   "Désolé, une erreur s'est produite. Veuillez réessayer.",
			Details: fmt.Sprint(recovered),
		})
	}))
	if cfg.TracingService != "" {
		r.Use(otelgin.Middleware(cfg.TracingService))
	}
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(logger.Named("http")))

	// CORS middleware
	r.Use(middleware.CORS())
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	chatHandler := chat.NewHandler(chatService, diagnosticService, logger)
	r.Use(chatHandler.InterceptDiagnostics())

	// Chat API, also under the hosted functions prefix
	chatHandler.RegisterRoutes(r.Group("/chat"))
	chatHandler.RegisterRoutes(r.Group("/functions/v1/chat"))

	return r
}
