package chat

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/api/middleware"
	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/service"
)

// DiagnosticMarker routes any request whose path contains it to the store check
const DiagnosticMarker = "/test-db"

// User-facing error messages
const (
	msgEmptyMessage = "Le message ne peut pas être vide"
	msgServerError  = "Désolé, une erreur s'est produite. Veuillez réessayer."
)

// Handler handles chat API requests
type Handler struct {
	chatService       *service.ChatService
	diagnosticService *service.DiagnosticService
	logger            *zap.Logger
}

// NewHandler creates a new chat handler
func NewHandler(chatService *service.ChatService, diagnosticService *service.DiagnosticService, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		chatService:       chatService,
		diagnosticService: diagnosticService,
		logger:            logger.Named("api"),
	}
}

// RegisterRoutes registers chat routes
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("", h.Chat)
	r.OPTIONS("", h.Preflight)
}

// Preflight answers OPTIONS requests that carry no Origin header
func (h *Handler) Preflight(c *gin.Context) {
	middleware.SetPreflightHeaders(c)
	c.Status(http.StatusOK)
}

// Chat handles a chat message
func (h *Handler) Chat(c *gin.Context) {
	var req domain.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Info("Invalid chat request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: msgEmptyMessage})
		return
	}
	if req.Message == nil || strings.TrimSpace(*req.Message) == "" {
		c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: msgEmptyMessage})
		return
	}

	resp, err := h.chatService.Chat(c.Request.Context(), *req.Message)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			c.JSON(http.StatusBadRequest, domain.ErrorResponse{Error: msgEmptyMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, domain.ErrorResponse{
			Error:   msgServerError,
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Diagnostic reports whether the knowledge store can be read back
func (h *Handler) Diagnostic(c *gin.Context) {
	c.JSON(http.StatusOK, h.diagnosticService.CheckStore(c.Request.Context()))
}

// InterceptDiagnostics serves the store check for any path containing
// DiagnosticMarker, whatever the method.
func (h *Handler) InterceptDiagnostics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.Request.URL.Path, DiagnosticMarker) {
			c.Next()
			return
		}
		h.Diagnostic(c)
		c.Abort()
	}
}
