package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
)

// diagnosticSampleSize is how many rows the store check reads back
const diagnosticSampleSize = 5

// DiagnosticService confirms the knowledge store can be read
type DiagnosticService struct {
	store  knowledge.Store
	logger *zap.Logger
}

// NewDiagnosticService creates a new diagnostic service. store may be nil.
func NewDiagnosticService(store knowledge.Store, logger *zap.Logger) *DiagnosticService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticService{store: store, logger: logger.Named("diagnostic")}
}

// CheckStore reads a few rows back from the store
func (s *DiagnosticService) CheckStore(ctx context.Context) *domain.DiagnosticReport {
	if s.store == nil {
		return &domain.DiagnosticReport{
			Success: false,
			Data:    []domain.KnowledgeSection{},
			Error:   domain.ErrStoreUnavailable.Error(),
			Message: "Database connection failed",
		}
	}

	data, err := s.store.SampleSections(ctx, diagnosticSampleSize)
	if err != nil {
		s.logger.Warn("Store check failed", zap.Error(err))
		return &domain.DiagnosticReport{
			Success: false,
			Data:    []domain.KnowledgeSection{},
			Error:   err.Error(),
			Message: "Database connection failed",
		}
	}
	if data == nil {
		data = []domain.KnowledgeSection{}
	}

	s.logger.Info("Store check succeeded", zap.Int("rows", len(data)))
	return &domain.DiagnosticReport{
		Success: true,
		Data:    data,
		Message: "Database connection successful",
	}
}
