package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
	"github.com/fatmaabchouk/portfolio-assistant/internal/language"
	"github.com/fatmaabchouk/portfolio-assistant/internal/llm"
	"github.com/fatmaabchouk/portfolio-assistant/internal/prompt"
	"github.com/fatmaabchouk/portfolio-assistant/internal/reply"
)

// maxLoggedMessage bounds how much of a user message is logged
const maxLoggedMessage = 200

// ChatService turns one user message into one generated reply
type ChatService struct {
	loader    *knowledge.Loader
	builder   *prompt.Builder
	generator llm.Generator
	profile   language.Profile
	logger    *zap.Logger
}

// NewChatService creates a new chat service
func NewChatService(
	loader *knowledge.Loader,
	builder *prompt.Builder,
	generator llm.Generator,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		loader:    loader,
		builder:   builder,
		generator: generator,
		profile:   language.Server,
		logger:    logger.Named("chat"),
	}
}

// GenerationError wraps a failure of the generation step
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Chat answers message. A blank message returns domain.ErrInvalidRequest
// before the store or the generator is touched.
func (s *ChatService) Chat(ctx context.Context, message string) (*domain.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		s.logger.Info("Rejected empty message")
		return nil, fmt.Errorf("%w: message must not be empty", domain.ErrInvalidRequest)
	}
	start := time.Now()
	s.logger.Info("Message received", zap.String("message", truncate(message, maxLoggedMessage)))

	lang := language.Detect(message, s.profile)
	s.logger.Info("Language detected", zap.Stringer("language", lang))

	res := s.loader.Load(ctx)
	s.logger.Info("Knowledge loaded",
		zap.Int("sections", len(res.Sections)),
		zap.Bool("fallback", res.Fallback),
	)

	promptContext := s.builder.Context(lang, res.Sections)
	fullPrompt := s.builder.Prompt(promptContext, message, lang)

	answer, err := s.generator.Generate(ctx, fullPrompt)
	if err != nil {
		s.logger.Error("Reply generation failed", zap.Stringer("language", lang), zap.Error(err))
		return nil, &GenerationError{Err: err}
	}

	s.logger.Info("Reply generated",
		zap.Stringer("language", lang),
		zap.Duration("took", time.Since(start)),
	)
	return &domain.ChatResponse{
		Reply:          answer,
		Language:       lang.String(),
		HasContactInfo: reply.HasContactInfo(answer),
	}, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
