// Package llm provides the text generation adapter backed by the Gemini API.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
)

const (
	defaultModel   = "gemini-2.0-flash"
	defaultTimeout = 25 * time.Second

	tracerName = "github.com/fatmaabchouk/portfolio-assistant/internal/llm"
)

var (
	// ErrAPIKeyMissing is returned when no Gemini API key is configured
	ErrAPIKeyMissing = errors.New("GEMINI_API_KEY is not configured")
	// ErrNoCandidate is returned when the response carries no usable text
	ErrNoCandidate = errors.New("no valid response from Gemini API")
)

// Generator produces a reply for a fully assembled prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type modelsClient interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

var newGenAIClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
	return genai.NewClient(ctx, cfg)
}

// GeminiGenerator implements Generator using the Google Gen AI SDK
type GeminiGenerator struct {
	models  modelsClient
	model   string
	config  *genai.GenerateContentConfig
	timeout time.Duration
	logger  *zap.Logger
}

// NewGeminiGenerator creates a generator. An empty API key does not fail
// construction: every Generate call then returns ErrAPIKeyMissing.
func NewGeminiGenerator(ctx context.Context, cfg config.GeminiConfig, logger *zap.Logger) (*GeminiGenerator, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	g := &GeminiGenerator{
		model:   strings.TrimSpace(cfg.Model),
		config:  generationConfig(cfg),
		timeout: cfg.Timeout,
		logger:  logger.Named("gemini"),
	}
	if g.model == "" {
		g.model = defaultModel
	}
	if g.timeout <= 0 {
		g.timeout = defaultTimeout
	}

	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		g.logger.Warn("Gemini API key is not configured, chat requests will fail")
		return g, nil
	}

	client, err := newGenAIClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	g.models = client.Models

	return g, nil
}

func generationConfig(cfg config.GeminiConfig) *genai.GenerateContentConfig {
	c := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(cfg.Temperature)),
		TopP:        genai.Ptr(float32(cfg.TopP)),
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockMediumAndAbove},
		},
	}
	if cfg.MaxOutputTokens > 0 {
		c.MaxOutputTokens = int32(cfg.MaxOutputTokens)
	}
	return c
}

// Generate sends prompt as a single user turn and returns the trimmed text
// of the first candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.models == nil {
		return "", ErrAPIKeyMissing
	}

	callCtx, cancel := g.withTimeout(ctx)
	defer cancel()

	callCtx, span := otel.Tracer(tracerName).Start(callCtx, "gemini.generate")
	span.SetAttributes(
		attribute.String("gemini.model", g.model),
		attribute.Int("gemini.prompt_chars", len(prompt)),
	)
	defer span.End()

	start := time.Now()
	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}
	resp, err := g.models.GenerateContent(callCtx, g.model, contents, g.config)
	if err != nil {
		g.logger.Error("Gemini API error", zap.String("model", g.model), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "gemini API failed")
		return "", fmt.Errorf("gemini API failed: %w", err)
	}

	reply := strings.TrimSpace(firstCandidateText(resp))
	if reply == "" {
		g.logger.Warn("Gemini returned no usable candidate", zap.String("model", g.model))
		span.SetStatus(codes.Error, ErrNoCandidate.Error())
		return "", ErrNoCandidate
	}

	g.logger.Debug("Gemini reply received",
		zap.String("model", g.model),
		zap.Int("chars", len(reply)),
		zap.Duration("took", time.Since(start)),
	)
	return reply, nil
}

func (g *GeminiGenerator) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, hasDeadline := ctx.Deadline(); hasDeadline {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.timeout)
}

func firstCandidateText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil || resp.Candidates[0].Content == nil {
		return ""
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought || part.Text == "" {
			continue
		}
		sb.WriteString(part.Text)
	}
	return sb.String()
}

// Ensure interface compliance
var _ Generator = (*GeminiGenerator)(nil)
