package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/genai"

	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
)

type stubModelsClient struct {
	resp *genai.GenerateContentResponse
	err  error

	calls       int
	gotModel    string
	gotContents []*genai.Content
	gotConfig   *genai.GenerateContentConfig
	hadDeadline bool
}

func (s *stubModelsClient) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	s.calls++
	s.gotModel = model
	s.gotContents = contents
	s.gotConfig = cfg
	_, s.hadDeadline = ctx.Deadline()
	return s.resp, s.err
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: genai.RoleModel}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content}},
	}
}

func testConfig() config.GeminiConfig {
	return config.GeminiConfig{
		Model:           "gemini-2.0-flash",
		Temperature:     0.7,
		MaxOutputTokens: 500,
		TopP:            0.9,
		Timeout:         time.Second,
	}
}

func newTestGenerator(t *testing.T, models modelsClient) *GeminiGenerator {
	t.Helper()
	g, err := NewGeminiGenerator(context.Background(), testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	g.models = models
	return g
}

func TestNewGeminiGenerator_MissingKeyFailsPerRequest(t *testing.T) {
	g, err := NewGeminiGenerator(context.Background(), testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)

	_, err = g.Generate(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestNewGeminiGenerator_ForwardsKey(t *testing.T) {
	orig := newGenAIClient
	defer func() { newGenAIClient = orig }()

	var got *genai.ClientConfig
	newGenAIClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
		got = cfg
		return &genai.Client{}, nil
	}

	cfg := testConfig()
	cfg.APIKey = " test-key "
	cfg.Model = ""
	cfg.Timeout = 0
	g, err := NewGeminiGenerator(context.Background(), cfg, nil)
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, "test-key", got.APIKey)
	assert.Equal(t, genai.BackendGeminiAPI, got.Backend)
	assert.Equal(t, defaultModel, g.model)
	assert.Equal(t, defaultTimeout, g.timeout)
}

func TestNewGeminiGenerator_ClientError(t *testing.T) {
	orig := newGenAIClient
	defer func() { newGenAIClient = orig }()
	newGenAIClient = func(ctx context.Context, cfg *genai.ClientConfig) (*genai.Client, error) {
		return nil, errors.New("boom")
	}

	cfg := testConfig()
	cfg.APIKey = "key"
	_, err := NewGeminiGenerator(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestGenerate_SendsSinglePromptWithFixedParameters(t *testing.T) {
	stub := &stubModelsClient{resp: textResponse("  Fatma builds data products.  ")}
	g := newTestGenerator(t, stub)

	reply, err := g.Generate(context.Background(), "the prompt")
	require.NoError(t, err)
	assert.Equal(t, "Fatma builds data products.", reply)

	assert.Equal(t, "gemini-2.0-flash", stub.gotModel)
	require.Len(t, stub.gotContents, 1)
	require.Len(t, stub.gotContents[0].Parts, 1)
	assert.Equal(t, "the prompt", stub.gotContents[0].Parts[0].Text)
	assert.Equal(t, genai.RoleUser, stub.gotContents[0].Role)

	cfg := stub.gotConfig
	require.NotNil(t, cfg)
	assert.InDelta(t, 0.7, *cfg.Temperature, 1e-6)
	assert.InDelta(t, 0.9, *cfg.TopP, 1e-6)
	assert.Equal(t, int32(500), cfg.MaxOutputTokens)
	require.Len(t, cfg.SafetySettings, 2)
	assert.Equal(t, genai.HarmCategoryHarassment, cfg.SafetySettings[0].Category)
	assert.Equal(t, genai.HarmCategoryHateSpeech, cfg.SafetySettings[1].Category)
	for _, s := range cfg.SafetySettings {
		assert.Equal(t, genai.HarmBlockThresholdBlockMediumAndAbove, s.Threshold)
	}

	assert.True(t, stub.hadDeadline)
}

func TestGenerate_JoinsVisibleParts(t *testing.T) {
	resp := textResponse("Hello", " world")
	resp.Candidates[0].Content.Parts = append(resp.Candidates[0].Content.Parts, &genai.Part{Text: "hidden", Thought: true})
	g := newTestGenerator(t, &stubModelsClient{resp: resp})

	reply, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "Hello world", reply)
}

func TestGenerate_NoCandidate(t *testing.T) {
	responses := map[string]*genai.GenerateContentResponse{
		"nil response":  nil,
		"no candidates": {},
		"nil content":   {Candidates: []*genai.Candidate{{}}},
		"blank text":    textResponse("   "),
	}
	for name, resp := range responses {
		t.Run(name, func(t *testing.T) {
			g := newTestGenerator(t, &stubModelsClient{resp: resp})
			reply, err := g.Generate(context.Background(), "p")
			assert.ErrorIs(t, err, ErrNoCandidate)
			assert.Empty(t, reply)
		})
	}
}

func TestGenerate_APIError(t *testing.T) {
	apiErr := errors.New("Error 503, Message: overloaded, Status: UNAVAILABLE")
	g := newTestGenerator(t, &stubModelsClient{err: apiErr})

	reply, err := g.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.ErrorIs(t, err, apiErr)
	assert.Empty(t, reply)
}

func TestGenerate_KeepsCallerDeadline(t *testing.T) {
	stub := &stubModelsClient{resp: textResponse("ok")}
	g := newTestGenerator(t, stub)
	g.timeout = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	_, err := g.Generate(ctx, "p")
	require.NoError(t, err)
	assert.True(t, stub.hadDeadline)
}
