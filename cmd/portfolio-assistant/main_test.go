package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/fatmaabchouk/portfolio-assistant/internal/config"
	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
	"github.com/fatmaabchouk/portfolio-assistant/internal/knowledge"
	"github.com/fatmaabchouk/portfolio-assistant/internal/repository"
	"github.com/fatmaabchouk/portfolio-assistant/internal/widget"
)

func testCommand(t *testing.T, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	return cmd, &out
}

func sqliteConfig(t *testing.T) config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "portfolio.db"),
	}
}

func TestLoadFallback(t *testing.T) {
	base, err := loadFallback(config.KnowledgeConfig{})
	require.NoError(t, err)
	assert.Equal(t, knowledge.Default().Sections, base.Sections)

	path := filepath.Join(t.TempDir(), "kb.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 2\nsections:\n  - section: about\n    content: hi\n"), 0o644))
	base, err = loadFallback(config.KnowledgeConfig{FallbackPath: path})
	require.NoError(t, err)
	assert.Equal(t, 2, base.Version)
	assert.Len(t, base.Sections, 1)

	_, err = loadFallback(config.KnowledgeConfig{FallbackPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestSeedAndCheckStore(t *testing.T) {
	dbCfg := sqliteConfig(t)

	n, err := seed(context.Background(), &config.Config{Database: dbCfg}, knowledge.Default(), zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Equal(t, len(knowledge.Default().Sections), n)

	cfg = &config.Config{Database: dbCfg}
	logger = zaptest.NewLogger(t)

	cmd, out := testCommand(t, "")
	require.NoError(t, runCheckStore(cmd, nil))

	var report domain.DiagnosticReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Len(t, report.Data, 5)
}

func TestSeed_NoStore(t *testing.T) {
	_, err := seed(context.Background(), &config.Config{Database: config.DatabaseConfig{Driver: config.DriverNone}}, knowledge.Default(), zaptest.NewLogger(t))
	assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func TestCheckStore_Disabled(t *testing.T) {
	cfg = &config.Config{Database: config.DatabaseConfig{Driver: config.DriverNone}}
	logger = zaptest.NewLogger(t)

	cmd, out := testCommand(t, "")
	require.NoError(t, runCheckStore(cmd, nil))

	var report domain.DiagnosticReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report))
	assert.False(t, report.Success)
	assert.Equal(t, "Database connection failed", report.Message)
}

func TestOpenStore_UnreachableCache(t *testing.T) {
	appCfg := &config.Config{
		Database: sqliteConfig(t),
		Cache:    config.CacheConfig{RedisURL: "redis://127.0.0.1:1/0", Key: "k", TTL: time.Minute},
	}
	store := openStore(context.Background(), appCfg, zaptest.NewLogger(t))
	require.NotNil(t, store)
	defer store.Close()

	_, cached := store.(*repository.CachedKnowledgeStore)
	assert.False(t, cached)
}

func TestNewApp_WithoutStoreOrKey(t *testing.T) {
	appCfg := &config.Config{
		Server:   config.ServerConfig{RequestTimeout: time.Second},
		Database: config.DatabaseConfig{Driver: config.DriverNone},
		Gemini:   config.GeminiConfig{Model: "gemini-2.0-flash"},
	}
	a, err := newApp(context.Background(), appCfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	defer a.Close()
	assert.Nil(t, a.store)

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"What are your skills?"}`))
	req.Header.Set("Content-Type", "application/json")
	a.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "GEMINI_API_KEY")
}

type fixedBackend struct {
	resp  *domain.ChatResponse
	err   error
	asked []string
}

func (b *fixedBackend) Ask(ctx context.Context, message string) (*domain.ChatResponse, error) {
	b.asked = append(b.asked, message)
	return b.resp, b.err
}

func TestChatLoop(t *testing.T) {
	logger = zaptest.NewLogger(t)
	backend := &fixedBackend{resp: &domain.ChatResponse{
		Reply:          "Écris-lui. 📧 Contact: fatmaabchouk18@gmail.com",
		HasContactInfo: true,
	}}

	cmd, out := testCommand(t, "Hello\nComment la contacter ?\n/like 2\n/like 9\n/quit\nignored\n")
	require.NoError(t, chatLoop(cmd, backend, knowledge.Default(), time.Hour))

	got := out.String()
	assert.Contains(t, got, widget.WelcomeMessage)
	assert.Equal(t, 2, strings.Count(got, "Hello! I'm Fatma's virtual assistant"))
	assert.Equal(t, []string{"Comment la contacter ?"}, backend.asked)
	assert.Contains(t, got, "Écris-lui.")
	assert.NotContains(t, got, "Contact: fatmaabchouk18")
	assert.Contains(t, got, "Email: mailto:fatmaabchouk18@gmail.com")
	assert.Contains(t, got, "GitHub: https://github.com/Fatmaabchouk")
	assert.Contains(t, got, `no message "9"`)
}

func TestChatLoop_CleansUnflaggedReply(t *testing.T) {
	logger = zaptest.NewLogger(t)
	backend := &fixedBackend{resp: &domain.ChatResponse{
		Reply: "Fatma knows React. Write to fatmaabchouk18@gmail.com | see https://github.com/Fatmaabchouk",
	}}

	cmd, out := testCommand(t, "What does she know?\n")
	require.NoError(t, chatLoop(cmd, backend, knowledge.Default(), time.Hour))

	got := out.String()
	assert.Contains(t, got, "Fatma knows React.")
	assert.NotContains(t, got, "fatmaabchouk18@gmail.com")
	assert.NotContains(t, got, "https://github.com/Fatmaabchouk")
	assert.NotContains(t, got, "|")
	assert.NotContains(t, got, "Email: mailto:")
}

func TestChatLoop_Copy(t *testing.T) {
	logger = zaptest.NewLogger(t)
	var copied []string
	previous := systemClipboard
	systemClipboard = widget.ClipboardFunc(func(text string) error {
		copied = append(copied, text)
		return nil
	})
	t.Cleanup(func() { systemClipboard = previous })

	cmd, out := testCommand(t, "/copy 0\n/copy 7\n/copy x\n")
	require.NoError(t, chatLoop(cmd, &fixedBackend{}, knowledge.Default(), time.Hour))

	got := out.String()
	assert.Equal(t, []string{widget.WelcomeMessage}, copied)
	assert.Contains(t, got, widget.CopiedToastTitle+": "+widget.CopiedToastDetail)
	assert.Contains(t, got, `no message "7"`)
	assert.Contains(t, got, `no message "x"`)
}

func TestChatLoop_BackendError(t *testing.T) {
	logger = zaptest.NewLogger(t)
	backend := &fixedBackend{err: errors.New("connection refused")}

	cmd, out := testCommand(t, "Tell me about her projects\n")
	require.NoError(t, chatLoop(cmd, backend, knowledge.Default(), time.Hour))

	assert.Contains(t, out.String(), widget.ErrorToastTitle)
	assert.Contains(t, out.String(), widget.ApologyMessage)
}
