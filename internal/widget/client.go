package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatmaabchouk/portfolio-assistant/internal/domain"
)

// StatusError is returned when the chat endpoint answers with an error envelope
type StatusError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *StatusError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("chat endpoint returned %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("chat endpoint returned %d: %s", e.StatusCode, e.Message)
}

// HTTPBackend calls the chat endpoint over HTTP
type HTTPBackend struct {
	endpoint string
	client   *http.Client
}

// NewHTTPBackend creates a backend posting to endpoint
func NewHTTPBackend(endpoint string, timeout time.Duration) *HTTPBackend {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPBackend{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Ask posts message and decodes the reply
func (b *HTTPBackend) Ask(ctx context.Context, message string) (*domain.ChatResponse, error) {
	body, err := json.Marshal(domain.ChatRequest{Message: &message})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling chat endpoint: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var envelope domain.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
			return nil, &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		}
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: envelope.Error, Details: envelope.Details}
	}

	var chatResp domain.ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &chatResp, nil
}

var _ Backend = (*HTTPBackend)(nil)
