// Package ollama implements the model gateway against a local Ollama server.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	backoff "github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"log/slog"

	"github.com/jobautofill/backend/internal/adapter/observability"
	"github.com/jobautofill/backend/internal/adapter/ollama/tokencount"
	"github.com/jobautofill/backend/internal/config"
	"github.com/jobautofill/backend/internal/domain"
)

// Client implements domain.ModelGateway over the Ollama HTTP API.
type Client struct {
	baseURL string
	hc      *http.Client
	cfg     config.Config
}

// New constructs an Ollama client. The HTTP client carries the chat timeout;
// callers may tighten it further per request via context.
func New(cfg config.Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.OllamaBaseURL, "/"),
		hc: &http.Client{
			Timeout:   cfg.OllamaTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		cfg: cfg,
	}
}

type chatRequest struct {
	Model    string               `json:"model"`
	Messages []domain.ChatMessage `json:"messages"`
	Stream   bool                 `json:"stream"`
	Format   string               `json:"format"`
}

type chatResponse struct {
	Message domain.ChatMessage `json:"message"`
}

// Chat sends one JSON-format chat completion and returns the raw message
// content. Timeouts map to domain.ErrUpstreamTimeout, an empty message to
// domain.ErrUpstreamEmpty.
func (c *Client) Chat(ctx context.Context, model string, messages []domain.ChatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: model, Messages: messages, Stream: false, Format: "json"})
	if err != nil {
		return "", fmt.Errorf("op=ollama.Chat: marshal: %w", err)
	}

	var promptChars int
	for _, m := range messages {
		promptChars += len(m.Content)
	}
	observability.PromptTokens.WithLabelValues("chat").
		Observe(float64(tokencount.CountMessages(model, messages)))

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("op=ollama.Chat: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	observability.ObserveGateway("chat", start, err)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("op=ollama.Chat: model=%s: %w", model, domain.ErrUpstreamTimeout)
		}
		return "", fmt.Errorf("op=ollama.Chat: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("op=ollama.Chat: status=%d body=%s", resp.StatusCode, readSnippet(resp.Body, 512))
	}

	var cr chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
		return "", fmt.Errorf("op=ollama.Chat: decode: %w", err)
	}
	content := strings.TrimSpace(cr.Message.Content)
	if content == "" {
		return "", fmt.Errorf("op=ollama.Chat: model=%s: %w", model, domain.ErrUpstreamEmpty)
	}

	slog.Debug("ollama chat completed",
		slog.String("model", model),
		slog.Int("prompt_chars", promptChars),
		slog.Int("response_chars", len(content)),
		slog.Duration("took", time.Since(start)))
	return content, nil
}

type tagsResponse struct {
	Models []struct {
		Name       string `json:"name"`
		Size       int64  `json:"size"`
		ModifiedAt string `json:"modified_at"`
		Details    struct {
			Family   string   `json:"family"`
			Families []string `json:"families"`
		} `json:"details"`
	} `json:"models"`
}

// ListModels fetches /api/tags. Transient network failures retry with
// exponential backoff bounded by the configured elapsed time.
func (c *Client) ListModels(ctx context.Context) ([]domain.ModelInfo, error) {
	var out []domain.ModelInfo

	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := c.hc.Do(req)
		observability.ObserveGateway("list_models", start, err)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("status=%d body=%s", resp.StatusCode, readSnippet(resp.Body, 512))
		}

		var tr tagsResponse
		if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
			return backoff.Permanent(err)
		}
		out = out[:0]
		for _, m := range tr.Models {
			family := m.Details.Family
			if family == "" && len(m.Details.Families) > 0 {
				family = m.Details.Families[0]
			}
			out = append(out, domain.ModelInfo{
				Name:       m.Name,
				Family:     family,
				SizeBytes:  m.Size,
				ModifiedAt: m.ModifiedAt,
			})
		}
		return nil
	}

	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		return nil, fmt.Errorf("op=ollama.ListModels: %w", err)
	}
	return out, nil
}

// HasModel probes /api/show for a single model. A 404 means "not installed",
// not an error.
func (c *Client) HasModel(ctx context.Context, name string) (bool, error) {
	body, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return false, fmt.Errorf("op=ollama.HasModel: marshal: %w", err)
	}

	var found bool
	op := func() error {
		start := time.Now()
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/show", bytes.NewReader(body))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := c.hc.Do(req)
		observability.ObserveGateway("has_model", start, err)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		switch resp.StatusCode {
		case http.StatusOK:
			found = true
			return nil
		case http.StatusNotFound:
			found = false
			return nil
		default:
			return fmt.Errorf("status=%d body=%s", resp.StatusCode, readSnippet(resp.Body, 512))
		}
	}

	if err := backoff.Retry(op, c.backoffConfig(ctx)); err != nil {
		return false, fmt.Errorf("op=ollama.HasModel: model=%s: %w", name, err)
	}
	return found, nil
}

func (c *Client) backoffConfig(ctx context.Context) backoff.BackOffContext {
	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = c.cfg.RetryInitialInterval
	expo.MaxInterval = c.cfg.RetryMaxInterval
	expo.MaxElapsedTime = c.cfg.RetryMaxElapsedTime
	return backoff.WithContext(expo, ctx)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne interface{ Timeout() bool }
	return errors.As(err, &ne) && ne.Timeout()
}

func readSnippet(r io.Reader, n int64) string {
	b, _ := io.ReadAll(io.LimitReader(r, n))
	return string(b)
}
