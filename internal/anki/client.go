// Package anki is a small AnkiConnect client: a JSON envelope over HTTP POST
// with fixed-delay retries on transport failures.
package anki

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexanderramin/sentencemine/internal/retry"
)

// APIVersion is the AnkiConnect protocol version this client speaks.
const APIVersion = 6

const DefaultURL = "http://localhost:8765"

// Config controls the transport.
type Config struct {
	URL        string
	Timeout    time.Duration
	MaxRetries int // total attempts per action
	RetryDelay time.Duration
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		URL:        DefaultURL,
		Timeout:    20 * time.Second,
		MaxRetries: 3,
		RetryDelay: 3 * time.Second,
	}
}

// Client talks to a running AnkiConnect add-on.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient creates a Client. A nil logger discards output.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.URL == "" {
		cfg.URL = DefaultURL
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{cfg: cfg, http: &http.Client{}, logger: logger}
}

type request struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// invoke runs one action and decodes its result into out (which may be nil).
func (c *Client) invoke(ctx context.Context, action string, params, out any) error {
	body, err := json.Marshal(request{Action: action, Version: APIVersion, Params: params})
	if err != nil {
		return fmt.Errorf("marshaling %s request: %w", action, err)
	}

	policy := retry.Fixed(c.cfg.MaxRetries, c.cfg.RetryDelay, isTransient)
	policy.OnRetry = func(err error, wait time.Duration) {
		c.logger.Warn("ankiconnect request failed, retrying",
			slog.String("action", action),
			slog.Duration("wait", wait),
			slog.String("error", err.Error()))
	}

	var raw json.RawMessage
	err = policy.Do(ctx, func(ctx context.Context) error {
		result, err := c.post(ctx, action, body)
		if err != nil {
			return err
		}
		raw = result
		return nil
	})
	if err != nil {
		var actionErr *ActionError
		switch {
		case errors.As(err, &actionErr):
			c.logger.Error("ankiconnect action failed", slog.String("action", action), slog.String("error", actionErr.Message))
			return err
		case ctx.Err() != nil:
			return ctx.Err()
		case isTransient(err):
			return fmt.Errorf("%w: %s: %w", ErrUnavailable, action, err)
		default:
			return fmt.Errorf("ankiconnect %s: %w", action, err)
		}
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decoding %s result: %w", action, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, action string, body []byte) (json.RawMessage, error) {
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &transientError{err: err}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &transientError{err: fmt.Errorf("reading response: %w", err)}
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, &transientError{err: fmt.Errorf("status %d: %s", httpResp.StatusCode, bytes.TrimSpace(data))}
	}

	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decoding envelope: %w", err)
	}
	if resp.Error != nil {
		return nil, &ActionError{Action: action, Message: *resp.Error}
	}
	return resp.Result, nil
}
