package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/alexanderramin/sentencemine/internal/retry"
)

// GenerateRequest holds the parameters for an LLM generation call.
type GenerateRequest struct {
	Task         TaskType
	SystemPrompt string
	UserPrompt   string
	Temperature  *float64 // nil uses task default
	MaxTokens    *int     // nil uses task default
}

// GenerateResponse holds the result of an LLM generation call.
type GenerateResponse struct {
	Text      string
	Model     string
	LatencyMs int64
}

// LLMClient provides access to a language model for text generation.
type LLMClient interface {
	// Generate sends a prompt and returns the raw text response.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// Available checks whether the backend is reachable with the configured credentials.
	Available(ctx context.Context) bool
}

// New builds the client for cfg.Provider.
func New(cfg LLMConfig, observer Observer) (LLMClient, error) {
	switch cfg.Provider {
	case ProviderOpenAI, "":
		return NewOpenAIClient(cfg, observer), nil
	case ProviderAnthropic:
		return NewAnthropicClient(cfg, observer), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// call is one resolved attempt against a backend.
type call struct {
	model       string
	system      string
	user        string
	temperature float64
	maxTokens   int
}

// sendFunc performs a single attempt and returns the text and the model that answered.
type sendFunc func(ctx context.Context, c call) (string, string, error)

// generator owns the behavior shared by every backend: task defaults,
// per-attempt timeouts, pacing, retries and call telemetry.
type generator struct {
	cfg      LLMConfig
	provider Provider
	sendFn   sendFunc
	limiter  *rate.Limiter
	observer Observer
}

func newGenerator(cfg LLMConfig, provider Provider, observer Observer, send sendFunc) *generator {
	if observer == nil {
		observer = NoopObserver{}
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)
	}
	return &generator{cfg: cfg, provider: provider, sendFn: send, limiter: limiter, observer: observer}
}

func (g *generator) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	start := time.Now()

	taskCfg := g.cfg.Tasks[req.Task]
	c := call{
		model:       g.cfg.ResolvedModel(),
		system:      req.SystemPrompt,
		user:        req.UserPrompt,
		temperature: taskCfg.Temperature,
		maxTokens:   taskCfg.MaxTokens,
	}
	if req.Temperature != nil {
		c.temperature = *req.Temperature
	}
	if req.MaxTokens != nil {
		c.maxTokens = *req.MaxTokens
	}
	if c.maxTokens <= 0 {
		c.maxTokens = 512
	}

	timeout := g.cfg.TaskTimeout(req.Task)
	attempts := 0
	var text, model string

	policy := retry.Exponential(1+g.cfg.MaxRetries, g.cfg.RetryMin, g.cfg.RetryMax, isRetryable)
	err := policy.Do(ctx, func(ctx context.Context) error {
		attempts++
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		attemptCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		out, answeredBy, err := g.sendFn(attemptCtx, c)
		if err != nil {
			if attemptCtx.Err() != nil && ctx.Err() == nil {
				return fmt.Errorf("%w: %w", ErrTimeout, err)
			}
			return err
		}
		if strings.TrimSpace(out) == "" {
			return ErrEmptyResponse
		}
		text, model = out, answeredBy
		return nil
	})

	latency := time.Since(start).Milliseconds()
	if err != nil {
		err = classify(ctx, err)
		g.observer.OnCallComplete(LLMCallEvent{
			Task:      req.Task,
			Provider:  g.provider,
			Model:     c.model,
			LatencyMs: latency,
			Attempts:  attempts,
			Success:   false,
			ErrorCode: errorCode(err),
		})
		return nil, err
	}

	if model == "" {
		model = c.model
	}
	g.observer.OnCallComplete(LLMCallEvent{
		Task:      req.Task,
		Provider:  g.provider,
		Model:     model,
		LatencyMs: latency,
		Attempts:  attempts,
		Success:   true,
	})
	return &GenerateResponse{Text: text, Model: model, LatencyMs: latency}, nil
}

// classify maps the final attempt error onto the package sentinels.
func classify(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %w", ErrTimeout, ctxErr)
		}
		return ctxErr
	}
	exhausted := errors.Is(err, retry.ErrExhausted)
	switch {
	case errors.Is(err, ErrTimeout):
		return err
	case isConnectionError(err):
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case exhausted:
		return fmt.Errorf("%w: %w", ErrRetryExhausted, err)
	default:
		return err
	}
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Temporary()
	case errors.Is(err, ErrTimeout), errors.Is(err, ErrEmptyResponse):
		return true
	case isConnectionError(err):
		return true
	default:
		return false
	}
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	var netErr *net.OpError
	return errors.As(err, &netErr)
}

func errorCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrTimeout):
		return "TIMEOUT"
	case errors.Is(err, ErrUnavailable):
		return "UNAVAILABLE"
	case errors.Is(err, ErrEmptyResponse):
		return "EMPTY_RESPONSE"
	case errors.Is(err, ErrInvalidOutput):
		return "INVALID_OUTPUT"
	case errors.Is(err, context.Canceled):
		return "CANCELED"
	default:
		return "UNKNOWN"
	}
}
