package codegen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/domain"
)

// DefaultTimeout bounds a single backend call when Options.Timeout is zero.
const DefaultTimeout = 120 * time.Second

type Options struct {
	Timeout time.Duration
	// RPS limits backend calls per second; zero disables limiting.
	RPS   float64
	Burst int
}

// Client turns prompts into artifacts and improvement requests into replacement code.
// It performs exactly one backend call per operation and never retries.
type Client struct {
	backend Backend
	timeout time.Duration
	limiter *rate.Limiter
	metrics *Metrics
}

func NewClient(backend Backend, opt Options) *Client {
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	limiter := rate.NewLimiter(rate.Inf, 0)
	if opt.RPS > 0 {
		burst := opt.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opt.RPS), burst)
	}
	return &Client{
		backend: backend,
		timeout: opt.Timeout,
		limiter: limiter,
		metrics: &Metrics{},
	}
}

// Generate asks the backend for a complete project. Framework and language are optional hints.
// The returned artifact may have an empty file set; callers decide whether that is a failure.
func (c *Client) Generate(ctx context.Context, prompt, framework, language string) (*domain.GeneratedArtifact, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is empty", ErrInvalidInput)
	}

	raw, err := c.complete(ctx, "generate", Request{
		System: generateSystemPrompt,
		Prompt: generateUserPrompt(prompt, strings.TrimSpace(framework), strings.TrimSpace(language)),
		JSON:   true,
	})
	if err != nil {
		return nil, err
	}

	art, err := ParseArtifact(raw)
	if err != nil {
		c.metrics.recordParseFailure()
		return nil, err
	}
	return art, nil
}

// Improve returns a revised version of code following instructions, with code fences removed.
func (c *Client) Improve(ctx context.Context, code, instructions string) (string, error) {
	if strings.TrimSpace(code) == "" {
		return "", fmt.Errorf("%w: code is empty", ErrInvalidInput)
	}
	if strings.TrimSpace(instructions) == "" {
		return "", fmt.Errorf("%w: instructions are empty", ErrInvalidInput)
	}

	raw, err := c.complete(ctx, "improve", Request{
		System: improveSystemPrompt,
		Prompt: improveUserPrompt(code, instructions),
	})
	if err != nil {
		return "", err
	}

	cleaned := SanitizeCode(raw)
	if strings.TrimSpace(cleaned) == "" {
		return "", ErrEmptyResult
	}
	return cleaned, nil
}

// Stats returns a snapshot of backend call counters.
func (c *Client) Stats() Stats {
	return c.metrics.Snapshot()
}

// BackendName identifies the configured backend, e.g. "openai:gpt-4o".
func (c *Client) BackendName() string {
	return c.backend.Name()
}

func (c *Client) complete(ctx context.Context, operation string, req Request) (string, error) {
	logger := logging.New(ctx)

	// the timeout bounds the limiter wait and the backend call together
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(callCtx); err != nil {
		logger.LogWarnf(operation, "backend=%s rate limiter: %v", c.backend.Name(), err)
		return "", fmt.Errorf("%w: rate limiter: %w", ErrGenerationFailure, err)
	}

	start := time.Now()
	raw, err := c.backend.Complete(callCtx, req)
	elapsed := time.Since(start)
	c.metrics.recordCall(elapsed, err)

	if err != nil {
		logger.LogErrorf(operation, "backend=%s latency=%s error=%v", c.backend.Name(), elapsed, err)
		return "", fmt.Errorf("%w: %s: %w", ErrGenerationFailure, c.backend.Name(), err)
	}
	if strings.TrimSpace(raw) == "" {
		logger.LogWarnf(operation, "backend=%s latency=%s empty response", c.backend.Name(), elapsed)
		return "", fmt.Errorf("%w: %s returned no content", ErrGenerationFailure, c.backend.Name())
	}

	logger.LogDebugf(operation, "backend=%s latency=%s bytes=%d", c.backend.Name(), elapsed, len(raw))
	return raw, nil
}
