package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.4
)

// RetryConfig bounds the retry loop. Backoff doubles per attempt from
// BaseDelay up to MaxDelay and applies only to transient failures.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryConfig returns the production retry policy: 3 attempts
// total, 500ms initial backoff, 4s cap.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{MaxAttempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 4 * time.Second}
}

// Options carries per-call generation parameters.
type Options struct {
	Model       string
	Temperature float32
	MaxTokens   int
}

// completionAPI is the slice of the OpenAI client the wrapper uses;
// tests substitute a fake.
type completionAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client wraps the OpenAI API with bounded retries, failure
// classification, and outbound pacing shared across requests. A Client
// built without an API key reports Configured() == false and must not
// be called; callers branch to their deterministic fallback instead.
type Client struct {
	api     completionAPI
	model   string
	retry   RetryConfig
	pacer   *rate.Limiter
	logger  *zap.Logger
	sleep   func(ctx context.Context, d time.Duration) error
	enabled bool
}

// NewClient builds a wrapper around the OpenAI API. An empty apiKey
// yields an unconfigured client.
func NewClient(apiKey, model string, retry RetryConfig, logger *zap.Logger) *Client {
	if model == "" {
		model = DefaultModel
	}
	if retry.MaxAttempts <= 0 {
		retry = DefaultRetryConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		model:  model,
		retry:  retry,
		pacer:  rate.NewLimiter(rate.Limit(3), 5),
		logger: logger,
		sleep:  sleepCtx,
	}
	if apiKey != "" {
		c.api = openai.NewClient(apiKey)
		c.enabled = true
	}
	return c
}

// Configured reports whether an API key was provided. When false the
// wrapper is never invoked.
func (c *Client) Configured() bool {
	return c.enabled
}

// Complete sends a system+user prompt and returns the trimmed response
// text. Transient failures are retried with exponential backoff up to
// the configured attempt cap; permanent failures propagate immediately.
func (c *Client) Complete(ctx context.Context, system, user string, opts Options) (string, error) {
	if !c.enabled {
		return "", &PermanentError{Err: errors.New("llm client not configured")}
	}
	if opts.Model == "" {
		opts.Model = c.model
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}

	req := openai.ChatCompletionRequest{
		Model:       opts.Model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
	}

	var lastErr error
	delay := c.retry.BaseDelay
	for attempt := 1; attempt <= c.retry.MaxAttempts; attempt++ {
		if err := c.pacer.Wait(ctx); err != nil {
			return "", &PermanentError{Err: err}
		}

		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err == nil {
			if len(resp.Choices) == 0 {
				return "", &PermanentError{Err: errors.New("empty completion response")}
			}
			return strings.TrimSpace(resp.Choices[0].Message.Content), nil
		}

		classified := classify(err)
		var transient *TransientError
		if !errors.As(classified, &transient) {
			return "", classified
		}
		lastErr = classified

		if attempt == c.retry.MaxAttempts {
			break
		}
		c.logger.Warn("llm call failed, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", delay),
			zap.Error(err))
		if err := c.sleep(ctx, delay); err != nil {
			return "", &PermanentError{Err: err}
		}
		delay *= 2
		if delay > c.retry.MaxDelay {
			delay = c.retry.MaxDelay
		}
	}
	return "", lastErr
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
