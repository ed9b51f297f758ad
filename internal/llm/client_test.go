package llm

import (
	"context"
	"errors"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	calls     int
	responses []fakeResponse
}

type fakeResponse struct {
	content string
	err     error
}

func (f *fakeAPI) CreateChatCompletion(_ context.Context, _ openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	resp := f.responses[f.calls]
	f.calls++
	if resp.err != nil {
		return openai.ChatCompletionResponse{}, resp.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: resp.content}},
		},
	}, nil
}

func newTestClient(api completionAPI) (*Client, *[]time.Duration) {
	c := NewClient("test-key", "test-model", DefaultRetryConfig(), nil)
	c.api = api
	var sleeps []time.Duration
	c.sleep = func(_ context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return c, &sleeps
}

func TestClassify(t *testing.T) {
	tests := []struct {
		msg       string
		transient bool
	}{
		{"429 too many requests", true},
		{"rate limit exceeded", true},
		{"request timeout", true},
		{"server is overloaded", true},
		{"service temporarily unavailable", true},
		{"upstream returned 502", true},
		{"upstream returned 503", true},
		{"upstream returned 504", true},
		{"invalid api key", false},
		{"model not found", false},
		{"llm client not configured", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := classify(errors.New(tt.msg))
			var transient *TransientError
			assert.Equal(t, tt.transient, errors.As(err, &transient))
		})
	}
}

func TestCompleteTrimsWhitespace(t *testing.T) {
	api := &fakeAPI{responses: []fakeResponse{{content: "  hello there \n"}}}
	c, _ := newTestClient(api)

	out, err := c.Complete(context.Background(), "sys", "user", Options{})
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, 1, api.calls)
}

func TestCompleteRetriesTransientExactlyThreeAttempts(t *testing.T) {
	transient := errors.New("503 service unavailable")
	api := &fakeAPI{responses: []fakeResponse{
		{err: transient}, {err: transient}, {err: transient},
	}}
	c, sleeps := newTestClient(api)

	_, err := c.Complete(context.Background(), "sys", "user", Options{})
	require.Error(t, err)

	var te *TransientError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 3, api.calls, "3 attempts total")

	// Backoff doubles from the base between attempts.
	require.Len(t, *sleeps, 2)
	assert.Equal(t, 500*time.Millisecond, (*sleeps)[0])
	assert.Equal(t, 1*time.Second, (*sleeps)[1])
}

func TestCompleteRecoversAfterTransient(t *testing.T) {
	api := &fakeAPI{responses: []fakeResponse{
		{err: errors.New("overloaded")},
		{content: "ok"},
	}}
	c, _ := newTestClient(api)

	out, err := c.Complete(context.Background(), "sys", "user", Options{})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 2, api.calls)
}

func TestCompletePermanentFailsImmediately(t *testing.T) {
	api := &fakeAPI{responses: []fakeResponse{{err: errors.New("invalid api key")}}}
	c, sleeps := newTestClient(api)

	_, err := c.Complete(context.Background(), "sys", "user", Options{})
	require.Error(t, err)

	var pe *PermanentError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, api.calls, "no retry for permanent failures")
	assert.Empty(t, *sleeps, "no backoff delay for permanent failures")
}

func TestBackoffCapped(t *testing.T) {
	transient := errors.New("timeout")
	api := &fakeAPI{responses: []fakeResponse{
		{err: transient}, {err: transient}, {err: transient}, {err: transient}, {err: transient},
	}}
	c, sleeps := newTestClient(api)
	c.retry = RetryConfig{MaxAttempts: 5, BaseDelay: 2 * time.Second, MaxDelay: 4 * time.Second}

	_, err := c.Complete(context.Background(), "sys", "user", Options{})
	require.Error(t, err)
	require.Len(t, *sleeps, 4)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])
	assert.Equal(t, 4*time.Second, (*sleeps)[1])
	assert.Equal(t, 4*time.Second, (*sleeps)[2], "delay never exceeds the cap")
}

func TestUnconfiguredClientRefusesCalls(t *testing.T) {
	c := NewClient("", "", DefaultRetryConfig(), nil)
	assert.False(t, c.Configured())

	_, err := c.Complete(context.Background(), "sys", "user", Options{})
	var pe *PermanentError
	require.ErrorAs(t, err, &pe)
}
