package narrative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/zenithstorm/comp645-team1-game/internal/config"
	"github.com/zenithstorm/comp645-team1-game/internal/logger"
)

// OpenAIDescriber asks an OpenAI-compatible chat completions endpoint for
// narration. It remembers the last few narrated exchanges so descriptions
// stay consistent over a run. One describer belongs to one game.
type OpenAIDescriber struct {
	client      openai.Client
	model       string
	maxTokens   int64
	temperature float64
	retries     int
	maxHistory  int

	// retryInterval is the first backoff delay; tests shorten it.
	retryInterval time.Duration

	mu      sync.Mutex
	history []exchange
}

type exchange struct {
	prompt string
	reply  string
}

// NewOpenAIDescriber creates a describer from the narrative config. The
// client's own retry loop is disabled; retries go through backoff so the
// whole call stays inside the caller's deadline.
func NewOpenAIDescriber(cfg config.NarrativeConfig) (*OpenAIDescriber, error) {
	if !cfg.Enabled() {
		return nil, errors.New("openai describer: no API key configured")
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &OpenAIDescriber{
		client:        openai.NewClient(opts...),
		model:         cfg.Model,
		maxTokens:     int64(cfg.MaxTokens),
		temperature:   cfg.Temperature,
		retries:       cfg.Retries,
		maxHistory:    cfg.History,
		retryInterval: 250 * time.Millisecond,
	}, nil
}

// Describe requests narration for c. Any failure is wrapped in
// ErrUnavailable.
func (d *OpenAIDescriber) Describe(ctx context.Context, c Context) (string, error) {
	prompt := buildPrompt(c)
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(d.model),
		Messages: d.messages(prompt),
	}
	if d.maxTokens > 0 {
		params.MaxTokens = openai.Int(d.maxTokens)
	}
	if d.temperature > 0 {
		params.Temperature = openai.Float(d.temperature)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.retryInterval

	attempts := 0
	reply, err := backoff.Retry(ctx, func() (string, error) {
		attempts++
		resp, err := d.client.Chat.Completions.New(ctx, params)
		if err != nil {
			if !retryable(err) {
				return "", backoff.Permanent(err)
			}
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", backoff.Permanent(errors.New("response has no choices"))
		}
		text := strings.TrimSpace(resp.Choices[0].Message.Content)
		if text == "" {
			return "", backoff.Permanent(errors.New("response is empty"))
		}
		return text, nil
	}, backoff.WithBackOff(b), backoff.WithMaxTries(uint(d.retries+1)))
	if err != nil {
		return "", fmt.Errorf("%w: %s after %d attempt(s): %w", ErrUnavailable, c.Kind, attempts, err)
	}

	d.remember(prompt, reply)
	logger.Debug("Narration received", "kind", string(c.Kind), "attempts", attempts)
	return reply, nil
}

// messages builds the system prompt, the remembered exchanges and the new
// prompt.
func (d *OpenAIDescriber) messages(prompt string) []openai.ChatCompletionMessageParamUnion {
	d.mu.Lock()
	defer d.mu.Unlock()

	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(d.history)*2+2)
	msgs = append(msgs, openai.SystemMessage(systemPrompt))
	for _, ex := range d.history {
		msgs = append(msgs, openai.UserMessage(ex.prompt), openai.AssistantMessage(ex.reply))
	}
	return append(msgs, openai.UserMessage(prompt))
}

func (d *OpenAIDescriber) remember(prompt, reply string) {
	if d.maxHistory <= 0 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	d.history = append(d.history, exchange{prompt: prompt, reply: reply})
	if over := len(d.history) - d.maxHistory; over > 0 {
		d.history = append(d.history[:0:0], d.history[over:]...)
	}
}

// HistoryLen returns the number of remembered exchanges.
func (d *OpenAIDescriber) HistoryLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.history)
}

// retryable reports whether a failed request is worth repeating. Client
// errors other than rate limiting will fail the same way again.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		code := apiErr.StatusCode
		return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
	}
	return true
}
