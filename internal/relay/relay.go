// Package relay opens a streaming request against the upstream model provider
// and pumps incremental text to a caller-supplied sink, one upstream chunk in,
// one downstream event out. Upstream failures are converted to the shared
// error taxonomy before they reach the caller.
package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/fotocoach/coachd/internal/models"
	"github.com/fotocoach/coachd/internal/prompts"
)

// Sink receives relay output. Text is called once per upstream fragment in
// arrival order; Done exactly once after the last fragment.
type Sink interface {
	Text(text string) error
	Done() error
}

// Alerter is the out-of-band operator notification hook. Dispatch must not
// block and its failures must never surface on the response path.
type Alerter interface {
	Dispatch(subject, detail string)
}

// Relay issues streaming completions. It performs no retries: retrying
// against a rate-limited or overloaded provider only makes the condition
// worse, so retry stays a user-initiated action.
type Relay struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	alerter   Alerter
	logger    *zap.Logger
}

const defaultTimeout = 120 * time.Second

func New(apiKey, baseURL, model string, maxTokens int, timeout time.Duration, alerter Alerter, logger *zap.Logger) *Relay {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Relay{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
		timeout:   timeout,
		alerter:   alerter,
		logger:    logger,
	}
}

// Stream relays one conversation through the provider. Fragments go to the
// sink in arrival order and Done is sent after the final one. A provider
// failure is returned as *Error; a sink failure (downstream gone) is returned
// as-is, and in both cases the upstream stream is released.
func (r *Relay) Stream(ctx context.Context, messages []models.ChatMessage, mode models.Mode, language string, sink Sink) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:     r.model,
		MaxTokens: r.maxTokens,
		Messages:  make([]openai.ChatCompletionMessage, 0, len(messages)+1),
	}
	req.Messages = append(req.Messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: prompts.Build(mode, language),
	})
	for _, m := range messages {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	stream, err := r.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return r.failure(err)
	}
	defer stream.Close()

	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return sink.Done()
		}
		if err != nil {
			return r.failure(err)
		}
		if len(resp.Choices) == 0 {
			continue
		}
		delta := resp.Choices[0].Delta.Content
		if delta == "" {
			continue
		}
		if err := sink.Text(delta); err != nil {
			// Downstream is gone; stop pulling from upstream.
			return fmt.Errorf("relay sink closed: %w", err)
		}
	}
}

func (r *Relay) failure(err error) *Error {
	classified := ClassifyProviderError(err)
	r.logger.Error("Upstream provider call failed",
		zap.String("error_type", string(classified.Type)),
		zap.Error(err))
	if r.alerter != nil && (classified.Type == models.ErrorRateLimit || classified.Type == models.ErrorOverloaded) {
		r.alerter.Dispatch("Provider "+string(classified.Type)+" reached", classified.Detail)
	}
	return classified
}
