package assistant

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/bdask/bdask/internal/domain"
	"github.com/sashabaranov/go-openai"
)

// Config holds the OpenAI-compatible provider configuration.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxHistory int
	MaxRetries int
	Timeout    time.Duration
}

// OpenAIProcessor talks to any OpenAI-compatible chat completion API.
type OpenAIProcessor struct {
	client *openai.Client
	cfg    Config
	now    func() time.Time
}

// NewOpenAIProcessor creates a processor, applying defaults for unset values.
func NewOpenAIProcessor(cfg Config) *OpenAIProcessor {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.MaxHistory == 0 {
		cfg.MaxHistory = 20
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &OpenAIProcessor{
		client: openai.NewClientWithConfig(clientConfig),
		cfg:    cfg,
		now:    time.Now,
	}
}

// Reply answers message in the context of history.
func (p *OpenAIProcessor) Reply(ctx context.Context, history []domain.Message, message string) (string, error) {
	msgs := BuildConversation(SystemPrompt(p.now()), history, message, p.cfg.MaxHistory)
	reply, err := p.complete(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("failed to generate reply: %w", err)
	}
	return reply, nil
}

// Translate asks the model for a bare translation.
func (p *OpenAIProcessor) Translate(ctx context.Context, text, source, target string) (string, error) {
	msgs := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: "You are a professional translator. Provide only the translation without any additional text."},
		{Role: openai.ChatMessageRoleUser, Content: translationPrompt(text, source, target)},
	}
	out, err := p.complete(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("failed to translate: %w", err)
	}
	return strings.TrimSpace(out), nil
}

func (p *OpenAIProcessor) complete(ctx context.Context, msgs []openai.ChatCompletionMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	defer cancel()

	var result string
	err := p.doWithRetry(ctx, func() error {
		resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    p.cfg.Model,
			Messages: msgs,
		})
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return ErrEmptyReply
		}
		result = resp.Choices[0].Message.Content
		return nil
	})
	return result, err
}

// doWithRetry executes fn with exponential backoff.
func (p *OpenAIProcessor) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.cfg.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == p.cfg.MaxRetries-1 {
			break
		}
		wait := time.Duration(math.Pow(2, float64(attempt))) * 500 * time.Millisecond
		slog.Debug("LLM request failed, retrying", "attempt", attempt+1, "wait_time", wait, "error", lastErr)
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}

// BuildConversation converts stored messages into a chat completion
// request: system prompt, the most recent maxHistory messages, then the new
// user message.
func BuildConversation(system string, history []domain.Message, message string, maxHistory int) []openai.ChatCompletionMessage {
	if maxHistory > 0 && len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	out := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if m.Role == domain.RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		out = append(out, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	out = append(out, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: message})
	return out
}
