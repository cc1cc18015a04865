// internal/agents/ai-conversation/structured-parser/chat.go
package structuredparser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	commonhttp "travelbot/internal/common/http"
	"travelbot/internal/common/metrics"
	"travelbot/internal/models"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrLLMTimeout       = errors.New("LLM_TIMEOUT")
	ErrLLMRequestFailed = errors.New("LLM_REQUEST_FAILED")
	ErrLLMEmptyReply    = errors.New("LLM_EMPTY_REPLY")
)

// ChatCompleter sends a full message history and returns the assistant reply.
type ChatCompleter interface {
	Complete(ctx context.Context, messages []models.ChatMessage) (string, error)
}

// OpenAIChat talks to an OpenAI-compatible /chat/completions endpoint.
type OpenAIChat struct {
	config *Config
	client *commonhttp.Client
	logger Logger
}

func NewOpenAIChat(config *Config, log Logger) *OpenAIChat {
	return &OpenAIChat{
		config: config,
		client: commonhttp.NewClient(config.Timeout, commonhttp.WithMaxRetries(config.MaxRetries)),
		logger: log.With(map[string]interface{}{
			"component": "openai-chat",
			"model":     config.Model,
		}),
	}
}

func (c *OpenAIChat) Complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	ctx, span := otel.Tracer("travelbot/structured-parser").Start(ctx, "llm.chat_completion", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.config.Model),
		attribute.Int("llm.messages", len(messages)),
	)

	started := time.Now()
	reply, err := c.complete(ctx, messages)
	metrics.ObserveProvider("openai", "chat_completion", metrics.OutcomeFor(err, len(reply)), started)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return reply, nil
}

func (c *OpenAIChat) complete(ctx context.Context, messages []models.ChatMessage) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	reqBody := chatRequest{
		Model:       c.config.Model,
		Temperature: c.config.Temperature,
		Messages:    make([]chatMessage, 0, len(messages)),
	}
	for _, m := range messages {
		reqBody.Messages = append(reqBody.Messages, chatMessage{Role: m.Role, Content: m.Content})
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", ErrLLMRequestFailed, err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	resp, err := c.client.DoWithContext(ctx, req)
	if err != nil {
		var netErr net.Error
		if ctx.Err() == context.DeadlineExceeded || errors.Is(err, context.DeadlineExceeded) ||
			(errors.As(err, &netErr) && netErr.Timeout()) {
			return "", ErrLLMTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrLLMRequestFailed, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrLLMRequestFailed, err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: status %d, decode error: %v", ErrLLMRequestFailed, resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("status %d", resp.StatusCode)
		if parsed.Error != nil {
			msg = fmt.Sprintf("%s: %s", msg, parsed.Error.Message)
		}
		return "", fmt.Errorf("%w: %s", ErrLLMRequestFailed, msg)
	}
	if len(parsed.Choices) == 0 || strings.TrimSpace(parsed.Choices[0].Message.Content) == "" {
		return "", ErrLLMEmptyReply
	}

	c.logger.Info("chat completion received", map[string]interface{}{
		"messages":    len(messages),
		"replyLength": len(parsed.Choices[0].Message.Content),
	})

	return parsed.Choices[0].Message.Content, nil
}
