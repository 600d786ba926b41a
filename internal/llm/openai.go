package llm

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"mintybot/internal/config"
	"mintybot/internal/conversation"
	"mintybot/internal/retry"
)

var (
	ErrInvalidModel  = errors.New("model is required")
	ErrEmptyResponse = errors.New("empty response from model")
)

// OpenAIClient — клиент chat-completions API поверх go-openai.
// Временные сбои (429, 5xx, сетевые таймауты) повторяются по политике retry.
type OpenAIClient struct {
	client *openai.Client
	policy retry.Policy
	logger *slog.Logger
}

// NewOpenAIClient создаёт клиент. httpClient задаёт транспорт и общий таймаут,
// базовый URL можно переопределить для совместимых провайдеров.
func NewOpenAIClient(cfg config.OpenAIConfig, httpClient *http.Client, logger *slog.Logger) *OpenAIClient {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientConfig),
		policy: retry.DefaultPolicy(),
		logger: logger,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, model string, transcript []conversation.Turn) (string, error) {
	if model == "" {
		return "", ErrInvalidModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(transcript))
	for _, turn := range transcript {
		messages = append(messages, convertTurn(turn))
	}

	request := openai.ChatCompletionRequest{
		Model:    model,
		Messages: messages,
	}

	var answer string
	err := retry.Do(ctx, c.policy, c.logger, isTransient, func(ctx context.Context) error {
		resp, err := c.client.CreateChatCompletion(ctx, request)
		if err != nil {
			return err
		}
		if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
			return ErrEmptyResponse
		}
		answer = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return "", err
	}
	return answer, nil
}

// convertTurn переводит реплику в формат chat-completions.
// Роль developer уходит на провод как system: для chat-completions это
// один и тот же уровень инструкций.
func convertTurn(turn conversation.Turn) openai.ChatCompletionMessage {
	role := openai.ChatMessageRoleUser
	switch turn.Role {
	case conversation.RoleAssistant:
		role = openai.ChatMessageRoleAssistant
	case conversation.RoleDeveloper:
		role = openai.ChatMessageRoleSystem
	}

	if len(turn.Content) == 1 && turn.Content[0].Type == conversation.PartText {
		return openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content[0].Text,
		}
	}

	multiContent := make([]openai.ChatMessagePart, 0, len(turn.Content))
	for _, part := range turn.Content {
		switch part.Type {
		case conversation.PartText:
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		case conversation.PartImage:
			multiContent = append(multiContent, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{
					URL:    part.ImageURL,
					Detail: openai.ImageURLDetailAuto,
				},
			})
		}
	}

	return openai.ChatCompletionMessage{
		Role:         role,
		MultiContent: multiContent,
	}
}

// isTransient отделяет временные сбои провайдера от постоянных.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= 500
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}
