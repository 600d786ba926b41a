package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"mintybot/internal/config"
)

const headerGatewaySecret = "X-Gateway-Secret"

// Replier доставляет ответ бота в канал чат-платформы.
type Replier interface {
	Reply(ctx context.Context, channelID string, text string) error
}

// HTTPReplier отправляет ответы мосту чат-платформы. Исходящий текст режется
// на куски по лимиту платформы здесь, на границе с мостом.
type HTTPReplier struct {
	replyURL   string
	secret     string
	httpClient *http.Client
}

func NewHTTPReplier(cfg config.GatewayConfig, httpClient *http.Client) *HTTPReplier {
	return &HTTPReplier{
		replyURL:   cfg.ReplyURL,
		secret:     cfg.Secret,
		httpClient: httpClient,
	}
}

func (r *HTTPReplier) Reply(ctx context.Context, channelID string, text string) error {
	for _, chunk := range Chunk(text, MessageLimit) {
		if err := r.send(ctx, channelID, chunk); err != nil {
			return err
		}
	}
	return nil
}

func (r *HTTPReplier) send(ctx context.Context, channelID string, text string) error {
	payload := replyRequest{
		ChannelID: channelID,
		Text:      text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal reply: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.replyURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.secret != "" {
		req.Header.Set(headerGatewaySecret, r.secret)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute reply request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway status %d: %s", resp.StatusCode, string(respBody))
	}

	var parsed replyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decode gateway response: %w", err)
	}
	if !parsed.Ok {
		return fmt.Errorf("gateway rejected reply")
	}
	return nil
}
