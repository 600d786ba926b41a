package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mintybot/internal/httpserver"

	"log/slog"
)

// Handler обрабатывает одно входящее сообщение. Реализуется движком бота.
type Handler interface {
	HandleEvent(ctx context.Context, event Event)
}

type WebhookDeps struct {
	Handler Handler
	Logger  *slog.Logger
	Secret  string
	BotID   string
	BotName string
}

// WebhookHandler принимает события моста чат-платформы.
// Сообщения ботов и сообщения без упоминания отбрасываются до движка.
type WebhookHandler struct {
	handler Handler
	logger  *slog.Logger
	secret  string
	botID   string
	botName string
}

func NewWebhookHandler(deps WebhookDeps) *WebhookHandler {
	return &WebhookHandler{
		handler: deps.Handler,
		logger:  deps.Logger,
		secret:  deps.Secret,
		botID:   deps.BotID,
		botName: deps.BotName,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.secret != "" {
		if secret := r.Header.Get(headerGatewaySecret); secret != h.secret {
			httpserver.WriteJSONError(w, http.StatusForbidden, "forbidden", "invalid gateway secret")
			return
		}
	}

	var event Event
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", "cannot parse event")
		return
	}

	if result := ValidateEvent(event); !result.IsValid {
		httpserver.WriteJSONError(w, http.StatusBadRequest, "bad_request", strings.Join(result.Errors, "; "))
		return
	}

	// Собственные сообщения бота и чужих ботов игнорируются.
	if event.Author.Bot {
		writeOK(w)
		return
	}

	mentioned, stripped := StripMentions(event.Text, h.botID, h.botName)
	if !event.MentionsBot && !mentioned {
		writeOK(w)
		return
	}
	event.Text = stripped

	h.logger.Debug("gateway event accepted",
		slog.String("channel_id", event.ChannelID),
		slog.String("author_id", event.Author.ID))

	h.handler.HandleEvent(r.Context(), event)
	writeOK(w)
}

func writeOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true}`))
}
