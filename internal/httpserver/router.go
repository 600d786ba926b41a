package httpserver

import (
	"net/http"

	"mintybot/internal/conversation"
	"mintybot/internal/middleware"

	"log/slog"

	"github.com/go-chi/chi/v5"
)

type RouterDeps struct {
	Logger         *slog.Logger
	Store          *conversation.Store
	WebhookHandler http.Handler
}

type statusResponse struct {
	Model      string `json:"model"`
	Channels   int    `json:"channels"`
	TotalTurns int    `json:"total_turns"`
}

// NewRouter собирает chi-роутер с общими middleware.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Живая сводка состояния для мониторинга, всегда без кэша.
	r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, statusResponse{
			Model:      deps.Store.Model(),
			Channels:   len(deps.Store.ChannelIDs()),
			TotalTurns: deps.Store.TotalTurnCount(),
		})
	})

	r.Post("/gateway/webhook", deps.WebhookHandler.ServeHTTP)

	return r
}
