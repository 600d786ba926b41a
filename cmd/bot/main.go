package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mintybot/internal/admin"
	"mintybot/internal/audit"
	"mintybot/internal/bot"
	"mintybot/internal/config"
	"mintybot/internal/conversation"
	"mintybot/internal/gateway"
	"mintybot/internal/httpserver"
	"mintybot/internal/llm"
	"mintybot/internal/persist"
	"mintybot/internal/transport"
	"log/slog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := newLogger(cfg.LogLevel)

	fileStore, err := persist.NewFileStore(cfg.StatePath)
	if err != nil {
		log.Fatalf("failed to init state file store: %v", err)
	}

	store := conversation.NewStore(conversation.Config{
		Saver:      fileStore,
		MaxHistory: cfg.MaxHistory,
		Logger:     logger,
	})
	restoreState(fileStore, store, cfg, logger)

	llmClient := llm.NewOpenAIClient(cfg.OpenAI, transport.NewHTTPClient(cfg.LLMTimeout), logger)
	replier := gateway.NewHTTPReplier(cfg.Gateway, transport.NewHTTPClient(cfg.RequestTimeout))

	engine := bot.NewEngine(bot.EngineDeps{
		Store:      store,
		LLM:        llmClient,
		Admin:      admin.NewInterpreter(store, cfg.AdminUserID, logger),
		Replier:    replier,
		Audit:      audit.New(cfg.AuditLogDir),
		Logger:     logger,
		LLMTimeout: cfg.LLMTimeout,
	})

	webhookHandler := gateway.NewWebhookHandler(gateway.WebhookDeps{
		Handler: engine,
		Logger:  logger,
		Secret:  cfg.Gateway.Secret,
		BotID:   cfg.Gateway.BotID,
		BotName: cfg.Gateway.BotName,
	})

	router := httpserver.NewRouter(httpserver.RouterDeps{
		Logger:         logger,
		Store:          store,
		WebhookHandler: webhookHandler,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server starting", slog.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.String("error", err.Error()))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.String("error", err.Error()))
	}

	logger.Info("server stopped")
}

// restoreState загружает снимок с диска. Несовпадение версии формата или
// нечитаемый файл приводят к полному сбросу к значениям по умолчанию.
func restoreState(fileStore *persist.FileStore, store *conversation.Store, cfg config.Config, logger *slog.Logger) {
	snap := conversation.DefaultSnapshot()
	if cfg.OpenAI.DefaultModel != "" {
		snap.CurrentModel = cfg.OpenAI.DefaultModel
	}

	loaded, found, err := fileStore.Load()
	switch {
	case err != nil:
		logger.Warn("state load failed, starting clean", slog.String("error", err.Error()))
	case !found:
		logger.Info("no existing state file found, using default state")
	case loaded.Version != conversation.SnapshotVersion:
		logger.Warn("state version mismatch, resetting to defaults",
			slog.Int("file_version", loaded.Version),
			slog.Int("current_version", conversation.SnapshotVersion))
	default:
		snap = loaded
		logger.Info("bot state loaded",
			slog.String("model", snap.CurrentModel),
			slog.Int("channels", len(snap.Conversations)))
	}

	store.Restore(snap)
}

func newLogger(level string) *slog.Logger {
	slogLevel := slog.LevelInfo
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
}
