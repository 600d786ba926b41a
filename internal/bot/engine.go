package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mintybot/internal/admin"
	"mintybot/internal/conversation"
	"mintybot/internal/gateway"
	"mintybot/internal/llm"

	"log/slog"
)

// AuditLogger пишет журнал обменов с моделью. Ошибки журнала не фатальны.
type AuditLogger interface {
	LogExchange(channelID string, transcript []conversation.Turn, response string, duration time.Duration) error
}

type EngineDeps struct {
	Store   *conversation.Store
	LLM     llm.Client
	Admin   *admin.Interpreter
	Replier gateway.Replier
	// Audit может быть nil, тогда журнал переписки не ведётся.
	Audit      AuditLogger
	Logger     *slog.Logger
	LLMTimeout time.Duration
}

// Engine связывает интерпретатор команд, хранилище и LLM.
// Одно входящее сообщение — одно решение: команда, диалог или ничего.
type Engine struct {
	store      *conversation.Store
	llm        llm.Client
	admin      *admin.Interpreter
	replier    gateway.Replier
	audit      AuditLogger
	logger     *slog.Logger
	llmTimeout time.Duration
}

func NewEngine(deps EngineDeps) *Engine {
	timeout := deps.LLMTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Engine{
		store:      deps.Store,
		llm:        deps.LLM,
		admin:      deps.Admin,
		replier:    deps.Replier,
		audit:      deps.Audit,
		logger:     deps.Logger,
		llmTimeout: timeout,
	}
}

// HandleEvent обрабатывает входящее сообщение до конца: ответ уходит через
// Replier, ошибки внешних вызовов видимы пользователю и не валят процесс.
func (e *Engine) HandleEvent(ctx context.Context, event gateway.Event) {
	text := strings.TrimSpace(event.Text)
	imageURL := event.ImageURL()
	if text == "" && imageURL == "" {
		return
	}

	// Команды перехватываются до диалогового потока и в историю не попадают.
	if reply, handled := e.admin.Handle(event.ChannelID, event.Author.ID, text); handled {
		e.reply(ctx, event.ChannelID, reply)
		return
	}

	// Реплика пользователя становится долговечной до обращения к модели:
	// сбой модели не теряет сообщение.
	turn := conversation.UserTurn(text, event.Author.Name)
	if imageURL != "" {
		turn = conversation.UserTurnWithImage(text, event.Author.Name, imageURL)
	}
	e.store.Append(event.ChannelID, turn)

	transcript := e.store.Read(event.ChannelID)
	model := e.store.Model()

	llmCtx, cancel := context.WithTimeout(ctx, e.llmTimeout)
	defer cancel()

	start := time.Now()
	answer, err := e.llm.Complete(llmCtx, model, transcript)
	duration := time.Since(start)
	if err != nil {
		e.logger.Error("llm request failed",
			slog.String("channel_id", event.ChannelID),
			slog.String("model", model),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		e.reply(ctx, event.ChannelID, fmt.Sprintf("Sorry, I couldn't get a response from the model at the moment. Error: %v", err))
		return
	}

	e.store.Append(event.ChannelID, conversation.AssistantTurn(answer))

	if e.audit != nil {
		if err := e.audit.LogExchange(event.ChannelID, transcript, answer, duration); err != nil {
			e.logger.Warn("audit log failed", slog.String("error", err.Error()))
		}
	}

	e.reply(ctx, event.ChannelID, answer)
}

func (e *Engine) reply(ctx context.Context, channelID string, text string) {
	if err := e.replier.Reply(ctx, channelID, text); err != nil {
		e.logger.Error("reply failed",
			slog.String("channel_id", channelID),
			slog.String("error", err.Error()))
	}
}
