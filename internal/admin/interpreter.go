package admin

import (
	"fmt"
	"log/slog"
	"strings"

	"mintybot/internal/conversation"
	"mintybot/internal/personality"
)

const (
	replyDenied       = "You are not admin. Request denied."
	replyForgotten    = "Conversation history has been cleared."
	replyModelUsage   = "Please specify a model name."
	replyDevUsage     = "Please specify a developer message."
	replyDevAdded     = "Developer message added to conversation history."
	replyPersonaUsage = "Please specify a personality."
)

// Interpreter разбирает административные команды и применяет их к состоянию.
// Собственного состояния не имеет: одно решение на одно входящее сообщение.
type Interpreter struct {
	store   *conversation.Store
	adminID string
	logger  *slog.Logger
}

// NewInterpreter создаёт интерпретатор, привязанный к единственному
// авторизованному пользователю.
func NewInterpreter(store *conversation.Store, adminID string, logger *slog.Logger) *Interpreter {
	return &Interpreter{
		store:   store,
		adminID: adminID,
		logger:  logger,
	}
}

// Handle обрабатывает сообщение как команду. handled == false означает,
// что это не команда и сообщение должно уйти в обычный диалоговый поток.
// Распознанная команда от чужого пользователя поглощается с отказом:
// в историю она не попадает.
func (i *Interpreter) Handle(channelID, authorID, text string) (reply string, handled bool) {
	cmd, ok := Parse(text)
	if !ok {
		return "", false
	}

	if authorID != i.adminID {
		if i.logger != nil {
			i.logger.Warn("admin command denied",
				slog.String("author_id", authorID),
				slog.String("channel_id", channelID))
		}
		return replyDenied, true
	}

	switch cmd.Kind {
	case KindForget:
		return i.handleForget(channelID), true
	case KindModel:
		return i.handleModel(cmd.Arg), true
	case KindStatus:
		return i.handleStatus(channelID), true
	case KindDev:
		return i.handleDev(channelID, cmd.Arg), true
	case KindGetPersonality:
		return i.handleGetPersonality(channelID), true
	case KindSetPersonality:
		return i.handleSetPersonality(channelID, cmd.Arg), true
	default:
		return "", false
	}
}

func (i *Interpreter) handleForget(channelID string) string {
	i.store.Remove(channelID)
	return replyForgotten
}

func (i *Interpreter) handleModel(name string) string {
	if name == "" {
		return replyModelUsage
	}
	old := i.store.SetModel(name)
	if i.logger != nil {
		i.logger.Info("model changed", slog.String("from", old), slog.String("to", name))
	}
	return fmt.Sprintf("Model changed from %s to %s", old, name)
}

// handleStatus собирает сводку из живых значений, ничего не кэшируя.
func (i *Interpreter) handleStatus(channelID string) string {
	return fmt.Sprintf(`**Bot Status**
- Current model: `+"`%s`"+`
- Personality: %s
- This channel history: %d messages
- Total history: %d messages across %d channels`,
		i.store.Model(),
		i.store.PersonalityFor(channelID).Name(),
		i.store.TurnCount(channelID),
		i.store.TotalTurnCount(),
		len(i.store.ChannelIDs()))
}

func (i *Interpreter) handleDev(channelID, text string) string {
	if text == "" {
		return replyDevUsage
	}
	i.store.Append(channelID, conversation.DeveloperTurn(text))
	return replyDevAdded
}

func (i *Interpreter) handleGetPersonality(channelID string) string {
	p := i.store.PersonalityFor(channelID)
	return fmt.Sprintf("Current personality: %s\n\n%s", p.Name(), p.SystemPrompt())
}

func (i *Interpreter) handleSetPersonality(channelID, spec string) string {
	if spec == "" {
		return replyPersonaUsage
	}
	p, ok := personality.Parse(spec)
	if !ok {
		return "Unknown personality. Valid options: " + strings.Join(personality.Options(), ", ")
	}
	i.store.SetPersonality(channelID, p)
	return fmt.Sprintf("Personality set to %s.", p.Name())
}
