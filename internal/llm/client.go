package llm

import (
	"context"

	"mintybot/internal/conversation"
)

// Client минимальный публичный интерфейс LLM клиента.
// Транскрипт передаётся целиком: системный промпт плюс история канала.
type Client interface {
	Complete(ctx context.Context, model string, transcript []conversation.Turn) (string, error)
}
