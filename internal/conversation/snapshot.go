package conversation

import "mintybot/internal/personality"

const (
	// SnapshotVersion — версия формата сохраняемого состояния. При несовпадении
	// версии на загрузке всё состояние сбрасывается к значениям по умолчанию,
	// без миграции по отдельным полям.
	SnapshotVersion = 2

	// DefaultModel используется, пока администратор не сменил модель.
	DefaultModel = "gpt-5"
)

// Snapshot — полное сериализуемое состояние бота. Снимок снимается под
// блокировкой Store и дальше живёт независимо от него.
type Snapshot struct {
	Version              int                                `json:"version"`
	CurrentModel         string                             `json:"current_model"`
	DefaultPersonality   personality.Personality            `json:"default_personality"`
	ChannelPersonalities map[string]personality.Personality `json:"channel_personalities,omitempty"`
	Conversations        map[string][]Turn                  `json:"conversations"`
}

// DefaultSnapshot возвращает состояние по умолчанию.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Version:              SnapshotVersion,
		CurrentModel:         DefaultModel,
		DefaultPersonality:   personality.Default(),
		ChannelPersonalities: map[string]personality.Personality{},
		Conversations:        map[string][]Turn{},
	}
}
