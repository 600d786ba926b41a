package conversation

import (
	"log/slog"
	"sync"

	"mintybot/internal/personality"
)

// DefaultMaxHistory — ёмкость истории одного канала.
const DefaultMaxHistory = 300

// Saver получает снимок состояния после каждой мутации.
// Запись выполняется уже после освобождения блокировки Store.
type Saver interface {
	Save(Snapshot) error
}

// Config — зависимости Store.
type Config struct {
	// Saver может быть nil, тогда состояние живёт только в памяти.
	Saver      Saver
	MaxHistory int
	Logger     *slog.Logger
}

// channelState — история и необязательная привязка личности одного канала.
type channelState struct {
	history []Turn
	// personality == nil означает «использовать личность по умолчанию».
	personality *personality.Personality
}

// Store — единственный владелец изменяемого состояния бота.
// Все чтения и записи сериализуются через один мьютекс; блокировка никогда
// не удерживается во время сетевых вызовов или записи на диск.
type Store struct {
	mu sync.Mutex

	maxHistory int
	saver      Saver
	logger     *slog.Logger

	currentModel       string
	defaultPersonality personality.Personality
	channels           map[string]*channelState
}

// NewStore создаёт Store с состоянием по умолчанию.
func NewStore(cfg Config) *Store {
	if cfg.MaxHistory <= 0 {
		cfg.MaxHistory = DefaultMaxHistory
	}
	s := &Store{
		maxHistory: cfg.MaxHistory,
		saver:      cfg.Saver,
		logger:     cfg.Logger,
	}
	s.restoreLocked(DefaultSnapshot())
	return s
}

// Restore заменяет состояние в памяти содержимым снимка.
// Не пишет на диск: вызывается на старте из только что загруженного файла.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.restoreLocked(snap)
}

func (s *Store) restoreLocked(snap Snapshot) {
	s.currentModel = snap.CurrentModel
	if s.currentModel == "" {
		s.currentModel = DefaultModel
	}
	s.defaultPersonality = snap.DefaultPersonality
	if s.defaultPersonality.Kind == "" {
		s.defaultPersonality = personality.Default()
	}

	s.channels = make(map[string]*channelState, len(snap.Conversations))
	for channelID, turns := range snap.Conversations {
		s.channels[channelID] = &channelState{history: cloneTurns(turns)}
	}
	for channelID, p := range snap.ChannelPersonalities {
		ch := s.channelLocked(channelID)
		bound := p
		ch.personality = &bound
	}
}

// channelLocked возвращает состояние канала, создавая его при необходимости.
func (s *Store) channelLocked(channelID string) *channelState {
	ch, ok := s.channels[channelID]
	if !ok {
		ch = &channelState{}
		s.channels[channelID] = ch
	}
	return ch
}

// Append добавляет реплику в хвост истории канала и вытесняет старые реплики
// с головы, пока длина превышает ёмкость. Строгий FIFO, без исключений по ролям.
func (s *Store) Append(channelID string, turn Turn) {
	s.mu.Lock()
	ch := s.channelLocked(channelID)
	ch.history = append(ch.history, turn)
	for len(ch.history) > s.maxHistory {
		ch.history = ch.history[1:]
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
}

// Read возвращает синтезированный системный промпт плюс копию истории канала.
// Никогда не создаёт запись канала: статусные чтения не фабрикуют состояние.
func (s *Store) Read(channelID string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.personalityForLocked(channelID)
	ch := s.channels[channelID]

	size := 1
	if ch != nil {
		size += len(ch.history)
	}
	out := make([]Turn, 0, size)
	out = append(out, DeveloperTurn(p.SystemPrompt()))
	if ch != nil {
		out = append(out, cloneTurns(ch.history)...)
	}
	return out
}

// Remove удаляет запись канала целиком: и историю, и привязку личности.
func (s *Store) Remove(channelID string) {
	s.mu.Lock()
	delete(s.channels, channelID)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
}

// SetPersonality привязывает личность к каналу, создавая запись с пустой
// историей, если канала ещё не было.
func (s *Store) SetPersonality(channelID string, p personality.Personality) {
	s.mu.Lock()
	ch := s.channelLocked(channelID)
	ch.personality = &p
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
}

// PersonalityFor возвращает личность канала либо личность по умолчанию.
func (s *Store) PersonalityFor(channelID string) personality.Personality {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.personalityForLocked(channelID)
}

func (s *Store) personalityForLocked(channelID string) personality.Personality {
	if ch, ok := s.channels[channelID]; ok && ch.personality != nil {
		return *ch.personality
	}
	return s.defaultPersonality
}

// ChannelIDs возвращает идентификаторы всех каналов с какой-либо записью.
func (s *Store) ChannelIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.channels))
	for id := range s.channels {
		ids = append(ids, id)
	}
	return ids
}

// TurnCount возвращает длину сохранённой истории канала,
// без синтезированного системного промпта.
func (s *Store) TurnCount(channelID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ch, ok := s.channels[channelID]; ok {
		return len(ch.history)
	}
	return 0
}

// TotalTurnCount возвращает суммарную длину историй всех каналов.
func (s *Store) TotalTurnCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int
	for _, ch := range s.channels {
		total += len(ch.history)
	}
	return total
}

// Model возвращает текущую модель.
func (s *Store) Model() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentModel
}

// SetModel меняет текущую модель и возвращает предыдущую.
func (s *Store) SetModel(model string) string {
	s.mu.Lock()
	old := s.currentModel
	s.currentModel = model
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.persist(snap)
	return old
}

// Snapshot возвращает глубокую копию всего состояния.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Version:              SnapshotVersion,
		CurrentModel:         s.currentModel,
		DefaultPersonality:   s.defaultPersonality,
		ChannelPersonalities: make(map[string]personality.Personality),
		Conversations:        make(map[string][]Turn, len(s.channels)),
	}
	for channelID, ch := range s.channels {
		snap.Conversations[channelID] = cloneTurns(ch.history)
		if ch.personality != nil {
			snap.ChannelPersonalities[channelID] = *ch.personality
		}
	}
	return snap
}

// persist отдаёт снимок на запись. Ошибка записи логируется и не всплывает:
// состояние в памяти остаётся авторитетным до следующей удачной записи.
func (s *Store) persist(snap Snapshot) {
	if s.saver == nil {
		return
	}
	if err := s.saver.Save(snap); err != nil && s.logger != nil {
		s.logger.Error("state save failed", slog.String("error", err.Error()))
	}
}
