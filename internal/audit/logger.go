package audit

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"mintybot/internal/conversation"
)

const logFileName = "conversations.log"

// Logger пишет журнал переписки с моделью в append-only файл.
// Сбои журнала не должны влиять на путь ответа: вызывающий только логирует их.
type Logger struct {
	mu  sync.Mutex
	dir string
	now func() time.Time
}

// New создаёт журнал в указанном каталоге.
func New(dir string) *Logger {
	return &Logger{
		dir: dir,
		now: time.Now,
	}
}

// LogExchange дописывает один обмен: транскрипт запроса, ответ модели
// и длительность вызова.
func (l *Logger) LogExchange(channelID string, transcript []conversation.Turn, response string, duration time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	file, err := os.OpenFile(filepath.Join(l.dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer file.Close()

	fmt.Fprintf(file, "\n\n=====================================================\n")
	fmt.Fprintf(file, "Channel ID: %s\n", channelID)
	fmt.Fprintf(file, "Timestamp: %s\n", l.now().Format(time.RFC3339))
	fmt.Fprintf(file, "API Call Duration: %s\n", duration)
	fmt.Fprintf(file, "=====================================================\n")

	fmt.Fprintf(file, "\n[REQUEST]\n")
	for _, turn := range transcript {
		fmt.Fprintln(file, turn.String())
	}

	fmt.Fprintf(file, "\n[RESPONSE]\n%s\n", response)

	return nil
}
