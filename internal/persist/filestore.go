package persist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"mintybot/internal/conversation"
)

// FileStore пишет снимок состояния бота в один JSON-файл.
// Запись атомарна: сначала во временный файл рядом с целевым, затем rename.
// Файл .tmp, оставшийся после сбоя, никогда не считается каноническим.
type FileStore struct {
	path string
}

// NewFileStore создаёт FileStore для указанного пути.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("filestore path is empty")
	}
	return &FileStore{path: path}, nil
}

// Load читает снимок с диска. Отсутствие файла — не ошибка: возвращается
// found == false, а каталог создаётся для будущих записей.
// Нечитаемый JSON возвращается как ошибка, решение о сбросе принимает вызывающий.
func (f *FileStore) Load() (conversation.Snapshot, bool, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if mkErr := os.MkdirAll(filepath.Dir(f.path), 0o755); mkErr != nil {
				return conversation.Snapshot{}, false, fmt.Errorf("create state dir: %w", mkErr)
			}
			return conversation.Snapshot{}, false, nil
		}
		return conversation.Snapshot{}, false, fmt.Errorf("read state file: %w", err)
	}
	if len(data) == 0 {
		return conversation.Snapshot{}, false, nil
	}

	var snap conversation.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return conversation.Snapshot{}, false, fmt.Errorf("unmarshal state: %w", err)
	}
	return snap, true, nil
}

// Save атомарно записывает снимок: временный файл, fsync, rename поверх
// канонического пути. Границей долговечности является rename, а не запись:
// сбой до rename оставляет прежний файл нетронутым.
func (f *FileStore) Save(snap conversation.Snapshot) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := tmpFile.Name()
	if err := os.Chmod(tmpName, 0o600); err != nil && !errors.Is(err, os.ErrPermission) {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
