package database

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"ticket-relay-bot/internal/logger"

	"github.com/natefinch/atomic"
)

// FileStore держит все обращения в памяти и переписывает файл целиком
// после каждого изменения.
type FileStore struct {
	path string

	mu      sync.RWMutex
	tickets map[string]Ticket
}

func OpenFileStore(path string) *FileStore {
	return &FileStore{
		path:    path,
		tickets: LoadTickets(path),
	}
}

// LoadTickets читает файл обращений. Нет файла или битый json - пустая карта.
func LoadTickets(path string) map[string]Ticket {
	tickets := make(map[string]Ticket)

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warning("Error while read tickets file", path, err)
		}
		return tickets
	}

	if err := json.Unmarshal(data, &tickets); err != nil || tickets == nil {
		logger.Warning("Tickets file is malformed, starting empty", path, err)
		return make(map[string]Ticket)
	}

	return tickets
}

// SaveTickets сериализует карту целиком: отступ 2 пробела, не-ASCII как есть.
// Файл подменяется атомарно через временный файл.
func SaveTickets(path string, tickets map[string]Ticket) error {
	if tickets == nil {
		tickets = map[string]Ticket{}
	}

	buf := new(bytes.Buffer)
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tickets); err != nil {
		return fmt.Errorf("encode tickets: %w", err)
	}

	if err := atomic.WriteFile(path, bytes.NewReader(bytes.TrimRight(buf.Bytes(), "\n"))); err != nil {
		return fmt.Errorf("write tickets %s: %w", path, err)
	}
	return nil
}

func (s *FileStore) Get(_ context.Context, ref string) (Ticket, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[ref]
	return t, ok, nil
}

// Put кладет обращение в карту и сразу сохраняет файл. Если запись не удалась,
// обращение остается в памяти: хранение best-effort.
func (s *FileStore) Put(_ context.Context, ref string, ticket Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets[ref] = ticket
	return SaveTickets(s.path, s.tickets)
}

func (s *FileStore) List(_ context.Context) (map[string]Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(map[string]Ticket, len(s.tickets))
	for k, v := range s.tickets {
		cp[k] = v
	}
	return cp, nil
}

func (s *FileStore) Close() error {
	return nil
}
