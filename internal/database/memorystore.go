package database

import (
	"context"
	"sync"
)

// MemoryStore - хранилище без диска, для тестов и driver: memory.
type MemoryStore struct {
	mu      sync.RWMutex
	tickets map[string]Ticket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]Ticket)}
}

func (s *MemoryStore) Get(_ context.Context, ref string) (Ticket, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[ref]
	return t, ok, nil
}

func (s *MemoryStore) Put(_ context.Context, ref string, ticket Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tickets[ref] = ticket
	return nil
}

// Delete нужен только тестам: в боте обращения не удаляются.
func (s *MemoryStore) Delete(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.tickets, ref)
}

func (s *MemoryStore) List(_ context.Context) (map[string]Ticket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cp := make(map[string]Ticket, len(s.tickets))
	for k, v := range s.tickets {
		cp[k] = v
	}
	return cp, nil
}

func (s *MemoryStore) Close() error {
	return nil
}
