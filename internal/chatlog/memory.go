package chatlog

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps transcripts in process. It is used when no Mongo URI is
// configured.
type MemoryStore struct {
	mu   sync.Mutex
	logs map[uuid.UUID][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[uuid.UUID][]Message)}
}

func (s *MemoryStore) Append(_ context.Context, userID uuid.UUID, msgs ...Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs[userID] = append(s.logs[userID], stamp(userID, msgs)...)
	return nil
}

func (s *MemoryStore) History(_ context.Context, userID uuid.UUID, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.logs[userID]
	if n := clampLimit(limit); len(all) > n {
		all = all[len(all)-n:]
	}
	return append([]Message{}, all...), nil
}

func (s *MemoryStore) Clear(_ context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, userID)
	return nil
}
