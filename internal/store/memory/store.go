package memory

import (
	"context"
	"sort"
	"sync"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

// Store keeps all three collections in process memory behind one RWMutex.
// It backs tests and DSN-less development runs; durability is the MySQL
// backend's job.
type Store struct {
	mu           sync.RWMutex
	rooms        map[string]*models.Room
	messages     map[string][]models.Message
	transactions map[string]map[string][]models.Transaction
	writes       int64
}

func New() *Store {
	return &Store{
		rooms:        make(map[string]*models.Room),
		messages:     make(map[string][]models.Message),
		transactions: make(map[string]map[string][]models.Transaction),
	}
}

func (s *Store) ListRooms(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.rooms))
	for name := range s.rooms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) GetRoom(_ context.Context, name string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rooms[name]
	if !ok {
		return nil, store.ErrRoomNotFound
	}
	return r.Clone(), nil
}

func (s *Store) SaveRoom(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.rooms[room.Name]
	switch {
	case !exists && room.Version != 0:
		return store.ErrVersionConflict
	case exists && cur.Version != room.Version:
		return store.ErrVersionConflict
	}
	room.Version++
	s.rooms[room.Name] = room.Clone()
	s.writes++
	return nil
}

func (s *Store) AppendMessage(_ context.Context, room string, msg models.Message, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	msgs := append(s.messages[room], msg)
	if keep > 0 && len(msgs) > keep {
		msgs = msgs[len(msgs)-keep:]
	}
	s.messages[room] = msgs
	s.writes++
	return nil
}

func (s *Store) Messages(_ context.Context, room string, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[room]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	out := make([]models.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *Store) AppendTransactions(_ context.Context, room string, entries []models.LedgerEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byMember, ok := s.transactions[room]
	if !ok {
		byMember = make(map[string][]models.Transaction)
		s.transactions[room] = byMember
	}
	for _, e := range entries {
		byMember[e.MemberID] = append(byMember[e.MemberID], e.Transaction)
	}
	s.writes++
	return nil
}

func (s *Store) Transactions(_ context.Context, room, memberID string) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	txs := s.transactions[room][memberID]
	out := make([]models.Transaction, len(txs))
	copy(out, txs)
	return out, nil
}

func (s *Store) Ping(_ context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// Writes reports how many committed writes the store has seen. Tests use it
// to prove refresh cycles are read-only.
func (s *Store) Writes() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes
}
