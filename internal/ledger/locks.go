package ledger

import "sync"

// roomLocks hands out one mutex per room name so every read-modify-write
// cycle against a room runs alone. Locks are never released back; the set of
// rooms is small and rooms are never deleted.
type roomLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newRoomLocks() *roomLocks {
	return &roomLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *roomLocks) get(room string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.locks[room]; ok {
		return m
	}
	m := &sync.Mutex{}
	l.locks[room] = m
	return m
}
