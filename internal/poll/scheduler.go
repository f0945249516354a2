// Package poll implements the periodic-refresh side of the room surface.
// Connected clients do not get pushed state changes unless they hold a
// websocket; instead the scheduler re-reads every collection on a fixed
// cadence and republishes the latest committed snapshots.
package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/models"
	"poolroom/internal/store"
	"poolroom/internal/ws"
)

// State of the scheduler: Idle between ticks, Refreshing while reloading.
type State int32

const (
	Idle State = iota
	Refreshing
)

func (s State) String() string {
	if s == Refreshing {
		return "refreshing"
	}
	return "idle"
}

// Snapshot is one room's state as of the last completed refresh.
type Snapshot struct {
	Room        *models.Room                    `json:"room"`
	Messages    []models.Message                `json:"messages"`
	Ledgers     map[string][]models.Transaction `json:"ledgers"`
	RefreshedAt time.Time                       `json:"refreshed_at"`
}

// Scheduler reloads rooms, messages, and ledgers on a fixed interval.
// Refresh is strictly read-only.
type Scheduler struct {
	store    store.Store
	hub      *ws.Hub // optional push fan-out; nil means polling only
	interval time.Duration
	log      logrus.FieldLogger

	state     atomic.Int32
	mu        sync.RWMutex
	snapshots map[string]Snapshot
}

func NewScheduler(st store.Store, hub *ws.Hub, interval time.Duration, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		store:     st,
		hub:       hub,
		interval:  interval,
		log:       log,
		snapshots: make(map[string]Snapshot),
	}
}

// Run ticks until the context is cancelled. There is no terminal state: the
// scheduler lives as long as the process serves clients.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Refresh performs one Idle -> Refreshing -> Idle cycle: reload every room
// with its messages and ledgers, cache the snapshots, and push them to
// websocket subscribers.
func (s *Scheduler) Refresh(ctx context.Context) {
	s.state.Store(int32(Refreshing))
	defer s.state.Store(int32(Idle))

	rooms, err := s.store.ListRooms(ctx)
	if err != nil {
		s.log.WithError(err).Warn("refresh: list rooms failed")
		return
	}

	now := time.Now()
	for _, name := range rooms {
		room, err := s.store.GetRoom(ctx, name)
		if err != nil {
			s.log.WithError(err).WithField("room", name).Warn("refresh: room load failed")
			continue
		}
		msgs, err := s.store.Messages(ctx, name, store.MessageRetention)
		if err != nil {
			s.log.WithError(err).WithField("room", name).Warn("refresh: message load failed")
			continue
		}
		ledgers := make(map[string][]models.Transaction, len(room.Members))
		for id := range room.Members {
			txs, err := s.store.Transactions(ctx, name, id)
			if err != nil {
				s.log.WithError(err).WithField("room", name).Warn("refresh: ledger load failed")
				continue
			}
			ledgers[id] = txs
		}

		snap := Snapshot{Room: room, Messages: msgs, Ledgers: ledgers, RefreshedAt: now}
		s.mu.Lock()
		s.snapshots[name] = snap
		s.mu.Unlock()

		if s.hub != nil {
			s.hub.Broadcast(name, ws.Event{Type: "refresh", Data: snap})
		}
	}
}

// Snapshot returns the last refreshed view of a room, if one exists yet.
func (s *Scheduler) Snapshot(room string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[room]
	return snap, ok
}

// State reports whether the scheduler is between ticks or mid-reload.
func (s *Scheduler) State() State {
	return State(s.state.Load())
}
