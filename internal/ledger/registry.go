package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

// Registry owns room and membership lifecycle: listing, seeding, and the
// join flow with its pool accounting.
type Registry struct {
	store store.Store
	locks *roomLocks
	log   logrus.FieldLogger
}

// Engine computes proportional settlements and appends them to every
// member's ledger.
type Engine struct {
	store store.Store
	locks *roomLocks
	log   logrus.FieldLogger
}

// Chat appends and reads a room's bounded message log.
type Chat struct {
	store store.Store
	log   logrus.FieldLogger
}

// New builds the three services over one store. Registry and Engine share
// the per-room locks because join, split, and profit all read-modify-write
// the same room and must serialize against each other.
func New(st store.Store, log logrus.FieldLogger) (*Registry, *Engine, *Chat) {
	locks := newRoomLocks()
	return &Registry{store: st, locks: locks, log: log},
		&Engine{store: st, locks: locks, log: log},
		&Chat{store: st, log: log}
}

// ListRooms returns all room names, sorted.
func (r *Registry) ListRooms(ctx context.Context) ([]string, error) {
	return r.store.ListRooms(ctx)
}

// Room returns the current snapshot of a room.
func (r *Registry) Room(ctx context.Context, name string) (*models.Room, error) {
	return r.store.GetRoom(ctx, name)
}

// Ensure creates every named room that does not exist yet. Used at startup
// for the seed rooms; losing the creation race to another process is fine.
func (r *Registry) Ensure(ctx context.Context, names []string) error {
	for _, name := range names {
		_, err := r.store.GetRoom(ctx, name)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrRoomNotFound) {
			return err
		}
		if err := r.store.SaveRoom(ctx, models.NewRoom(name)); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				continue
			}
			return err
		}
		r.log.WithField("room", name).Info("room created")
	}
	return nil
}

// Join adds a member with a fixed positive contribution, grows the pool by
// the same amount, and announces the join in the room's chat. It returns the
// member's share of the pool after the join.
//
// Joining an unknown room creates it. A repeat join leaves the room
// untouched and returns the existing share together with ErrAlreadyMember.
func (r *Registry) Join(ctx context.Context, room, memberID, displayName string, contribution float64) (float64, error) {
	if room == "" || memberID == "" {
		return 0, fmt.Errorf("%w: room and member id required", ErrValidation)
	}
	if contribution <= 0 {
		return 0, fmt.Errorf("%w: contribution must be positive", ErrValidation)
	}
	if displayName == "" {
		displayName = memberID
	}

	lock := r.locks.get(room)
	lock.Lock()
	defer lock.Unlock()

	snap, err := r.store.GetRoom(ctx, room)
	if errors.Is(err, store.ErrRoomNotFound) {
		snap = models.NewRoom(room)
	} else if err != nil {
		return 0, err
	}

	if _, ok := snap.Members[memberID]; ok {
		return snap.Share(memberID), ErrAlreadyMember
	}

	snap.Members[memberID] = models.Member{
		ID:           memberID,
		DisplayName:  displayName,
		Contribution: contribution,
		JoinedAt:     time.Now(),
	}
	snap.TotalPool += contribution

	if err := r.store.SaveRoom(ctx, snap); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return 0, ErrConflict
		}
		return 0, err
	}

	announce := models.Message{
		SenderID:    models.SystemSender,
		DisplayName: models.SystemName,
		Text:        fmt.Sprintf("🎉 %s joined the room!", displayName),
		SentAt:      time.Now(),
	}
	if err := r.store.AppendMessage(ctx, room, announce, store.MessageRetention); err != nil {
		// the join itself is committed; losing the announcement is not
		// worth failing the caller over
		r.log.WithError(err).WithField("room", room).Warn("join announcement not saved")
	}

	r.log.WithFields(logrus.Fields{
		"room": room, "member": memberID, "contribution": contribution, "pool": snap.TotalPool,
	}).Info("member joined")

	return snap.Share(memberID), nil
}
