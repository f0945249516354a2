package store

import (
	"context"
	"errors"

	"poolroom/internal/models"
)

// Sentinel errors shared by all backends.
var (
	ErrRoomNotFound = errors.New("store: room not found")

	// ErrVersionConflict means the room changed between the caller's read
	// and its save. The caller should re-read and retry.
	ErrVersionConflict = errors.New("store: room version conflict")
)

// MessageRetention is how many chat messages a room keeps. Enforced on
// every append, not on read.
const MessageRetention = 100

// Store is the durable home of the three collections: rooms (with members),
// chat messages, and per-member transaction ledgers. Everything is keyed by
// room name; reads return snapshots the caller owns.
type Store interface {
	// ListRooms returns all room names, sorted.
	ListRooms(ctx context.Context) ([]string, error)

	// GetRoom returns the room with its members, or ErrRoomNotFound.
	GetRoom(ctx context.Context, name string) (*models.Room, error)

	// SaveRoom persists the room. A room with Version 0 is created; an
	// existing room is replaced only if the stored version still matches,
	// otherwise ErrVersionConflict. On success the room's Version is
	// advanced in place.
	SaveRoom(ctx context.Context, room *models.Room) error

	// AppendMessage appends one chat message and discards the oldest
	// entries beyond keep.
	AppendMessage(ctx context.Context, room string, msg models.Message, keep int) error

	// Messages returns up to limit of the newest messages, oldest first.
	Messages(ctx context.Context, room string, limit int) ([]models.Message, error)

	// AppendTransactions appends one settlement event's entries, one per
	// member, atomically.
	AppendTransactions(ctx context.Context, room string, entries []models.LedgerEntry) error

	// Transactions returns a member's ledger in append order.
	Transactions(ctx context.Context, room, memberID string) ([]models.Transaction, error)

	Ping(ctx context.Context) error
	Close() error
}
