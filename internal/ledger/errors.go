package ledger

import "errors"

// Sentinel errors for the failure modes the services can recover from.
// Handlers map these to HTTP statuses; everything else is a storage fault.
var (
	ErrValidation = errors.New("ledger: validation failed")
	ErrEmptyPool  = errors.New("ledger: total pool is zero")
	ErrNotMember  = errors.New("ledger: not a member of the room")

	// ErrAlreadyMember marks a repeat join. The room is untouched; the
	// caller gets the existing membership state.
	ErrAlreadyMember = errors.New("ledger: already a member")

	// ErrConflict means a concurrent writer committed first. Re-read and
	// retry.
	ErrConflict = errors.New("ledger: concurrent update, retry")
)
