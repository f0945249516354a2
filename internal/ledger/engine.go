package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"poolroom/internal/models"
	"poolroom/internal/store"
)

// SplitExpense settles a shared cost across every member of the room in
// proportion to their contribution share, and records one expense entry per
// member. Only the initiator acted, but the event is a room-wide cost, so
// every ledger gets an entry.
func (e *Engine) SplitExpense(ctx context.Context, room, initiatorID string, amount float64, description string) ([]models.LedgerEntry, error) {
	return e.settle(ctx, room, initiatorID, amount, description, models.KindExpense)
}

// ShareProfit distributes a shared gain the same way, recorded with kind
// profit. A member's net position is the sum of profit shares minus the sum
// of expense shares.
func (e *Engine) ShareProfit(ctx context.Context, room, initiatorID string, amount float64, description string) ([]models.LedgerEntry, error) {
	return e.settle(ctx, room, initiatorID, amount, description, models.KindProfit)
}

func (e *Engine) settle(ctx context.Context, room, initiatorID string, amount float64, description string, kind models.TransactionKind) ([]models.LedgerEntry, error) {
	description = strings.TrimSpace(description)
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: description required", ErrValidation)
	}

	lock := e.locks.get(room)
	lock.Lock()
	defer lock.Unlock()

	snap, err := e.store.GetRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	if snap.TotalPool == 0 {
		return nil, ErrEmptyPool
	}
	initiator, ok := snap.Members[initiatorID]
	if !ok {
		return nil, ErrNotMember
	}

	// Dividing by the room's pool rather than per-member values means a
	// zero contribution simply yields a zero share.
	now := time.Now()
	entries := make([]models.LedgerEntry, 0, len(snap.Members))
	for id, m := range snap.Members {
		fraction := m.Contribution / snap.TotalPool
		entries = append(entries, models.LedgerEntry{
			MemberID: id,
			Transaction: models.Transaction{
				RecordedAt:  now,
				Kind:        kind,
				Description: description,
				TotalAmount: amount,
				MemberShare: amount * fraction,
				Percentage:  fraction * 100,
			},
		})
	}

	if err := e.store.AppendTransactions(ctx, room, entries); err != nil {
		if errors.Is(err, store.ErrVersionConflict) {
			return nil, ErrConflict
		}
		return nil, err
	}

	var text string
	if kind == models.KindExpense {
		text = fmt.Sprintf("💳 %s split an expense: %s (%.2f)", initiator.DisplayName, description, amount)
	} else {
		text = fmt.Sprintf("💰 %s shared a profit: %s (%.2f)", initiator.DisplayName, description, amount)
	}
	announce := models.Message{
		SenderID:    models.SystemSender,
		DisplayName: models.SystemName,
		Text:        text,
		SentAt:      now,
	}
	if err := e.store.AppendMessage(ctx, room, announce, store.MessageRetention); err != nil {
		e.log.WithError(err).WithField("room", room).Warn("settlement announcement not saved")
	}

	e.log.WithFields(logrus.Fields{
		"room": room, "initiator": initiatorID, "kind": kind, "amount": amount, "members": len(entries),
	}).Info("settlement recorded")

	return entries, nil
}

// Transactions returns one member's ledger in a room, oldest first.
func (e *Engine) Transactions(ctx context.Context, room, memberID string) ([]models.Transaction, error) {
	if _, err := e.store.GetRoom(ctx, room); err != nil {
		return nil, err
	}
	return e.store.Transactions(ctx, room, memberID)
}

// Summary totals a member's ledger: expenses, profits, and the net of the
// two.
func (e *Engine) Summary(ctx context.Context, room, memberID string) (models.Summary, error) {
	txs, err := e.Transactions(ctx, room, memberID)
	if err != nil {
		return models.Summary{}, err
	}
	var sum models.Summary
	for _, t := range txs {
		switch t.Kind {
		case models.KindExpense:
			sum.TotalExpenses += t.MemberShare
		case models.KindProfit:
			sum.TotalProfits += t.MemberShare
		}
	}
	sum.Net = sum.TotalProfits - sum.TotalExpenses
	return sum, nil
}
