package models

import "time"

type TransactionKind string

const (
	KindExpense TransactionKind = "expense"
	KindProfit  TransactionKind = "profit"
)

// Transaction is one member's slice of a settlement event. Amounts are
// stored unrounded; formatting is the caller's concern.
type Transaction struct {
	RecordedAt  time.Time       `json:"timestamp"`
	Kind        TransactionKind `json:"kind"`
	Description string          `json:"description"`
	TotalAmount float64         `json:"total_amount"`
	MemberShare float64         `json:"your_share"`
	Percentage  float64         `json:"percentage"`
}

// LedgerEntry pairs a transaction with the member it belongs to, so one
// settlement event can be appended for every member in a single store call.
type LedgerEntry struct {
	MemberID string `json:"member_id"`
	Transaction
}

// Summary aggregates a member's ledger in one room.
type Summary struct {
	TotalExpenses float64 `json:"total_expenses"`
	TotalProfits  float64 `json:"total_profits"`
	Net           float64 `json:"net"`
}
