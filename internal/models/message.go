package models

import "time"

// SystemSender is the reserved sender id for messages the ledger emits
// itself (joins, splits, profit shares).
const SystemSender = "system"

// SystemName is the display name attached to system messages.
const SystemName = "System"

type Message struct {
	SenderID    string    `json:"sender_id"`
	DisplayName string    `json:"display_name"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
}
