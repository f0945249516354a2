package models

import "time"

type Member struct {
	ID           string    `json:"member_id"`
	DisplayName  string    `json:"display_name"`
	Contribution float64   `json:"contribution"`
	JoinedAt     time.Time `json:"joined_at"`
}
