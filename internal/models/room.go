package models

// Room is a named pool of member contributions with its own chat log and
// per-member transaction ledger. Members only ever get added; contributions
// are fixed at join time.
type Room struct {
	Name      string            `json:"name"`
	Members   map[string]Member `json:"members"`
	TotalPool float64           `json:"total_pool"`

	// Version counts committed saves. The store rejects a save whose
	// version does not match the stored one.
	Version int64 `json:"-"`
}

// NewRoom returns an empty room.
func NewRoom(name string) *Room {
	return &Room{Name: name, Members: make(map[string]Member)}
}

// Share returns the member's fraction of the pool, 0 when the pool is empty
// or the member is unknown.
func (r *Room) Share(memberID string) float64 {
	if r.TotalPool <= 0 {
		return 0
	}
	m, ok := r.Members[memberID]
	if !ok {
		return 0
	}
	return m.Contribution / r.TotalPool
}

// Clone returns a deep copy so callers can mutate snapshots freely.
func (r *Room) Clone() *Room {
	cp := &Room{Name: r.Name, TotalPool: r.TotalPool, Version: r.Version, Members: make(map[string]Member, len(r.Members))}
	for id, m := range r.Members {
		cp.Members[id] = m
	}
	return cp
}
