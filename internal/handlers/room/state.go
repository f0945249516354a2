package room

import (
	"net/http"

	"poolroom/internal/ledger"
	"poolroom/internal/utils"
)

type StateHandler struct {
	Registry *ledger.Registry
}

type memberView struct {
	MemberID     string  `json:"member_id"`
	DisplayName  string  `json:"display_name"`
	Contribution float64 `json:"contribution"`
	SharePercent float64 `json:"share_percent"`
}

type stateView struct {
	Name        string       `json:"name"`
	TotalPool   float64      `json:"total_pool"`
	MemberCount int          `json:"member_count"`
	Members     []memberView `json:"members"`
}

// ServeHTTP handles GET /rooms/{name}
func (h *StateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)
	snap, err := h.Registry.Room(r.Context(), name)
	if err != nil {
		writeErr(w, err)
		return
	}

	view := stateView{
		Name:        snap.Name,
		TotalPool:   snap.TotalPool,
		MemberCount: len(snap.Members),
		Members:     make([]memberView, 0, len(snap.Members)),
	}
	for id, m := range snap.Members {
		view.Members = append(view.Members, memberView{
			MemberID:     id,
			DisplayName:  m.DisplayName,
			Contribution: m.Contribution,
			SharePercent: snap.Share(id) * 100,
		})
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "room fetched", Data: view})
}
