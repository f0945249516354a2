package room

import (
	"net/http"

	"poolroom/internal/ledger"
	"poolroom/internal/utils"
)

type ListHandler struct {
	Registry *ledger.Registry
}

// ServeHTTP handles GET /rooms
func (h *ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	names, err := h.Registry.ListRooms(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "rooms fetched", Data: names})
}
