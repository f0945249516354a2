package handlers

import (
	"net/http"

	"poolroom/internal/store"
	"poolroom/internal/utils"
)

type HealthHandler struct {
	Store store.Store
}

// ServeHTTP handles GET /health
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		utils.JSON(w, http.StatusServiceUnavailable, utils.APIResponse{Success: false, Message: "store unreachable"})
		return
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "ok"})
}
