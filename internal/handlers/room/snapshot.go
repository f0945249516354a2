package room

import (
	"net/http"

	"poolroom/internal/poll"
	"poolroom/internal/utils"
)

// SnapshotHandler serves the scheduler's last refreshed view of a room.
// Polling clients hit this instead of the live endpoints; it is at most one
// refresh interval stale.
type SnapshotHandler struct {
	Scheduler *poll.Scheduler
}

// ServeHTTP handles GET /rooms/{name}/snapshot
func (h *SnapshotHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)

	snap, ok := h.Scheduler.Snapshot(name)
	if !ok {
		utils.JSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "no snapshot yet for room"})
		return
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "snapshot fetched", Data: snap})
}
