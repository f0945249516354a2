package room

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"poolroom/internal/ledger"
	"poolroom/internal/store"
	"poolroom/internal/utils"
)

// roomParam extracts the room name from the URL, tolerating escaped names
// like "Group%20Investment".
func roomParam(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		return decoded
	}
	return name
}

// writeErr maps the ledger error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a storage fault.
func writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ledger.ErrValidation):
		utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: err.Error()})
	case errors.Is(err, store.ErrRoomNotFound):
		utils.JSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "room not found"})
	case errors.Is(err, ledger.ErrNotMember):
		utils.JSON(w, http.StatusForbidden, utils.APIResponse{Success: false, Message: "not a member of the room"})
	case errors.Is(err, ledger.ErrEmptyPool):
		utils.JSON(w, http.StatusUnprocessableEntity, utils.APIResponse{Success: false, Message: "total pool is zero"})
	case errors.Is(err, ledger.ErrConflict):
		utils.JSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "room changed concurrently, retry"})
	default:
		utils.JSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "storage error", Data: map[string]interface{}{"error": err.Error()}})
	}
}
