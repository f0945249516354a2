package room

import (
	"net/http"
	"strconv"

	"poolroom/internal/ledger"
	"poolroom/internal/utils"
)

type MessagesHandler struct {
	Chat *ledger.Chat
}

// ServeHTTP handles GET /rooms/{name}/messages?limit=N
func (h *MessagesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)

	// the original surface shows the last 30 messages by default
	limit := 30
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > 100 {
			utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "limit must be 1-100"})
			return
		}
		limit = n
	}

	msgs, err := h.Chat.Recent(r.Context(), name, limit)
	if err != nil {
		writeErr(w, err)
		return
	}
	utils.JSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "messages fetched", Data: msgs})
}
