package room

import (
	"encoding/json"
	"net/http"

	"poolroom/internal/ledger"
	"poolroom/internal/utils"
	"poolroom/internal/ws"
)

type SendMessageHandler struct {
	Chat *ledger.Chat
	Hub  *ws.Hub
}

type SendMessageRequest struct {
	MemberID string `json:"member_id"`
	Text     string `json:"text"`
}

// ServeHTTP handles POST /rooms/{name}/messages
func (h *SendMessageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "invalid request body"})
		return
	}

	msg, err := h.Chat.Post(r.Context(), name, req.MemberID, "", req.Text)
	if err != nil {
		writeErr(w, err)
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(name, ws.Event{Type: "message", Data: msg})
	}

	utils.JSON(w, http.StatusCreated, utils.APIResponse{Success: true, Message: "message sent", Data: msg})
}
