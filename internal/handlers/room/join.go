package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"poolroom/internal/directory"
	"poolroom/internal/ledger"
	"poolroom/internal/utils"
	"poolroom/internal/ws"
)

type JoinHandler struct {
	Registry  *ledger.Registry
	Directory directory.Resolver
	Hub       *ws.Hub
}

type JoinRequest struct {
	MemberID     string  `json:"member_id"`
	DisplayName  string  `json:"display_name,omitempty"`
	Contribution float64 `json:"contribution"`
}

type JoinResponse struct {
	Room         string  `json:"room"`
	MemberID     string  `json:"member_id"`
	SharePercent float64 `json:"share_percent"`
}

// ServeHTTP handles POST /rooms/{name}/join
func (h *JoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)

	var req JoinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "invalid request body"})
		return
	}

	// the profile store owns display names; the body value is only a
	// fallback for when no directory is configured or the lookup fails
	displayName := req.DisplayName
	if h.Directory != nil {
		if p, err := h.Directory.ResolveMember(r.Context(), req.MemberID); err == nil && p.Name != "" {
			displayName = p.Name
		}
	}

	share, err := h.Registry.Join(r.Context(), name, req.MemberID, displayName, req.Contribution)
	if errors.Is(err, ledger.ErrAlreadyMember) {
		utils.JSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "already a member",
			Data:    JoinResponse{Room: name, MemberID: req.MemberID, SharePercent: share * 100},
		})
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(name, ws.Event{Type: "ledger", Data: map[string]interface{}{
			"event": "join", "member_id": req.MemberID,
		}})
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "joined room",
		Data:    JoinResponse{Room: name, MemberID: req.MemberID, SharePercent: share * 100},
	})
}
