package room

import (
	"context"
	"encoding/json"
	"net/http"

	"poolroom/internal/ledger"
	"poolroom/internal/models"
	"poolroom/internal/utils"
	"poolroom/internal/ws"
)

// SettleHandler serves both POST /rooms/{name}/split and
// POST /rooms/{name}/profit; the two flows differ only in kind.
type SettleHandler struct {
	Engine *ledger.Engine
	Hub    *ws.Hub
	Kind   models.TransactionKind
}

type SettleRequest struct {
	MemberID    string  `json:"member_id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type SettleResponse struct {
	Room    string               `json:"room"`
	Kind    string               `json:"kind"`
	Amount  float64              `json:"amount"`
	Entries []models.LedgerEntry `json:"entries"`
}

func (h *SettleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)

	var req SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "invalid request body"})
		return
	}

	var settle func(ctx context.Context, room, initiator string, amount float64, desc string) ([]models.LedgerEntry, error)
	if h.Kind == models.KindExpense {
		settle = h.Engine.SplitExpense
	} else {
		settle = h.Engine.ShareProfit
	}

	entries, err := settle(r.Context(), name, req.MemberID, req.Amount, req.Description)
	if err != nil {
		writeErr(w, err)
		return
	}

	if h.Hub != nil {
		h.Hub.Broadcast(name, ws.Event{Type: "ledger", Data: map[string]interface{}{
			"event": string(h.Kind), "amount": req.Amount, "description": req.Description,
		}})
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "settlement recorded",
		Data:    SettleResponse{Room: name, Kind: string(h.Kind), Amount: req.Amount, Entries: entries},
	})
}
