package room

import (
	"net/http"

	"poolroom/internal/ledger"
	"poolroom/internal/models"
	"poolroom/internal/utils"
)

type TransactionsHandler struct {
	Engine *ledger.Engine
}

type transactionsView struct {
	Room         string               `json:"room"`
	MemberID     string               `json:"member_id"`
	Transactions []models.Transaction `json:"transactions"`
	Summary      models.Summary       `json:"summary"`
}

// ServeHTTP handles GET /rooms/{name}/transactions?member_id=X
//
// Ledgers are private per member: the response only ever carries the
// requested member's entries.
func (h *TransactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := roomParam(r)
	memberID := r.URL.Query().Get("member_id")
	if memberID == "" {
		utils.JSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "member_id query param required"})
		return
	}

	txs, err := h.Engine.Transactions(r.Context(), name, memberID)
	if err != nil {
		writeErr(w, err)
		return
	}
	sum, err := h.Engine.Summary(r.Context(), name, memberID)
	if err != nil {
		writeErr(w, err)
		return
	}

	utils.JSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "transactions fetched",
		Data:    transactionsView{Room: name, MemberID: memberID, Transactions: txs, Summary: sum},
	})
}
