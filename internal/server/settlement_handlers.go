package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisab-io/hisab/internal/middleware"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/service"
)

// The payer is always the authenticated requester, so the request carries no
// "from" field.
type settlementRequest struct {
	GroupID     string  `json:"groupId"`
	To          string  `json:"to"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	ExpenseID   string  `json:"expenseId"`
	SplitUserID string  `json:"splitUserId"`
	Status      string  `json:"status"`
	PaidAt      int64   `json:"paidAt"`
}

type settlementResponse struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message,omitempty"`
	Settlement *models.Settlement `json:"settlement"`
}

type settlementListResponse struct {
	Success     bool                 `json:"success"`
	Count       int                  `json:"count"`
	Settlements []*models.Settlement `json:"settlements"`
}

func (s *Server) handleCreateSettlement(w http.ResponseWriter, r *http.Request) {
	var req settlementRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	settlement, err := s.settlements.CreateSettlement(r.Context(), middleware.GetUserID(r.Context()), service.CreateSettlementInput{
		GroupID:     req.GroupID,
		To:          req.To,
		Amount:      req.Amount,
		Description: req.Description,
		ExpenseID:   req.ExpenseID,
		SplitUserID: req.SplitUserID,
		Status:      req.Status,
		PaidAt:      req.PaidAt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, settlementResponse{
		Success:    true,
		Message:    "Settlement recorded successfully",
		Settlement: settlement,
	})
}

func (s *Server) handleGetSettlement(w http.ResponseWriter, r *http.Request) {
	settlement, err := s.settlements.GetSettlement(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "settlementID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlementResponse{Success: true, Settlement: settlement})
}

func (s *Server) handleListGroupSettlements(w http.ResponseWriter, r *http.Request) {
	settlements, err := s.settlements.ListGroupSettlements(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "groupID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, settlementListResponse{
		Success:     true,
		Count:       len(settlements),
		Settlements: settlements,
	})
}

func (s *Server) handleDeleteSettlement(w http.ResponseWriter, r *http.Request) {
	if err := s.settlements.DeleteSettlement(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "settlementID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Settlement deleted successfully"})
}
