package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/middleware"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/service"
)

type expenseRequest struct {
	Description string                    `json:"description"`
	Amount      float64                   `json:"amount"`
	PaidBy      string                    `json:"paidBy"`
	GroupID     string                    `json:"groupId"`
	Category    string                    `json:"category"`
	SplitType   string                    `json:"splitType"`
	Splits      []calculator.ExactShare   `json:"splits"`
	Percentages []calculator.PercentShare `json:"percentages"`
	Attachment  string                    `json:"attachment"`
	Date        int64                     `json:"date"`
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), service.CreateExpenseInput{
		Description: req.Description,
		Amount:      req.Amount,
		PaidBy:      req.PaidBy,
		GroupID:     req.GroupID,
		Category:    req.Category,
		SplitPolicy: calculator.SplitPolicy(req.SplitType),
		Exact:       req.Splits,
		Percents:    req.Percentages,
		Attachment:  req.Attachment,
		Date:        req.Date,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, expenseResponse{
		Success: true,
		Message: "Expense created successfully",
		Expense: expense,
	})
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.expenses.GetExpense(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse{Success: true, Expense: expense})
}

type expenseResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Expense *models.Expense `json:"expense"`
}

type pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// expensePage is the paginated group expense listing.
type expensePage struct {
	Success    bool              `json:"success"`
	Pagination pagination        `json:"pagination"`
	Expenses   []*models.Expense `json:"expenses"`
}

type expenseListResponse struct {
	Success  bool              `json:"success"`
	Count    int               `json:"count"`
	Expenses []*models.Expense `json:"expenses"`
}

func (s *Server) handleListGroupExpenses(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 {
		limit = 10
	}
	search := q.Get("search")

	expenses, total, err := s.expenses.ListGroupExpenses(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "groupID"), search, page, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expensePage{
		Success: true,
		Pagination: pagination{
			Page:  page,
			Limit: limit,
			Total: total,
			Pages: (total + limit - 1) / limit,
		},
		Expenses: expenses,
	})
}

func (s *Server) handleListPersonalExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.expenses.ListPersonalExpenses(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseListResponse{
		Success:  true,
		Count:    len(expenses),
		Expenses: expenses,
	})
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	expense, err := s.expenses.UpdateExpense(r.Context(), middleware.GetUserID(r.Context()),
		chi.URLParam(r, "expenseID"), service.UpdateExpenseInput{
			Description: req.Description,
			Amount:      req.Amount,
			Category:    req.Category,
			Date:        req.Date,
			SplitPolicy: calculator.SplitPolicy(req.SplitType),
			Exact:       req.Splits,
			Percents:    req.Percentages,
		})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, expenseResponse{
		Success: true,
		Message: "Expense updated successfully",
		Expense: expense,
	})
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.expenses.DeleteExpense(r.Context(), middleware.GetUserID(r.Context()), chi.URLParam(r, "expenseID")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Expense deleted successfully"})
}
