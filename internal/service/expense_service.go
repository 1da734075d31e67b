package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/storage"
)

// ExpenseService manages group and personal expenses.
type ExpenseService struct {
	store       storage.Store
	broadcaster Broadcaster
}

// NewExpenseService creates a new ExpenseService with the given storage
// backend and broadcaster.
func NewExpenseService(store storage.Store, broadcaster Broadcaster) *ExpenseService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &ExpenseService{store: store, broadcaster: broadcaster}
}

// CreateExpenseInput carries the fields for a new expense.
// An empty GroupID records a personal expense with a single self-split.
type CreateExpenseInput struct {
	Description string
	Amount      float64
	PaidBy      string
	GroupID     string
	Category    string
	SplitPolicy calculator.SplitPolicy
	Exact       []calculator.ExactShare
	Percents    []calculator.PercentShare
	Attachment  string
	Date        int64
}

// UpdateExpenseInput carries the updatable fields of an expense. Zero-valued
// fields are left unchanged; a changed amount triggers an equal re-split
// unless explicit shares are supplied.
type UpdateExpenseInput struct {
	Description string
	Amount      float64
	Category    string
	Date        int64
	SplitPolicy calculator.SplitPolicy
	Exact       []calculator.ExactShare
	Percents    []calculator.PercentShare
}

// CreateExpense records an expense and broadcasts it to the group channel.
// For group expenses the requester must be a member and the payer must be a
// member; splits are computed from the requested policy over the current
// membership.
func (s *ExpenseService) CreateExpense(ctx context.Context, userID string, in CreateExpenseInput) (*models.Expense, error) {
	slog.Info("CreateExpense request",
		"user_id", userID,
		"group_id", in.GroupID,
		"amount", in.Amount,
		"policy", string(in.SplitPolicy),
	)

	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, apperr.Validation("description is required")
	}
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	category := in.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !models.ValidCategory(category) {
		return nil, apperr.Validation("unknown category %q", category)
	}

	paidBy := in.PaidBy
	if paidBy == "" {
		paidBy = userID
	}

	var splits []models.Split
	if in.GroupID != "" {
		group, err := requireMember(ctx, s.store, userID, in.GroupID)
		if err != nil {
			return nil, err
		}
		if !group.IsMember(paidBy) {
			return nil, apperr.Validation("payer must be a member of the group")
		}
		if err := validateShareMembers(group, in.Exact, in.Percents); err != nil {
			return nil, err
		}

		policy := in.SplitPolicy
		if policy == "" {
			policy = calculator.SplitEqual
		}
		splits, err = calculator.ComputeSplits(policy, in.Amount, group.MemberIDs(), in.Exact, in.Percents)
		if err != nil {
			return nil, err
		}
	} else {
		// Personal expense: the requester pays and owes the whole amount.
		paidBy = userID
		splits = []models.Split{{UserID: userID, Amount: calculator.Round2(in.Amount)}}
	}

	expense := &models.Expense{
		Description: description,
		Amount:      calculator.Round2(in.Amount),
		PaidBy:      paidBy,
		CreatedBy:   userID,
		GroupID:     in.GroupID,
		Category:    category,
		Splits:      splits,
		Attachment:  in.Attachment,
		Date:        in.Date,
	}
	if err := s.store.CreateExpense(ctx, expense); err != nil {
		slog.Error("CreateExpense failed", "error", err)
		return nil, internalErr("failed to create expense", err)
	}

	if expense.GroupID != "" {
		s.broadcaster.Broadcast(expense.GroupID, realtime.EventExpenseAdded, expense)
	}

	slog.Info("Expense created", "expense_id", expense.ID, "group_id", expense.GroupID)
	return expense, nil
}

// GetExpense retrieves an expense. Group expenses require membership;
// personal expenses are visible to their owner only.
func (s *ExpenseService) GetExpense(ctx context.Context, userID, expenseID string) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.GroupID != "" {
		if _, err := requireMember(ctx, s.store, userID, expense.GroupID); err != nil {
			return nil, err
		}
	} else if expense.PaidBy != userID && expense.CreatedBy != userID {
		return nil, apperr.Permission("you do not have access to this expense")
	}
	return expense, nil
}

// ListGroupExpenses retrieves one page of a group's expenses, newest first,
// optionally filtered by description substring. Members only. The second
// return value is the total match count before paging.
func (s *ExpenseService) ListGroupExpenses(ctx context.Context, userID, groupID, search string, page, limit int) ([]*models.Expense, int, error) {
	if _, err := requireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, 0, err
	}

	expenses, total, err := s.store.SearchExpensesByGroup(ctx, groupID, search, page, limit)
	if err != nil {
		slog.Error("ListGroupExpenses failed", "group_id", groupID, "error", err)
		return nil, 0, internalErr("failed to list expenses", err)
	}
	return expenses, total, nil
}

// ListPersonalExpenses retrieves the user's groupless expenses.
func (s *ExpenseService) ListPersonalExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	expenses, err := s.store.ListPersonalExpenses(ctx, userID)
	if err != nil {
		slog.Error("ListPersonalExpenses failed", "user_id", userID, "error", err)
		return nil, internalErr("failed to list expenses", err)
	}
	return expenses, nil
}

// UpdateExpense modifies an expense. Only the creator or the payer may
// update. A changed amount re-splits equally over the current group
// membership unless explicit shares are supplied.
func (s *ExpenseService) UpdateExpense(ctx context.Context, userID, expenseID string, in UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.CreatedBy != userID && expense.PaidBy != userID {
		return nil, apperr.Permission("only the creator or the payer can update this expense")
	}

	if d := strings.TrimSpace(in.Description); d != "" {
		expense.Description = d
	}
	if in.Category != "" {
		if !models.ValidCategory(in.Category) {
			return nil, apperr.Validation("unknown category %q", in.Category)
		}
		expense.Category = in.Category
	}
	if in.Date != 0 {
		expense.Date = in.Date
	}

	amountChanged := in.Amount != 0 && in.Amount != expense.Amount
	if in.Amount != 0 {
		if in.Amount < 0 {
			return nil, apperr.Validation("amount must be positive")
		}
		expense.Amount = calculator.Round2(in.Amount)
	}

	resplit := amountChanged || in.SplitPolicy != "" || len(in.Exact) > 0 || len(in.Percents) > 0
	if resplit {
		if expense.GroupID == "" {
			expense.Splits = []models.Split{{UserID: expense.PaidBy, Amount: expense.Amount}}
		} else {
			group, err := requireMember(ctx, s.store, userID, expense.GroupID)
			if err != nil {
				return nil, err
			}
			if err := validateShareMembers(group, in.Exact, in.Percents); err != nil {
				return nil, err
			}
			policy := in.SplitPolicy
			if policy == "" {
				policy = calculator.SplitEqual
			}
			expense.Splits, err = calculator.ComputeSplits(policy, expense.Amount, group.MemberIDs(), in.Exact, in.Percents)
			if err != nil {
				return nil, err
			}
		}
	}

	if err := s.store.UpdateExpense(ctx, expense); err != nil {
		slog.Error("UpdateExpense failed", "expense_id", expenseID, "error", err)
		return nil, internalErr("failed to update expense", err)
	}

	if expense.GroupID != "" {
		s.broadcaster.Broadcast(expense.GroupID, realtime.EventExpenseUpdated, expense)
	}

	slog.Info("Expense updated", "expense_id", expenseID, "resplit", resplit)
	return expense, nil
}

// DeleteExpense removes an expense. Only the creator or the payer may delete.
func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, expenseID string) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.CreatedBy != userID && expense.PaidBy != userID {
		return apperr.Permission("only the creator or the payer can delete this expense")
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", expenseID, "error", err)
		return internalErr("failed to delete expense", err)
	}

	if expense.GroupID != "" {
		s.broadcaster.Broadcast(expense.GroupID, realtime.EventExpenseDeleted, map[string]string{"expenseId": expenseID})
	}

	slog.Info("Expense deleted", "expense_id", expenseID)
	return nil
}

// validateShareMembers checks that every explicit share references a current
// group member.
func validateShareMembers(group *models.Group, exact []calculator.ExactShare, percents []calculator.PercentShare) error {
	for _, s := range exact {
		if !group.IsMember(s.UserID) {
			return apperr.Validation("split user %s is not a member of the group", s.UserID)
		}
	}
	for _, s := range percents {
		if !group.IsMember(s.UserID) {
			return apperr.Validation("split user %s is not a member of the group", s.UserID)
		}
	}
	return nil
}
