package service

import (
	"context"
	"log/slog"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/realtime"
	"github.com/hisab-io/hisab/internal/storage"
)

// SettlementService manages settlements between group members.
type SettlementService struct {
	store       storage.Store
	broadcaster Broadcaster
}

// NewSettlementService creates a new SettlementService with the given storage
// backend and broadcaster.
func NewSettlementService(store storage.Store, broadcaster Broadcaster) *SettlementService {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &SettlementService{store: store, broadcaster: broadcaster}
}

// CreateSettlementInput carries the fields for a new settlement. The payer
// is always the authenticated requester; an empty Status defaults to
// confirmed.
type CreateSettlementInput struct {
	GroupID     string
	To          string
	Amount      float64
	Description string
	ExpenseID   string
	SplitUserID string
	Status      string
	PaidAt      int64
}

// CreateSettlement validates and records a settlement, then broadcasts it to
// the group channel.
//
// When linked to an expense, the settlement is checked against the remaining
// amount owed on the target split: the sum of all prior non-rejected
// settlements for that split plus the new amount must not exceed the split
// amount, within the calculator tolerance.
func (s *SettlementService) CreateSettlement(ctx context.Context, userID string, in CreateSettlementInput) (*models.Settlement, error) {
	slog.Info("CreateSettlement request",
		"user_id", userID,
		"group_id", in.GroupID,
		"amount", in.Amount,
		"expense_id", in.ExpenseID,
	)

	group, err := requireMember(ctx, s.store, userID, in.GroupID)
	if err != nil {
		return nil, err
	}

	// Only the requester can record money leaving their own pocket.
	from := userID
	if in.Amount <= 0 {
		return nil, apperr.Validation("amount must be positive")
	}
	if from == in.To {
		return nil, apperr.Validation("a settlement requires two distinct members")
	}
	if !group.IsMember(in.To) {
		return nil, apperr.Validation("both parties must be members of the group")
	}

	status := in.Status
	if status == "" {
		status = models.SettlementConfirmed
	}
	switch status {
	case models.SettlementPending, models.SettlementConfirmed, models.SettlementRejected:
	default:
		return nil, apperr.Validation("unknown settlement status %q", status)
	}

	if in.ExpenseID != "" {
		if err := s.validateAgainstSplit(ctx, group.ID, in.ExpenseID, in.SplitUserID, in.To, in.Amount); err != nil {
			return nil, err
		}
	}

	description := in.Description
	if description == "" {
		description = "Settlement payment"
	}

	settlement := &models.Settlement{
		GroupID:     in.GroupID,
		FromUserID:  from,
		ToUserID:    in.To,
		Amount:      calculator.Round2(in.Amount),
		Description: description,
		ExpenseID:   in.ExpenseID,
		SplitUserID: in.SplitUserID,
		Status:      status,
		PaidAt:      in.PaidAt,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("CreateSettlement failed", "error", err)
		return nil, internalErr("failed to create settlement", err)
	}

	s.broadcaster.Broadcast(settlement.GroupID, realtime.EventSettlementAdded, settlement)

	slog.Info("Settlement created", "settlement_id", settlement.ID, "group_id", settlement.GroupID)
	return settlement, nil
}

// validateAgainstSplit checks an expense-linked settlement against the target
// split. The split owner is SplitUserID when given, else the receiving party.
func (s *SettlementService) validateAgainstSplit(ctx context.Context, groupID, expenseID, splitUserID, toUserID string, amount float64) error {
	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.GroupID != groupID {
		return apperr.Validation("expense does not belong to this group")
	}

	owner := splitUserID
	if owner == "" {
		owner = toUserID
	}
	var split *models.Split
	for i := range expense.Splits {
		if expense.Splits[i].UserID == owner {
			split = &expense.Splits[i]
			break
		}
	}
	if split == nil {
		return apperr.Validation("user %s has no split on this expense", owner)
	}

	prior, err := s.store.ListSettlementsForSplit(ctx, expenseID, owner)
	if err != nil {
		return internalErr("failed to list settlements", err)
	}
	var settled float64
	for _, p := range prior {
		if p.Status == models.SettlementRejected {
			continue
		}
		settled += p.Amount
	}

	remaining := calculator.Round2(split.Amount - settled)
	if amount > remaining+calculator.Tolerance {
		return apperr.Validation("settlement amount %.2f exceeds the remaining %.2f owed on this split", amount, remaining)
	}
	return nil
}

// ListGroupSettlements retrieves a group's settlement history, newest first.
// Members only.
func (s *SettlementService) ListGroupSettlements(ctx context.Context, userID, groupID string) ([]*models.Settlement, error) {
	if _, err := requireMember(ctx, s.store, userID, groupID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListGroupSettlements failed", "group_id", groupID, "error", err)
		return nil, internalErr("failed to list settlements", err)
	}
	return settlements, nil
}

// GetSettlement retrieves a settlement. Group members only.
func (s *SettlementService) GetSettlement(ctx context.Context, userID, settlementID string) (*models.Settlement, error) {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return nil, err
	}
	if _, err := requireMember(ctx, s.store, userID, settlement.GroupID); err != nil {
		return nil, err
	}
	return settlement, nil
}

// DeleteSettlement removes a settlement. Only the paying party may delete.
func (s *SettlementService) DeleteSettlement(ctx context.Context, userID, settlementID string) error {
	settlement, err := s.store.GetSettlement(ctx, settlementID)
	if err != nil {
		return err
	}
	if settlement.FromUserID != userID {
		return apperr.Permission("only the paying party can delete a settlement")
	}

	if err := s.store.DeleteSettlement(ctx, settlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", settlementID, "error", err)
		return internalErr("failed to delete settlement", err)
	}

	s.broadcaster.Broadcast(settlement.GroupID, realtime.EventSettlementDeleted, map[string]string{"settlementId": settlementID})

	slog.Info("Settlement deleted", "settlement_id", settlementID)
	return nil
}
