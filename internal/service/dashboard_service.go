package service

import (
	"context"
	"log/slog"

	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/models"
	"github.com/hisab-io/hisab/internal/storage"
)

// DashboardService composes the cross-group summary view.
type DashboardService struct {
	store storage.Store
}

// NewDashboardService creates a new DashboardService with the given storage
// backend.
func NewDashboardService(store storage.Store) *DashboardService {
	return &DashboardService{store: store}
}

// GetDashboard aggregates the user's personal expenses and every group's
// full ledger into one summary. A user with no groups and no expenses gets
// a zero-valued dashboard, not an error.
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (models.Dashboard, error) {
	personal, err := s.store.ListPersonalExpenses(ctx, userID)
	if err != nil {
		slog.Error("GetDashboard failed to list personal expenses", "user_id", userID, "error", err)
		return models.Dashboard{}, internalErr("failed to list expenses", err)
	}

	groups, err := s.store.ListGroupsByMember(ctx, userID)
	if err != nil {
		slog.Error("GetDashboard failed to list groups", "user_id", userID, "error", err)
		return models.Dashboard{}, internalErr("failed to list groups", err)
	}

	ledgers := make([]calculator.GroupLedger, 0, len(groups))
	for _, group := range groups {
		expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
		if err != nil {
			slog.Error("GetDashboard failed to list expenses", "group_id", group.ID, "error", err)
			return models.Dashboard{}, internalErr("failed to list expenses", err)
		}
		settlements, err := s.store.ListSettlementsByGroup(ctx, group.ID)
		if err != nil {
			slog.Error("GetDashboard failed to list settlements", "group_id", group.ID, "error", err)
			return models.Dashboard{}, internalErr("failed to list settlements", err)
		}
		ledgers = append(ledgers, calculator.GroupLedger{
			Group:       group,
			Expenses:    expenses,
			Settlements: settlements,
		})
	}

	dash := calculator.BuildDashboard(userID, personal, ledgers)

	slog.Debug("Dashboard built", "user_id", userID, "groups_count", len(ledgers))
	return dash, nil
}
