package service

import (
	"context"
	"testing"

	"github.com/hisab-io/hisab/internal/calculator"
	"github.com/hisab-io/hisab/internal/models"
)

func TestGetDashboard_EmptyState(t *testing.T) {
	store := newTestStore(t)
	svc := NewDashboardService(store)

	alice := createTestUser(t, store, "alice@example.com", "Alice")

	dash, err := svc.GetDashboard(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}

	if dash.Personal.TotalSpent != 0 || dash.Personal.ExpenseCount != 0 {
		t.Errorf("expected zero personal summary, got %+v", dash.Personal)
	}
	if len(dash.Groups) != 0 {
		t.Errorf("expected no group summaries, got %d", len(dash.Groups))
	}
	if dash.Overall.YourNetBalance != 0 || dash.Overall.Status != models.StatusSettled {
		t.Errorf("expected settled overall, got %+v", dash.Overall)
	}
	if dash.Overall.Currency != calculator.DefaultCurrency {
		t.Errorf("currency: expected %s fallback, got %s", calculator.DefaultCurrency, dash.Overall.Currency)
	}
}

func TestGetDashboard(t *testing.T) {
	store := newTestStore(t)
	svc := NewDashboardService(store)
	expenseSvc := NewExpenseService(store, nil)
	settlementSvc := NewSettlementService(store, nil)

	alice := createTestUser(t, store, "alice@example.com", "Alice")
	bob := createTestUser(t, store, "bob@example.com", "Bob")
	group := createTestGroup(t, store, alice.ID, bob.ID)

	// One personal expense, one group expense, one settlement clearing half.
	if _, err := expenseSvc.CreateExpense(context.Background(), alice.ID, CreateExpenseInput{
		Description: "Coffee",
		Amount:      20,
	}); err != nil {
		t.Fatalf("personal CreateExpense failed: %v", err)
	}
	if _, err := expenseSvc.CreateExpense(context.Background(), alice.ID, CreateExpenseInput{
		Description: "Dinner",
		Amount:      100,
		GroupID:     group.ID,
	}); err != nil {
		t.Fatalf("group CreateExpense failed: %v", err)
	}
	if _, err := settlementSvc.CreateSettlement(context.Background(), bob.ID, CreateSettlementInput{
		GroupID: group.ID,
		To:      alice.ID,
		Amount:  25,
	}); err != nil {
		t.Fatalf("CreateSettlement failed: %v", err)
	}

	dash, err := svc.GetDashboard(context.Background(), alice.ID)
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}

	if dash.Personal.TotalSpent != 20 || dash.Personal.ExpenseCount != 1 {
		t.Errorf("personal: expected 20.00 across 1 expense, got %+v", dash.Personal)
	}

	if len(dash.Groups) != 1 {
		t.Fatalf("expected 1 group summary, got %d", len(dash.Groups))
	}
	gs := dash.Groups[0]
	if gs.GroupID != group.ID || gs.MemberCount != 2 {
		t.Errorf("group summary identity wrong: %+v", gs)
	}
	if gs.TotalExpenses != 100 || gs.YourPaid != 100 {
		t.Errorf("group totals: expected 100/100, got %.2f/%.2f", gs.TotalExpenses, gs.YourPaid)
	}
	// Alice was owed 50; bob paid back 25.
	if gs.YourBalance != 25 || gs.Status != models.StatusOwed {
		t.Errorf("group balance: expected +25 owed, got %.2f %s", gs.YourBalance, gs.Status)
	}

	if dash.Overall.TotalGroupExpenses != 100 || dash.Overall.YourTotalPaid != 100 {
		t.Errorf("overall totals wrong: %+v", dash.Overall)
	}
	if dash.Overall.YourNetBalance != 25 || dash.Overall.Status != models.StatusOwed {
		t.Errorf("overall balance: expected +25 owed, got %+v", dash.Overall)
	}
	if dash.Overall.Currency != group.Currency {
		t.Errorf("currency: expected %s, got %s", group.Currency, dash.Overall.Currency)
	}

	// Bob sees the mirror image and no personal spend.
	bobDash, err := svc.GetDashboard(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("GetDashboard failed for bob: %v", err)
	}
	if bobDash.Personal.ExpenseCount != 0 {
		t.Errorf("bob personal: expected none, got %+v", bobDash.Personal)
	}
	if bobDash.Overall.YourNetBalance != -25 || bobDash.Overall.Status != models.StatusOwes {
		t.Errorf("bob overall: expected -25 owes, got %+v", bobDash.Overall)
	}
}
