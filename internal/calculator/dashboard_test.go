package calculator

import (
	"testing"

	"github.com/hisab-io/hisab/internal/models"
)

func TestBuildDashboardZeroGroups(t *testing.T) {
	personal := []*models.Expense{
		{Amount: 20.0, PaidBy: "u1", Splits: []models.Split{{UserID: "u1", Amount: 20.0}}},
	}

	dash := BuildDashboard("u1", personal, nil)

	if dash.Personal.TotalSpent != 20.0 {
		t.Errorf("personal.totalSpent = %v, want 20.00", dash.Personal.TotalSpent)
	}
	if dash.Personal.ExpenseCount != 1 {
		t.Errorf("personal.expenseCount = %d, want 1", dash.Personal.ExpenseCount)
	}
	if len(dash.Groups) != 0 {
		t.Errorf("groups = %v, want empty", dash.Groups)
	}
	if dash.Overall.YourNetBalance != 0 {
		t.Errorf("overall.yourNetBalance = %v, want 0.00", dash.Overall.YourNetBalance)
	}
	if dash.Overall.Status != models.StatusSettled {
		t.Errorf("overall.status = %s, want settled", dash.Overall.Status)
	}
	if dash.Overall.Currency != DefaultCurrency {
		t.Errorf("overall.currency = %s, want %s", dash.Overall.Currency, DefaultCurrency)
	}
}

func TestBuildDashboardComposesGroups(t *testing.T) {
	groupA := &models.Group{
		ID: "g1", Name: "Flat", Currency: "INR",
		Members: []models.Member{{UserID: "u1"}, {UserID: "u2"}},
	}
	groupB := &models.Group{
		ID: "g2", Name: "Trip", Currency: "INR",
		Members: []models.Member{{UserID: "u1"}, {UserID: "u2"}, {UserID: "u3"}},
	}

	ledgers := []GroupLedger{
		{
			Group: groupA,
			Expenses: []*models.Expense{
				{Amount: 100.0, PaidBy: "u1", Splits: []models.Split{{UserID: "u1", Amount: 50.0}, {UserID: "u2", Amount: 50.0}}},
			},
		},
		{
			Group: groupB,
			Expenses: []*models.Expense{
				{Amount: 90.0, PaidBy: "u2", Splits: []models.Split{{UserID: "u1", Amount: 30.0}, {UserID: "u2", Amount: 30.0}, {UserID: "u3", Amount: 30.0}}},
			},
			Settlements: []*models.Settlement{
				{FromUserID: "u1", ToUserID: "u2", Amount: 30.0, Status: models.SettlementConfirmed},
			},
		},
	}

	dash := BuildDashboard("u1", nil, ledgers)

	if len(dash.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(dash.Groups))
	}

	flat := dash.Groups[0]
	if flat.TotalExpenses != 100.0 || flat.YourPaid != 100.0 {
		t.Errorf("flat totals = %+v, want total 100.00 paid 100.00", flat)
	}
	if flat.YourBalance != 50.0 || flat.Status != models.StatusOwed {
		t.Errorf("flat balance = %+v, want +50.00 owed", flat)
	}
	if flat.MemberCount != 2 {
		t.Errorf("flat.memberCount = %d, want 2", flat.MemberCount)
	}

	trip := dash.Groups[1]
	if trip.TotalExpenses != 90.0 || trip.YourPaid != 0 {
		t.Errorf("trip totals = %+v, want total 90.00 paid 0.00", trip)
	}
	// u1 owed 30 on the trip and settled it in full.
	if trip.YourBalance != 0 || trip.Status != models.StatusSettled {
		t.Errorf("trip balance = %+v, want 0.00 settled", trip)
	}

	if dash.Overall.TotalGroupExpenses != 190.0 {
		t.Errorf("overall.totalGroupExpenses = %v, want 190.00", dash.Overall.TotalGroupExpenses)
	}
	if dash.Overall.YourTotalPaid != 100.0 {
		t.Errorf("overall.yourTotalPaid = %v, want 100.00", dash.Overall.YourTotalPaid)
	}
	if dash.Overall.YourNetBalance != 50.0 {
		t.Errorf("overall.yourNetBalance = %v, want 50.00", dash.Overall.YourNetBalance)
	}
	if dash.Overall.Currency != "INR" {
		t.Errorf("overall.currency = %s, want INR", dash.Overall.Currency)
	}
	if dash.Overall.Status != models.StatusOwed {
		t.Errorf("overall.status = %s, want owed", dash.Overall.Status)
	}
}
