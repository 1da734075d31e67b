package calculator

import (
	"github.com/hisab-io/hisab/internal/models"
)

// DefaultCurrency is the fallback tag when a user belongs to no groups.
const DefaultCurrency = "INR"

// GroupLedger bundles one group's full history for dashboard composition.
type GroupLedger struct {
	Group       *models.Group
	Expenses    []*models.Expense
	Settlements []*models.Settlement
}

// BuildDashboard composes a user's personal expenses and per-group ledgers
// into one summary view. Pure: tolerates zero groups (empty group list,
// DefaultCurrency, settled status) and never fails on partial history.
func BuildDashboard(userID string, personal []*models.Expense, ledgers []GroupLedger) models.Dashboard {
	var dash models.Dashboard

	for _, exp := range personal {
		dash.Personal.TotalSpent += exp.Amount
		dash.Personal.ExpenseCount++
	}
	dash.Personal.TotalSpent = Round2(dash.Personal.TotalSpent)

	dash.Groups = make([]models.GroupSummary, 0, len(ledgers))
	var overallTotal, overallPaid, overallBalance float64
	for _, ledger := range ledgers {
		var groupTotal, userPaid float64
		for _, exp := range ledger.Expenses {
			groupTotal += exp.Amount
			if exp.PaidBy == userID {
				userPaid += exp.Amount
			}
		}

		balance := MemberBalanceIn(userID, ledger.Group.MemberIDs(), ledger.Expenses, ledger.Settlements)

		summary := models.GroupSummary{
			GroupID:       ledger.Group.ID,
			GroupName:     ledger.Group.Name,
			Currency:      ledger.Group.Currency,
			TotalExpenses: Round2(groupTotal),
			YourPaid:      Round2(userPaid),
			YourBalance:   balance.Balance,
			Status:        balance.Status,
			MemberCount:   len(ledger.Group.Members),
		}
		dash.Groups = append(dash.Groups, summary)

		overallTotal += summary.TotalExpenses
		overallPaid += summary.YourPaid
		overallBalance += summary.YourBalance
	}

	netBalance := Round2(overallBalance)
	dash.Overall = models.OverallSummary{
		TotalGroupExpenses: Round2(overallTotal),
		YourTotalPaid:      Round2(overallPaid),
		YourNetBalance:     netBalance,
		Currency:           DefaultCurrency,
		Status:             BalanceStatus(netBalance),
	}
	if len(dash.Groups) > 0 {
		dash.Overall.Currency = dash.Groups[0].Currency
	}
	return dash
}
