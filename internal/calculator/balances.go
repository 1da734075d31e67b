package calculator

import (
	"github.com/hisab-io/hisab/internal/models"
)

// BalanceStatus classifies a rounded balance.
func BalanceStatus(balance float64) string {
	switch {
	case balance > 0:
		return models.StatusOwed
	case balance < 0:
		return models.StatusOwes
	default:
		return models.StatusSettled
	}
}

// GroupBalances folds a group's full expense and settlement history into one
// balance per current member, in membership order.
//
// The fold is a pure function of its inputs and is invariant under reordering
// of the expense/settlement lists:
//   - expense: payer +amount, each split member -split.amount
//   - settlement: from +amount, to -amount (rejected settlements excluded).
//     The cash payer's debt shrinks and the receiver's claim shrinks, so a
//     full settlement drives both sides to zero.
//
// Events referencing users outside memberIDs are skipped, not errored:
// members who left after incurring charges must not break balance display.
// Each balance is rounded to 2 decimals before classification.
func GroupBalances(memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) []models.MemberBalance {
	balances := make(map[string]float64, len(memberIDs))
	for _, id := range memberIDs {
		balances[id] = 0
	}

	for _, exp := range expenses {
		if _, ok := balances[exp.PaidBy]; ok {
			balances[exp.PaidBy] += exp.Amount
		}
		for _, split := range exp.Splits {
			if _, ok := balances[split.UserID]; ok {
				balances[split.UserID] -= split.Amount
			}
		}
	}

	for _, s := range settlements {
		if s.Status == models.SettlementRejected {
			continue
		}
		if _, ok := balances[s.FromUserID]; ok {
			balances[s.FromUserID] += s.Amount
		}
		if _, ok := balances[s.ToUserID]; ok {
			balances[s.ToUserID] -= s.Amount
		}
	}

	result := make([]models.MemberBalance, len(memberIDs))
	for i, id := range memberIDs {
		rounded := Round2(balances[id])
		result[i] = models.MemberBalance{
			UserID:  id,
			Balance: rounded,
			Status:  BalanceStatus(rounded),
		}
	}
	return result
}

// MemberBalanceIn returns the fold restricted to a single member.
func MemberBalanceIn(userID string, memberIDs []string, expenses []*models.Expense, settlements []*models.Settlement) models.MemberBalance {
	for _, b := range GroupBalances(memberIDs, expenses, settlements) {
		if b.UserID == userID {
			return b
		}
	}
	return models.MemberBalance{UserID: userID, Balance: 0, Status: models.StatusSettled}
}
