package models

// Balance status tags.
const (
	StatusOwed    = "owed"    // the group owes this member money
	StatusOwes    = "owes"    // this member owes the group
	StatusSettled = "settled" // net zero
)

// MemberBalance is one member's derived net position within a group.
// Never persisted; always recomputed from the expense/settlement history.
type MemberBalance struct {
	UserID  string  `json:"userId"`
	Balance float64 `json:"balance"`
	Status  string  `json:"status"`
}

// PersonalSummary is a user's groupless spending total.
type PersonalSummary struct {
	TotalSpent   float64 `json:"totalSpent"`
	ExpenseCount int     `json:"expenseCount"`
}

// GroupSummary is one group's totals restricted to a single user.
type GroupSummary struct {
	GroupID       string  `json:"groupId"`
	GroupName     string  `json:"groupName"`
	Currency      string  `json:"currency"`
	TotalExpenses float64 `json:"totalExpenses"`
	YourPaid      float64 `json:"yourPaid"`
	YourBalance   float64 `json:"yourBalance"`
	Status        string  `json:"status"`
	MemberCount   int     `json:"memberCount"`
}

// OverallSummary aggregates the per-group summaries.
type OverallSummary struct {
	TotalGroupExpenses float64 `json:"totalGroupExpenses"`
	YourTotalPaid      float64 `json:"yourTotalPaid"`
	YourNetBalance     float64 `json:"yourNetBalance"`
	Currency           string  `json:"currency"`
	Status             string  `json:"status"`
}

// Dashboard composes a user's personal, per-group and overall views.
type Dashboard struct {
	Personal PersonalSummary `json:"personal"`
	Groups   []GroupSummary  `json:"groups"`
	Overall  OverallSummary  `json:"overall"`
}
