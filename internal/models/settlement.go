package models

// Settlement status tags.
const (
	SettlementPending   = "pending"
	SettlementConfirmed = "confirmed"
	SettlementRejected  = "rejected"
)

// Settlement represents a payment between two group members to clear debts.
//
// Invariant: FromUserID != ToUserID and both are group members at creation
// time. When linked to an expense, Amount never exceeds what remains owed on
// the linked split at creation time.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string `json:"id"`

	// GroupID is the group this settlement belongs to.
	GroupID string `json:"groupId"`

	// FromUserID is the member who paid (debtor settling up).
	FromUserID string `json:"from"`

	// ToUserID is the member who received payment.
	ToUserID string `json:"to"`

	// Amount is the positive payment amount, rounded to 2 decimals.
	Amount float64 `json:"amount"`

	// Description is an optional note, default "Settlement payment".
	Description string `json:"description"`

	// ExpenseID links the settlement to a specific expense, or empty for a
	// free-form settlement against the general group balance.
	ExpenseID string `json:"expenseId,omitempty"`

	// SplitUserID names which split within the linked expense is being paid.
	// Empty means the split belonging to ToUserID.
	SplitUserID string `json:"splitUserId,omitempty"`

	// Status is pending, confirmed or rejected. Rejected settlements are
	// excluded from balance computation.
	Status string `json:"status"`

	// PaidAt is the Unix timestamp of the payment.
	PaidAt int64 `json:"paidAt"`

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64 `json:"createdAt"`
}
