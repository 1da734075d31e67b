package models

// Expense categories. Unknown tags are rejected at creation.
const (
	CategoryRent          = "rent"
	CategoryGroceries     = "groceries"
	CategoryUtility       = "utility"
	CategoryFood          = "food"
	CategoryTransport     = "transport"
	CategoryEntertainment = "entertainment"
	CategoryOther         = "other"
)

// ValidCategory reports whether tag is a known expense category.
func ValidCategory(tag string) bool {
	switch tag {
	case CategoryRent, CategoryGroceries, CategoryUtility, CategoryFood,
		CategoryTransport, CategoryEntertainment, CategoryOther:
		return true
	}
	return false
}

// Split is a single member's share of an expense's total amount.
type Split struct {
	// UserID references the member who owes this share.
	UserID string `json:"userId"`

	// Amount is this member's share, rounded to 2 decimals, always >= 0.
	Amount float64 `json:"amount"`
}

// Expense represents a paid amount divided among participants.
//
// Invariant: the split amounts sum to Amount within a 0.01 tolerance, and
// every split member belongs (or belonged) to the owning group.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string `json:"id"`

	// Description is the human-readable description.
	Description string `json:"description"`

	// Amount is the positive total, rounded to 2 decimals.
	Amount float64 `json:"amount"`

	// PaidBy references the member who paid.
	PaidBy string `json:"paidBy"`

	// CreatedBy references the member who recorded the expense.
	CreatedBy string `json:"createdBy"`

	// GroupID is the owning group, or empty for a personal expense.
	GroupID string `json:"groupId,omitempty"`

	// Category is the expense category tag, default "other".
	Category string `json:"category"`

	// Splits is the ordered per-member share list.
	Splits []Split `json:"splits"`

	// Attachment is an optional reference to an uploaded receipt
	// (e.g. "/uploads/receipt.png").
	Attachment string `json:"attachment,omitempty"`

	// Date is the Unix timestamp the expense is dated at.
	Date int64 `json:"date"`

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64 `json:"createdAt"`
}
