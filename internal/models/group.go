package models

// Member is one user's membership in a group.
type Member struct {
	// UserID references the member's user account.
	UserID string `json:"userId"`

	// JoinedAt is the Unix timestamp when the user joined the group.
	JoinedAt int64 `json:"joinedAt"`
}

// Group represents a set of users sharing expenses.
//
// Invariants: the creator is always a member, member IDs are unique, and a
// group never has fewer than one member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g. "Roommates").
	Name string `json:"name"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`

	// Currency is an opaque currency tag for all amounts in this group
	// (e.g. "INR"). No conversion is ever performed.
	Currency string `json:"currency"`

	// CreatorID references the user who created the group.
	CreatorID string `json:"creatorId"`

	// Members is the ordered membership list, creator first.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"createdAt"`
}

// IsMember reports whether userID is currently a member of the group.
func (g *Group) IsMember(userID string) bool {
	for _, m := range g.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// MemberIDs returns the user IDs of all current members, in membership order.
func (g *Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.UserID
	}
	return ids
}
