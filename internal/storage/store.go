// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/hisab-io/hisab/internal/models"
)

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
//
// List* methods return the full, current history unless explicitly paginated;
// balance and dashboard computation always consume the unpaginated variants.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateUser updates username and avatar for an existing user.
	UpdateUser(ctx context.Context, user *models.User) error

	// CreateGroup persists a new group with its member list.
	// The group.ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group with its ordered member list.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroupsByMember retrieves every group the user belongs to,
	// newest first.
	ListGroupsByMember(ctx context.Context, userID string) ([]*models.Group, error)

	// AddGroupMember appends a member to a group. Returns a conflict error
	// if the user is already a member.
	AddGroupMember(ctx context.Context, groupID, userID string, joinedAt int64) error

	// DeleteGroup removes a group and its memberships.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense with its splits.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its ordered splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// UpdateExpense replaces an existing expense and its splits.
	UpdateExpense(ctx context.Context, expense *models.Expense) error

	// DeleteExpense removes an expense and its splits.
	DeleteExpense(ctx context.Context, expenseID string) error

	// ListExpensesByGroup retrieves a group's complete expense history.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// SearchExpensesByGroup retrieves one display page of a group's expenses,
	// newest first, optionally filtered by description substring. The second
	// return value is the total match count before paging.
	SearchExpensesByGroup(ctx context.Context, groupID, search string, page, limit int) ([]*models.Expense, int, error)

	// ListPersonalExpenses retrieves a user's groupless expenses.
	ListPersonalExpenses(ctx context.Context, userID string) ([]*models.Expense, error)

	// CreateSettlement persists a new settlement.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// ListSettlementsByGroup retrieves a group's complete settlement history,
	// newest first.
	ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error)

	// ListSettlementsForSplit retrieves all settlements linked to one split
	// of one expense, any status.
	ListSettlementsForSplit(ctx context.Context, expenseID, splitUserID string) ([]*models.Settlement, error)

	// DeleteSettlement removes a settlement by ID.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// Close releases any resources held by the store.
	Close() error
}
