package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-io/hisab/internal/apperr"
	"github.com/hisab-io/hisab/internal/models"
)

// CreateExpense persists a new expense with its splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.Date == 0 {
		expense.Date = now
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, description, amount, paid_by, created_by, group_id, category, attachment, date, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.Description, expense.Amount, expense.PaidBy, expense.CreatedBy,
		nullable(expense.GroupID), expense.Category, nullable(expense.Attachment),
		expense.Date, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense with its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense, err := scanExpense(s.db.QueryRowContext(ctx,
		`SELECT id, description, amount, paid_by, created_by, group_id, category, attachment, date, created_at
		 FROM expenses WHERE id = ?`,
		expenseID,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("expense not found: %s", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if err := s.loadSplits(ctx, []*models.Expense{expense}); err != nil {
		return nil, err
	}

	return expense, nil
}

// UpdateExpense replaces an expense row and its splits.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses
		 SET description = ?, amount = ?, paid_by = ?, category = ?, attachment = ?, date = ?
		 WHERE id = ?`,
		expense.Description, expense.Amount, expense.PaidBy, expense.Category,
		nullable(expense.Attachment), expense.Date, expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("expense not found: %s", expense.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense.ID, expense.Splits); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// DeleteExpense removes an expense; splits cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("expense not found: %s", expenseID)
	}

	return nil
}

// ListExpensesByGroup retrieves a group's complete expense history.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, description, amount, paid_by, created_by, group_id, category, attachment, date, created_at
		 FROM expenses WHERE group_id = ? ORDER BY date DESC, created_at DESC`,
		groupID,
	)
}

// SearchExpensesByGroup retrieves one display page of a group's expenses.
func (s *SQLiteStore) SearchExpensesByGroup(ctx context.Context, groupID, search string, page, limit int) ([]*models.Expense, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	where := "group_id = ?"
	args := []interface{}{groupID}
	if search != "" {
		where += " AND description LIKE ? COLLATE NOCASE"
		args = append(args, "%"+search+"%")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM expenses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `SELECT id, description, amount, paid_by, created_by, group_id, category, attachment, date, created_at
		 FROM expenses WHERE ` + where + ` ORDER BY date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, (page-1)*limit)

	expenses, err := s.queryExpenses(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	return expenses, total, nil
}

// ListPersonalExpenses retrieves a user's groupless expenses.
func (s *SQLiteStore) ListPersonalExpenses(ctx context.Context, userID string) ([]*models.Expense, error) {
	return s.queryExpenses(ctx,
		`SELECT id, description, amount, paid_by, created_by, group_id, category, attachment, date, created_at
		 FROM expenses WHERE group_id IS NULL AND paid_by = ? ORDER BY date DESC, created_at DESC`,
		userID,
	)
}

func (s *SQLiteStore) queryExpenses(ctx context.Context, query string, args ...interface{}) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	if err := s.loadSplits(ctx, expenses); err != nil {
		return nil, err
	}

	return expenses, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanExpense.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row scanner) (*models.Expense, error) {
	expense := &models.Expense{}
	var groupID, attachment sql.NullString
	err := row.Scan(
		&expense.ID, &expense.Description, &expense.Amount, &expense.PaidBy, &expense.CreatedBy,
		&groupID, &expense.Category, &attachment, &expense.Date, &expense.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if groupID.Valid {
		expense.GroupID = groupID.String
	}
	if attachment.Valid {
		expense.Attachment = attachment.String
	}
	return expense, nil
}

// loadSplits fills the Splits field of each expense, in insertion order.
func (s *SQLiteStore) loadSplits(ctx context.Context, expenses []*models.Expense) error {
	for _, expense := range expenses {
		rows, err := s.db.QueryContext(ctx,
			"SELECT user_id, amount FROM expense_splits WHERE expense_id = ? ORDER BY rowid",
			expense.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to get expense splits: %w", err)
		}

		for rows.Next() {
			var split models.Split
			if err := rows.Scan(&split.UserID, &split.Amount); err != nil {
				rows.Close()
				return fmt.Errorf("failed to scan expense split: %w", err)
			}
			expense.Splits = append(expense.Splits, split)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expense splits: %w", err)
		}
	}

	return nil
}

func insertSplits(ctx context.Context, tx *sql.Tx, expenseID string, splits []models.Split) error {
	for _, split := range splits {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, amount) VALUES (?, ?, ?)",
			expenseID, split.UserID, split.Amount,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}
