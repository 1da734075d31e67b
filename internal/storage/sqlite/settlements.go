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

const settlementColumns = `id, group_id, from_user_id, to_user_id, amount, description, expense_id, split_user_id, status, paid_at, created_at`

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = now
	}
	if settlement.PaidAt == 0 {
		settlement.PaidAt = now
	}
	if settlement.Status == "" {
		settlement.Status = models.SettlementConfirmed
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (`+settlementColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.GroupID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount, nullable(settlement.Description), nullable(settlement.ExpenseID),
		nullable(settlement.SplitUserID), settlement.Status, settlement.PaidAt, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}

	return nil
}

// GetSettlement retrieves a settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement, err := scanSettlement(s.db.QueryRowContext(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE id = ?`,
		settlementID,
	))
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("settlement not found: %s", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListSettlementsByGroup retrieves all settlements for a group, newest first.
func (s *SQLiteStore) ListSettlementsByGroup(ctx context.Context, groupID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements WHERE group_id = ? ORDER BY paid_at DESC, created_at DESC`,
		groupID,
	)
}

// ListSettlementsForSplit retrieves all settlements linked to one split of one expense.
func (s *SQLiteStore) ListSettlementsForSplit(ctx context.Context, expenseID, splitUserID string) ([]*models.Settlement, error) {
	return s.querySettlements(ctx,
		`SELECT `+settlementColumns+` FROM settlements
		 WHERE expense_id = ? AND (split_user_id = ? OR (split_user_id IS NULL AND to_user_id = ?))`,
		expenseID, splitUserID, splitUserID,
	)
}

// DeleteSettlement removes a settlement by ID.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM settlements WHERE id = ?", settlementID)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.NotFound("settlement not found: %s", settlementID)
	}

	return nil
}

func (s *SQLiteStore) querySettlements(ctx context.Context, query string, args ...interface{}) ([]*models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*models.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}

	return settlements, nil
}

func scanSettlement(row scanner) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var description, expenseID, splitUserID sql.NullString

	err := row.Scan(
		&settlement.ID, &settlement.GroupID, &settlement.FromUserID, &settlement.ToUserID,
		&settlement.Amount, &description, &expenseID, &splitUserID,
		&settlement.Status, &settlement.PaidAt, &settlement.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		settlement.Description = description.String
	}
	if expenseID.Valid {
		settlement.ExpenseID = expenseID.String
	}
	if splitUserID.Valid {
		settlement.SplitUserID = splitUserID.String
	}

	return settlement, nil
}
