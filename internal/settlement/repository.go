package settlement

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

// Repository handles settlement persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new settlement repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new settlement record
func (r *Repository) Create(ctx context.Context, groupID, fromUserID, toUserID int64, amount decimal.Decimal, note *string) (*Settlement, error) {
	query := `
		INSERT INTO settlements (group_id, from_user_id, to_user_id, amount, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, group_id, from_user_id, to_user_id, amount, note, created_at
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, groupID, fromUserID, toUserID, amount, note).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.Note,
		&settlement.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create settlement: %w", err)
	}

	return settlement, nil
}

// GetByID retrieves a settlement by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.from_user_id, s.to_user_id, s.amount, s.note, s.created_at, fu.username, tu.username
		FROM settlements s
		JOIN users fu ON s.from_user_id = fu.id
		JOIN users tu ON s.to_user_id = tu.id
		WHERE s.id = $1
	`

	settlement := &Settlement{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&settlement.ID,
		&settlement.GroupID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&settlement.Amount,
		&settlement.Note,
		&settlement.CreatedAt,
		&settlement.FromUsername,
		&settlement.ToUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	return settlement, nil
}

// ListByGroupID retrieves all settlements for a group, in insertion order
func (r *Repository) ListByGroupID(ctx context.Context, groupID int64) ([]*Settlement, error) {
	query := `
		SELECT s.id, s.group_id, s.from_user_id, s.to_user_id, s.amount, s.note, s.created_at, fu.username, tu.username
		FROM settlements s
		JOIN users fu ON s.from_user_id = fu.id
		JOIN users tu ON s.to_user_id = tu.id
		WHERE s.group_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []*Settlement
	for rows.Next() {
		settlement := &Settlement{}
		if err := rows.Scan(
			&settlement.ID,
			&settlement.GroupID,
			&settlement.FromUserID,
			&settlement.ToUserID,
			&settlement.Amount,
			&settlement.Note,
			&settlement.CreatedAt,
			&settlement.FromUsername,
			&settlement.ToUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		settlements = append(settlements, settlement)
	}

	return settlements, nil
}

// Delete removes a settlement record
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrSettlementNotFound
	}

	return nil
}
