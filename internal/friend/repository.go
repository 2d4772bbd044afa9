package friend

import (
	"context"
	"database/sql"
	"fmt"
)

// Repository handles friendship data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new friendship repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new pending friendship
func (r *Repository) Create(ctx context.Context, requesterID, addresseeID int64) (*Friendship, error) {
	query := `
		INSERT INTO friendships (requester_id, addressee_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, requester_id, addressee_id, status, created_at
	`

	friendship := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, requesterID, addresseeID, FriendshipStatusPending).Scan(
		&friendship.ID,
		&friendship.RequesterID,
		&friendship.AddresseeID,
		&friendship.Status,
		&friendship.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	return friendship, nil
}

// GetByID retrieves a friendship by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Friendship, error) {
	query := `
		SELECT f.id, f.requester_id, f.addressee_id, f.status, f.created_at, ru.username, au.username
		FROM friendships f
		JOIN users ru ON f.requester_id = ru.id
		JOIN users au ON f.addressee_id = au.id
		WHERE f.id = $1
	`

	friendship := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&friendship.ID,
		&friendship.RequesterID,
		&friendship.AddresseeID,
		&friendship.Status,
		&friendship.CreatedAt,
		&friendship.RequesterUsername,
		&friendship.AddresseeUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return friendship, nil
}

// GetBetweenUsers retrieves the friendship between two users in either direction
func (r *Repository) GetBetweenUsers(ctx context.Context, userA, userB int64) (*Friendship, error) {
	query := `
		SELECT id, requester_id, addressee_id, status, created_at
		FROM friendships
		WHERE (requester_id = $1 AND addressee_id = $2)
		   OR (requester_id = $2 AND addressee_id = $1)
	`

	friendship := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, userA, userB).Scan(
		&friendship.ID,
		&friendship.RequesterID,
		&friendship.AddresseeID,
		&friendship.Status,
		&friendship.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get friendship: %w", err)
	}

	return friendship, nil
}

// ListByUserID retrieves friendships involving a user, optionally filtered by status
func (r *Repository) ListByUserID(ctx context.Context, userID int64, status *FriendshipStatus) ([]*Friendship, error) {
	query := `
		SELECT f.id, f.requester_id, f.addressee_id, f.status, f.created_at, ru.username, au.username
		FROM friendships f
		JOIN users ru ON f.requester_id = ru.id
		JOIN users au ON f.addressee_id = au.id
		WHERE (f.requester_id = $1 OR f.addressee_id = $1)
		  AND ($2::text IS NULL OR f.status = $2)
		ORDER BY f.created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list friendships: %w", err)
	}
	defer rows.Close()

	var friendships []*Friendship
	for rows.Next() {
		friendship := &Friendship{}
		if err := rows.Scan(
			&friendship.ID,
			&friendship.RequesterID,
			&friendship.AddresseeID,
			&friendship.Status,
			&friendship.CreatedAt,
			&friendship.RequesterUsername,
			&friendship.AddresseeUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan friendship: %w", err)
		}
		friendships = append(friendships, friendship)
	}

	return friendships, nil
}

// UpdateStatus updates the status of a friendship
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status FriendshipStatus) (*Friendship, error) {
	query := `
		UPDATE friendships
		SET status = $2
		WHERE id = $1
		RETURNING id, requester_id, addressee_id, status, created_at
	`

	friendship := &Friendship{}
	err := r.db.QueryRowContext(ctx, query, id, status).Scan(
		&friendship.ID,
		&friendship.RequesterID,
		&friendship.AddresseeID,
		&friendship.Status,
		&friendship.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update friendship: %w", err)
	}

	return friendship, nil
}

// Delete removes a friendship
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete friendship: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFriendshipNotFound
	}

	return nil
}
