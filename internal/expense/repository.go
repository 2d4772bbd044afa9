package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hamadalm/divvy/internal/expense/split"
)

// Repository handles expense, split, payment, comment and revision
// persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// nullDec adapts an optional decimal for sql parameters
func nullDec(p *decimal.Decimal) decimal.NullDecimal {
	if p == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *p, Valid: true}
}

// ptrDec converts a scanned nullable decimal back to a pointer
func ptrDec(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	d := nd.Decimal
	return &d
}

// CreateExpense inserts an expense with its splits and payments in one
// transaction
func (r *Repository) CreateExpense(
	ctx context.Context,
	creatorID int64,
	req *CreateExpenseRequest,
	currency string,
	splitMode split.SplitMode,
	paymentMode split.PaymentMode,
	splits []split.Split,
	payments []split.Payment,
) (*ExpenseDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, created_by, description, amount, currency_code, split_mode, payment_mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, group_id, created_by, description, amount, currency_code, split_mode, payment_mode, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, query,
		req.GroupID,
		creatorID,
		req.Description,
		req.Amount,
		currency,
		splitMode,
		paymentMode,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitMode,
		&expense.PaymentMode,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	splitRows, paymentRows, err := insertShares(ctx, tx, expense.ID, splits, payments)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}

	return &ExpenseDetail{Expense: expense, Splits: splitRows, Payments: paymentRows}, nil
}

// ReplaceExpense snapshots the current state into the edit history, updates
// the expense row, and replaces all splits and payments, atomically
func (r *Repository) ReplaceExpense(
	ctx context.Context,
	existing *Expense,
	editorID int64,
	req *UpdateExpenseRequest,
	currency string,
	splitMode split.SplitMode,
	paymentMode split.PaymentMode,
	splits []split.Split,
	payments []split.Payment,
) (*ExpenseDetail, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	revisionQuery := `
		INSERT INTO expense_revisions (expense_id, editor_id, description, amount, split_mode, payment_mode)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	if _, err := tx.ExecContext(ctx, revisionQuery,
		existing.ID,
		editorID,
		existing.Description,
		existing.Amount,
		existing.SplitMode,
		existing.PaymentMode,
	); err != nil {
		return nil, fmt.Errorf("failed to record revision: %w", err)
	}

	updateQuery := `
		UPDATE expenses
		SET description = $2, amount = $3, currency_code = $4, split_mode = $5, payment_mode = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING id, group_id, created_by, description, amount, currency_code, split_mode, payment_mode, created_at, updated_at
	`

	expense := &Expense{}
	err = tx.QueryRowContext(ctx, updateQuery,
		existing.ID,
		req.Description,
		req.Amount,
		currency,
		splitMode,
		paymentMode,
	).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitMode,
		&expense.PaymentMode,
		&expense.CreatedAt,
		&expense.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}

	// Splits and payments have no identity of their own: delete everything
	// and reinsert the recomputed sets.
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_splits WHERE expense_id = $1`, existing.ID); err != nil {
		return nil, fmt.Errorf("failed to delete splits: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_payments WHERE expense_id = $1`, existing.ID); err != nil {
		return nil, fmt.Errorf("failed to delete payments: %w", err)
	}

	splitRows, paymentRows, err := insertShares(ctx, tx, expense.ID, splits, payments)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense update: %w", err)
	}

	return &ExpenseDetail{Expense: expense, Splits: splitRows, Payments: paymentRows}, nil
}

// insertShares inserts the materialized split and payment rows for an
// expense inside an open transaction
func insertShares(ctx context.Context, tx *sql.Tx, expenseID int64, splits []split.Split, payments []split.Payment) ([]*ExpenseSplit, []*ExpensePayment, error) {
	splitQuery := `
		INSERT INTO expense_splits (expense_id, user_id, amount, percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, expense_id, user_id, amount, percentage
	`

	splitRows := make([]*ExpenseSplit, len(splits))
	for i, s := range splits {
		row := &ExpenseSplit{}
		var pct decimal.NullDecimal
		err := tx.QueryRowContext(ctx, splitQuery, expenseID, userID(s.ParticipantID), s.Amount, nullDec(s.Percentage)).Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.Amount,
			&pct,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert split: %w", err)
		}
		row.Percentage = ptrDec(pct)
		splitRows[i] = row
	}

	paymentQuery := `
		INSERT INTO expense_payments (expense_id, user_id, amount, percentage)
		VALUES ($1, $2, $3, $4)
		RETURNING id, expense_id, user_id, amount, percentage
	`

	paymentRows := make([]*ExpensePayment, len(payments))
	for i, p := range payments {
		row := &ExpensePayment{}
		var pct decimal.NullDecimal
		err := tx.QueryRowContext(ctx, paymentQuery, expenseID, userID(p.ParticipantID), p.Amount, nullDec(p.Percentage)).Scan(
			&row.ID,
			&row.ExpenseID,
			&row.UserID,
			&row.Amount,
			&pct,
		)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to insert payment: %w", err)
		}
		row.Percentage = ptrDec(pct)
		paymentRows[i] = row
	}

	return splitRows, paymentRows, nil
}

// GetExpenseByID retrieves an expense by its ID
func (r *Repository) GetExpenseByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.created_by, e.description, e.amount, e.currency_code, e.split_mode, e.payment_mode, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.id = $1
	`

	expense := &Expense{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&expense.ID,
		&expense.GroupID,
		&expense.CreatedBy,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SplitMode,
		&expense.PaymentMode,
		&expense.CreatedAt,
		&expense.UpdatedAt,
		&expense.CreatorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	return expense, nil
}

// GetSplitsByExpenseID retrieves all splits for an expense
func (r *Repository) GetSplitsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpenseSplit, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.percentage, u.username
		FROM expense_splits s
		JOIN users u ON s.user_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`
	return r.querySplits(ctx, query, expenseID)
}

// GetSplitsByGroupID retrieves all splits across a group's expenses, in
// insertion order
func (r *Repository) GetSplitsByGroupID(ctx context.Context, groupID int64) ([]*ExpenseSplit, error) {
	query := `
		SELECT s.id, s.expense_id, s.user_id, s.amount, s.percentage, u.username
		FROM expense_splits s
		JOIN expenses e ON s.expense_id = e.id
		JOIN users u ON s.user_id = u.id
		WHERE e.group_id = $1
		ORDER BY s.id
	`
	return r.querySplits(ctx, query, groupID)
}

func (r *Repository) querySplits(ctx context.Context, query string, arg interface{}) ([]*ExpenseSplit, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	var splits []*ExpenseSplit
	for rows.Next() {
		s := &ExpenseSplit{}
		var pct decimal.NullDecimal
		if err := rows.Scan(&s.ID, &s.ExpenseID, &s.UserID, &s.Amount, &pct, &s.Username); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		s.Percentage = ptrDec(pct)
		splits = append(splits, s)
	}

	return splits, nil
}

// GetPaymentsByExpenseID retrieves all payments for an expense
func (r *Repository) GetPaymentsByExpenseID(ctx context.Context, expenseID int64) ([]*ExpensePayment, error) {
	query := `
		SELECT p.id, p.expense_id, p.user_id, p.amount, p.percentage, u.username
		FROM expense_payments p
		JOIN users u ON p.user_id = u.id
		WHERE p.expense_id = $1
		ORDER BY p.id
	`
	return r.queryPayments(ctx, query, expenseID)
}

// GetPaymentsByGroupID retrieves all payments across a group's expenses
func (r *Repository) GetPaymentsByGroupID(ctx context.Context, groupID int64) ([]*ExpensePayment, error) {
	query := `
		SELECT p.id, p.expense_id, p.user_id, p.amount, p.percentage, u.username
		FROM expense_payments p
		JOIN expenses e ON p.expense_id = e.id
		JOIN users u ON p.user_id = u.id
		WHERE e.group_id = $1
		ORDER BY p.id
	`
	return r.queryPayments(ctx, query, groupID)
}

func (r *Repository) queryPayments(ctx context.Context, query string, arg interface{}) ([]*ExpensePayment, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	defer rows.Close()

	var payments []*ExpensePayment
	for rows.Next() {
		p := &ExpensePayment{}
		var pct decimal.NullDecimal
		if err := rows.Scan(&p.ID, &p.ExpenseID, &p.UserID, &p.Amount, &pct, &p.Username); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Percentage = ptrDec(pct)
		payments = append(payments, p)
	}

	return payments, nil
}

// ListExpensesByGroupID retrieves expenses for a group, newest first
func (r *Repository) ListExpensesByGroupID(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.created_by, e.description, e.amount, e.currency_code, e.split_mode, e.payment_mode, e.created_at, e.updated_at, u.username
		FROM expenses e
		JOIN users u ON e.created_by = u.id
		WHERE e.group_id = $1
		ORDER BY e.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		expense := &Expense{}
		if err := rows.Scan(
			&expense.ID,
			&expense.GroupID,
			&expense.CreatedBy,
			&expense.Description,
			&expense.Amount,
			&expense.CurrencyCode,
			&expense.SplitMode,
			&expense.PaymentMode,
			&expense.CreatedAt,
			&expense.UpdatedAt,
			&expense.CreatorUsername,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}

	return expenses, total, nil
}

// DeleteExpense removes an expense and everything hanging off it
func (r *Repository) DeleteExpense(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"expense_comments", "expense_revisions", "expense_splits", "expense_payments"} {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE expense_id = $1`, table), id); err != nil {
			return fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrExpenseNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit expense delete: %w", err)
	}

	return nil
}

// CreateComment inserts a comment on an expense
func (r *Repository) CreateComment(ctx context.Context, expenseID, authorID int64, body string) (*Comment, error) {
	query := `
		INSERT INTO expense_comments (expense_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id, expense_id, author_id, body, created_at
	`

	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, expenseID, authorID, body).Scan(
		&comment.ID,
		&comment.ExpenseID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	return comment, nil
}

// GetCommentByID retrieves a comment by its ID
func (r *Repository) GetCommentByID(ctx context.Context, id int64) (*Comment, error) {
	query := `
		SELECT c.id, c.expense_id, c.author_id, c.body, c.created_at, u.username
		FROM expense_comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.id = $1
	`

	comment := &Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.ExpenseID,
		&comment.AuthorID,
		&comment.Body,
		&comment.CreatedAt,
		&comment.AuthorUsername,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}

	return comment, nil
}

// ListComments retrieves all comments for an expense, oldest first
func (r *Repository) ListComments(ctx context.Context, expenseID int64) ([]*Comment, error) {
	query := `
		SELECT c.id, c.expense_id, c.author_id, c.body, c.created_at, u.username
		FROM expense_comments c
		JOIN users u ON c.author_id = u.id
		WHERE c.expense_id = $1
		ORDER BY c.created_at
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		comment := &Comment{}
		if err := rows.Scan(
			&comment.ID,
			&comment.ExpenseID,
			&comment.AuthorID,
			&comment.Body,
			&comment.CreatedAt,
			&comment.AuthorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, nil
}

// DeleteComment removes a comment
func (r *Repository) DeleteComment(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expense_comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrCommentNotFound
	}

	return nil
}

// ListRevisions retrieves the edit history of an expense, newest first
func (r *Repository) ListRevisions(ctx context.Context, expenseID int64) ([]*Revision, error) {
	query := `
		SELECT r.id, r.expense_id, r.editor_id, r.description, r.amount, r.split_mode, r.payment_mode, r.edited_at, u.username
		FROM expense_revisions r
		JOIN users u ON r.editor_id = u.id
		WHERE r.expense_id = $1
		ORDER BY r.edited_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	var revisions []*Revision
	for rows.Next() {
		rev := &Revision{}
		if err := rows.Scan(
			&rev.ID,
			&rev.ExpenseID,
			&rev.EditorID,
			&rev.Description,
			&rev.Amount,
			&rev.SplitMode,
			&rev.PaymentMode,
			&rev.EditedAt,
			&rev.EditorUsername,
		); err != nil {
			return nil, fmt.Errorf("failed to scan revision: %w", err)
		}
		revisions = append(revisions, rev)
	}

	return revisions, nil
}
