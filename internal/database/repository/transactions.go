package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// TransactionFilters defines list filters pushed down to SQL. Zero values
// mean "no restriction"; richer in-memory filtering lives in the query
// engine.
type TransactionFilters struct {
	AccountID       string
	CategoryID      string
	Type            string
	RecurringRuleID string
	From            time.Time // inclusive; zero time = unbounded
	To              time.Time // inclusive; zero time = unbounded
	Search          string
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const transactionColumns = `t.id, t.account_id, t.date, t.amount_cents, t.title, t.notes, t.type,
 t.pending, t.attachment_count, t.category_id, t.recurring_rule_id, a.currency, t.created_at, t.updated_at`

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO transactions(
	 id, account_id, date, amount_cents, title, notes, type, pending,
	 attachment_count, category_id, recurring_rule_id, created_at, updated_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`,
		t.ID, t.AccountID, t.Date, t.AmountCents, t.Title, t.Notes, t.Type, t.Pending,
		t.AttachmentCount, t.CategoryID, t.RecurringRuleID)
	return err
}

func (r *TransactionRepo) UpdateCategory(ctx context.Context, id string, categoryID *string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET category_id = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, categoryID, id)
	return err
}

func (r *TransactionRepo) UpdateTitle(ctx context.Context, id, title string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET title = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, title, id)
	return err
}

func (r *TransactionRepo) SetPending(ctx context.Context, id string, pending bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE transactions SET pending = ?, updated_at=CURRENT_TIMESTAMP WHERE id = ?`, pending, id)
	return err
}

func (r *TransactionRepo) AttachTag(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO transaction_tags(transaction_id, tag_id) VALUES(?, ?)`, transactionID, tagID)
	return err
}

func (r *TransactionRepo) RemoveTag(ctx context.Context, transactionID, tagID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transaction_tags WHERE transaction_id = ? AND tag_id = ?`, transactionID, tagID)
	return err
}

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []interface{}

	if f.AccountID != "" {
		where = append(where, "t.account_id = ?")
		args = append(args, f.AccountID)
	}
	if f.CategoryID != "" {
		where = append(where, "t.category_id = ?")
		args = append(args, f.CategoryID)
	}
	if f.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, f.Type)
	}
	if f.RecurringRuleID != "" {
		where = append(where, "t.recurring_rule_id = ?")
		args = append(args, f.RecurringRuleID)
	}
	if !f.From.IsZero() {
		where = append(where, "t.date >= ?")
		args = append(args, f.From)
	}
	if !f.To.IsZero() {
		where = append(where, "t.date <= ?")
		args = append(args, f.To)
	}
	if f.Search != "" {
		where = append(where, "t.title LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := "SELECT " + transactionColumns + " FROM transactions t JOIN accounts a ON a.id = t.account_id"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		tags, err := r.fetchTags(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Tags = tags
	}
	return out, nil
}

// LatestRuleDate returns the most recent transaction date materialized for
// the given rule; ok is false when the rule has no transactions yet.
func (r *TransactionRepo) LatestRuleDate(ctx context.Context, ruleID string) (latest time.Time, ok bool, err error) {
	row := r.db.QueryRowContext(ctx, `SELECT date FROM transactions WHERE recurring_rule_id = ? ORDER BY date DESC LIMIT 1`, ruleID)
	if err := row.Scan(&latest); err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, err
	}
	return latest, true, nil
}

func (r *TransactionRepo) Get(ctx context.Context, id string) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+transactionColumns+" FROM transactions t JOIN accounts a ON a.id = t.account_id WHERE t.id = ?", id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	tags, err := r.fetchTags(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Tags = tags
	return &t, nil
}

func (r *TransactionRepo) fetchTags(ctx context.Context, transactionID string) ([]Tag, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT t.id, t.name FROM tags t JOIN transaction_tags tt ON tt.tag_id = t.id WHERE tt.transaction_id = ? ORDER BY t.name`, transactionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tags []Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// scanTransaction handles nullable fields for both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var notes, category, ruleID sql.NullString
	if err := row.Scan(&t.ID, &t.AccountID, &t.Date, &t.AmountCents, &t.Title, &notes, &t.Type,
		&t.Pending, &t.AttachmentCount, &category, &ruleID, &t.Currency, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return Transaction{}, err
	}
	if notes.Valid {
		t.Notes = &notes.String
	}
	if category.Valid {
		t.CategoryID = &category.String
	}
	if ruleID.Valid {
		t.RecurringRuleID = &ruleID.String
	}
	return t, nil
}
