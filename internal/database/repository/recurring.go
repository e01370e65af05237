package repository

import (
	"context"
	"database/sql"
)

// RecurringRuleRepo handles stored recurrence rules.
type RecurringRuleRepo struct {
	db *sql.DB
}

func NewRecurringRuleRepo(db *sql.DB) *RecurringRuleRepo { return &RecurringRuleRepo{db: db} }

func (r *RecurringRuleRepo) Insert(ctx context.Context, rr RecurringRule) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO recurring_rules(
	 id, account_id, category_id, title, amount_cents, type, frequency,
	 start_date, end_mode, end_date, end_count, created_at)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP);
	`,
		rr.ID, rr.AccountID, rr.CategoryID, rr.Title, rr.AmountCents, rr.Type,
		rr.Frequency, rr.StartDate, rr.EndMode, rr.EndDate, rr.EndCount)
	return err
}

func (r *RecurringRuleRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM recurring_rules WHERE id = ?`, id)
	return err
}

func (r *RecurringRuleRepo) List(ctx context.Context) ([]RecurringRule, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, account_id, category_id, title, amount_cents, type, frequency,
	 start_date, end_mode, end_date, end_count, created_at
	FROM recurring_rules ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RecurringRule
	for rows.Next() {
		rr, err := scanRecurringRule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rr)
	}
	return out, rows.Err()
}

func (r *RecurringRuleRepo) Get(ctx context.Context, id string) (*RecurringRule, error) {
	row := r.db.QueryRowContext(ctx, `
	SELECT id, account_id, category_id, title, amount_cents, type, frequency,
	 start_date, end_mode, end_date, end_count, created_at
	FROM recurring_rules WHERE id = ?`, id)
	rr, err := scanRecurringRule(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &rr, nil
}

func scanRecurringRule(row scanner) (RecurringRule, error) {
	var rr RecurringRule
	var category sql.NullString
	var endDate sql.NullTime
	var endCount sql.NullInt64
	if err := row.Scan(&rr.ID, &rr.AccountID, &category, &rr.Title, &rr.AmountCents, &rr.Type,
		&rr.Frequency, &rr.StartDate, &rr.EndMode, &endDate, &endCount, &rr.CreatedAt); err != nil {
		return RecurringRule{}, err
	}
	if category.Valid {
		rr.CategoryID = &category.String
	}
	if endDate.Valid {
		rr.EndDate = &endDate.Time
	}
	if endCount.Valid {
		n := int(endCount.Int64)
		rr.EndCount = &n
	}
	return rr, nil
}
