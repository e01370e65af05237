package database

import (
	"context"
	"database/sql"
	"strings"

	"github.com/google/uuid"
)

// defaultCategories are seeded into empty databases. "A > B" nests B
// under A.
var defaultCategories = []string{
	"Income",
	"Housing > Rent",
	"Housing > Utilities",
	"Food > Groceries",
	"Food > Restaurants",
	"Transport",
	"Shopping",
	"Subscriptions",
	"Health",
	"Savings",
	"Entertainment",
}

// SeedDefaults inserts the baseline category tree into a fresh database.
// Ids are derived from the category name, so re-running on every startup
// is a no-op once the rows exist.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return WithTx(db, func(tx *sql.Tx) error {
		for idx, path := range defaultCategories {
			var parentID *string
			for _, raw := range strings.Split(path, ">") {
				name := strings.TrimSpace(raw)
				id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("cat:"+name)).String()
				_, err := tx.ExecContext(ctx, `
				INSERT INTO categories(id, parent_id, name, sort_order)
				VALUES(?, ?, ?, ?)
				ON CONFLICT(id) DO NOTHING;
				`, id, parentID, name, idx)
				if err != nil {
					return err
				}
				parentID = &id
			}
		}
		return nil
	})
}
