// Package testdata seeds a database with sample data for demos and
// manual testing.
package testdata

import (
	"context"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/database/repository"
)

// Repos bundles repos used by Seed.
type Repos struct {
	Accounts     *repository.AccountRepo
	Categories   *repository.CategoryRepo
	Tags         *repository.TagRepo
	Transactions *repository.TransactionRepo
	Rules        *repository.RecurringRuleRepo
}

// Seed creates a sample account, tags, a recurring rule, and a spread of
// transactions over the last two months.
func Seed(ctx context.Context, repos Repos) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	acct := repository.Account{ID: uuid.NewString(), Name: "Sample Checking", Institution: "Sample Bank", AccountType: "checking", Currency: "USD"}
	if err := repos.Accounts.Upsert(ctx, acct); err != nil {
		return err
	}

	var tagIDs []string
	for _, name := range []string{"work", "travel", "shared"} {
		tag, err := repos.Tags.Ensure(ctx, name)
		if err != nil {
			return err
		}
		tagIDs = append(tagIDs, tag.ID)
	}

	cats, err := repos.Categories.List(ctx)
	if err != nil {
		return err
	}

	titles := []string{"Uber Eats", "Amazon", "Woolworths", "Spotify", "Coffee Shop", ""}
	now := time.Now().UTC()
	for i := 0; i < 40; i++ {
		amount := -int64(rng.Intn(20000) + 500)
		txType := "expense"
		if rng.Intn(12) == 0 {
			amount = int64(rng.Intn(300000) + 100000)
			txType = "income"
		}
		tx := repository.Transaction{
			ID:          uuid.NewString(),
			AccountID:   acct.ID,
			Date:        now.AddDate(0, 0, -rng.Intn(60)),
			AmountCents: amount,
			Title:       titles[rng.Intn(len(titles))],
			Type:        txType,
			Pending:     rng.Intn(10) < 2,
		}
		if len(cats) > 0 && rng.Intn(4) > 0 {
			id := cats[rng.Intn(len(cats))].ID
			tx.CategoryID = &id
		}
		if err := repos.Transactions.Insert(ctx, tx); err != nil {
			return err
		}
		if rng.Intn(3) == 0 {
			_ = repos.Transactions.AttachTag(ctx, tx.ID, tagIDs[rng.Intn(len(tagIDs))])
		}
	}

	rule := repository.RecurringRule{
		ID:          uuid.NewString(),
		AccountID:   acct.ID,
		Title:       "Rent",
		AmountCents: -150000,
		Type:        "expense",
		Frequency:   "monthly",
		StartDate:   time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -2, 0),
		EndMode:     "never",
	}
	return repos.Rules.Insert(ctx, rule)
}
