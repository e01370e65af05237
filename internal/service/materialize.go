// Package service hosts workflows that bridge the pure engines and the
// sqlite store.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/recurrence"
)

// maxPerRule caps how many occurrences a single run will create for one
// rule, so a rule whose start date lies far in the past cannot flood the
// store in one pass. Later runs resume where the previous one stopped.
const maxPerRule = 120

// Materializer turns due recurrence occurrences into stored transactions.
type Materializer struct {
	Transactions *repository.TransactionRepo
	Rules        *repository.RecurringRuleRepo
}

// MaterializeResult summarizes one run.
type MaterializeResult struct {
	Generated int
	Skipped   int
	Errors    []error
}

// Run materializes every stored rule up to now. Occurrences that already
// exist — either tagged with the rule id on the same day, or fuzzy-matching
// an existing transaction — are skipped, so the run is idempotent.
func (m *Materializer) Run(ctx context.Context, now time.Time) (MaterializeResult, error) {
	res := MaterializeResult{}
	rules, err := m.Rules.List(ctx)
	if err != nil {
		return res, fmt.Errorf("list rules: %w", err)
	}
	for _, rr := range rules {
		gen, skip, err := m.materializeRule(ctx, rr, now)
		res.Generated += gen
		res.Skipped += skip
		if err != nil {
			res.Errors = append(res.Errors, fmt.Errorf("rule %s: %w", rr.ID, err))
		}
	}
	return res, nil
}

func (m *Materializer) materializeRule(ctx context.Context, rr repository.RecurringRule, now time.Time) (generated, skipped int, err error) {
	rule, err := ruleFromRow(rr)
	if err != nil {
		return 0, 0, err
	}

	windowStart := rr.StartDate
	if latest, ok, err := m.Transactions.LatestRuleDate(ctx, rr.ID); err != nil {
		return 0, 0, err
	} else if ok && !latest.Before(windowStart) {
		// resume past what earlier runs created so the cap budgets new
		// inserts instead of re-projecting the same head of the sequence
		windowStart = latest.AddDate(0, 0, 1)
	}

	due := recurrence.Project(rule, windowStart, now, maxPerRule)
	if len(due) == 0 {
		return 0, 0, nil
	}

	existing, err := m.Transactions.List(ctx, repository.TransactionFilters{
		AccountID: rr.AccountID,
		From:      due[0].AddDate(0, 0, -1),
		To:        due[len(due)-1].AddDate(0, 0, 1),
	})
	if err != nil {
		return 0, 0, err
	}

	for _, occ := range due {
		if alreadyMaterialized(existing, rr, occ) {
			skipped++
			continue
		}
		tx := repository.Transaction{
			ID:              uuid.NewString(),
			AccountID:       rr.AccountID,
			Date:            occ,
			AmountCents:     rr.AmountCents,
			Title:           rr.Title,
			Type:            rr.Type,
			CategoryID:      rr.CategoryID,
			RecurringRuleID: &rr.ID,
		}
		if err := m.Transactions.Insert(ctx, tx); err != nil {
			return generated, skipped, err
		}
		existing = append(existing, tx)
		generated++
	}
	return generated, skipped, nil
}

// alreadyMaterialized reports whether an occurrence is covered by an
// existing transaction: exactly, via rule id on the same day, or fuzzily,
// via same amount within a day and a near-identical title.
func alreadyMaterialized(existing []repository.Transaction, rr repository.RecurringRule, occ time.Time) bool {
	for _, t := range existing {
		if t.RecurringRuleID != nil && *t.RecurringRuleID == rr.ID {
			if sameDay(t.Date, occ) {
				return true
			}
			// adjacent occurrences of the same rule are not duplicates
			continue
		}
		if t.AmountCents != rr.AmountCents {
			continue
		}
		if daysApart(t.Date, occ) > 1 {
			continue
		}
		if titleSimilar(t.Title, rr.Title) {
			return true
		}
	}
	return false
}

func titleSimilar(a, b string) bool {
	a, b = strings.ToUpper(strings.TrimSpace(a)), strings.ToUpper(strings.TrimSpace(b))
	if a == "" || b == "" {
		return a == b
	}
	dist := levenshtein.ComputeDistance(a, b)
	maxlen := len(a)
	if len(b) > maxlen {
		maxlen = len(b)
	}
	return float64(dist)/float64(maxlen) < 0.4
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysApart(a, b time.Time) int {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return int(d.Hours() / 24)
}

func ruleFromRow(rr repository.RecurringRule) (recurrence.Rule, error) {
	freq, ok := recurrence.ParseFrequency(rr.Frequency)
	if !ok {
		return recurrence.Rule{}, fmt.Errorf("unknown frequency %q", rr.Frequency)
	}
	end := recurrence.Never()
	switch rr.EndMode {
	case "on_date":
		if rr.EndDate == nil {
			return recurrence.Rule{}, fmt.Errorf("end mode on_date without end date")
		}
		end = recurrence.OnDate(*rr.EndDate)
	case "after_count":
		if rr.EndCount == nil {
			return recurrence.Rule{}, fmt.Errorf("end mode after_count without count")
		}
		end = recurrence.AfterOccurrences(*rr.EndCount)
	}
	return recurrence.NewRule(freq, rr.StartDate, end)
}

// RowFromRule converts an engine rule plus template fields into a storable
// row. It is the inverse of the mapping materialization reads.
func RowFromRule(rule recurrence.Rule, accountID string, categoryID *string, title string, amountCents int64, txType string) repository.RecurringRule {
	rr := repository.RecurringRule{
		ID:          uuid.NewString(),
		AccountID:   accountID,
		CategoryID:  categoryID,
		Title:       title,
		AmountCents: amountCents,
		Type:        txType,
		Frequency:   rule.Frequency.String(),
		StartDate:   rule.Start,
		EndMode:     "never",
	}
	switch rule.End.Mode {
	case recurrence.EndOnDate:
		d := rule.End.Date
		rr.EndMode = "on_date"
		rr.EndDate = &d
	case recurrence.EndAfterCount:
		n := rule.End.Count
		rr.EndMode = "after_count"
		rr.EndCount = &n
	}
	return rr
}
