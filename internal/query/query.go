// Package query composes the filter, timeframe, and search engines into the
// single pipeline list views render from.
package query

import (
	"sort"
	"time"

	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/filtering"
	"github.com/tallyhq/tally/internal/search"
	"github.com/tallyhq/tally/internal/timeframe"
)

// SortOrder controls the date ordering of results.
type SortOrder int

const (
	SortDescending SortOrder = iota
	SortAscending
)

// Run filters transactions by date range, filter state, and search state,
// then sorts by transaction date. Predicates are commutative; only the date
// ordering of the output is guaranteed.
func Run(txs []repository.Transaction, f filtering.State, r timeframe.Range, s search.State, order SortOrder) []repository.Transaction {
	var out []repository.Transaction
	for _, t := range txs {
		if !r.Contains(t.Date) {
			continue
		}
		if !f.Matches(filterRow(t)) {
			continue
		}
		if !search.Match(s, t.Title, notesOf(t)) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortAscending {
			return out[i].Date.Before(out[j].Date)
		}
		return out[j].Date.Before(out[i].Date)
	})
	return out
}

// Group is one display bucket of query results.
type Group struct {
	Key          time.Time // truncated bucket start; zero for the all-time bucket
	Transactions []repository.Transaction
}

// GroupRows buckets already-filtered transactions by the filter's group-by
// unit. Input order is preserved within each group; groups appear in the
// order their first transaction does. weekStart anchors week buckets.
func GroupRows(txs []repository.Transaction, by filtering.GroupBy, weekStart time.Weekday) []Group {
	var groups []Group
	index := map[time.Time]int{}
	for _, t := range txs {
		key := bucketKey(t.Date, by, weekStart)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group{Key: key})
		}
		groups[i].Transactions = append(groups[i].Transactions, t)
	}
	return groups
}

func bucketKey(t time.Time, by filtering.GroupBy, weekStart time.Weekday) time.Time {
	loc := t.Location()
	switch by {
	case filtering.GroupByHour:
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case filtering.GroupByDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case filtering.GroupByWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
		offset := (int(day.Weekday()) - int(weekStart) + 7) % 7
		return day.AddDate(0, 0, -offset)
	case filtering.GroupByMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case filtering.GroupByYear:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, loc)
	default: // GroupByAllTime: a single bucket
		return time.Time{}
	}
}

func filterRow(t repository.Transaction) filtering.Row {
	row := filtering.Row{
		AccountID:       t.AccountID,
		Type:            filtering.TransactionType(t.Type),
		Pending:         t.Pending,
		AttachmentCount: t.AttachmentCount,
		Currency:        t.Currency,
	}
	if t.CategoryID != nil {
		row.CategoryID = *t.CategoryID
	}
	for _, tag := range t.Tags {
		row.TagIDs = append(row.TagIDs, tag.ID)
	}
	return row
}

func notesOf(t repository.Transaction) string {
	if t.Notes == nil {
		return ""
	}
	return *t.Notes
}
