package query

import (
	"testing"
	"time"

	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/filtering"
	"github.com/tallyhq/tally/internal/search"
	"github.com/tallyhq/tally/internal/timeframe"
)

func tx(id, title, typ string, date time.Time) repository.Transaction {
	return repository.Transaction{ID: id, Title: title, Type: typ, Date: date}
}

func ids(txs []repository.Transaction) []string {
	var out []string
	for _, t := range txs {
		out = append(out, t.ID)
	}
	return out
}

func sameIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestRunTypeAndRangeScenario(t *testing.T) {
	now := time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC)
	rows := []repository.Transaction{
		tx("coffee", "Coffee", "expense", time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)),
		tx("salary", "Salary", "income", time.Date(2024, time.February, 20, 9, 0, 0, 0, time.UTC)),
	}
	f := filtering.New().ToggleType(filtering.TypeExpense)

	march := timeframe.Resolve(timeframe.ByMonth(2024, 2), now, time.Monday)
	got := Run(rows, f, march, search.State{}, SortDescending)
	if !sameIDs(ids(got), "coffee") {
		t.Fatalf("march expenses = %v, want [coffee]", ids(got))
	}

	february := timeframe.Resolve(timeframe.ByMonth(2024, 1), now, time.Monday)
	got = Run(rows, f, february, search.State{}, SortDescending)
	if len(got) != 0 {
		t.Fatalf("february expenses = %v, want empty", ids(got))
	}
}

func TestRunAppliesSearch(t *testing.T) {
	all := timeframe.Resolve(timeframe.PresetSelector(timeframe.PresetAllTime),
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	rows := []repository.Transaction{
		tx("a", "Apt Rent Payment", "expense", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		tx("b", "Coffee", "expense", time.Date(2024, time.January, 2, 0, 0, 0, 0, time.UTC)),
	}
	s := search.State{Query: "rent apt", Mode: search.ModeSmart}
	got := Run(rows, filtering.New(), all, s, SortAscending)
	if !sameIDs(ids(got), "a") {
		t.Fatalf("smart search = %v, want [a]", ids(got))
	}
}

func TestRunSortOrder(t *testing.T) {
	all := timeframe.Resolve(timeframe.PresetSelector(timeframe.PresetAllTime),
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	rows := []repository.Transaction{
		tx("mid", "", "expense", time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC)),
		tx("old", "", "expense", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)),
		tx("new", "", "expense", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
	}
	asc := Run(rows, filtering.New(), all, search.State{}, SortAscending)
	if !sameIDs(ids(asc), "old", "mid", "new") {
		t.Fatalf("ascending = %v", ids(asc))
	}
	desc := Run(rows, filtering.New(), all, search.State{}, SortDescending)
	if !sameIDs(ids(desc), "new", "mid", "old") {
		t.Fatalf("descending = %v", ids(desc))
	}
}

func TestRunRangeBoundsInclusive(t *testing.T) {
	now := time.Date(2024, time.March, 31, 12, 0, 0, 0, time.UTC)
	march := timeframe.Resolve(timeframe.ByMonth(2024, 2), now, time.Monday)
	rows := []repository.Transaction{
		tx("first", "", "expense", time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)),
		tx("last", "", "expense", time.Date(2024, time.March, 31, 23, 59, 59, 0, time.UTC)),
		tx("out", "", "expense", time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)),
	}
	got := Run(rows, filtering.New(), march, search.State{}, SortAscending)
	if !sameIDs(ids(got), "first", "last") {
		t.Fatalf("inclusive bounds = %v, want [first last]", ids(got))
	}
}

func TestGroupRows(t *testing.T) {
	rows := []repository.Transaction{
		tx("a", "", "expense", time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)),  // Monday
		tx("b", "", "expense", time.Date(2024, time.March, 6, 9, 0, 0, 0, time.UTC)),  // same week
		tx("c", "", "expense", time.Date(2024, time.March, 11, 9, 0, 0, 0, time.UTC)), // next week
	}

	weeks := GroupRows(rows, filtering.GroupByWeek, time.Monday)
	if len(weeks) != 2 {
		t.Fatalf("week groups = %d, want 2", len(weeks))
	}
	if weeks[0].Key.Weekday() != time.Monday {
		t.Fatalf("week key should land on Monday, got %v", weeks[0].Key)
	}
	if len(weeks[0].Transactions) != 2 || len(weeks[1].Transactions) != 1 {
		t.Fatalf("week sizes = %d/%d", len(weeks[0].Transactions), len(weeks[1].Transactions))
	}

	months := GroupRows(rows, filtering.GroupByMonth, time.Monday)
	if len(months) != 1 || months[0].Key.Day() != 1 {
		t.Fatalf("month grouping wrong: %v", months)
	}

	all := GroupRows(rows, filtering.GroupByAllTime, time.Monday)
	if len(all) != 1 || !all[0].Key.IsZero() {
		t.Fatalf("all-time should be a single zero-key group")
	}
	if len(all[0].Transactions) != 3 {
		t.Fatalf("all-time group size = %d", len(all[0].Transactions))
	}

	days := GroupRows(rows, filtering.GroupByDay, time.Monday)
	if len(days) != 3 {
		t.Fatalf("day groups = %d, want 3", len(days))
	}
}

func TestRunFilterDimensions(t *testing.T) {
	all := timeframe.Resolve(timeframe.PresetSelector(timeframe.PresetAllTime),
		time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), time.Monday)
	cat := "food"
	rows := []repository.Transaction{
		{ID: "a", AccountID: "acct1", Type: "expense", CategoryID: &cat,
			Tags: []repository.Tag{{ID: "work"}}, Currency: "AUD",
			Date: time.Date(2024, time.January, 5, 0, 0, 0, 0, time.UTC)},
		{ID: "b", AccountID: "acct2", Type: "expense", Currency: "USD", Pending: true,
			Date: time.Date(2024, time.January, 6, 0, 0, 0, 0, time.UTC)},
	}

	f := filtering.New().Toggle(filtering.DimAccounts, "acct1")
	if got := Run(rows, f, all, search.State{}, SortAscending); !sameIDs(ids(got), "a") {
		t.Fatalf("account filter = %v", ids(got))
	}
	f = filtering.New().Toggle(filtering.DimTags, "work")
	if got := Run(rows, f, all, search.State{}, SortAscending); !sameIDs(ids(got), "a") {
		t.Fatalf("tag filter = %v", ids(got))
	}
	f = filtering.New().WithPending(filtering.PendingOnly)
	if got := Run(rows, f, all, search.State{}, SortAscending); !sameIDs(ids(got), "b") {
		t.Fatalf("pending filter = %v", ids(got))
	}
	f = filtering.New().Toggle(filtering.DimCurrencies, "USD")
	if got := Run(rows, f, all, search.State{}, SortAscending); !sameIDs(ids(got), "b") {
		t.Fatalf("currency filter = %v", ids(got))
	}
}
