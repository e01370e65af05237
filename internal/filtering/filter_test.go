package filtering

import "testing"

func TestIdentityFilterMatchesEverything(t *testing.T) {
	s := ClearAll()
	rows := []Row{
		{},
		{AccountID: "a1", Type: TypeExpense, Pending: true},
		{AccountID: "a2", CategoryID: "c1", TagIDs: []string{"t1"}, Type: TypeIncome, AttachmentCount: 3, Currency: "AUD"},
	}
	for i, r := range rows {
		if !s.Matches(r) {
			t.Fatalf("identity filter rejected row %d", i)
		}
	}
	if s.AnyActive() {
		t.Fatalf("identity filter reports active dimensions")
	}
}

func TestToggleInvolution(t *testing.T) {
	s := New().Toggle(DimAccounts, "a1").Toggle(DimTags, "t1")
	for _, d := range []Dimension{DimAccounts, DimCategories, DimTags, DimCurrencies} {
		rt := s.Toggle(d, "x").Toggle(d, "x")
		if !Equal(s, rt) {
			t.Fatalf("double toggle on dim %d changed state", d)
		}
	}
}

func TestToggleDoesNotMutateReceiver(t *testing.T) {
	s := New()
	_ = s.Toggle(DimAccounts, "a1")
	if len(s.AccountIDs) != 0 {
		t.Fatalf("Toggle mutated the receiver")
	}
}

func TestSetDimensionsORWithinANDAcross(t *testing.T) {
	s := New().
		Toggle(DimAccounts, "a1").
		Toggle(DimAccounts, "a2").
		Toggle(DimCategories, "food")

	if !s.Matches(Row{AccountID: "a2", CategoryID: "food"}) {
		t.Fatalf("a2+food should match (OR within accounts)")
	}
	if s.Matches(Row{AccountID: "a3", CategoryID: "food"}) {
		t.Fatalf("a3 should be excluded by account dimension")
	}
	if s.Matches(Row{AccountID: "a1", CategoryID: "rent"}) {
		t.Fatalf("rent should be excluded by category dimension (AND across)")
	}
}

func TestTagDimensionMatchesAnyAttachedTag(t *testing.T) {
	s := New().Toggle(DimTags, "work")
	if !s.Matches(Row{TagIDs: []string{"travel", "work"}}) {
		t.Fatalf("row with matching tag rejected")
	}
	if s.Matches(Row{TagIDs: []string{"travel"}}) {
		t.Fatalf("row without matching tag accepted")
	}
	if s.Matches(Row{}) {
		t.Fatalf("untagged row accepted under tag filter")
	}
}

func TestTypeAndEnumDimensions(t *testing.T) {
	s := New().ToggleType(TypeExpense)
	if !s.Matches(Row{Type: TypeExpense}) || s.Matches(Row{Type: TypeIncome}) {
		t.Fatalf("type filter wrong")
	}

	s = New().WithPending(PendingOnly)
	if !s.Matches(Row{Pending: true}) || s.Matches(Row{Pending: false}) {
		t.Fatalf("pending-only filter wrong")
	}
	s = New().WithPending(PendingExcluded)
	if s.Matches(Row{Pending: true}) || !s.Matches(Row{Pending: false}) {
		t.Fatalf("pending-excluded filter wrong")
	}

	s = New().WithAttachments(AttachmentsHas)
	if !s.Matches(Row{AttachmentCount: 1}) || s.Matches(Row{}) {
		t.Fatalf("has-attachments filter wrong")
	}
	s = New().WithAttachments(AttachmentsNone)
	if s.Matches(Row{AttachmentCount: 2}) || !s.Matches(Row{}) {
		t.Fatalf("no-attachments filter wrong")
	}
}

func TestClearResetsOneDimension(t *testing.T) {
	s := New().
		Toggle(DimAccounts, "a1").
		ToggleType(TypeExpense).
		WithPending(PendingOnly)

	s = s.Clear(DimAccounts)
	if s.IsActive(DimAccounts) {
		t.Fatalf("accounts still active after Clear")
	}
	if !s.IsActive(DimTypes) || !s.IsActive(DimPending) {
		t.Fatalf("Clear touched other dimensions")
	}

	s = s.Clear(DimPending)
	if s.Pending != PendingAll {
		t.Fatalf("pending not reset to default")
	}
}

func TestEqualIgnoresInsertionOrder(t *testing.T) {
	a := New().Toggle(DimAccounts, "x").Toggle(DimAccounts, "y")
	b := New().Toggle(DimAccounts, "y").Toggle(DimAccounts, "x")
	if !Equal(a, b) {
		t.Fatalf("set equality should ignore insertion order")
	}
	if Equal(a, a.Toggle(DimAccounts, "z")) {
		t.Fatalf("different sets reported equal")
	}
	if Equal(New(), New().WithGroupBy(GroupByMonth)) {
		t.Fatalf("group-by difference should break equality")
	}
}

func TestCurrencyDimension(t *testing.T) {
	s := New().Toggle(DimCurrencies, "AUD")
	if !s.Matches(Row{Currency: "AUD"}) || s.Matches(Row{Currency: "USD"}) {
		t.Fatalf("currency filter wrong")
	}
}
