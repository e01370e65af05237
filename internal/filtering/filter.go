// Package filtering holds the multi-dimensional transaction filter state
// and its matching logic. State values are immutable: every mutation
// returns a fresh value so callers can compare states for memoization.
package filtering

// TransactionType classifies a transaction row.
type TransactionType string

const (
	TypeExpense  TransactionType = "expense"
	TypeIncome   TransactionType = "income"
	TypeTransfer TransactionType = "transfer"
)

// PendingFilter narrows by the transaction's pending flag.
type PendingFilter int

const (
	PendingAll PendingFilter = iota
	PendingOnly
	PendingExcluded
)

// AttachmentFilter narrows by attachment presence.
type AttachmentFilter int

const (
	AttachmentsAll AttachmentFilter = iota
	AttachmentsHas
	AttachmentsNone
)

// GroupBy selects the display bucketing for query results.
type GroupBy int

const (
	GroupByHour GroupBy = iota
	GroupByDay
	GroupByWeek
	GroupByMonth
	GroupByYear
	GroupByAllTime
)

// Dimension identifies one independently toggleable filter axis.
type Dimension int

const (
	DimAccounts Dimension = iota
	DimCategories
	DimTags
	DimTypes
	DimPending
	DimAttachments
	DimCurrencies
)

// State is the active filter across all dimensions. An empty set means
// "no restriction on this dimension", never "exclude all".
type State struct {
	AccountIDs  map[string]bool
	CategoryIDs map[string]bool
	TagIDs      map[string]bool
	Types       map[TransactionType]bool
	Pending     PendingFilter
	Attachments AttachmentFilter
	Currencies  map[string]bool
	GroupBy     GroupBy
}

// Row is the view of a transaction the filter evaluates against.
type Row struct {
	AccountID       string
	CategoryID      string
	TagIDs          []string
	Type            TransactionType
	Pending         bool
	AttachmentCount int
	Currency        string
}

// New returns the identity filter: it matches every transaction.
func New() State {
	return State{
		AccountIDs:  map[string]bool{},
		CategoryIDs: map[string]bool{},
		TagIDs:      map[string]bool{},
		Types:       map[TransactionType]bool{},
		Currencies:  map[string]bool{},
		GroupBy:     GroupByDay,
	}
}

// ClearAll is New under the name filter panels use for their reset action.
func ClearAll() State { return New() }

// Toggle flips membership of id in the given set dimension and returns the
// updated state. The receiver is left untouched. Toggling an enum dimension
// is a programmer error and panics.
func (s State) Toggle(d Dimension, id string) State {
	out := s.clone()
	set := out.setFor(d)
	if set[id] {
		delete(set, id)
	} else {
		set[id] = true
	}
	return out
}

// ToggleType flips membership of a transaction type.
func (s State) ToggleType(t TransactionType) State {
	out := s.clone()
	if out.Types[t] {
		delete(out.Types, t)
	} else {
		out.Types[t] = true
	}
	return out
}

// WithPending returns the state with the pending dimension replaced.
func (s State) WithPending(p PendingFilter) State {
	out := s.clone()
	out.Pending = p
	return out
}

// WithAttachments returns the state with the attachment dimension replaced.
func (s State) WithAttachments(a AttachmentFilter) State {
	out := s.clone()
	out.Attachments = a
	return out
}

// WithGroupBy returns the state with the grouping bucket replaced.
func (s State) WithGroupBy(g GroupBy) State {
	out := s.clone()
	out.GroupBy = g
	return out
}

// Clear resets one dimension to its default (empty set or "all").
func (s State) Clear(d Dimension) State {
	out := s.clone()
	switch d {
	case DimAccounts:
		out.AccountIDs = map[string]bool{}
	case DimCategories:
		out.CategoryIDs = map[string]bool{}
	case DimTags:
		out.TagIDs = map[string]bool{}
	case DimTypes:
		out.Types = map[TransactionType]bool{}
	case DimPending:
		out.Pending = PendingAll
	case DimAttachments:
		out.Attachments = AttachmentsAll
	case DimCurrencies:
		out.Currencies = map[string]bool{}
	}
	return out
}

// IsActive reports whether a dimension would exclude anything.
func (s State) IsActive(d Dimension) bool {
	switch d {
	case DimAccounts:
		return len(s.AccountIDs) > 0
	case DimCategories:
		return len(s.CategoryIDs) > 0
	case DimTags:
		return len(s.TagIDs) > 0
	case DimTypes:
		return len(s.Types) > 0
	case DimPending:
		return s.Pending != PendingAll
	case DimAttachments:
		return s.Attachments != AttachmentsAll
	case DimCurrencies:
		return len(s.Currencies) > 0
	}
	return false
}

// AnyActive reports whether any dimension restricts the result set.
func (s State) AnyActive() bool {
	for _, d := range []Dimension{DimAccounts, DimCategories, DimTags, DimTypes, DimPending, DimAttachments, DimCurrencies} {
		if s.IsActive(d) {
			return true
		}
	}
	return false
}

// Matches evaluates the filter against one transaction row. Dimensions are
// ANDed together; within a set dimension membership is an OR.
func (s State) Matches(r Row) bool {
	if len(s.AccountIDs) > 0 && !s.AccountIDs[r.AccountID] {
		return false
	}
	if len(s.CategoryIDs) > 0 && !s.CategoryIDs[r.CategoryID] {
		return false
	}
	if len(s.TagIDs) > 0 && !anyTagIn(r.TagIDs, s.TagIDs) {
		return false
	}
	if len(s.Types) > 0 && !s.Types[r.Type] {
		return false
	}
	switch s.Pending {
	case PendingOnly:
		if !r.Pending {
			return false
		}
	case PendingExcluded:
		if r.Pending {
			return false
		}
	}
	switch s.Attachments {
	case AttachmentsHas:
		if r.AttachmentCount == 0 {
			return false
		}
	case AttachmentsNone:
		if r.AttachmentCount > 0 {
			return false
		}
	}
	if len(s.Currencies) > 0 && !s.Currencies[r.Currency] {
		return false
	}
	return true
}

// Equal compares two states field by field. Set comparison ignores
// insertion order.
func Equal(a, b State) bool {
	return a.Pending == b.Pending &&
		a.Attachments == b.Attachments &&
		a.GroupBy == b.GroupBy &&
		sameSet(a.AccountIDs, b.AccountIDs) &&
		sameSet(a.CategoryIDs, b.CategoryIDs) &&
		sameSet(a.TagIDs, b.TagIDs) &&
		sameSet(a.Currencies, b.Currencies) &&
		sameTypeSet(a.Types, b.Types)
}

func anyTagIn(tags []string, want map[string]bool) bool {
	for _, t := range tags {
		if want[t] {
			return true
		}
	}
	return false
}

func sameSet(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func sameTypeSet(a, b map[TransactionType]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func (s *State) setFor(d Dimension) map[string]bool {
	switch d {
	case DimAccounts:
		return s.AccountIDs
	case DimCategories:
		return s.CategoryIDs
	case DimTags:
		return s.TagIDs
	case DimCurrencies:
		return s.Currencies
	default:
		panic("filtering: Toggle on non-set dimension")
	}
}

func (s State) clone() State {
	out := s
	out.AccountIDs = cloneSet(s.AccountIDs)
	out.CategoryIDs = cloneSet(s.CategoryIDs)
	out.TagIDs = cloneSet(s.TagIDs)
	out.Currencies = cloneSet(s.Currencies)
	out.Types = make(map[TransactionType]bool, len(s.Types))
	for k, v := range s.Types {
		out.Types[k] = v
	}
	return out
}

func cloneSet(in map[string]bool) map[string]bool {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
