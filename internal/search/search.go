// Package search matches free-text queries against transaction titles and
// notes. Matching is pure string comparison with simple case folding so
// results are deterministic across locales.
package search

import "strings"

// Mode selects the match semantics.
type Mode int

const (
	// ModeSmart tokenizes the query on whitespace and requires every token
	// to appear somewhere in the searched text.
	ModeSmart Mode = iota
	// ModePartial is plain substring containment.
	ModePartial
	// ModeExact is full-string equality after trimming.
	ModeExact
	// ModeUntitled ignores the query and selects transactions whose title
	// is empty or still the default placeholder.
	ModeUntitled
)

// DefaultTitle is the placeholder given to transactions saved without a title.
const DefaultTitle = "Untitled transaction"

// State is the active search selection.
type State struct {
	Query        string
	Mode         Mode
	IncludeNotes bool
}

// Match reports whether a transaction's title (and notes, when enabled)
// satisfies the search state. An empty query under smart/partial/exact
// matches everything so an empty search box hides nothing.
func Match(st State, title, notes string) bool {
	if st.Mode == ModeUntitled {
		trimmed := strings.TrimSpace(title)
		return trimmed == "" || strings.EqualFold(trimmed, DefaultTitle)
	}

	query := strings.TrimSpace(st.Query)
	if query == "" {
		return true
	}

	switch st.Mode {
	case ModeExact:
		if strings.EqualFold(query, strings.TrimSpace(title)) {
			return true
		}
		return st.IncludeNotes && strings.EqualFold(query, strings.TrimSpace(notes))
	case ModePartial:
		q := strings.ToLower(query)
		if strings.Contains(strings.ToLower(title), q) {
			return true
		}
		return st.IncludeNotes && strings.Contains(strings.ToLower(notes), q)
	default: // ModeSmart
		haystack := strings.ToLower(title)
		if st.IncludeNotes {
			haystack += " " + strings.ToLower(notes)
		}
		for _, token := range strings.Fields(strings.ToLower(query)) {
			if !strings.Contains(haystack, token) {
				return false
			}
		}
		return true
	}
}
