// Package recurrence builds recurrence rules for repeating transactions and
// projects them into concrete occurrence dates.
package recurrence

import (
	"errors"
	"time"
)

// Frequency is the calendar step between occurrences.
type Frequency int

const (
	Daily Frequency = iota
	Weekly
	Biweekly
	Monthly
	Yearly
)

// String returns the storage/display name of the frequency.
func (f Frequency) String() string {
	switch f {
	case Weekly:
		return "weekly"
	case Biweekly:
		return "biweekly"
	case Monthly:
		return "monthly"
	case Yearly:
		return "yearly"
	default:
		return "daily"
	}
}

// ParseFrequency maps a stored frequency name back onto a Frequency.
func ParseFrequency(s string) (Frequency, bool) {
	switch s {
	case "daily":
		return Daily, true
	case "weekly":
		return Weekly, true
	case "biweekly":
		return Biweekly, true
	case "monthly":
		return Monthly, true
	case "yearly":
		return Yearly, true
	}
	return Daily, false
}

// EndMode tags the rule's end condition.
type EndMode int

const (
	EndNever EndMode = iota
	EndOnDate
	EndAfterCount
)

// End is the rule's end condition; exactly one variant is active.
type End struct {
	Mode  EndMode
	Date  time.Time
	Count int
}

// Never returns the open-ended end condition.
func Never() End { return End{Mode: EndNever} }

// OnDate ends the rule after the given date.
func OnDate(d time.Time) End { return End{Mode: EndOnDate, Date: d} }

// AfterOccurrences ends the rule once n occurrences have happened,
// counted from the rule's start date.
func AfterOccurrences(n int) End { return End{Mode: EndAfterCount, Count: n} }

// ErrInvalidRecurrence is returned by NewRule for an occurrence count below 1.
var ErrInvalidRecurrence = errors.New("recurrence: occurrence count must be at least 1")

// Rule is a canonical recurrence: a frequency, an anchor start instant, and
// an end condition. Start is stored exactly as given, with no normalization.
type Rule struct {
	Frequency Frequency
	Start     time.Time
	End       End
}

// NewRule validates and constructs a rule.
func NewRule(f Frequency, start time.Time, end End) (Rule, error) {
	if end.Mode == EndAfterCount && end.Count < 1 {
		return Rule{}, ErrInvalidRecurrence
	}
	return Rule{Frequency: f, Start: start, End: end}, nil
}

// Project returns the rule's occurrence dates that fall inside
// [windowStart, windowEnd], at most maxResults of them. Dates are strictly
// increasing. Occurrence counting for AfterOccurrences is anchored to the
// rule's start date, so a window that begins mid-sequence still respects
// the original cap. The result is always finite: windowEnd and maxResults
// bound it even for never-ending rules.
func Project(r Rule, windowStart, windowEnd time.Time, maxResults int) []time.Time {
	if maxResults <= 0 || windowEnd.Before(windowStart) || windowEnd.Before(r.Start) {
		return nil
	}

	var out []time.Time
	var prev time.Time
	for n := 0; ; n++ {
		occ := nthOccurrence(r.Start, r.Frequency, n)
		if r.End.Mode == EndAfterCount && n >= r.End.Count {
			break
		}
		if r.End.Mode == EndOnDate && occ.After(r.End.Date) {
			break
		}
		if occ.After(windowEnd) {
			break
		}
		if occ.Before(windowStart) {
			continue
		}
		// monthly clamping can collapse neighbours in theory; keep the
		// sequence deduplicated and monotonic
		if n > 0 && !occ.After(prev) && len(out) > 0 {
			continue
		}
		out = append(out, occ)
		prev = occ
		if len(out) >= maxResults {
			break
		}
	}
	return out
}

// nthOccurrence steps n intervals from start. Monthly preserves the start's
// day-of-month, clamping to the last valid day of shorter months; yearly
// clamps Feb 29 to Feb 28 in non-leap years.
func nthOccurrence(start time.Time, f Frequency, n int) time.Time {
	switch f {
	case Daily:
		return start.AddDate(0, 0, n)
	case Weekly:
		return start.AddDate(0, 0, 7*n)
	case Biweekly:
		return start.AddDate(0, 0, 14*n)
	case Monthly:
		return addMonthsClamped(start, n)
	case Yearly:
		return addYearsClamped(start, n)
	default:
		return start.AddDate(0, 0, n)
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	// normalize to a (year, 0-based month) pair before adding
	total := t.Year()*12 + int(t.Month()) - 1 + months
	year, month := total/12, time.Month(total%12+1)
	day := t.Day()
	if last := daysIn(year, month); day > last {
		day = last
	}
	h, m, s := t.Clock()
	return time.Date(year, month, day, h, m, s, t.Nanosecond(), t.Location())
}

func addYearsClamped(t time.Time, years int) time.Time {
	year := t.Year() + years
	day := t.Day()
	if last := daysIn(year, t.Month()); day > last {
		day = last
	}
	h, m, s := t.Clock()
	return time.Date(year, t.Month(), day, h, m, s, t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
