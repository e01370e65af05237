// Package timeframe resolves human-facing date-range selections (presets,
// by-month, by-year, custom bounds) into concrete day-aligned ranges.
// Resolution is total: malformed selections normalize instead of erroring.
package timeframe

import "time"

// Preset is a named self-contained range shortcut.
type Preset int

const (
	PresetLast30 Preset = iota
	PresetThisWeek
	PresetThisMonth
	PresetThisYear
	PresetAllTime
)

// Kind tags the selector variant.
type Kind int

const (
	KindPreset Kind = iota
	KindByMonth
	KindByYear
	KindCustom
)

// allTimeEpochYear anchors the open start of the "all time" preset.
const allTimeEpochYear = 2000

// Selector is the raw range selection a picker produces.
type Selector struct {
	Kind   Kind
	Preset Preset
	Year   int
	Month  int // 0-based, January = 0
	Start  time.Time
	End    time.Time
}

// PresetSelector builds a preset selector.
func PresetSelector(p Preset) Selector { return Selector{Kind: KindPreset, Preset: p} }

// ByMonth selects one calendar month, month 0-based.
func ByMonth(year, month int) Selector { return Selector{Kind: KindByMonth, Year: year, Month: month} }

// ByYear selects one calendar year.
func ByYear(year int) Selector { return Selector{Kind: KindByYear, Year: year} }

// Custom selects an explicit start/end pair; inverted bounds are swapped
// during resolution rather than rejected.
func Custom(start, end time.Time) Selector {
	return Selector{Kind: KindCustom, Start: start, End: end}
}

// Range is a resolved date range. Both bounds are inclusive: Start is a
// start-of-day instant and End the last representable instant of its day.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Resolve turns a selector into a concrete range. now supplies the clock so
// resolution stays deterministic; weekStart anchors the thisWeek preset.
// The result always satisfies Start <= End.
func Resolve(sel Selector, now time.Time, weekStart time.Weekday) Range {
	loc := now.Location()
	switch sel.Kind {
	case KindByMonth:
		start := time.Date(sel.Year, time.Month(sel.Month+1), 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	case KindByYear:
		start := time.Date(sel.Year, time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(time.Date(sel.Year, time.December, 31, 0, 0, 0, 0, loc))}
	case KindCustom:
		a, b := sel.Start, sel.End
		if b.Before(a) {
			a, b = b, a
		}
		return Range{Start: startOfDay(a), End: endOfDay(b)}
	default:
		return resolvePreset(sel.Preset, now, weekStart)
	}
}

func resolvePreset(p Preset, now time.Time, weekStart time.Weekday) Range {
	loc := now.Location()
	today := startOfDay(now)
	switch p {
	case PresetLast30:
		return Range{Start: today.AddDate(0, 0, -29), End: endOfDay(today)}
	case PresetThisWeek:
		offset := (int(now.Weekday()) - int(weekStart) + 7) % 7
		start := today.AddDate(0, 0, -offset)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 0, 6))}
	case PresetThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(start.AddDate(0, 1, -1))}
	case PresetThisYear:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(time.Date(now.Year(), time.December, 31, 0, 0, 0, 0, loc))}
	case PresetAllTime:
		start := time.Date(allTimeEpochYear, time.January, 1, 0, 0, 0, 0, loc)
		return Range{Start: start, End: endOfDay(today)}
	default:
		return resolvePreset(PresetThisMonth, now, weekStart)
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
