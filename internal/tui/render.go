package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/filtering"
	"github.com/tallyhq/tally/internal/search"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/timeframe"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
)

func (a *App) View() string {
	switch a.panel {
	case panelFilter:
		return a.renderFilterPanel()
	case panelTimeframe:
		return a.renderTimeframePanel()
	case panelCustom:
		return a.renderCustomRange()
	}
	return a.renderList()
}

func (a *App) renderList() string {
	title := titleStyle.Render("Transactions") + "  " + dimStyle.Render(a.rangeLabel())
	out := title + "\n"

	if a.searching || a.searchSt.Query != "" || a.searchSt.Mode == search.ModeUntitled {
		cursor := ""
		if a.searching {
			cursor = "_"
		}
		out += fmt.Sprintf("search (%s%s): %s%s\n", modeLabel(a.searchSt.Mode), notesLabel(a.searchSt), a.searchSt.Query, cursor)
	}
	if a.filter.AnyActive() {
		out += dimStyle.Render("filters: "+a.filterSummary()) + "\n"
	}

	if len(a.visible) == 0 {
		out += "\n(no transactions in range)\n"
	}

	idx := 0
	for _, g := range a.groups {
		if label := a.groupLabel(g.Key); label != "" {
			out += headerStyle.Render(label) + "\n"
		}
		for _, t := range g.Transactions {
			marker := " "
			if idx == a.txCursor {
				marker = "▶"
			}
			out += fmt.Sprintf("%s %s  %-32s %9.2f  %s%s\n",
				marker,
				t.Date.In(a.tz).Format(a.cfg.UI.DateFormat),
				displayTitle(t.Title),
				float64(t.AmountCents)/100,
				a.categoryLabel(t.CategoryID),
				rowBadges(t.Pending, t.AttachmentCount, t.Tags))
			idx++
		}
	}

	out += "\n[/] Search  [m] Match mode  [f] Filters  [t] Timeframe  [g] Group: " + groupLabelName(a.filter.GroupBy)
	out += "  [s] Sort  [r] Recurring  [C] Clear  [q] Quit"
	if a.status != "" {
		out += "\n" + a.status
	}
	return out
}

func (a *App) renderFilterPanel() string {
	out := titleStyle.Render("Filters") + "\n"
	for i, e := range a.panelEntries {
		if e.header {
			out += headerStyle.Render(e.label) + "\n"
			continue
		}
		marker := " "
		if i == a.panelCursor {
			marker = "▶"
		}
		label := e.label
		if a.entryActive(e) {
			label = activeStyle.Render("[x] " + e.label)
		} else {
			label = "[ ] " + label
		}
		out += fmt.Sprintf("%s %s\n", marker, label)
	}
	out += "\n[enter] Toggle  [c] Clear section  [C] Clear all  [esc] Back"
	return out
}

func (a *App) entryActive(e panelEntry) bool {
	switch {
	case e.isType:
		return a.filter.Types[e.txType]
	case e.isEnum && e.dim == filtering.DimPending:
		return a.filter.Pending != filtering.PendingAll
	case e.isEnum && e.dim == filtering.DimAttachments:
		return a.filter.Attachments != filtering.AttachmentsAll
	case e.dim == filtering.DimAccounts:
		return a.filter.AccountIDs[e.id]
	case e.dim == filtering.DimCategories:
		return a.filter.CategoryIDs[e.id]
	case e.dim == filtering.DimTags:
		return a.filter.TagIDs[e.id]
	case e.dim == filtering.DimCurrencies:
		return a.filter.Currencies[e.id]
	}
	return false
}

func (a *App) buildFilterEntries() []panelEntry {
	var out []panelEntry

	out = append(out, panelEntry{header: true, label: "Accounts"})
	for _, acct := range a.accounts {
		out = append(out, panelEntry{label: acct.Name, dim: filtering.DimAccounts, id: acct.ID})
	}

	out = append(out, panelEntry{header: true, label: "Categories"})
	for _, c := range a.categories {
		out = append(out, panelEntry{label: c.Name, dim: filtering.DimCategories, id: c.ID})
	}

	out = append(out, panelEntry{header: true, label: "Tags"})
	for _, t := range a.tags {
		out = append(out, panelEntry{label: t.Name, dim: filtering.DimTags, id: t.ID})
	}

	out = append(out, panelEntry{header: true, label: "Type"})
	for _, tt := range []filtering.TransactionType{filtering.TypeExpense, filtering.TypeIncome, filtering.TypeTransfer} {
		out = append(out, panelEntry{label: string(tt), isType: true, txType: tt, dim: filtering.DimTypes})
	}

	out = append(out, panelEntry{header: true, label: "Status"})
	out = append(out, panelEntry{label: "pending: " + pendingLabel(a.filter.Pending), isEnum: true, dim: filtering.DimPending})
	out = append(out, panelEntry{label: "attachments: " + attachmentsLabel(a.filter.Attachments), isEnum: true, dim: filtering.DimAttachments})

	currencies := map[string]bool{}
	var order []string
	for _, acct := range a.accounts {
		if acct.Currency != "" && !currencies[acct.Currency] {
			currencies[acct.Currency] = true
			order = append(order, acct.Currency)
		}
	}
	if len(order) > 1 {
		out = append(out, panelEntry{header: true, label: "Currency"})
		for _, c := range order {
			out = append(out, panelEntry{label: c, dim: filtering.DimCurrencies, id: c})
		}
	}

	// land the cursor on the first selectable row
	for i, e := range out {
		if !e.header {
			if a.panelCursor == 0 {
				a.panelCursor = i
			}
			break
		}
	}
	return out
}

type timeframeOption struct {
	label  string
	kind   timeframe.Kind
	preset timeframe.Preset
}

func timeframeOptions() []timeframeOption {
	return []timeframeOption{
		{label: "Last 30 days", kind: timeframe.KindPreset, preset: timeframe.PresetLast30},
		{label: "This week", kind: timeframe.KindPreset, preset: timeframe.PresetThisWeek},
		{label: "This month", kind: timeframe.KindPreset, preset: timeframe.PresetThisMonth},
		{label: "This year", kind: timeframe.KindPreset, preset: timeframe.PresetThisYear},
		{label: "All time", kind: timeframe.KindPreset, preset: timeframe.PresetAllTime},
		{label: "By month", kind: timeframe.KindByMonth},
		{label: "By year", kind: timeframe.KindByYear},
		{label: "Custom range", kind: timeframe.KindCustom},
	}
}

func (a *App) renderTimeframePanel() string {
	out := titleStyle.Render("Timeframe") + "\n"
	for i, opt := range timeframeOptions() {
		marker := " "
		if i == a.pickerCursor {
			marker = "▶"
		}
		label := opt.label
		switch opt.kind {
		case timeframe.KindByMonth:
			label += "  " + dimStyle.Render(a.pickerMonth.Format("January 2006")+"  (h/l to adjust)")
		case timeframe.KindByYear:
			label += "  " + dimStyle.Render(a.pickerMonth.Format("2006")+"  (h/l to adjust)")
		}
		out += fmt.Sprintf("%s %s\n", marker, label)
	}
	out += "\n[enter] Apply  [esc] Back"
	return out
}

func (a *App) renderCustomRange() string {
	return titleStyle.Render("Custom range") +
		fmt.Sprintf("\nEnter start and end as YYYY-MM-DD YYYY-MM-DD:\n%s_\n[enter] Apply  [esc] Back", a.inputBuffer)
}

func (a *App) rangeLabel() string {
	switch a.selector.Kind {
	case timeframe.KindByMonth:
		return a.dateRange.Start.Format("January 2006")
	case timeframe.KindByYear:
		return a.dateRange.Start.Format("2006")
	case timeframe.KindCustom:
		return a.dateRange.Start.Format("2006-01-02") + " .. " + a.dateRange.End.Format("2006-01-02")
	}
	switch a.selector.Preset {
	case timeframe.PresetLast30:
		return "last 30 days"
	case timeframe.PresetThisWeek:
		return "this week"
	case timeframe.PresetThisYear:
		return "this year"
	case timeframe.PresetAllTime:
		return "all time"
	default:
		return "this month"
	}
}

func (a *App) filterSummary() string {
	var parts []string
	if n := len(a.filter.AccountIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d accounts", n))
	}
	if n := len(a.filter.CategoryIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d categories", n))
	}
	if n := len(a.filter.TagIDs); n > 0 {
		parts = append(parts, fmt.Sprintf("%d tags", n))
	}
	if n := len(a.filter.Types); n > 0 {
		var names []string
		for t := range a.filter.Types {
			names = append(names, string(t))
		}
		parts = append(parts, strings.Join(names, "/"))
	}
	if a.filter.Pending != filtering.PendingAll {
		parts = append(parts, pendingLabel(a.filter.Pending))
	}
	if a.filter.Attachments != filtering.AttachmentsAll {
		parts = append(parts, "attachments: "+attachmentsLabel(a.filter.Attachments))
	}
	if n := len(a.filter.Currencies); n > 0 {
		parts = append(parts, fmt.Sprintf("%d currencies", n))
	}
	return strings.Join(parts, ", ")
}

func (a *App) groupLabel(key time.Time) string {
	if key.IsZero() {
		return ""
	}
	switch a.filter.GroupBy {
	case filtering.GroupByHour:
		return key.Format("Mon 02 Jan 15:00")
	case filtering.GroupByDay:
		return key.Format("Mon 02 Jan 2006")
	case filtering.GroupByWeek:
		return "Week of " + key.Format("02 Jan 2006")
	case filtering.GroupByMonth:
		return key.Format("January 2006")
	case filtering.GroupByYear:
		return key.Format("2006")
	}
	return ""
}

func (a *App) categoryLabel(id *string) string {
	if id == nil {
		return "[uncategorized]"
	}
	if name, ok := a.categoryName[*id]; ok && name != "" {
		return name
	}
	return *id
}

func displayTitle(title string) string {
	if strings.TrimSpace(title) == "" {
		return dimStyle.Render(search.DefaultTitle)
	}
	return title
}

func rowBadges(pending bool, attachments int, tags []repository.Tag) string {
	var out string
	if pending {
		out += "  " + dimStyle.Render("(pending)")
	}
	if attachments > 0 {
		out += "  " + dimStyle.Render(fmt.Sprintf("📎%d", attachments))
	}
	if len(tags) > 0 {
		names := make([]string, 0, len(tags))
		for _, t := range tags {
			names = append(names, "#"+t.Name)
		}
		out += "  " + dimStyle.Render(strings.Join(names, " "))
	}
	return out
}

func modeLabel(m search.Mode) string {
	switch m {
	case search.ModePartial:
		return "partial"
	case search.ModeExact:
		return "exact"
	case search.ModeUntitled:
		return "untitled"
	default:
		return "smart"
	}
}

func notesLabel(s search.State) string {
	if s.IncludeNotes {
		return "+notes"
	}
	return ""
}

func pendingLabel(p filtering.PendingFilter) string {
	switch p {
	case filtering.PendingOnly:
		return "pending only"
	case filtering.PendingExcluded:
		return "not pending"
	default:
		return "all"
	}
}

func attachmentsLabel(f filtering.AttachmentFilter) string {
	switch f {
	case filtering.AttachmentsHas:
		return "has"
	case filtering.AttachmentsNone:
		return "none"
	default:
		return "all"
	}
}

func groupLabelName(g filtering.GroupBy) string {
	switch g {
	case filtering.GroupByHour:
		return "hour"
	case filtering.GroupByDay:
		return "day"
	case filtering.GroupByWeek:
		return "week"
	case filtering.GroupByMonth:
		return "month"
	case filtering.GroupByYear:
		return "year"
	default:
		return "all time"
	}
}

func summarizeRun(res service.MaterializeResult) string {
	out := fmt.Sprintf("recurring: generated %d, skipped %d", res.Generated, res.Skipped)
	if len(res.Errors) > 0 {
		out += fmt.Sprintf(", errors %d (first: %v)", len(res.Errors), res.Errors[0])
	}
	return out
}
