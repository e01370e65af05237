// Package tui is the terminal front end: a transaction list view with
// filter, search, and timeframe panels wired to the query engine.
package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tallyhq/tally/internal/config"
	"github.com/tallyhq/tally/internal/database/repository"
	"github.com/tallyhq/tally/internal/filtering"
	"github.com/tallyhq/tally/internal/query"
	"github.com/tallyhq/tally/internal/search"
	"github.com/tallyhq/tally/internal/service"
	"github.com/tallyhq/tally/internal/timeframe"
)

// App ties together views.
type App struct {
	ctx      context.Context
	repos    Repos
	services Services
	cfg      config.Config
	tz       *time.Location

	// store snapshots
	transactions []repository.Transaction
	accounts     []repository.Account
	categories   []repository.Category
	categoryName map[string]string // id -> name
	tags         []repository.Tag

	// engine state
	filter    filtering.State
	selector  timeframe.Selector
	dateRange timeframe.Range
	searchSt  search.State
	sortOrder query.SortOrder

	// derived rows
	visible []repository.Transaction
	groups  []query.Group

	panel        panelState
	txCursor     int
	panelCursor  int
	panelEntries []panelEntry
	pickerCursor int
	pickerMonth  time.Time // anchor for by-month / by-year adjustment
	inputBuffer  string
	searching    bool
	status       string

	lastRun *service.MaterializeResult
}

// Repos bundles the repositories the view reads from.
type Repos struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Categories   *repository.CategoryRepo
	Tags         *repository.TagRepo
}

// Services bundles background workflows the view can trigger.
type Services struct {
	Materializer *service.Materializer
}

type panelState string

const (
	panelNone      panelState = ""
	panelFilter    panelState = "filter"
	panelTimeframe panelState = "timeframe"
	panelCustom    panelState = "customRange"
)

// panelEntry is one toggleable line in the filter panel.
type panelEntry struct {
	header bool
	label  string
	dim    filtering.Dimension
	id     string
	txType filtering.TransactionType
	isType bool
	isEnum bool // pending / attachments cycle entries
}

func New(ctx context.Context, cfg config.Config, repos Repos, services Services, tz *time.Location) *App {
	if tz == nil {
		tz = time.Local
	}
	now := time.Now().In(tz)
	sel := timeframe.PresetSelector(timeframe.PresetThisMonth)
	return &App{
		ctx:         ctx,
		repos:       repos,
		services:    services,
		cfg:         cfg,
		tz:          tz,
		filter:      filtering.New(),
		selector:    sel,
		dateRange:   timeframe.Resolve(sel, now, cfg.UI.WeekStartDay()),
		searchSt:    search.State{Mode: search.ModeSmart},
		pickerMonth: now,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadTransactions(), a.loadAccounts(), a.loadCategories(), a.loadTags())
}

func (a *App) loadTransactions() tea.Cmd {
	return func() tea.Msg {
		list, err := a.repos.Transactions.List(a.ctx, repository.TransactionFilters{})
		if err != nil {
			return errMsg{err}
		}
		return transactionsMsg(list)
	}
}

func (a *App) loadAccounts() tea.Cmd {
	return func() tea.Msg {
		accts, err := a.repos.Accounts.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return accountListMsg(accts)
	}
}

func (a *App) loadCategories() tea.Cmd {
	return func() tea.Msg {
		cats, err := a.repos.Categories.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return categoryListMsg(cats)
	}
}

func (a *App) loadTags() tea.Cmd {
	return func() tea.Msg {
		tags, err := a.repos.Tags.List(a.ctx)
		if err != nil {
			return errMsg{err}
		}
		return tagListMsg(tags)
	}
}

func (a *App) materializeCmd() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			res, err := a.services.Materializer.Run(a.ctx, time.Now().In(a.tz))
			if err != nil {
				return errMsg{err}
			}
			return materializeDoneMsg{Result: res}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if a.searching {
			return a.handleSearchKey(m)
		}
		switch a.panel {
		case panelFilter:
			return a.handleFilterKey(m)
		case panelTimeframe:
			return a.handleTimeframeKey(m)
		case panelCustom:
			return a.handleCustomRangeKey(m)
		}
		return a.handleListKey(m)

	case transactionsMsg:
		a.transactions = []repository.Transaction(m)
		a.refresh()
	case accountListMsg:
		a.accounts = []repository.Account(m)
	case categoryListMsg:
		a.categories = []repository.Category(m)
		a.categoryName = make(map[string]string, len(a.categories))
		for _, c := range a.categories {
			a.categoryName[c.ID] = c.Name
		}
	case tagListMsg:
		a.tags = []repository.Tag(m)
	case materializeDoneMsg:
		a.lastRun = &m.Result
		a.status = summarizeRun(m.Result)
		return a, a.loadTransactions()
	case errMsg:
		a.status = "error: " + m.Error()
	}
	return a, nil
}

func (a *App) handleListKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "up", "k":
		if a.txCursor > 0 {
			a.txCursor--
		}
	case "down", "j":
		if a.txCursor < len(a.visible)-1 {
			a.txCursor++
		}
	case "/":
		a.searching = true
		a.status = ""
	case "m":
		a.searchSt.Mode = nextMode(a.searchSt.Mode)
		a.refresh()
	case "n":
		a.searchSt.IncludeNotes = !a.searchSt.IncludeNotes
		a.refresh()
	case "f":
		a.panel = panelFilter
		a.panelEntries = a.buildFilterEntries()
		if a.panelCursor >= len(a.panelEntries) {
			a.panelCursor = 0
		}
	case "t":
		a.panel = panelTimeframe
		a.pickerCursor = 0
	case "g":
		a.filter = a.filter.WithGroupBy(nextGroupBy(a.filter.GroupBy))
		a.refresh()
	case "s":
		if a.sortOrder == query.SortDescending {
			a.sortOrder = query.SortAscending
		} else {
			a.sortOrder = query.SortDescending
		}
		a.refresh()
	case "C":
		a.filter = filtering.ClearAll().WithGroupBy(a.filter.GroupBy)
		a.searchSt = search.State{Mode: search.ModeSmart}
		a.refresh()
		a.status = "filters cleared"
	case "r":
		a.status = "materializing recurring transactions..."
		return a, a.materializeCmd()
	}
	return a, nil
}

func (a *App) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.searching = false
		a.searchSt.Query = ""
		a.refresh()
	case tea.KeyEnter:
		a.searching = false
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.searchSt.Query) > 0 {
			a.searchSt.Query = a.searchSt.Query[:len(a.searchSt.Query)-1]
			a.refresh()
		}
	case tea.KeySpace:
		a.searchSt.Query += " "
		a.refresh()
	case tea.KeyRunes:
		a.searchSt.Query += string(m.Runes)
		a.refresh()
	}
	return a, nil
}

func (a *App) handleFilterKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "esc", "f", "q":
		a.panel = panelNone
	case "up", "k":
		a.panelCursor = prevSelectable(a.panelEntries, a.panelCursor)
	case "down", "j":
		a.panelCursor = nextSelectable(a.panelEntries, a.panelCursor)
	case "enter", " ":
		a.toggleEntry()
	case "c":
		if e := a.currentEntry(); e != nil {
			a.filter = a.filter.Clear(e.dim)
			a.refresh()
		}
	case "C":
		a.filter = filtering.ClearAll().WithGroupBy(a.filter.GroupBy)
		a.refresh()
		a.status = "filters cleared"
	}
	return a, nil
}

func (a *App) toggleEntry() {
	e := a.currentEntry()
	if e == nil {
		return
	}
	switch {
	case e.isType:
		a.filter = a.filter.ToggleType(e.txType)
	case e.isEnum && e.dim == filtering.DimPending:
		a.filter = a.filter.WithPending(nextPending(a.filter.Pending))
	case e.isEnum && e.dim == filtering.DimAttachments:
		a.filter = a.filter.WithAttachments(nextAttachments(a.filter.Attachments))
	default:
		a.filter = a.filter.Toggle(e.dim, e.id)
	}
	a.refresh()
}

func (a *App) currentEntry() *panelEntry {
	if a.panelCursor < 0 || a.panelCursor >= len(a.panelEntries) {
		return nil
	}
	e := a.panelEntries[a.panelCursor]
	if e.header {
		return nil
	}
	return &e
}

func (a *App) handleTimeframeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	options := timeframeOptions()
	switch m.String() {
	case "esc", "t", "q":
		a.panel = panelNone
	case "up", "k":
		if a.pickerCursor > 0 {
			a.pickerCursor--
		}
	case "down", "j":
		if a.pickerCursor < len(options)-1 {
			a.pickerCursor++
		}
	case "left", "h":
		switch options[a.pickerCursor].kind {
		case timeframe.KindByMonth:
			a.pickerMonth = a.pickerMonth.AddDate(0, -1, 0)
		case timeframe.KindByYear:
			a.pickerMonth = a.pickerMonth.AddDate(-1, 0, 0)
		}
	case "right", "l":
		switch options[a.pickerCursor].kind {
		case timeframe.KindByMonth:
			a.pickerMonth = a.pickerMonth.AddDate(0, 1, 0)
		case timeframe.KindByYear:
			a.pickerMonth = a.pickerMonth.AddDate(1, 0, 0)
		}
	case "enter":
		opt := options[a.pickerCursor]
		switch opt.kind {
		case timeframe.KindPreset:
			a.applySelector(timeframe.PresetSelector(opt.preset))
		case timeframe.KindByMonth:
			a.applySelector(timeframe.ByMonth(a.pickerMonth.Year(), int(a.pickerMonth.Month())-1))
		case timeframe.KindByYear:
			a.applySelector(timeframe.ByYear(a.pickerMonth.Year()))
		case timeframe.KindCustom:
			a.panel = panelCustom
			a.inputBuffer = ""
			return a, nil
		}
		a.panel = panelNone
	}
	return a, nil
}

func (a *App) handleCustomRangeKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.Type {
	case tea.KeyEsc:
		a.panel = panelTimeframe
		a.inputBuffer = ""
	case tea.KeyEnter:
		start, end, ok := parseCustomRange(a.inputBuffer, a.tz)
		if !ok {
			a.status = "enter two dates as YYYY-MM-DD YYYY-MM-DD"
			return a, nil
		}
		a.applySelector(timeframe.Custom(start, end))
		a.panel = panelNone
		a.inputBuffer = ""
	case tea.KeyBackspace, tea.KeyCtrlH, tea.KeyDelete:
		if len(a.inputBuffer) > 0 {
			a.inputBuffer = a.inputBuffer[:len(a.inputBuffer)-1]
		}
	case tea.KeySpace:
		a.inputBuffer += " "
	case tea.KeyRunes:
		a.inputBuffer += string(m.Runes)
	}
	return a, nil
}

func (a *App) applySelector(sel timeframe.Selector) {
	a.selector = sel
	a.dateRange = timeframe.Resolve(sel, time.Now().In(a.tz), a.cfg.UI.WeekStartDay())
	a.refresh()
}

// refresh recomputes the visible rows from the full snapshot.
func (a *App) refresh() {
	a.visible = query.Run(a.transactions, a.filter, a.dateRange, a.searchSt, a.sortOrder)
	a.groups = query.GroupRows(a.visible, a.filter.GroupBy, a.cfg.UI.WeekStartDay())
	if a.txCursor >= len(a.visible) {
		a.txCursor = 0
	}
}

func parseCustomRange(input string, tz *time.Location) (time.Time, time.Time, bool) {
	fields := strings.Fields(strings.ReplaceAll(input, "..", " "))
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, false
	}
	start, err := time.ParseInLocation("2006-01-02", fields[0], tz)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	end, err := time.ParseInLocation("2006-01-02", fields[1], tz)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func nextMode(m search.Mode) search.Mode {
	switch m {
	case search.ModeSmart:
		return search.ModePartial
	case search.ModePartial:
		return search.ModeExact
	case search.ModeExact:
		return search.ModeUntitled
	default:
		return search.ModeSmart
	}
}

func nextGroupBy(g filtering.GroupBy) filtering.GroupBy {
	switch g {
	case filtering.GroupByHour:
		return filtering.GroupByDay
	case filtering.GroupByDay:
		return filtering.GroupByWeek
	case filtering.GroupByWeek:
		return filtering.GroupByMonth
	case filtering.GroupByMonth:
		return filtering.GroupByYear
	case filtering.GroupByYear:
		return filtering.GroupByAllTime
	default:
		return filtering.GroupByHour
	}
}

func nextPending(p filtering.PendingFilter) filtering.PendingFilter {
	switch p {
	case filtering.PendingAll:
		return filtering.PendingOnly
	case filtering.PendingOnly:
		return filtering.PendingExcluded
	default:
		return filtering.PendingAll
	}
}

func nextAttachments(f filtering.AttachmentFilter) filtering.AttachmentFilter {
	switch f {
	case filtering.AttachmentsAll:
		return filtering.AttachmentsHas
	case filtering.AttachmentsHas:
		return filtering.AttachmentsNone
	default:
		return filtering.AttachmentsAll
	}
}

func nextSelectable(entries []panelEntry, cur int) int {
	for i := cur + 1; i < len(entries); i++ {
		if !entries[i].header {
			return i
		}
	}
	return cur
}

func prevSelectable(entries []panelEntry, cur int) int {
	for i := cur - 1; i >= 0; i-- {
		if !entries[i].header {
			return i
		}
	}
	return cur
}

// messages
type transactionsMsg []repository.Transaction

type accountListMsg []repository.Account

type categoryListMsg []repository.Category

type tagListMsg []repository.Tag

type errMsg struct{ error }

type materializeDoneMsg struct {
	Result service.MaterializeResult
}
