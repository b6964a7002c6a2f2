// Package tui is the interactive search screen: a text input with a
// debounced suggestion dropdown, featured topics and a result list.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/jimezsa/learncli/internal/search"
	"github.com/pkg/browser"
)

const (
	placeholder   = "Search for Microsoft Learn resources"
	noResultsText = "No results found."
	// rows kept for title, input, headings and help when sizing the result list
	chromeRows = 14
)

type itemKind int

const (
	itemSuggestion itemKind = iota
	itemFeatured
	itemResult
)

type item struct {
	kind   itemKind
	label  string
	result models.Result
}

// Options configures the screen.
type Options struct {
	Featured      []string
	ContributorID string
	// Open launches a URL in a browser. Defaults to pkg/browser.
	Open func(url string) error
}

// Model is the bubbletea model driving a search.Controller.
type Model struct {
	ctx        context.Context
	controller *search.Controller
	changes    chan struct{}

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
	styles  Styles

	state         search.State
	featured      []string
	contributorID string
	open          func(string) error

	// cursor indexes items(); -1 means the text input has focus
	cursor int
	width  int
	height int
	status string
	failed bool
}

func New(ctx context.Context, controller *search.Controller, opts Options) *Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "› "
	ti.CharLimit = 256
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	state := controller.State()
	ti.SetValue(state.Query)

	open := opts.Open
	if open == nil {
		browser.Stdout = io.Discard
		browser.Stderr = io.Discard
		open = browser.OpenURL
	}

	contributorID := opts.ContributorID
	if contributorID == "" {
		contributorID = models.DefaultContributorID
	}

	m := &Model{
		ctx:           ctx,
		controller:    controller,
		changes:       make(chan struct{}, 1),
		input:         ti,
		spinner:       sp,
		help:          help.New(),
		keys:          defaultKeyMap(),
		styles:        NewStyles(),
		state:         state,
		featured:      append([]string{}, opts.Featured...),
		contributorID: contributorID,
		open:          open,
		cursor:        -1,
	}

	controller.OnChange(func(search.State) {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})

	return m
}

// Run starts the program on the alternate screen and blocks until it exits.
func Run(ctx context.Context, controller *search.Controller, opts Options) error {
	p := tea.NewProgram(New(ctx, controller, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, m.spinner.Tick, m.waitForChange()}
	if m.state.Query != "" {
		cmds = append(cmds, m.seedCmd())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-12, 20)
		return m, nil

	case changedMsg:
		m.refresh()
		return m, m.waitForChange()

	case fetchDoneMsg:
		m.refresh()
		return m, nil

	case openedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not open %s: %v", msg.url, msg.err)
			m.failed = true
		} else {
			m.status = "Opened " + msg.url
			m.failed = false
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		if m.cursor >= 0 {
			m.focusInput()
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Down):
		if n := len(m.items()); m.cursor < n-1 {
			m.cursor++
			m.input.Blur()
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		} else if m.cursor == 0 {
			m.focusInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		return m, m.activate()
	}

	if m.cursor >= 0 {
		m.focusInput()
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if value := m.input.Value(); value != before {
		m.controller.Change(value)
		m.refresh()
	}
	return m, cmd
}

// activate handles enter on the focused element.
func (m *Model) activate() tea.Cmd {
	if m.cursor < 0 {
		if m.input.Value() == "" {
			return nil
		}
		m.status = ""
		return m.submitCmd()
	}

	items := m.items()
	if m.cursor >= len(items) {
		return nil
	}
	selected := items[m.cursor]

	switch selected.kind {
	case itemSuggestion, itemFeatured:
		m.input.SetValue(selected.label)
		m.input.CursorEnd()
		m.focusInput()
		m.status = ""
		return m.selectCmd(selected.label)
	default:
		link := selected.result.TrackedURL(m.contributorID)
		open := m.open
		return func() tea.Msg {
			return openedMsg{url: link, err: open(link)}
		}
	}
}

func (m *Model) submitCmd() tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		controller.Submit(ctx)
		return fetchDoneMsg{}
	}
}

func (m *Model) selectCmd(suggestion string) tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		controller.Select(ctx, suggestion)
		return fetchDoneMsg{}
	}
}

func (m *Model) seedCmd() tea.Cmd {
	controller, ctx := m.controller, m.ctx
	return func() tea.Msg {
		controller.Seed(ctx)
		return fetchDoneMsg{}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	changes, ctx := m.changes, m.ctx
	return func() tea.Msg {
		select {
		case <-changes:
			return changedMsg{}
		case <-ctx.Done():
			return nil
		}
	}
}

func (m *Model) refresh() {
	m.state = m.controller.State()
	if n := len(m.items()); m.cursor >= n {
		m.cursor = n - 1
		if m.cursor < 0 {
			m.focusInput()
		}
	}
}

func (m *Model) focusInput() {
	m.cursor = -1
	m.input.Focus()
}

// items lists the selectable rows in display order.
func (m *Model) items() []item {
	items := make([]item, 0, len(m.state.Suggestions)+len(m.featured)+len(m.state.Results))
	for _, s := range m.state.Suggestions {
		items = append(items, item{kind: itemSuggestion, label: s})
	}
	for _, f := range m.featured {
		items = append(items, item{kind: itemFeatured, label: f})
	}
	for _, r := range m.state.Results {
		items = append(items, item{kind: itemResult, label: r.Title, result: r})
	}
	return items
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Search Microsoft Learn"))
	b.WriteString("\n")
	b.WriteString(m.styles.Input.Render(m.input.View()))
	b.WriteString("\n")

	index := 0
	if len(m.state.Suggestions) > 0 {
		var rows []string
		for _, s := range m.state.Suggestions {
			rows = append(rows, m.renderRow(index, s))
			index++
		}
		b.WriteString(m.styles.Dropdown.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
	}

	if len(m.featured) > 0 {
		b.WriteString(m.styles.Heading.Render("Try searching for:"))
		b.WriteString("\n")
		for _, f := range m.featured {
			b.WriteString(m.renderRow(index, f))
			b.WriteString("\n")
			index++
		}
	}

	if m.state.Loading {
		b.WriteString("\n")
		b.WriteString(m.styles.Loading.Render(m.spinner.View() + " Searching..."))
		b.WriteString("\n")
	}

	if len(m.state.Results) > 0 {
		b.WriteString(m.styles.Heading.Render("Search Results:"))
		b.WriteString("\n")
		start, end := visibleRange(len(m.state.Results), m.cursor-index, m.resultCapacity())
		if start > 0 {
			b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  ↑ %d more", start)))
			b.WriteString("\n")
		}
		for i := start; i < end; i++ {
			r := m.state.Results[i]
			b.WriteString(m.renderRow(index+i, r.Title))
			b.WriteString("\n")
			b.WriteString(m.styles.Item.Render("  " + m.styles.Link.Render(r.TrackedURL(m.contributorID))))
			b.WriteString("\n")
		}
		if end < len(m.state.Results) {
			b.WriteString(m.styles.Dim.Render(fmt.Sprintf("  ↓ %d more", len(m.state.Results)-end)))
			b.WriteString("\n")
		}
	}

	if m.state.NoResults() {
		b.WriteString(m.styles.Empty.Render(noResultsText))
		b.WriteString("\n")
	}

	if m.status != "" {
		style := m.styles.Status
		if m.failed {
			style = m.styles.StatusErr
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))

	return m.styles.Main.Render(b.String())
}

func (m *Model) renderRow(index int, label string) string {
	if index == m.cursor {
		return m.styles.Selected.Render("▸ " + label)
	}
	return m.styles.Item.Render(label)
}

// resultCapacity is how many results fit on screen, two rows each.
func (m *Model) resultCapacity() int {
	if m.height <= 0 {
		return 0
	}
	rows := m.height - chromeRows - len(m.featured) - len(m.state.Suggestions)
	return max(rows/2, 3)
}

// visibleRange returns the [start, end) window of total rows that keeps
// cursor visible. capacity <= 0 shows everything.
func visibleRange(total, cursor, capacity int) (int, int) {
	if capacity <= 0 || total <= capacity {
		return 0, total
	}
	start := 0
	if cursor >= capacity {
		start = cursor - capacity + 1
	}
	end := start + capacity
	if end > total {
		end = total
		start = end - capacity
	}
	return start, end
}

var _ tea.Model = (*Model)(nil)
