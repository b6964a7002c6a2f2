package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/jimezsa/learncli/internal/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearcher struct {
	mu           sync.Mutex
	results      []models.Result
	suggestions  []string
	searchErr    error
	searchCalls  []string
	suggestCalls []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]models.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.searchCalls = append(f.searchCalls, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.results, nil
}

func (f *fakeSearcher) Suggest(_ context.Context, query string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestCalls = append(f.suggestCalls, query)
	return f.suggestions, nil
}

func (f *fakeSearcher) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.searchCalls...)
}

type openRecorder struct {
	mu   sync.Mutex
	urls []string
	err  error
}

func (o *openRecorder) open(url string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.urls = append(o.urls, url)
	return o.err
}

func newTestModel(t *testing.T, searcher *fakeSearcher, opener *openRecorder, opts ...search.Option) *Model {
	t.Helper()
	opts = append([]search.Option{search.WithDebounce(20 * time.Millisecond)}, opts...)
	controller := search.NewController(searcher, opts...)
	t.Cleanup(controller.Close)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return New(ctx, controller, Options{
		Featured: []string{"Azure", "Power BI"},
		Open:     opener.open,
	})
}

func typeText(m *Model, text string) {
	for _, r := range text {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func press(m *Model, keyType tea.KeyType) tea.Cmd {
	_, cmd := m.Update(tea.KeyMsg{Type: keyType})
	return cmd
}

// run executes cmd and feeds its message back into the model.
func run(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	m.Update(cmd())
}

func TestModel_TypingUpdatesQueryAndFetchesSuggestions(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Power BI", "Power Apps"}}
	m := newTestModel(t, searcher, &openRecorder{})

	typeText(m, "pow")
	assert.Equal(t, "pow", m.state.Query)

	require.Eventually(t, func() bool {
		return len(m.controller.State().Suggestions) == 2
	}, time.Second, 5*time.Millisecond)

	m.Update(changedMsg{})
	assert.Equal(t, []string{"Power BI", "Power Apps"}, m.state.Suggestions)
	assert.Contains(t, m.View(), "Power Apps")
}

func TestModel_BackspaceToEmptyClearsSuggestions(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Azure"}}
	m := newTestModel(t, searcher, &openRecorder{})

	typeText(m, "a")
	require.Eventually(t, func() bool {
		return len(m.controller.State().Suggestions) == 1
	}, time.Second, 5*time.Millisecond)
	m.Update(changedMsg{})

	press(m, tea.KeyBackspace)
	assert.Equal(t, "", m.state.Query)
	assert.Empty(t, m.state.Suggestions)
}

func TestModel_EnterOnEmptyInputDoesNothing(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	m := newTestModel(t, searcher, &openRecorder{})

	assert.Nil(t, press(m, tea.KeyEnter))
	assert.Empty(t, searcher.searches())
}

func TestModel_SubmitRendersTrackedLinks(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "Azure Basics", URL: "https://x"}}}
	m := newTestModel(t, searcher, &openRecorder{})

	typeText(m, "azure")
	run(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, []string{"azure"}, searcher.searches())
	assert.False(t, m.state.Loading)
	view := m.View()
	assert.Contains(t, view, "Search Results:")
	assert.Contains(t, view, "https://x?wt.mc_id=studentamb_325123")
	assert.NotContains(t, view, noResultsText)
}

func TestModel_FailedSearchShowsNoResults(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{searchErr: errors.New("search: http 500")}
	m := newTestModel(t, searcher, &openRecorder{})

	typeText(m, "azure")
	run(t, m, press(m, tea.KeyEnter))

	assert.Empty(t, m.state.Results)
	assert.False(t, m.state.Loading)
	assert.Contains(t, m.View(), noResultsText)
}

func TestModel_SelectFeaturedTopic(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "Power BI docs", URL: "https://learn.microsoft.com/power-bi/"}}}
	m := newTestModel(t, searcher, &openRecorder{})

	press(m, tea.KeyDown)
	press(m, tea.KeyDown)
	assert.Equal(t, 1, m.cursor)
	assert.Contains(t, m.View(), "▸ Power BI")

	run(t, m, press(m, tea.KeyEnter))

	assert.Equal(t, "Power BI", m.input.Value())
	assert.Equal(t, "Power BI", m.state.Query)
	assert.Equal(t, -1, m.cursor)
	assert.Empty(t, m.state.Suggestions)
	assert.Equal(t, []string{"Power BI"}, searcher.searches())
}

func TestModel_EnterOnResultOpensTrackedLink(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "Azure Basics", URL: "https://x"}}}
	opener := &openRecorder{}
	m := newTestModel(t, searcher, opener)

	typeText(m, "azure")
	run(t, m, press(m, tea.KeyEnter))

	// two featured topics precede the single result
	for i := 0; i < 3; i++ {
		press(m, tea.KeyDown)
	}
	require.Equal(t, 2, m.cursor)

	run(t, m, press(m, tea.KeyEnter))
	assert.Equal(t, []string{"https://x?wt.mc_id=studentamb_325123"}, opener.urls)
	assert.Contains(t, m.View(), "Opened https://x?wt.mc_id=studentamb_325123")

	opener.err = errors.New("no browser")
	run(t, m, press(m, tea.KeyEnter))
	assert.Contains(t, m.View(), "Could not open")
}

func TestModel_EscReturnsToInputThenQuits(t *testing.T) {
	t.Parallel()

	m := newTestModel(t, &fakeSearcher{}, &openRecorder{})

	press(m, tea.KeyDown)
	assert.Equal(t, 0, m.cursor)
	assert.Nil(t, press(m, tea.KeyEsc))
	assert.Equal(t, -1, m.cursor)

	cmd := press(m, tea.KeyEsc)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_InitialQuerySeedsSearch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "Dynamics 365", URL: "https://d"}}}
	m := newTestModel(t, searcher, &openRecorder{}, search.WithInitialQuery("Dynamics 365"))
	assert.Equal(t, "Dynamics 365", m.input.Value())

	m.seedCmd()()
	m.Update(fetchDoneMsg{})
	assert.Equal(t, []string{"Dynamics 365"}, searcher.searches())
	assert.Len(t, m.state.Results, 1)
}

func TestModel_WaitForChangeDeliversNotifications(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	m := newTestModel(t, searcher, &openRecorder{}, search.WithInitialQuery("azure"))

	done := make(chan tea.Msg, 1)
	go func() { done <- m.waitForChange()() }()

	m.controller.Submit(context.Background())

	select {
	case msg := <-done:
		assert.IsType(t, changedMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("no change notification")
	}
}

func TestVisibleRange(t *testing.T) {
	cases := []struct {
		total, cursor, capacity int
		start, end              int
	}{
		{10, 0, 0, 0, 10},
		{2, 0, 5, 0, 2},
		{10, -3, 4, 0, 4},
		{10, 5, 4, 2, 6},
		{10, 9, 4, 6, 10},
	}
	for _, tc := range cases {
		start, end := visibleRange(tc.total, tc.cursor, tc.capacity)
		assert.Equal(t, tc.start, start, "%+v", tc)
		assert.Equal(t, tc.end, end, "%+v", tc)
	}
}
