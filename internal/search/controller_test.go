package search

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jimezsa/learncli/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWait = 40 * time.Millisecond

func newTestController(t *testing.T, searcher *fakeSearcher, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithDebounce(testWait)}, opts...)
	c := NewController(searcher, opts...)
	t.Cleanup(c.Close)
	return c
}

func TestController_SubmitEmptyQueryIsNoop(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	c := newTestController(t, searcher)

	before := c.State()
	c.Submit(context.Background())

	assert.Empty(t, searcher.searches())
	assert.Equal(t, before, c.State())
}

func TestController_SubmitStoresResults(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "Azure Basics", URL: "https://x"}}}
	c := newTestController(t, searcher)

	c.Change("azure")
	c.Submit(context.Background())

	state := c.State()
	require.Len(t, state.Results, 1)
	assert.Equal(t, "https://x?wt.mc_id=studentamb_325123", state.Results[0].TrackedURL(models.DefaultContributorID))
	assert.False(t, state.Loading)
	assert.True(t, state.Searched)
	assert.False(t, state.NoResults())
	assert.Equal(t, []string{"azure"}, searcher.searches())
}

func TestController_SubmitFailureClearsResultsAndLoading(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	searcher := &fakeSearcher{results: []models.Result{{Title: "Old", URL: "https://old"}}}
	c := newTestController(t, searcher, WithLogger(zerolog.New(&logs)))

	c.Change("azure")
	c.Submit(context.Background())
	require.Len(t, c.State().Results, 1)

	searcher.mu.Lock()
	searcher.searchErr = errors.New("search: http 500")
	searcher.mu.Unlock()

	c.Submit(context.Background())

	state := c.State()
	assert.Empty(t, state.Results)
	assert.NotNil(t, state.Results)
	assert.False(t, state.Loading)
	assert.True(t, state.NoResults())
	assert.Contains(t, logs.String(), "Error fetching search results")
	assert.Contains(t, logs.String(), "http 500")
}

func TestController_LoadingIsTrueDuringFetch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	c := newTestController(t, searcher)

	var (
		mu      sync.Mutex
		loading []bool
	)
	c.OnChange(func(s State) {
		mu.Lock()
		defer mu.Unlock()
		loading = append(loading, s.Loading)
	})

	c.Change("azure")
	c.Submit(context.Background())

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(loading), 3)
	assert.False(t, loading[0], "change")
	assert.True(t, loading[1], "fetch start")
	assert.False(t, loading[len(loading)-1], "finalizer")
}

func TestController_ChangeEmptyClearsSuggestionsSynchronously(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Azure", "Azure Functions"}}
	c := newTestController(t, searcher)

	c.Change("az")
	require.Eventually(t, func() bool { return len(c.State().Suggestions) == 2 }, time.Second, 5*time.Millisecond)

	c.Change("a")
	c.Change("")
	assert.Empty(t, c.State().Suggestions)
	assert.Equal(t, "", c.State().Query)

	time.Sleep(3 * testWait)
	assert.Equal(t, []string{"az"}, searcher.suggests(), "pending request for \"a\" must be dropped")
	assert.Empty(t, c.State().Suggestions)
}

func TestController_RapidChangesIssueOneSuggestionRequest(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Azure"}}
	c := newTestController(t, searcher)

	c.Change("a")
	c.Change("az")
	c.Change("azu")

	require.Eventually(t, func() bool { return len(searcher.suggests()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(3 * testWait)
	assert.Equal(t, []string{"azu"}, searcher.suggests())
	assert.Equal(t, []string{"Azure"}, c.State().Suggestions)
	assert.Empty(t, searcher.searches())
}

func TestController_SuggestionFailureYieldsEmptyList(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestErr: errors.New("boom")}
	c := newTestController(t, searcher)

	var calls sync.WaitGroup
	calls.Add(1)
	var once sync.Once
	c.OnChange(func(s State) {
		if s.Query == "az" && len(searcher.suggests()) == 1 {
			once.Do(calls.Done)
		}
	})

	c.Change("az")
	calls.Wait()
	assert.Empty(t, c.State().Suggestions)
	assert.False(t, c.State().Loading)
}

func TestController_SelectSuggestion(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{
		suggestions: []string{"Power BI", "Power Apps"},
		results:     []models.Result{{Title: "Power BI documentation", URL: "https://learn.microsoft.com/power-bi/"}},
	}
	c := newTestController(t, searcher)

	c.Change("pow")
	require.Eventually(t, func() bool { return len(c.State().Suggestions) == 2 }, time.Second, 5*time.Millisecond)

	c.Select(context.Background(), "Power BI")

	state := c.State()
	assert.Equal(t, "Power BI", state.Query)
	assert.Empty(t, state.Suggestions)
	assert.Equal(t, []string{"Power BI"}, searcher.searches())
	require.Len(t, state.Results, 1)
}

func TestController_SelectDropsPendingSuggestionFetch(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Power BI"}}
	c := newTestController(t, searcher)

	c.Change("pow")
	c.Select(context.Background(), "Power BI")
	time.Sleep(3 * testWait)

	assert.Empty(t, searcher.suggests())
	assert.Empty(t, c.State().Suggestions)
}

func TestController_SeedFetchesInitialQuery(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{}
	c := newTestController(t, searcher, WithInitialQuery("Dynamics 365"))
	assert.Equal(t, "Dynamics 365", c.State().Query)

	c.Seed(context.Background())
	assert.Equal(t, []string{"Dynamics 365"}, searcher.searches())

	empty := newTestController(t, &fakeSearcher{})
	empty.Seed(context.Background())
	assert.False(t, empty.State().Searched)
}

func TestController_StateIsACopy(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{results: []models.Result{{Title: "A", URL: "https://a"}}}
	c := newTestController(t, searcher, WithInitialQuery("a"))
	c.Seed(context.Background())

	state := c.State()
	state.Results[0].Title = "mutated"
	assert.Equal(t, "A", c.State().Results[0].Title)
}

func TestController_CloseStopsSuggestions(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{suggestions: []string{"Azure"}}
	c := NewController(searcher, WithDebounce(testWait))
	c.Change("az")
	c.Close()
	time.Sleep(3 * testWait)
	assert.Empty(t, searcher.suggests())
}

func TestController_StaleSuggestionsApplyInArrivalOrder(t *testing.T) {
	t.Parallel()

	searcher := newGatedSearcher("a", "b")
	c := NewController(searcher, WithDebounce(testWait))
	t.Cleanup(c.Close)

	awaitStart := func(want string) {
		t.Helper()
		select {
		case got := <-searcher.started:
			require.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("suggestion request for %q never started", want)
		}
	}

	c.Change("a")
	awaitStart("a")
	c.Change("b")
	awaitStart("b")

	searcher.release["b"] <- []string{"from b"}
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"from b"}, c.State().Suggestions)
	}, time.Second, 5*time.Millisecond)

	// the older request finishes last and wins
	searcher.release["a"] <- []string{"from a"}
	require.Eventually(t, func() bool {
		return assert.ObjectsAreEqual([]string{"from a"}, c.State().Suggestions)
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "b", c.State().Query)
}
