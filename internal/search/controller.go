// Package search holds the input controller: the query state machine that
// turns keystrokes, submits and suggestion picks into remote fetches.
package search

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/jimezsa/learncli/internal/learn"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/rs/zerolog"
)

// State is a snapshot of everything the UI renders.
type State struct {
	Query       string
	Suggestions []string
	Results     []models.Result
	Loading     bool
	// Searched is set once any results fetch has completed.
	Searched bool
}

// NoResults reports whether the "No results found." message applies.
func (s State) NoResults() bool {
	return s.Searched && !s.Loading && s.Query != "" && len(s.Results) == 0
}

func (s State) clone() State {
	s.Suggestions = slices.Clone(s.Suggestions)
	s.Results = slices.Clone(s.Results)
	return s
}

// Controller owns the query and forwards edits to a debounced suggestion
// fetcher and submits to the results fetcher. Responses are applied in
// arrival order; a slow stale response can overwrite a newer one.
type Controller struct {
	searcher learn.Searcher
	logger   zerolog.Logger
	debounce *Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	state     State
	listeners []func(State)
}

type Option func(*controllerOptions)

type controllerOptions struct {
	logger  zerolog.Logger
	wait    time.Duration
	initial string
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *controllerOptions) { o.logger = logger }
}

// WithDebounce sets the suggestion quiet period. Defaults to DefaultDebounce.
func WithDebounce(wait time.Duration) Option {
	return func(o *controllerOptions) { o.wait = wait }
}

// WithInitialQuery pre-seeds the query. See Seed.
func WithInitialQuery(query string) Option {
	return func(o *controllerOptions) { o.initial = query }
}

func NewController(searcher learn.Searcher, opts ...Option) *Controller {
	o := controllerOptions{logger: zerolog.Nop(), wait: DefaultDebounce}
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		searcher: searcher,
		logger:   o.logger,
		ctx:      ctx,
		cancel:   cancel,
		state: State{
			Query:       o.initial,
			Suggestions: []string{},
			Results:     []models.Result{},
		},
	}
	c.debounce = NewDebouncer(o.wait, c.fetchSuggestions)
	return c
}

// OnChange registers fn to receive a snapshot after every state mutation.
// fn runs on the goroutine that caused the change.
func (c *Controller) OnChange(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Change records a text edit. A non-empty value schedules a suggestion
// fetch; an empty value clears suggestions immediately without a request.
func (c *Controller) Change(value string) {
	if value == "" {
		c.debounce.Cancel()
	}
	c.update(func(s *State) {
		s.Query = value
		if value == "" {
			s.Suggestions = []string{}
		}
	})
	if value != "" {
		c.debounce.Trigger(value)
	}
}

// Submit fetches results for the current query. An empty query is a no-op.
func (c *Controller) Submit(ctx context.Context) {
	query := c.State().Query
	if query == "" {
		return
	}
	c.fetchResults(ctx, query)
}

// Select replaces the query with suggestion, clears the dropdown and fetches
// results for it.
func (c *Controller) Select(ctx context.Context, suggestion string) {
	c.debounce.Cancel()
	c.update(func(s *State) {
		s.Query = suggestion
		s.Suggestions = []string{}
	})
	c.fetchResults(ctx, suggestion)
}

// Seed fetches results for the initial query, if one was given.
func (c *Controller) Seed(ctx context.Context) {
	c.Submit(ctx)
}

// Close drops any pending suggestion fetch and cancels running ones.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.cancel()
}

func (c *Controller) fetchResults(ctx context.Context, query string) {
	c.update(func(s *State) { s.Loading = true })
	defer c.update(func(s *State) {
		s.Loading = false
		s.Searched = true
	})

	results, err := c.searcher.Search(ctx, query)
	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("Error fetching search results")
		results = nil
	}
	if results == nil {
		results = []models.Result{}
	}
	c.update(func(s *State) { s.Results = results })
}

func (c *Controller) fetchSuggestions(query string) {
	if c.ctx.Err() != nil {
		return
	}

	suggestions, err := c.searcher.Suggest(c.ctx, query)
	if err != nil {
		c.logger.Error().Err(err).Str("query", query).Msg("Error fetching suggestions")
		suggestions = nil
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	c.update(func(s *State) { s.Suggestions = suggestions })
}

func (c *Controller) update(fn func(*State)) {
	c.mu.Lock()
	fn(&c.state)
	snapshot := c.state.clone()
	listeners := slices.Clone(c.listeners)
	c.mu.Unlock()

	for _, listener := range listeners {
		listener(snapshot)
	}
}
