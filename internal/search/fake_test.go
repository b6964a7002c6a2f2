package search

import (
	"context"
	"sync"

	"github.com/jimezsa/learncli/internal/models"
)

type fakeSearcher struct {
	mu sync.Mutex

	results     []models.Result
	suggestions []string
	searchErr   error
	suggestErr  error

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
	if f.suggestErr != nil {
		return nil, f.suggestErr
	}
	return f.suggestions, nil
}

func (f *fakeSearcher) searches() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.searchCalls...)
}

func (f *fakeSearcher) suggests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string{}, f.suggestCalls...)
}

// gatedSearcher holds each Suggest call until its query is released.
type gatedSearcher struct {
	fakeSearcher

	started chan string
	release map[string]chan []string
}

func newGatedSearcher(queries ...string) *gatedSearcher {
	g := &gatedSearcher{
		started: make(chan string, len(queries)),
		release: make(map[string]chan []string, len(queries)),
	}
	for _, q := range queries {
		g.release[q] = make(chan []string)
	}
	return g
}

func (g *gatedSearcher) Suggest(ctx context.Context, query string) ([]string, error) {
	g.started <- query
	select {
	case suggestions := <-g.release[query]:
		return suggestions, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
