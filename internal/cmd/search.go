package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jimezsa/learncli/internal/config"
	"github.com/jimezsa/learncli/internal/export"
	"github.com/jimezsa/learncli/internal/learn"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/jimezsa/learncli/internal/network"
	"github.com/jimezsa/learncli/internal/ui"
	"github.com/pkg/browser"
)

var errEmptyQuery = errors.New("a non-empty query is required")

// openURL launches a link in the default browser.
var openURL = func(url string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(url)
}

// RemoteOptions select how the Learn API is reached.
type RemoteOptions struct {
	Locale  string `help:"Locale sent with each request (default from config, en-us)."`
	BaseURL string `name:"base-url" help:"Override the API base URL."`
	Proxies string `help:"Comma-separated proxy URLs." env:"LEARNCLI_PROXIES"`
	Timeout int    `help:"Request timeout in seconds." default:"30"`
	Strict  bool   `help:"Fail instead of printing an empty list when the request fails."`
}

type SearchCmd struct {
	Query string `arg:"" help:"Search query."`
	RemoteOptions
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
	Open   int    `help:"Open the Nth result (1-based) in the browser."`
}

func (s *SearchCmd) Run(ctx *Context) error {
	searcher, err := newSearcher(ctx, s.RemoteOptions)
	if err != nil {
		return err
	}
	return s.run(ctx, searcher)
}

func (s *SearchCmd) run(ctx *Context, searcher learn.Searcher) error {
	query := strings.TrimSpace(s.Query)
	if query == "" {
		return errEmptyQuery
	}
	if s.Open < 0 {
		return fmt.Errorf("--open must be a positive result number")
	}

	outputPath := strings.TrimSpace(s.Output)
	format, err := resolveFormat(ctx, s.Format, outputPath)
	if err != nil {
		return err
	}

	stopIndicator := ctx.UI.StartIndicator("Searching")
	results, err := searcher.Search(context.Background(), query)
	if stopIndicator != nil {
		stopIndicator()
	}
	if err != nil {
		if s.Strict {
			return fmt.Errorf("search %q: %w", query, err)
		}
		ctx.Logger.Error().Err(err).Str("query", query).Msg("Error fetching search results")
		results = []models.Result{}
	}

	writer := ctx.Out
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return err
		}
		defer file.Close()
		writer = file
	}

	colorEnabled := ctx.UI != nil && ctx.UI.ColorEnabled
	linkStyle := export.LinkStyleShort
	if strings.EqualFold(s.Links, string(export.LinkStyleFull)) {
		linkStyle = export.LinkStyleFull
	}
	if err := export.WriteResults(writer, results, format, export.WriteOptions{
		ColorEnabled:  colorEnabled,
		Hyperlinks:    colorEnabled && ui.IsTTY(writer),
		LinkStyle:     linkStyle,
		ContributorID: ctx.Config.ContributorID,
	}); err != nil {
		return err
	}

	if s.Open > 0 {
		if err := openResult(ctx, results, s.Open); err != nil {
			return err
		}
	}

	printSearchSummary(ctx, query, results)
	return nil
}

type SuggestCmd struct {
	Query string `arg:"" help:"Partial query."`
	RemoteOptions
}

func (s *SuggestCmd) Run(ctx *Context) error {
	searcher, err := newSearcher(ctx, s.RemoteOptions)
	if err != nil {
		return err
	}
	return s.run(ctx, searcher)
}

func (s *SuggestCmd) run(ctx *Context, searcher learn.Searcher) error {
	query := strings.TrimSpace(s.Query)
	if query == "" {
		return errEmptyQuery
	}

	suggestions, err := searcher.Suggest(context.Background(), query)
	if err != nil {
		if s.Strict {
			return fmt.Errorf("suggest %q: %w", query, err)
		}
		ctx.Logger.Error().Err(err).Str("query", query).Msg("Error fetching suggestions")
		suggestions = []string{}
	}

	format := export.FormatTable
	if ctx.JSONOutput {
		format = export.FormatJSON
	}
	return export.WriteSuggestions(ctx.Out, suggestions, format)
}

// newSearcher builds a Learn API client over the rotating transport.
func newSearcher(ctx *Context, opts RemoteOptions) (*learn.Client, error) {
	proxies, err := config.LoadProxies(opts.Proxies)
	if err != nil {
		return nil, err
	}

	var rotator *network.Rotator
	if len(proxies) > 0 {
		rotator, err = network.NewRotator(proxies, network.DefaultBanDuration)
		if err != nil {
			return nil, err
		}
		ctx.Logger.Debug().Int("proxies", rotator.Len()).Msg("proxy rotation enabled")
	}

	client, err := network.NewClient(rotator, models.ClientConfig{
		Timeout: time.Duration(opts.Timeout) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return learn.NewClient(client,
		learn.WithBaseURL(firstNonEmpty(opts.BaseURL, ctx.Config.BaseURL)),
		learn.WithLocale(firstNonEmpty(opts.Locale, ctx.Config.Locale)),
	), nil
}

// openResult opens the tracked URL of the 1-based nth result. A number past
// the end only warns, since a failed fetch also yields an empty list.
func openResult(ctx *Context, results []models.Result, n int) error {
	if n > len(results) {
		if ctx.UI != nil {
			ctx.UI.Warnf("--open %d: only %d result(s), nothing opened", n, len(results))
		}
		return nil
	}
	link := results[n-1].TrackedURL(ctx.Config.ContributorID)
	if err := openURL(link); err != nil {
		return fmt.Errorf("open %s: %w", link, err)
	}
	ctx.Logger.Debug().Str("url", link).Msg("opened result")
	return nil
}

func printSearchSummary(ctx *Context, query string, results []models.Result) {
	if ctx == nil || ctx.Err == nil {
		return
	}
	_, _ = fmt.Fprintf(ctx.Err, "%s\n", formatSearchSummary(query, results))
}

func formatSearchSummary(query string, results []models.Result) string {
	return fmt.Sprintf("summary: query=%q results=%d", query, len(results))
}

func resolveFormat(ctx *Context, value string, outputPath string) (export.Format, error) {
	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if value != "" {
		return parseFormat(value)
	}
	if outputPath == "" && ui.IsTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
