package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/learncli/internal/models"
	"github.com/jimezsa/learncli/internal/ui"
	"github.com/muesli/termenv"
)

const NoResultsMessage = "No results found."

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled  bool
	Hyperlinks    bool
	LinkStyle     LinkStyle
	ContributorID string
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

// jsonResult is the machine-readable shape; link carries the tracked URL.
type jsonResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Link        string `json:"link"`
	Description string `json:"description,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

func WriteResults(w io.Writer, results []models.Result, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, results, opts)
	case FormatCSV:
		return writeCSV(w, results, ',', opts)
	case FormatTSV:
		return writeCSV(w, results, '\t', opts)
	case FormatMarkdown:
		return writeMarkdown(w, results, opts)
	default:
		return writeTable(w, results, opts)
	}
}

// WriteSuggestions prints suggestions one per line, or as a JSON array.
func WriteSuggestions(w io.Writer, suggestions []string, format Format) error {
	if suggestions == nil {
		suggestions = []string{}
	}
	if format == FormatJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(suggestions)
	}
	for _, suggestion := range suggestions {
		if _, err := fmt.Fprintln(w, safe(suggestion)); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, results []models.Result, opts WriteOptions) error {
	out := make([]jsonResult, 0, len(results))
	for _, result := range results {
		out = append(out, jsonResult{
			Title:       result.Title,
			URL:         result.URL,
			Link:        result.TrackedURL(opts.ContributorID),
			Description: result.Description,
			LastUpdated: result.LastUpdated,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeCSV(w io.Writer, results []models.Result, delim rune, opts WriteOptions) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(csvHeader()); err != nil {
		return err
	}
	for _, result := range results {
		if err := writer.Write(csvRow(result, opts)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, results []models.Result, opts WriteOptions) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for i, result := range results {
		fmt.Fprintln(tw, strings.Join(tableRow(i+1, result, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, results []models.Result, opts WriteOptions) error {
	if len(results) == 0 {
		_, err := fmt.Fprintln(w, NoResultsMessage)
		return err
	}
	for _, result := range results {
		lines := []string{
			fmt.Sprintf("- [%s](<%s>)", markdownTitle(result), result.TrackedURL(opts.ContributorID)),
		}
		if result.Description != "" {
			lines = append(lines, fmt.Sprintf("  %s", safe(result.Description)))
		}
		if result.LastUpdated != "" {
			lines = append(lines, fmt.Sprintf("  Updated: %s", safe(result.LastUpdated)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func markdownTitle(result models.Result) string {
	title := safe(result.Title)
	if title == "" {
		title = safe(result.URL)
	}
	return strings.NewReplacer("[", "\\[", "]", "\\]").Replace(title)
}

func csvHeader() []string {
	return []string{
		"title",
		"url",
		"link",
		"description",
		"last_updated",
	}
}

func csvRow(result models.Result, opts WriteOptions) []string {
	return []string{
		result.Title,
		result.URL,
		result.TrackedURL(opts.ContributorID),
		result.Description,
		result.LastUpdated,
	}
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"#",
		"title",
		"link",
	}
}

func tableRow(index int, result models.Result, output *termenv.Output, opts WriteOptions) []string {
	link := result.TrackedURL(opts.ContributorID)
	displayURL := "-"
	if link != "" {
		displayURL = link
		if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
			displayURL = shortURLLabel(result.URL)
		}
		displayURL = ui.ColorizeLink(output, opts.ColorEnabled, displayURL)
		if opts.Hyperlinks {
			displayURL = Hyperlink(link, displayURL)
		}
	}
	return []string{
		fmt.Sprintf("%d", index),
		safe(result.Title),
		displayURL,
	}
}

// Hyperlink wraps text in an OSC 8 terminal hyperlink to url.
func Hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
