package learn

import (
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jimezsa/learncli/internal/models"
	"github.com/tidwall/gjson"
)

func parseResults(body []byte) ([]models.Result, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", endpointSearch, ErrMalformedPayload)
	}

	results := []models.Result{}
	list := gjson.GetBytes(body, "results")
	if !list.IsArray() {
		return results, nil
	}

	list.ForEach(func(_, item gjson.Result) bool {
		if !item.IsObject() {
			return true
		}
		link := strings.TrimSpace(item.Get("url").String())
		// a result renders as a link; without one there is nothing to open
		if link == "" {
			return true
		}
		results = append(results, models.Result{
			Title:       cleanText(item.Get("title").String()),
			URL:         link,
			Description: strings.Join(strings.Fields(cleanText(item.Get("description").String())), " "),
			LastUpdated: strings.TrimSpace(item.Get("lastUpdatedDate").String()),
		})
		return true
	})
	return results, nil
}

func parseSuggestions(body []byte) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%s: %w", endpointSuggestions, ErrMalformedPayload)
	}

	suggestions := []string{}
	list := gjson.GetBytes(body, "suggestions")
	if !list.IsArray() {
		return suggestions, nil
	}

	list.ForEach(func(_, item gjson.Result) bool {
		var label string
		switch {
		case item.Type == gjson.String:
			label = item.String()
		case item.IsObject():
			// some locales answer with {"displayText": "..."} objects
			label = item.Get("displayText").String()
		}
		// picking a suggestion searches for it, so the label stays verbatim
		if label = strings.TrimSpace(label); label != "" {
			suggestions = append(suggestions, label)
		}
		return true
	})
	return suggestions, nil
}

// highlightTags are the only elements search responses use for markup.
var highlightTags = []string{"b", "em", "strong", "mark", "i"}

var restoreHighlights = func() *strings.Replacer {
	pairs := make([]string, 0, len(highlightTags)*4)
	for _, tag := range highlightTags {
		pairs = append(pairs,
			"&lt;"+tag+"&gt;", "<"+tag+">",
			"&lt;/"+tag+"&gt;", "</"+tag+">",
		)
	}
	return strings.NewReplacer(pairs...)
}()

// cleanText drops highlight tags and decodes entities. Any other angle
// brackets are text, as in "List<T> Class".
func cleanText(value string) string {
	value = strings.TrimSpace(value)
	if !strings.ContainsAny(value, "<&") {
		return value
	}

	escaped := restoreHighlights.Replace(html.EscapeString(html.UnescapeString(value)))
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(escaped))
	if err != nil {
		return html.UnescapeString(value)
	}
	return strings.TrimSpace(doc.Text())
}
