package learn

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/jimezsa/learncli/internal/models"
)

const (
	endpointSearch      = "search"
	endpointSuggestions = "suggestions"
)

var _ Searcher = (*Client)(nil)

// Client issues GET requests against the Learn API.
type Client struct {
	doer    Doer
	baseURL string
	locale  string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides DefaultBaseURL.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base = strings.TrimSpace(base); base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithLocale sets the locale query parameter. Defaults to en-us.
func WithLocale(locale string) Option {
	return func(c *Client) {
		if locale = strings.TrimSpace(locale); locale != "" {
			c.locale = strings.ToLower(locale)
		}
	}
}

func NewClient(doer Doer, opts ...Option) *Client {
	c := &Client{
		doer:    doer,
		baseURL: DefaultBaseURL,
		locale:  models.DefaultLocale,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Locale() string {
	return c.locale
}

func (c *Client) Search(ctx context.Context, query string) ([]models.Result, error) {
	body, err := c.get(ctx, endpointSearch, models.SearchParams{Query: query, Locale: c.locale})
	if err != nil {
		return nil, err
	}
	return parseResults(body)
}

func (c *Client) Suggest(ctx context.Context, query string) ([]string, error) {
	body, err := c.get(ctx, endpointSuggestions, models.SearchParams{Query: query, Locale: c.locale})
	if err != nil {
		return nil, err
	}
	return parseSuggestions(body)
}

func (c *Client) get(ctx context.Context, endpoint string, params models.SearchParams) ([]byte, error) {
	target := buildURL(c.baseURL, endpoint, params)
	req, err := fhttp.NewRequestWithContext(ctx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	applyHeaders(req, params.Locale)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fhttp.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", endpoint, err)
	}
	return body, nil
}

func buildURL(base string, endpoint string, params models.SearchParams) string {
	values := url.Values{}
	values.Set("search", params.Query)
	locale := params.Locale
	if locale == "" {
		locale = models.DefaultLocale
	}
	values.Set("locale", locale)
	return fmt.Sprintf("%s/%s?%s", base, endpoint, values.Encode())
}

func applyHeaders(req *fhttp.Request, locale string) {
	req.Header.Set("accept", "application/json")
	req.Header.Set("accept-language", acceptLanguage(locale))
}

// acceptLanguage turns "en-us" into "en-US,en;q=0.9".
func acceptLanguage(locale string) string {
	lang, region, found := strings.Cut(strings.TrimSpace(locale), "-")
	if lang == "" {
		return "en-US,en;q=0.9"
	}
	lang = strings.ToLower(lang)
	if !found || region == "" {
		return lang
	}
	return lang + "-" + strings.ToUpper(region) + "," + lang + ";q=0.9"
}
