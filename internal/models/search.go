package models

// DefaultLocale is sent with every request unless configured otherwise.
const DefaultLocale = "en-us"

// SearchParams captures the inputs sent to the Learn endpoints.
type SearchParams struct {
	Query  string
	Locale string
}
