package models

import "strings"

// DefaultContributorID is appended to outbound Learn links for attribution.
const DefaultContributorID = "studentamb_325123"

// Result is a single documentation hit returned by the search endpoint.
type Result struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// TrackedURL returns the result link with the contributor id appended as the
// wt.mc_id query parameter. The suffix is added verbatim.
func (r Result) TrackedURL(contributorID string) string {
	return TrackURL(r.URL, contributorID)
}

// TrackURL appends ?wt.mc_id=<contributorID> to raw.
func TrackURL(raw string, contributorID string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if contributorID == "" {
		contributorID = DefaultContributorID
	}
	return raw + "?wt.mc_id=" + contributorID
}
