package models

import "time"

// ClientConfig contains transport options shared by API clients.
type ClientConfig struct {
	Timeout    time.Duration
	UserAgents []string
}
