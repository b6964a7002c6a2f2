package tui

// changedMsg is delivered when the controller reported a state change.
type changedMsg struct{}

// fetchDoneMsg is returned by commands that ran a results fetch.
type fetchDoneMsg struct{}

// openedMsg reports the outcome of opening a result link.
type openedMsg struct {
	url string
	err error
}
