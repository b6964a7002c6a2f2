package tui

import "github.com/charmbracelet/lipgloss"

// Styles contains all the style definitions for the UI
type Styles struct {
	Title     lipgloss.Style
	Heading   lipgloss.Style
	Input     lipgloss.Style
	Dropdown  lipgloss.Style
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Link      lipgloss.Style
	Dim       lipgloss.Style
	Loading   lipgloss.Style
	Empty     lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
	Help      lipgloss.Style
	Main      lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("0")).
			Padding(0, 1).
			MarginBottom(1),
		Heading: lipgloss.NewStyle().Bold(true).MarginTop(1),
		Input: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("241")).
			Padding(0, 1),
		Dropdown: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(0, 1),
		Item:      lipgloss.NewStyle().PaddingLeft(2),
		Selected:  lipgloss.NewStyle().PaddingLeft(1).Foreground(lipgloss.Color("226")).Bold(true),
		Link:      lipgloss.NewStyle().Foreground(lipgloss.Color("117")),
		Dim:       lipgloss.NewStyle().Faint(true),
		Loading:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Empty:     lipgloss.NewStyle().Italic(true).MarginTop(1),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("78")),
		StatusErr: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Help:      lipgloss.NewStyle().Faint(true).MarginTop(1),
		Main:      lipgloss.NewStyle().Padding(1, 2),
	}
}
