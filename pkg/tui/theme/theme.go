package theme

import "github.com/charmbracelet/lipgloss/v2"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Editor EditorTheme
	Modal  ModalTheme
	Footer FooterTheme
}

// EditorTheme styles the note editing surface.
type EditorTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Dirty    lipgloss.Style
	Stale    lipgloss.Style
	ReadOnly lipgloss.Style
	Tags     lipgloss.Style
}

// ModalTheme styles centered modal overlays (the unsaved-changes prompt).
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Option   lipgloss.Style
	Selected lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// Default returns the built-in theme used across the UI.
func Default() Theme {
	return Theme{
		Editor: EditorTheme{
			Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
			Title:    lipgloss.NewStyle().Bold(true),
			Dirty:    lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true),
			Stale:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			ReadOnly: lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
			Tags:     lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		},
		Modal: ModalTheme{
			Frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true),
			Body:     lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
			Option:   lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Padding(0, 1),
			Selected: lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Reverse(true).Padding(0, 1),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}
}
