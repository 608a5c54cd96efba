package prompt

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/tui/theme"
)

// ChoiceMsg carries the user's answer back to the host shell, which applies
// it through the reconciliation policy.
type ChoiceMsg struct {
	Choice session.Choice
}

var options = []struct {
	label  string
	choice session.Choice
}{
	{"Save", session.ChoiceSave},
	{"Discard", session.ChoiceDiscard},
	{"Cancel", session.ChoiceCancel},
}

// Model is the unsaved-changes modal shown before a content-replacing
// action on a dirty session.
type Model struct {
	title  string
	intent session.Intent
	index  int
	theme  theme.Theme
}

func New(noteTitle string, intent session.Intent, th theme.Theme) *Model {
	if noteTitle == "" {
		noteTitle = "(untitled)"
	}
	return &Model{title: noteTitle, intent: intent, theme: th}
}

func choiceCmd(c session.Choice) tea.Cmd {
	return func() tea.Msg {
		return ChoiceMsg{Choice: c}
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "left", "shift+tab", "h":
		m.index = (m.index + len(options) - 1) % len(options)
	case "right", "tab", "l":
		m.index = (m.index + 1) % len(options)
	case "enter":
		return choiceCmd(options[m.index].choice)
	case "s":
		return choiceCmd(session.ChoiceSave)
	case "d":
		return choiceCmd(session.ChoiceDiscard)
	case "esc", "c":
		return choiceCmd(session.ChoiceCancel)
	}
	return nil
}

func (m *Model) View() string {
	header := m.theme.Modal.Title.Render("Unsaved changes")
	body := m.theme.Modal.Body.Render(
		fmt.Sprintf("%q has unsaved edits.\nSave before you %s?", m.title, m.intent))

	row := ""
	for i, opt := range options {
		style := m.theme.Modal.Option
		if i == m.index {
			style = m.theme.Modal.Selected
		}
		row = lipgloss.JoinHorizontal(lipgloss.Center, row, style.Render(opt.label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, header, "", body, "", row)
	return m.theme.Modal.Frame.Render(content)
}
