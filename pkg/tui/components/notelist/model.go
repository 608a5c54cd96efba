package notelist

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/jot/pkg/note"
)

// Item adapts a note to the bubbles list delegate.
type Item struct {
	Note *note.Note
}

func (i Item) Title() string {
	title := i.Note.Title
	if title == "" {
		title = "(untitled)"
	}
	if i.Note.SystemManaged() {
		title += " ⊘"
	}
	return title
}

func (i Item) Description() string {
	parts := make([]string, 0, 2)
	if len(i.Note.Tags) > 0 {
		parts = append(parts, strings.Join(i.Note.Tags, ", "))
	}
	if !i.Note.Updated.IsZero() {
		parts = append(parts, i.Note.Updated.Local().Format("2006-01-02 15:04"))
	}
	if !i.Note.Persisted() {
		return "never saved"
	}
	if len(parts) == 0 {
		return "no tags"
	}
	return strings.Join(parts, " · ")
}

func (i Item) FilterValue() string {
	return i.Note.Title + " " + strings.Join(i.Note.Tags, " ")
}

// Model wraps the bubbles list of notes.
type Model struct {
	list list.Model
}

func New() *Model {
	delegate := list.NewDefaultDelegate()
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Notes"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	return &Model{list: l}
}

// SetNotes replaces the list contents, keeping the cursor in range.
func (m *Model) SetNotes(notes []*note.Note) {
	items := make([]list.Item, 0, len(notes))
	for _, n := range notes {
		items = append(items, Item{Note: n})
	}
	m.list.SetItems(items)
}

// Selected returns the note under the cursor, or nil when empty.
func (m *Model) Selected() *note.Note {
	if it, ok := m.list.SelectedItem().(Item); ok {
		return it.Note
	}
	return nil
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *Model) View() string {
	return m.list.View()
}
