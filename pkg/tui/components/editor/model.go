package editor

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textarea"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/tui/theme"
)

type focusField int

const (
	fieldTitle focusField = iota
	fieldBody
)

// Model binds the title and body widgets to an editor session. Widget edits
// flow into the session's draft after every update, which is what flips the
// session dirty; populating the widgets from the session goes through
// Resync, which never touches the draft.
type Model struct {
	sess *session.Session

	title textinput.Model
	body  textarea.Model
	focus focusField

	width  int
	height int

	theme theme.Theme
}

func New(s *session.Session, th theme.Theme) *Model {
	title := textinput.New()
	title.Placeholder = "Title"
	title.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Write…"

	m := &Model{
		sess:  s,
		title: title,
		body:  body,
		focus: fieldTitle,
		theme: th,
	}
	m.Resync()

	if s.ReadOnly() {
		m.title.Blur()
		m.body.Blur()
	} else {
		m.title.Focus()
	}
	return m
}

// Session exposes the bound session for the host shell.
func (m *Model) Session() *session.Session {
	return m.sess
}

// Resync reloads widget contents from the session draft. Called after Bind
// or an externally applied update; skipped while dirty so user input is
// never clobbered by a refresh.
func (m *Model) Resync() {
	if m.sess.Dirty() {
		return
	}
	d := m.sess.Draft()
	m.title.SetValue(d.Title)
	m.body.SetValue(d.Body)
}

// FocusNext cycles focus between the title and body fields.
func (m *Model) FocusNext() {
	if m.sess.ReadOnly() {
		return
	}
	if m.focus == fieldTitle {
		m.focus = fieldBody
		m.title.Blur()
		m.body.Focus()
		return
	}
	m.focus = fieldTitle
	m.body.Blur()
	m.title.Focus()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.title.SetWidth(width - 4)
	m.body.SetWidth(width - 4)
	if h := height - 6; h > 2 {
		m.body.SetHeight(h)
	}
}

func (m *Model) Update(msg tea.Msg) tea.Cmd {
	if m.sess.ReadOnly() {
		return nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldTitle:
		m.title, cmd = m.title.Update(msg)
	case fieldBody:
		m.body, cmd = m.body.Update(msg)
	}

	// Push widget values into the draft; unchanged values are no-ops so
	// cursor movement alone never dirties the session.
	if err := m.sess.SetTitle(m.title.Value()); err != nil && !errors.Is(err, session.ErrReadOnly) {
		return cmd
	}
	if err := m.sess.SetBody(m.body.Value()); err != nil && !errors.Is(err, session.ErrReadOnly) {
		return cmd
	}
	return cmd
}

// Header renders the decorated note title line: an asterisk while dirty, a
// refresh marker while stale, a read-only badge on frozen notes.
func (m *Model) Header() string {
	var b strings.Builder

	title := m.sess.Draft().Title
	if title == "" {
		title = "(untitled)"
	}
	b.WriteString(m.theme.Editor.Title.Render(title))
	if m.sess.Dirty() {
		b.WriteString(m.theme.Editor.Dirty.Render(" *"))
	}
	if m.sess.Stale() {
		b.WriteString(m.theme.Editor.Stale.Render(" ↻ changed elsewhere"))
	}
	if m.sess.ReadOnly() {
		b.WriteString(m.theme.Editor.ReadOnly.Render(" [read-only]"))
	}
	return b.String()
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.Header())
	b.WriteString("\n\n")
	b.WriteString(m.title.View())
	b.WriteString("\n\n")
	b.WriteString(m.body.View())
	if tags := m.sess.Draft().Tags; len(tags) > 0 {
		b.WriteString("\n")
		b.WriteString(m.theme.Editor.Tags.Render("tags: " + strings.Join(tags, ", ")))
	}
	return m.theme.Editor.Frame.Width(m.width - 2).Render(b.String())
}
