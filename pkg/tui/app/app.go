// Package tuiapp hosts the Bubble Tea program for the jot TUI. It is the
// host shell for editor sessions: it owns the session registry, routes store
// watch events onto the tea loop before they touch any session, and gates
// every content-replacing action behind the reconciliation policy.
package tuiapp

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/jot/pkg/app"
	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/shell"
	"tableflip.dev/jot/pkg/store"
	"tableflip.dev/jot/pkg/tui/components/editor"
	"tableflip.dev/jot/pkg/tui/components/notelist"
	"tableflip.dev/jot/pkg/tui/components/prompt"
	"tableflip.dev/jot/pkg/tui/theme"
)

type mode int

const (
	modeList mode = iota
	modeEdit
	modePrompt
)

// pendingAction is the content-replacing action waiting on the unsaved
// changes prompt.
type pendingAction int

const (
	pendingNone pendingAction = iota
	pendingClose
	pendingQuit
	pendingNew
	pendingRefresh
)

func intentFor(p pendingAction) session.Intent {
	switch p {
	case pendingClose, pendingQuit:
		return session.IntentClose
	case pendingNew:
		return session.IntentReplace
	default:
		return session.IntentSwitchAway
	}
}

type notesLoadedMsg struct {
	notes []*note.Note
	err   error
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

// Model composes the note list, the editor surface, and the unsaved-changes
// modal.
type Model struct {
	ctx context.Context
	svc *app.Service

	registry *shell.Registry
	policy   *session.Policy

	mode    mode
	pending pendingAction

	list   *notelist.Model
	editor *editor.Model
	modal  *prompt.Model

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc

	width  int
	height int

	status    string
	statusErr bool

	theme theme.Theme
}

// New constructs the root model with the provided service.
func New(svc *app.Service) *Model {
	return &Model{
		ctx:      context.Background(),
		svc:      svc,
		registry: shell.NewRegistry(svc),
		policy:   &session.Policy{},
		mode:     modeList,
		list:     notelist.New(),
		theme:    theme.Default(),
	}
}

// Run launches the Bubble Tea program.
func Run(svc *app.Service) error {
	p := tea.NewProgram(New(svc), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadNotes(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) loadNotes() tea.Cmd {
	svc := m.svc
	ctx := m.ctx
	return func() tea.Msg {
		notes, err := svc.Notes(ctx)
		return notesLoadedMsg{notes: notes, err: err}
	}
}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// Update implements tea.Model. All session transitions run here, on the tea
// loop, including the watch events that arrive from the store's watcher
// goroutine as messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.list.SetSize(v.Width, v.Height-2)
		if m.editor != nil {
			m.editor.SetSize(v.Width, v.Height-2)
		}
		return m, nil

	case notesLoadedMsg:
		if v.err != nil {
			m.setError(v.err)
			return m, nil
		}
		m.list.SetNotes(v.notes)
		return m, nil

	case watchStartedMsg:
		if v.err != nil {
			m.setError(v.err)
			return m, nil
		}
		m.watchCh = v.ch
		m.watchCancel = v.cancel
		return m, m.waitForWatch()

	case watchEventMsg:
		return m, m.handleWatchEvent(v.event)

	case watchStoppedMsg:
		m.watchCh = nil
		return m, nil

	case prompt.ChoiceMsg:
		return m.handleChoice(v.Choice)

	case tea.KeyPressMsg:
		return m.handleKey(v)
	}

	return m, nil
}

func (m *Model) handleWatchEvent(ev store.Event) tea.Cmd {
	if err := m.registry.Dispatch(m.ctx, ev); err != nil {
		m.setError(err)
	}
	if m.editor != nil {
		// A clean session may have been rebound by the dispatch; reflect
		// that in the widgets. Dirty sessions keep the user's draft and the
		// header shows the stale marker instead.
		m.editor.Resync()
	}
	return tea.Batch(m.loadNotes(), m.waitForWatch())
}

func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modePrompt:
		if m.modal != nil {
			return m, m.modal.Update(msg)
		}
		return m, nil
	case modeEdit:
		return m.handleEditKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m *Model) handleListKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.stopWatch()
		return m, tea.Quit
	case "enter":
		if n := m.list.Selected(); n != nil {
			m.openNote(n)
		}
		return m, nil
	case "n":
		m.openNote(note.New("", ""))
		return m, nil
	}
	return m, m.list.Update(msg)
}

func (m *Model) handleEditKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.requestAction(pendingClose)
	case "ctrl+c":
		return m.requestAction(pendingQuit)
	case "ctrl+n":
		return m.requestAction(pendingNew)
	case "ctrl+s":
		return m, m.saveEditor()
	case "ctrl+r":
		return m.requestRefresh()
	case "tab":
		if m.editor != nil {
			m.editor.FocusNext()
		}
		return m, nil
	}
	if m.editor != nil {
		return m, m.editor.Update(msg)
	}
	return m, nil
}

func (m *Model) openNote(n *note.Note) {
	s := m.registry.Open(n)
	m.editor = editor.New(s, m.theme)
	m.editor.SetSize(m.width, m.height-2)
	m.mode = modeEdit
	m.clearStatus()
}

func (m *Model) closeEditor() {
	if m.editor == nil {
		return
	}
	m.registry.Close(m.editor.Session())
	m.editor = nil
}

// requestAction runs a content-replacing action through the reconciliation
// policy: clean sessions proceed immediately, dirty sessions put up the
// Save/Discard/Cancel modal and the action waits for handleChoice.
func (m *Model) requestAction(p pendingAction) (tea.Model, tea.Cmd) {
	s := m.session()
	if s == nil || !s.Dirty() {
		return m.commit(p)
	}
	m.pending = p
	m.modal = prompt.New(s.Draft().Title, intentFor(p), m.theme)
	m.mode = modePrompt
	return m, nil
}

func (m *Model) requestRefresh() (tea.Model, tea.Cmd) {
	s := m.session()
	if s == nil || !s.Stale() {
		m.setStatus("nothing to refresh")
		return m, nil
	}
	if s.Dirty() {
		m.pending = pendingRefresh
		m.modal = prompt.New(s.Draft().Title, session.IntentReplace, m.theme)
		m.mode = modePrompt
		return m, nil
	}
	return m, m.refreshEditor()
}

func (m *Model) handleChoice(c session.Choice) (tea.Model, tea.Cmd) {
	s := m.session()
	m.modal = nil

	out, err := m.policy.Apply(m.ctx, s, c)
	if err != nil {
		m.mode = modeEdit
		m.setError(err)
		return m, nil
	}
	if !out.Allowed() {
		m.mode = modeEdit
		return m, nil
	}

	if m.pending == pendingRefresh {
		m.mode = modeEdit
		m.pending = pendingNone
		if out == session.ProceedDiscarding {
			return m, m.refreshEditor()
		}
		// The save already cleared dirty and stale; the store now holds
		// the user's version.
		m.editor.Resync()
		return m, m.loadNotes()
	}

	p := m.pending
	m.pending = pendingNone
	return m.commit(p)
}

func (m *Model) commit(p pendingAction) (tea.Model, tea.Cmd) {
	switch p {
	case pendingQuit:
		m.closeEditor()
		m.stopWatch()
		return m, tea.Quit
	case pendingClose:
		m.closeEditor()
		m.mode = modeList
		return m, m.loadNotes()
	case pendingNew:
		m.closeEditor()
		m.openNote(note.New("", ""))
		return m, nil
	default:
		m.mode = modeEdit
		return m, nil
	}
}

func (m *Model) saveEditor() tea.Cmd {
	s := m.session()
	if s == nil {
		return nil
	}
	if err := s.Save(m.ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrReadOnly):
			m.setStatus("note is read-only")
		case errors.Is(err, session.ErrSaveInFlight):
			m.setStatus("save already running")
		default:
			m.setError(err)
		}
		return nil
	}
	m.setStatus("saved")
	m.editor.Resync()
	return m.loadNotes()
}

func (m *Model) refreshEditor() tea.Cmd {
	s := m.session()
	if s == nil {
		return nil
	}
	if err := s.DiscardAndRefresh(m.ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The record vanished while we were editing. Keep the draft
			// and steer the user to the save-as-new flow.
			s.DetachAsNew()
			m.setStatus("note was deleted elsewhere; ctrl+s saves your draft as a new note")
			return nil
		}
		m.setError(err)
		return nil
	}
	m.editor.Resync()
	m.setStatus("refreshed")
	return m.loadNotes()
}

func (m *Model) session() *session.Session {
	if m.editor == nil {
		return nil
	}
	return m.editor.Session()
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return ""
	}

	var content string
	switch {
	case m.mode == modePrompt && m.modal != nil:
		content = lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, m.modal.View())
	case m.mode == modeEdit && m.editor != nil:
		content = m.editor.View()
	default:
		content = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.footer())
}

func (m *Model) footer() string {
	help := "enter open · n new · q quit"
	if m.mode == modeEdit {
		help = "ctrl+s save · ctrl+r refresh · tab focus · esc back"
		if s := m.session(); s != nil && s.ReadOnly() {
			help = "esc back"
		}
	}

	left := m.theme.Footer.Help.Render(help)
	if m.status == "" {
		return left
	}

	style := m.theme.Footer.Status
	if m.statusErr {
		style = m.theme.Footer.Error
	}
	status := style.Render(truncate.StringWithTail(m.status, uint(max(m.width-lipgloss.Width(left)-3, 8)), "…"))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", status)
}
