package session

import (
	"context"
	"errors"

	"tableflip.dev/jot/pkg/note"
)

var (
	// ErrReadOnly is returned when an edit or save is attempted on a
	// system-managed or peek session.
	ErrReadOnly = errors.New("session: note is read only")

	// ErrSaveInFlight is returned when Save is called while a previous Save
	// on the same session has not finished.
	ErrSaveInFlight = errors.New("session: save already in flight")

	// ErrNotStale is returned by DiscardAndRefresh when no newer store
	// version has been reported for the bound note.
	ErrNotStale = errors.New("session: note is not stale")
)

// Store is the slice of the persistence contract a session needs: fetch the
// latest version of a record and submit a save that returns the canonical
// persisted form.
type Store interface {
	Get(ctx context.Context, id string) (*note.Note, error)
	Save(ctx context.Context, n *note.Note) (*note.Note, error)
}

// Draft holds the editable field buffers bound to a session. The buffers
// stand in for form fields: user input lands here first and is only copied
// into the working note when Save runs.
type Draft struct {
	Title string
	Body  string
	Tags  []string
}

// Session owns the mutable working state for one in-progress edit of one
// note. It tracks whether the user has unsaved edits (dirty) and whether the
// backing record changed externally while dirty (stale). Stale can only be
// set while dirty: a clean session applies external updates immediately.
//
// Sessions are not safe for concurrent use. Every transition must happen on
// the host's single event loop; store watch events arriving on other
// goroutines have to be marshalled onto that loop before they touch a
// session.
type Session struct {
	store Store

	working *note.Note
	draft   Draft

	dirty  bool
	stale  bool
	saving bool

	forcedReadOnly bool

	onDirty func()
	onRekey func(id string)
}

// Option configures a session at construction time.
type Option func(*Session)

// WithReadOnly forces the session read-only regardless of the note's tags,
// used for peek views of records the user must not edit.
func WithReadOnly() Option {
	return func(s *Session) {
		s.forcedReadOnly = true
	}
}

// WithDirtyHook registers a callback fired on the clean-to-dirty transition,
// once per edit burst, so hosts can refresh save affordances and title
// decoration.
func WithDirtyHook(fn func()) Option {
	return func(s *Session) {
		s.onDirty = fn
	}
}

// WithRekeyHook registers a callback fired when the first successful save
// assigns an identifier, so the host can re-key the session in its registry.
func WithRekeyHook(fn func(id string)) Option {
	return func(s *Session) {
		s.onRekey = fn
	}
}

// New creates a session bound to the given note. A nil note starts a fresh
// unsaved draft.
func New(store Store, n *note.Note, opts ...Option) *Session {
	s := &Session{store: store}
	for _, opt := range opts {
		opt(s)
	}
	s.Bind(n)
	return s
}

// Bind replaces the working copy with the given note (or an empty note if
// nil) and reloads the draft buffers. The dirty hook is deliberately not
// consulted while the buffers are populated: loading a record into the
// editor must never itself mark the session dirty. After Bind the session
// reflects exactly the given record with no pending edits.
func (s *Session) Bind(n *note.Note) {
	if n == nil {
		n = note.New("", "")
	}
	s.working = n.Clone()
	s.draft = Draft{
		Title: s.working.Title,
		Body:  s.working.Body,
		Tags:  append([]string(nil), s.working.Tags...),
	}
	s.dirty = false
	s.stale = false
}

// Dirty reports whether the session holds unsaved user edits.
func (s *Session) Dirty() bool { return s.dirty }

// Stale reports whether the backing record changed externally while dirty.
func (s *Session) Stale() bool { return s.stale }

// Saving reports whether a Save call is currently in flight.
func (s *Session) Saving() bool { return s.saving }

// ReadOnly reports whether edits and saves are rejected, either because the
// session was opened as a peek view or because the note carries a
// system-managed tag.
func (s *Session) ReadOnly() bool {
	return s.forcedReadOnly || s.working.SystemManaged()
}

// Note returns the working copy. Callers must treat it as read only; edits
// go through the draft setters.
func (s *Session) Note() *note.Note { return s.working }

// Draft returns a copy of the current draft buffers.
func (s *Session) Draft() Draft {
	d := s.draft
	d.Tags = append([]string(nil), s.draft.Tags...)
	return d
}

// SetTitle updates the title buffer and marks the session dirty.
func (s *Session) SetTitle(v string) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if v == s.draft.Title {
		return nil
	}
	s.draft.Title = v
	s.markDirty()
	return nil
}

// SetBody updates the body buffer and marks the session dirty.
func (s *Session) SetBody(v string) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if v == s.draft.Body {
		return nil
	}
	s.draft.Body = v
	s.markDirty()
	return nil
}

// SetTags replaces the tag buffer and marks the session dirty. Incoming tags
// are canonicalized first; the draft always holds the same sorted,
// deduplicated, lowercase set every other tag entry point produces.
func (s *Session) SetTags(tags []string) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	tags = note.NormalizeTags(tags)
	if equalTags(s.draft.Tags, tags) {
		return nil
	}
	s.draft.Tags = tags
	s.markDirty()
	return nil
}

// MarkDirty is the explicit dirty hook for hosts that bind their own
// widgets to the draft. Idempotent past the first call.
func (s *Session) MarkDirty() error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	s.markDirty()
	return nil
}

func (s *Session) markDirty() {
	if s.dirty {
		return
	}
	s.dirty = true
	if s.onDirty != nil {
		s.onDirty()
	}
}

// NotifyExternalUpdate is called when the store reports a change to the
// record this session has open. A clean session applies the update
// immediately; a dirty session keeps the user's draft and flips stale so no
// unsaved work is silently discarded.
func (s *Session) NotifyExternalUpdate(n *note.Note) {
	if n == nil || s.working.ID == "" || n.ID != s.working.ID {
		return
	}
	if !s.dirty {
		s.Bind(n)
		return
	}
	s.stale = true
}

// NotifyExternalDelete is called when the store reports the bound record was
// removed. It returns true when the session is clean and the host can drop
// it; a dirty session keeps the draft and flips stale so the user can decide
// between discarding and saving as new.
func (s *Session) NotifyExternalDelete() bool {
	if !s.dirty {
		return true
	}
	s.stale = true
	return false
}

// Save copies the draft buffers into the working copy, submits it, and
// rebinds the session to the canonical instance the store returns. When the
// store assigns the identifier (first save of a new note) the rekey hook
// fires so the host can move this session from its unsaved bucket to the
// identifier-keyed table. On store failure the session is left untouched and
// still dirty.
func (s *Session) Save(ctx context.Context) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if s.saving {
		return ErrSaveInFlight
	}
	s.saving = true
	defer func() { s.saving = false }()

	submit := s.working.Clone()
	submit.Title = s.draft.Title
	submit.Body = s.draft.Body
	submit.Tags = append([]string(nil), s.draft.Tags...)

	saved, err := s.store.Save(ctx, submit)
	if err != nil {
		return err
	}

	assigned := s.working.ID == "" && saved.ID != ""
	s.Bind(saved)
	if assigned && s.onRekey != nil {
		s.onRekey(saved.ID)
	}
	return nil
}

// DiscardAndRefresh abandons the draft and rebinds to the latest store
// version. Only usable while stale; hosts gate it behind the reconciliation
// policy when the session is dirty since it destroys uncommitted edits. If
// the record was deleted concurrently the store error is returned and the
// session keeps its prior state so the draft survives.
func (s *Session) DiscardAndRefresh(ctx context.Context) error {
	if !s.stale {
		return ErrNotStale
	}
	latest, err := s.store.Get(ctx, s.working.ID)
	if err != nil {
		return err
	}
	s.Bind(latest)
	return nil
}

// DetachAsNew clears the identifier so the next save runs the
// identifier-assignment flow. This is the recovery path after the backing
// record was deleted under a dirty session: the draft becomes a new note.
func (s *Session) DetachAsNew() {
	s.working = s.working.Clone()
	s.working.ID = ""
	s.stale = false
	s.markDirty()
}

func equalTags(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
