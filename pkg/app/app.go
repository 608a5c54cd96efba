package app

import (
	"context"
	"errors"

	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/store"
)

// Service provides high-level operations over the note store so the CLI and
// the TUI share one code path. It satisfies session.Store, so editor
// sessions can be constructed directly against it.
type Service struct {
	Persistence store.Persistence
}

// ErrImmutable is returned for direct mutations of system-managed notes.
var ErrImmutable = errors.New("app: note is system managed")

// Notes lists every note, most recently updated first.
func (s *Service) Notes(ctx context.Context) ([]*note.Note, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.List(ctx), nil
}

// Tagged lists notes carrying the given tag.
func (s *Service) Tagged(ctx context.Context, tag string) ([]*note.Note, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Tagged(ctx, tag), nil
}

// Get fetches one note by identifier.
func (s *Service) Get(ctx context.Context, id string) (*note.Note, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Get(ctx, id)
}

// Save submits a note and returns the canonical persisted form.
func (s *Service) Save(ctx context.Context, n *note.Note) (*note.Note, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Save(ctx, n)
}

// Create stores a new note and returns it with its assigned identifier.
func (s *Service) Create(ctx context.Context, title, body string, tags ...string) (*note.Note, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Save(ctx, note.New(title, body, tags...))
}

// Delete removes the note with the given identifier. System-managed notes
// are refused; their owning subsystem removes them.
func (s *Service) Delete(ctx context.Context, id string) error {
	if s.Persistence == nil {
		return errors.New("app: no persistence configured")
	}
	n, err := s.Persistence.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := ensureMutable(n); err != nil {
		return err
	}
	return s.Persistence.Delete(ctx, id)
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errors.New("app: no persistence configured")
	}
	return s.Persistence.Watch(ctx)
}

func ensureMutable(n *note.Note) error {
	if n.SystemManaged() {
		return ErrImmutable
	}
	return nil
}
