// Package shell owns the table of open editor sessions for a host surface:
// at most one session per note identifier, a side bucket for sessions whose
// notes have not been saved yet, and the routing of store change events to
// the matching session.
package shell

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/store"
)

// Handle identifies a not-yet-persisted session until its first save assigns
// a note identifier and the registry re-keys it.
type Handle int

// Registry indexes open sessions by note identifier. Sessions for unsaved
// notes live in a side table keyed by Handle; on the first successful save
// the registry moves the session under its new identifier in the same
// locked step the rekey hook fires in.
type Registry struct {
	st session.Store

	// OnRekey, when set, is invoked after a session moves from the unsaved
	// bucket to the identifier table, so the host can update surface
	// bookkeeping of its own.
	OnRekey func(s *session.Session, id string)

	mu      sync.Mutex
	byID    map[string]*session.Session
	unsaved map[Handle]*session.Session
	handles map[*session.Session]Handle
	next    Handle
}

func NewRegistry(st session.Store) *Registry {
	return &Registry{
		st:      st,
		byID:    make(map[string]*session.Session),
		unsaved: make(map[Handle]*session.Session),
		handles: make(map[*session.Session]Handle),
	}
}

// Open returns the session editing the given note, creating one if needed.
// For a persisted note an already-open session is returned as is, so a
// surface never ends up with two working copies of the same record. The
// registry owns the session's rekey hook; callers must not pass
// session.WithRekeyHook.
func (r *Registry) Open(n *note.Note, opts ...session.Option) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n != nil && n.ID != "" {
		if s, ok := r.byID[n.ID]; ok {
			return s
		}
	}

	var s *session.Session
	r.next++
	h := r.next
	opts = append(opts, session.WithRekeyHook(func(id string) {
		r.rekey(h, id)
	}))
	s = session.New(r.st, n, opts...)

	if s.Note().Persisted() {
		r.byID[s.Note().ID] = s
	} else {
		r.unsaved[h] = s
	}
	r.handles[s] = h
	return s
}

// rekey moves an unsaved session under its freshly assigned identifier. The
// whole move happens under one lock acquisition so no reader ever observes
// the session in both tables or in neither.
func (r *Registry) rekey(h Handle, id string) {
	r.mu.Lock()
	s, ok := r.unsaved[h]
	if ok {
		delete(r.unsaved, h)
		r.byID[id] = s
	}
	r.mu.Unlock()

	if ok && r.OnRekey != nil {
		r.OnRekey(s, id)
	}
}

// Lookup returns the open session for the identifier, or nil.
func (r *Registry) Lookup(id string) *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

// Sessions returns every open session, persisted or not.
func (r *Registry) Sessions() []*session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*session.Session, 0, len(r.byID)+len(r.unsaved))
	for _, s := range r.byID {
		out = append(out, s)
	}
	for _, s := range r.unsaved {
		out = append(out, s)
	}
	return out
}

// Len reports the number of open sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID) + len(r.unsaved)
}

// Close removes the session from the registry. Callers are expected to have
// cleared the close with the reconciliation policy first; the registry does
// not second-guess them.
func (r *Registry) Close(s *session.Session) {
	if s == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if id := s.Note().ID; id != "" && r.byID[id] == s {
		delete(r.byID, id)
	}
	if h, ok := r.handles[s]; ok {
		delete(r.unsaved, h)
		delete(r.handles, s)
	}
}

// Dispatch routes a store change event to the matching open session. Events
// for identifiers with no open session are ignored. Updated and Added events
// fetch the current record so the session sees the latest content; a fetch
// miss means the record vanished between the notification and the read, and
// is treated as a delete.
//
// Dispatch must be called from the host's event loop, the same loop every
// other session transition runs on.
func (r *Registry) Dispatch(ctx context.Context, evt store.Event) error {
	s := r.Lookup(evt.ID)
	if s == nil {
		return nil
	}

	switch evt.Kind {
	case store.Added, store.Updated:
		latest, err := r.st.Get(ctx, evt.ID)
		if errors.Is(err, store.ErrNotFound) {
			r.dispatchDelete(s)
			return nil
		}
		if err != nil {
			return fmt.Errorf("shell: fetch %s: %w", evt.ID, err)
		}
		s.NotifyExternalUpdate(latest)
		return nil
	case store.Deleted:
		r.dispatchDelete(s)
		return nil
	default:
		return fmt.Errorf("shell: unknown event kind %v", evt.Kind)
	}
}

func (r *Registry) dispatchDelete(s *session.Session) {
	if s.NotifyExternalDelete() {
		// Clean session for a gone record: nothing worth keeping.
		r.Close(s)
	}
}
