package shell

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/session"
	"tableflip.dev/jot/pkg/store"
)

type memoryStore struct {
	counter int
	notes   map[string]*note.Note
}

func newMemoryStore(notes ...*note.Note) *memoryStore {
	m := &memoryStore{notes: make(map[string]*note.Note)}
	for _, n := range notes {
		if n.ID == "" {
			m.counter++
			n.ID = fmt.Sprintf("n%d", m.counter)
		}
		m.notes[n.ID] = n.Clone()
	}
	return m
}

func (m *memoryStore) Get(_ context.Context, id string) (*note.Note, error) {
	if n, ok := m.notes[id]; ok {
		return n.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (m *memoryStore) Save(_ context.Context, n *note.Note) (*note.Note, error) {
	saved := n.Clone()
	if saved.ID == "" {
		m.counter++
		saved.ID = fmt.Sprintf("n%d", m.counter)
	}
	saved.Updated = note.Timestamp{Time: time.Now()}
	m.notes[saved.ID] = saved.Clone()
	return saved, nil
}

func TestOpenReturnsExistingSessionForSameID(t *testing.T) {
	ms := newMemoryStore(note.New("one", ""))
	r := NewRegistry(ms)

	n, err := ms.Get(context.Background(), "n1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	a := r.Open(n)
	b := r.Open(n)
	if a != b {
		t.Fatal("expected one session per identifier")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}
}

func TestUnsavedSessionRekeysOnFirstSave(t *testing.T) {
	ms := newMemoryStore()
	r := NewRegistry(ms)

	var rekeyedID string
	r.OnRekey = func(_ *session.Session, id string) { rekeyedID = id }

	s := r.Open(note.New("Untitled", ""))
	if r.Lookup("n1") != nil {
		t.Fatal("unsaved session must not be in the identifier table")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", r.Len())
	}

	if err := s.SetTitle("Hello"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	if err := s.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := r.Lookup("n1"); got != s {
		t.Fatal("expected session re-keyed under assigned identifier")
	}
	if rekeyedID != "n1" {
		t.Fatalf("expected OnRekey with n1, got %q", rekeyedID)
	}
	if r.Len() != 1 {
		t.Fatalf("re-key duplicated the session, len %d", r.Len())
	}
}

func TestCloseRemovesSession(t *testing.T) {
	ms := newMemoryStore(note.New("one", ""))
	r := NewRegistry(ms)

	n, _ := ms.Get(context.Background(), "n1")
	s := r.Open(n)
	r.Close(s)
	if r.Lookup("n1") != nil || r.Len() != 0 {
		t.Fatal("expected session removed")
	}

	unsaved := r.Open(note.New("draft", ""))
	r.Close(unsaved)
	if r.Len() != 0 {
		t.Fatal("expected unsaved session removed")
	}
}

func TestDispatchRoutesUpdateToMatchingSession(t *testing.T) {
	ms := newMemoryStore(note.New("v1", "body"))
	r := NewRegistry(ms)
	ctx := context.Background()

	n, _ := ms.Get(ctx, "n1")
	s := r.Open(n)

	v2 := n.Clone()
	v2.Title = "v2"
	if _, err := ms.Save(ctx, v2); err != nil {
		t.Fatalf("save v2: %v", err)
	}

	if err := r.Dispatch(ctx, store.Event{Kind: store.Updated, ID: "n1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if s.Note().Title != "v2" {
		t.Fatalf("clean session should follow the store, got %q", s.Note().Title)
	}
}

func TestDispatchUnknownIdentifierIgnored(t *testing.T) {
	r := NewRegistry(newMemoryStore())
	if err := r.Dispatch(context.Background(), store.Event{Kind: store.Updated, ID: "ghost"}); err != nil {
		t.Fatalf("expected unmatched event to be ignored, got %v", err)
	}
}

func TestDispatchDeleteClosesCleanSession(t *testing.T) {
	ms := newMemoryStore(note.New("v1", ""))
	r := NewRegistry(ms)
	ctx := context.Background()

	n, _ := ms.Get(ctx, "n1")
	r.Open(n)
	delete(ms.notes, "n1")

	if err := r.Dispatch(ctx, store.Event{Kind: store.Deleted, ID: "n1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if r.Lookup("n1") != nil {
		t.Fatal("clean session for a deleted record should be closed")
	}
}

func TestDispatchDeleteKeepsDirtySession(t *testing.T) {
	ms := newMemoryStore(note.New("v1", ""))
	r := NewRegistry(ms)
	ctx := context.Background()

	n, _ := ms.Get(ctx, "n1")
	s := r.Open(n)
	if err := s.SetTitle("my edit"); err != nil {
		t.Fatalf("set title: %v", err)
	}
	delete(ms.notes, "n1")

	if err := r.Dispatch(ctx, store.Event{Kind: store.Deleted, ID: "n1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if r.Lookup("n1") != s {
		t.Fatal("dirty session must survive an external delete")
	}
	if !s.Stale() {
		t.Fatal("expected dirty session marked stale")
	}
}

func TestDispatchUpdateMissingRecordTreatedAsDelete(t *testing.T) {
	ms := newMemoryStore(note.New("v1", ""))
	r := NewRegistry(ms)
	ctx := context.Background()

	n, _ := ms.Get(ctx, "n1")
	r.Open(n)
	delete(ms.notes, "n1")

	if err := r.Dispatch(ctx, store.Event{Kind: store.Updated, ID: "n1"}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if r.Lookup("n1") != nil {
		t.Fatal("vanished record should close the clean session")
	}
}
