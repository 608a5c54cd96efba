package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"tableflip.dev/jot/pkg/note"
	"tableflip.dev/jot/pkg/store"
)

type memoryPersistence struct {
	mu      sync.Mutex
	counter int
	notes   map[string]*note.Note
}

func newMemoryPersistence(notes ...*note.Note) *memoryPersistence {
	mp := &memoryPersistence{notes: make(map[string]*note.Note)}
	for _, n := range notes {
		if n == nil {
			continue
		}
		if n.ID == "" {
			n.ID = mp.newID()
		}
		mp.notes[n.ID] = n.Clone()
	}
	return mp
}

func (m *memoryPersistence) newID() string {
	m.counter++
	return fmt.Sprintf("id-%d", m.counter)
}

func (m *memoryPersistence) Get(_ context.Context, id string) (*note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n, ok := m.notes[id]; ok {
		return n.Clone(), nil
	}
	return nil, store.ErrNotFound
}

func (m *memoryPersistence) Save(_ context.Context, n *note.Note) (*note.Note, error) {
	if n == nil {
		return nil, errors.New("nil note")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := n.Clone()
	if saved.ID == "" {
		saved.ID = m.newID()
	}
	saved.Updated = note.Timestamp{Time: time.Now()}
	m.notes[saved.ID] = saved.Clone()
	return saved, nil
}

func (m *memoryPersistence) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.notes[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *memoryPersistence) List(_ context.Context) []*note.Note {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*note.Note, 0, len(m.notes))
	for _, n := range m.notes {
		out = append(out, n.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryPersistence) Tagged(ctx context.Context, tag string) []*note.Note {
	var out []*note.Note
	for _, n := range m.List(ctx) {
		if n.HasTag(tag) {
			out = append(out, n)
		}
	}
	return out
}

func (m *memoryPersistence) Watch(context.Context) (<-chan store.Event, error) {
	ch := make(chan store.Event)
	close(ch)
	return ch, nil
}

func TestServiceRequiresPersistence(t *testing.T) {
	s := &Service{}
	ctx := context.Background()
	if _, err := s.Notes(ctx); err == nil {
		t.Fatal("expected error without persistence")
	}
	if _, err := s.Create(ctx, "t", "b"); err == nil {
		t.Fatal("expected error without persistence")
	}
	if err := s.Delete(ctx, "x"); err == nil {
		t.Fatal("expected error without persistence")
	}
}

func TestCreateAndGet(t *testing.T) {
	s := &Service{Persistence: newMemoryPersistence()}
	ctx := context.Background()

	created, err := s.Create(ctx, "groceries", "milk", "home")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected identifier assigned")
	}

	got, err := s.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "groceries" || !got.HasTag("home") {
		t.Fatalf("unexpected note %+v", got)
	}
}

func TestDeleteRefusesSystemManaged(t *testing.T) {
	mp := newMemoryPersistence(note.New("synced", "", note.TagFeed))
	s := &Service{Persistence: mp}
	ctx := context.Background()

	err := s.Delete(ctx, "id-1")
	if !errors.Is(err, ErrImmutable) {
		t.Fatalf("expected ErrImmutable, got %v", err)
	}
	if _, err := s.Get(ctx, "id-1"); err != nil {
		t.Fatalf("note should still exist: %v", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	s := &Service{Persistence: newMemoryPersistence()}
	if err := s.Delete(context.Background(), "ghost"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTagged(t *testing.T) {
	mp := newMemoryPersistence(
		note.New("a", "", "work"),
		note.New("b", ""),
		note.New("c", "", "work", "urgent"),
	)
	s := &Service{Persistence: mp}

	got, err := s.Tagged(context.Background(), "work")
	if err != nil {
		t.Fatalf("tagged: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 work notes, got %d", len(got))
	}
}
