package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"tableflip.dev/jot/pkg/note"
)

type testConfig struct {
	path string
}

func (t testConfig) BasePath() string {
	return t.path
}

func loadTestStore(t *testing.T) Persistence {
	t.Helper()
	p, err := Load(testConfig{path: t.TempDir()})
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	return p
}

func TestSaveAssignsIdentifierAndTimestamp(t *testing.T) {
	p := loadTestStore(t)
	ctx := context.Background()

	n := note.New("Untitled", "hello world")
	saved, err := p.Save(ctx, n)
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Fatal("expected identifier to be assigned on first save")
	}
	if n.ID != "" {
		t.Fatalf("save mutated its argument: %q", n.ID)
	}
	if saved.Updated.IsZero() {
		t.Fatal("expected updated timestamp to be stamped")
	}

	got, err := p.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Untitled" || got.Body != "hello world" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestSaveKeepsExistingIdentifier(t *testing.T) {
	p := loadTestStore(t)
	ctx := context.Background()

	saved, err := p.Save(ctx, note.New("first", ""))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	saved.Body = "second pass"
	again, err := p.Save(ctx, saved)
	if err != nil {
		t.Fatalf("second save: %v", err)
	}
	if again.ID != saved.ID {
		t.Fatalf("identifier changed across saves: %q != %q", again.ID, saved.ID)
	}
}

func TestGetMissing(t *testing.T) {
	p := loadTestStore(t)
	if _, err := p.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := p.Get(context.Background(), ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	p := loadTestStore(t)
	ctx := context.Background()

	saved, err := p.Save(ctx, note.New("doomed", ""))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := p.Delete(ctx, saved.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := p.Get(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := p.Delete(ctx, saved.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on double delete, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	p := loadTestStore(t)
	ctx := context.Background()

	first, err := p.Save(ctx, note.New("older", ""))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	time.Sleep(10 * time.Millisecond)
	second, err := p.Save(ctx, note.New("newer", ""))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	all := p.List(ctx)
	if len(all) != 2 {
		t.Fatalf("expected 2 notes, got %d", len(all))
	}
	if all[0].ID != second.ID || all[1].ID != first.ID {
		t.Fatalf("expected newest first, got [%s %s]", all[0].Title, all[1].Title)
	}
}

func TestTagged(t *testing.T) {
	p := loadTestStore(t)
	ctx := context.Background()

	if _, err := p.Save(ctx, note.New("plain", "")); err != nil {
		t.Fatalf("save: %v", err)
	}
	tagged, err := p.Save(ctx, note.New("from sync", "", note.TagFeed))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	got := p.Tagged(ctx, note.TagFeed)
	if len(got) != 1 || got[0].ID != tagged.ID {
		t.Fatalf("expected only the feed note, got %d notes", len(got))
	}
}
