package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/jot/pkg/note"
)

// ErrNotFound is returned by Get when no note exists for the identifier.
var ErrNotFound = errors.New("store: note not found")

// Persistence defines the persistence contract for notes. Save returns the
// canonical persisted form: the store assigns the identifier on first save
// and stamps the updated timestamp, so callers must rebind to the returned
// instance rather than keep using the one they passed in.
type Persistence interface {
	Get(ctx context.Context, id string) (*note.Note, error)
	Save(ctx context.Context, n *note.Note) (*note.Note, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) []*note.Note
	Tagged(ctx context.Context, tag string) []*note.Note
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv using the provided config.
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		var err error
		cfg, err = LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	basePath := cfg.BasePath()
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*note.Note, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	n := &note.Note{}
	if err := json.Unmarshal(val, n); err != nil {
		return nil, err
	}
	n.ID = key
	return n, nil
}

func (p *persistence) Get(_ context.Context, id string) (*note.Note, error) {
	if id == "" || !p.d.Has(id) {
		return nil, ErrNotFound
	}
	n, err := p.read(id)
	if err != nil {
		return nil, fmt.Errorf("store: read %s: %w", id, err)
	}
	return n, nil
}

func (p *persistence) Save(_ context.Context, n *note.Note) (*note.Note, error) {
	if n == nil {
		return nil, errors.New("store: nil note")
	}
	saved := n.Clone()
	if saved.ID == "" {
		saved.ID = uuid.NewString()
	}
	saved.Updated = note.Timestamp{Time: time.Now()}
	data, err := json.Marshal(saved)
	if err != nil {
		return nil, err
	}
	if err := p.d.Write(saved.ID, data); err != nil {
		return nil, fmt.Errorf("store: write %s: %w", saved.ID, err)
	}
	return saved, nil
}

func (p *persistence) Delete(_ context.Context, id string) error {
	if id == "" || !p.d.Has(id) {
		return ErrNotFound
	}
	return p.d.Erase(id)
}

func (p *persistence) List(ctx context.Context) []*note.Note {
	all := make([]*note.Note, 0)
	for key := range p.d.Keys(ctx.Done()) {
		n, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		all = append(all, n)
	}
	sortNotes(all)
	return all
}

func (p *persistence) Tagged(ctx context.Context, tag string) []*note.Note {
	all := make([]*note.Note, 0)
	for key := range p.d.Keys(ctx.Done()) {
		n, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %s\n", key, err)
			continue
		}
		if n.HasTag(tag) {
			all = append(all, n)
		}
	}
	sortNotes(all)
	return all
}

// sortNotes orders most recently updated first, identifier as tiebreak.
func sortNotes(notes []*note.Note) {
	sort.SliceStable(notes, func(i, j int) bool {
		left := notes[i]
		right := notes[j]
		if left == nil || right == nil {
			return left != nil
		}
		lt := left.Updated.Time
		rt := right.Updated.Time
		switch {
		case lt.IsZero() && rt.IsZero():
			return left.ID < right.ID
		case lt.IsZero():
			return false
		case rt.IsZero():
			return true
		default:
			if lt.Equal(rt) {
				return left.ID < right.ID
			}
			return lt.After(rt)
		}
	})
}

// keyToPathTransform shards notes by the first two characters of the
// identifier so one directory does not accumulate every file.
func keyToPathTransform(s string) *diskv.PathKey {
	shard := s
	if len(shard) > 2 {
		shard = shard[:2]
	}
	return &diskv.PathKey{
		Path:     []string{shard},
		FileName: s,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}
