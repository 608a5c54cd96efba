package note

import (
	"sort"
	"strings"
)

// New builds an unsaved note. The ID stays empty until the store accepts the
// note for the first time and assigns one.
func New(title, body string, tags ...string) *Note {
	n := &Note{
		Title: title,
		Body:  body,
	}
	for _, t := range tags {
		n.AddTag(t)
	}
	return n
}

type Note struct {
	ID      string            `json:"id,omitempty"`
	Title   string            `json:"title,omitempty"`
	Body    string            `json:"body,omitempty"`
	Tags    []string          `json:"tags,omitempty"`
	Updated Timestamp         `json:"updated,omitempty"`
	Meta    map[string]string `json:"meta,omitempty"`
}

// Persisted reports whether the note has been through a first save.
func (n *Note) Persisted() bool {
	return n != nil && n.ID != ""
}

func (n *Note) HasTag(tag string) bool {
	if n == nil {
		return false
	}
	tag = NormalizeTag(tag)
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag inserts the tag if missing, keeping the tag set sorted.
func (n *Note) AddTag(tag string) {
	tag = NormalizeTag(tag)
	if tag == "" || n.HasTag(tag) {
		return
	}
	n.Tags = append(n.Tags, tag)
	sort.Strings(n.Tags)
}

func (n *Note) RemoveTag(tag string) {
	tag = NormalizeTag(tag)
	for i, t := range n.Tags {
		if t == tag {
			n.Tags = append(n.Tags[:i], n.Tags[i+1:]...)
			return
		}
	}
}

// Clone returns a deep copy so callers can hand out notes without sharing
// the tag slice or metadata map.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	cp := *n
	if n.Tags != nil {
		cp.Tags = append([]string(nil), n.Tags...)
	}
	if n.Meta != nil {
		cp.Meta = make(map[string]string, len(n.Meta))
		for k, v := range n.Meta {
			cp.Meta[k] = v
		}
	}
	return &cp
}

// NormalizeTag folds a tag to its canonical lowercase, trimmed form.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTags canonicalizes a tag list into the sorted, deduplicated set
// form every other tag entry point produces. Empty tags are dropped.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = NormalizeTag(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// System-managed classifications. Notes carrying any of these tags are
// produced and maintained by subsystems other than the editor (feed sync,
// configuration records, generated event records) and must not be edited by
// hand.
const (
	TagFeed   = "feed"
	TagConfig = "config"
	TagSystem = "system"
)

var systemTags = []string{TagFeed, TagConfig, TagSystem}

// SystemManaged reports whether the note belongs to a subsystem that owns its
// content, which freezes it in the editor.
func (n *Note) SystemManaged() bool {
	for _, t := range systemTags {
		if n.HasTag(t) {
			return true
		}
	}
	return false
}
