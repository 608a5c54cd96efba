package note

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTagsNormalizedAndSorted(t *testing.T) {
	n := New("groceries", "milk, eggs", "Home", "  errands ")
	if !n.HasTag("home") {
		t.Fatalf("expected normalized tag 'home', got %v", n.Tags)
	}
	n.AddTag("home")
	if len(n.Tags) != 2 {
		t.Fatalf("duplicate tag added: %v", n.Tags)
	}
	if n.Tags[0] != "errands" || n.Tags[1] != "home" {
		t.Fatalf("tags not sorted: %v", n.Tags)
	}
	n.RemoveTag("HOME")
	if n.HasTag("home") {
		t.Fatalf("tag not removed: %v", n.Tags)
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"Feed", "home", " HOME ", "", "errands"})
	want := []string{"errands", "feed", "home"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
	if NormalizeTags(nil) != nil {
		t.Fatal("nil in should stay nil")
	}
}

func TestPersisted(t *testing.T) {
	n := New("draft", "")
	if n.Persisted() {
		t.Fatal("fresh note should not be persisted")
	}
	n.ID = "9f2c41aa"
	if !n.Persisted() {
		t.Fatal("note with an id should be persisted")
	}
	if (*Note)(nil).Persisted() {
		t.Fatal("nil note should not be persisted")
	}
}

func TestSystemManaged(t *testing.T) {
	cases := []struct {
		tags []string
		want bool
	}{
		{nil, false},
		{[]string{"home"}, false},
		{[]string{TagFeed}, true},
		{[]string{"home", TagConfig}, true},
		{[]string{TagSystem}, true},
	}
	for _, tc := range cases {
		n := New("t", "b", tc.tags...)
		if got := n.SystemManaged(); got != tc.want {
			t.Fatalf("tags %v: SystemManaged() = %v, want %v", tc.tags, got, tc.want)
		}
	}
}

func TestCloneIsDeep(t *testing.T) {
	n := New("title", "body", "a")
	n.Meta = map[string]string{"source": "local"}
	cp := n.Clone()
	cp.AddTag("b")
	cp.Meta["source"] = "remote"
	if n.HasTag("b") {
		t.Fatalf("clone shares tag slice")
	}
	if n.Meta["source"] != "local" {
		t.Fatalf("clone shares metadata map")
	}
}

func TestTimestampRoundTrip(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	n := New("t", "b")
	n.Updated = Timestamp{Time: now}
	data, err := json.Marshal(n)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Note
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Updated.Equal(now) {
		t.Fatalf("timestamp mismatch: got %v want %v", back.Updated, now)
	}
}

func TestUnmarshalEmptyTimestamp(t *testing.T) {
	var back Note
	if err := json.Unmarshal([]byte(`{"title":"t","updated":""}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Updated.IsZero() {
		t.Fatalf("expected zero timestamp, got %v", back.Updated)
	}
}
