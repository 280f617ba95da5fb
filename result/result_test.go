package result

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	res := New()

	if len(res.keys) != 0 || len(res.values) != 0 {
		t.Errorf("expected empty results, got %d keys and %d values", len(res.keys), len(res.values))
	}
}

func TestInsert(t *testing.T) {
	res := New()
	link := NewLink("https://example.com")

	res.Insert(link, Alive())

	if len(res.keys) != 1 || len(res.values) != 1 {
		t.Fatalf("expected 1 key and 1 value, got %d and %d", len(res.keys), len(res.values))
	}
	if res.keys[0] != link {
		t.Errorf("keys[0] = %v, want %v", res.keys[0], link)
	}
	if res.values[0].Kind() != KindAlive {
		t.Errorf("values[0] kind = %v, want %v", res.values[0].Kind(), KindAlive)
	}
}

func TestLinkEquality(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want bool
	}{
		{"identical", "https://example.com/a", "https://example.com/a", true},
		{"trailing slash differs", "https://example.com/a", "https://example.com/a/", false},
		{"case differs", "https://Example.com", "https://example.com", false},
		{"scheme differs", "http://example.com", "https://example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewLink(tt.a) == NewLink(tt.b); got != tt.want {
				t.Errorf("NewLink(%q) == NewLink(%q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	first := New()
	second := New()

	link := NewLink("https://example.com")
	link2 := NewLink("https://example.com/2")

	first.Insert(link, Alive())
	second.Insert(link2, Ignored())

	first.Merge(second)

	if first.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", first.Len())
	}
	if len(first.keys) != len(first.values) {
		t.Errorf("keys and values misaligned: %d vs %d", len(first.keys), len(first.values))
	}
	if first.keys[1] != link2 || first.values[1].Kind() != KindIgnored {
		t.Errorf("merged entry = (%v, %v), want (%v, ignored)", first.keys[1], first.values[1].Kind(), link2)
	}
	if second.Len() != 0 {
		t.Errorf("merged-from results should be empty, got %d entries", second.Len())
	}
}

func TestMergeOrder(t *testing.T) {
	build := func(prefix string, n int) *Results {
		res := New()
		for i := range n {
			res.Insert(NewLink(prefix+string(rune('a'+i))), Alive())
		}
		return res
	}

	a, b, c := build("https://a.example/", 2), build("https://b.example/", 3), build("https://c.example/", 1)
	want := append(append(a.Entries(), b.Entries()...), c.Entries()...)

	a.Merge(b)
	a.Merge(c)

	got := a.Entries()
	if len(got) != 6 {
		t.Fatalf("Len() after merge = %d, want 6", len(got))
	}
	for i := range want {
		if got[i].Link != want[i].Link {
			t.Errorf("entry %d = %v, want %v", i, got[i].Link, want[i].Link)
		}
	}
}

func TestMergeNil(t *testing.T) {
	res := New()
	res.Insert(NewLink("https://example.com"), Alive())

	res.Merge(nil)

	if res.Len() != 1 {
		t.Errorf("Len() = %d, want 1", res.Len())
	}
}

func TestCountWith(t *testing.T) {
	res := New()
	link := NewLink("https://example.com")

	res.Insert(link, Alive())

	if got := res.CountWith(KindAlive); got != 1 {
		t.Errorf("CountWith(alive) = %d, want 1", got)
	}
	if got := res.CountWith(KindIgnored); got != 0 {
		t.Errorf("CountWith(ignored) = %d, want 0", got)
	}
}

// Reasons must not matter when counting.
func TestCountWithIgnoresReason(t *testing.T) {
	res := New()
	res.Insert(NewLink("https://example.com/a"), Warn("Too many redirections"))
	res.Insert(NewLink("https://example.com/b"), Warn("something else"))
	res.Insert(NewLink("https://example.com/c"), Dead("404 Not Found"))
	res.Insert(NewLink("https://example.com/d"), Dead("500 Internal Server Error"))
	res.Insert(NewLink("https://example.com/e"), Cached())

	if got := res.CountWith(Warn("").Kind()); got != 2 {
		t.Errorf("CountWith(Warn(\"\")) = %d, want 2", got)
	}
	if got := res.CountWith(Dead("").Kind()); got != 2 {
		t.Errorf("CountWith(Dead(\"\")) = %d, want 2", got)
	}
}

func TestStatusSameKind(t *testing.T) {
	if !Dead("404 Not Found").SameKind(Dead("")) {
		t.Error("Dead statuses with different reasons should share a kind")
	}
	if Dead("x").SameKind(Warn("x")) {
		t.Error("Dead and Warn must not share a kind")
	}
}

func TestStatusWithCategory(t *testing.T) {
	s := Warn("Too many redirections")
	withCat := s.WithCategory(CategoryDNSFailure)

	if s.Category() != CategoryNone {
		t.Errorf("original status was modified: %v", s.Category())
	}
	if withCat.Category() != CategoryDNSFailure || withCat.Reason() != "Too many redirections" {
		t.Errorf("WithCategory() = (%q, %v)", withCat.Reason(), withCat.Category())
	}
}

func TestResultsString(t *testing.T) {
	res := New()
	res.Insert(NewLink("https://example.com/ok"), Alive())
	res.Insert(NewLink("https://example.com/gone"), Dead("404 Not Found"))
	res.Insert(NewLink("https://example.com/loop"), Warn("Too many redirections"))
	res.Insert(NewLink("https://example.com/ok"), Cached())
	res.Insert(NewLink("https://skip.example"), Ignored())

	want := "\n\t[OK] https://example.com/ok" +
		"\n\t[ERR] https://example.com/gone 404 Not Found" +
		"\n\t[WARN] https://example.com/loop Too many redirections" +
		"\n\t[CACHE] https://example.com/ok" +
		"\n\t[IGNORED] https://skip.example"

	if got := res.String(); got != want {
		t.Errorf("String() =\n%q\nwant\n%q", got, want)
	}
}

func TestAllStopsEarly(t *testing.T) {
	res := New()
	for _, s := range []string{"a", "b", "c"} {
		res.Insert(NewLink("https://example.com/"+s), Alive())
	}

	var seen []string
	for link := range res.All() {
		seen = append(seen, link.String())
		if len(seen) == 2 {
			break
		}
	}

	if strings.Join(seen, ",") != "https://example.com/a,https://example.com/b" {
		t.Errorf("unexpected iteration: %v", seen)
	}
}
