// Package result holds the values produced by a link check: links, their
// statuses, and the ordered results collected per file and per run.
package result

import (
	"iter"
	"strings"
)

// Link is a candidate URL found in a file or listed for exclusion.
// Two links are equal iff their values are byte-equal; no normalization is applied.
type Link struct {
	value string
}

// NewLink wraps s as a Link. Validity is not checked.
func NewLink(s string) Link {
	return Link{value: s}
}

// String returns the link value verbatim.
func (l Link) String() string {
	return l.value
}

// Kind identifies a Status variant regardless of its reason.
type Kind int

const (
	// KindAlive means the probe returned a 2xx response.
	KindAlive Kind = iota
	// KindDead means the probe returned a non-2xx response.
	KindDead
	// KindWarn means the probe could not complete.
	KindWarn
	// KindCached means the link was already confirmed alive earlier in the run.
	KindCached
	// KindIgnored means the link is in the ignore list.
	KindIgnored
)

// String returns the lowercase kind name used by the JSON and CSV writers.
func (k Kind) String() string {
	switch k {
	case KindAlive:
		return "alive"
	case KindDead:
		return "dead"
	case KindWarn:
		return "warn"
	case KindCached:
		return "cached"
	case KindIgnored:
		return "ignored"
	default:
		return "unknown"
	}
}

// Tag returns the bracketed label printed in front of a link.
func (k Kind) Tag() string {
	switch k {
	case KindAlive:
		return "[OK]"
	case KindDead:
		return "[ERR]"
	case KindWarn:
		return "[WARN]"
	case KindCached:
		return "[CACHE]"
	case KindIgnored:
		return "[IGNORED]"
	default:
		return "[?]"
	}
}

// Status is the outcome of evaluating one link.
type Status struct {
	kind     Kind
	reason   string
	category ErrorCategory
}

// Alive reports a 2xx response.
func Alive() Status { return Status{kind: KindAlive} }

// Dead reports a non-2xx response; reason is the HTTP status text.
func Dead(reason string) Status { return Status{kind: KindDead, reason: reason} }

// Warn reports a probe that could not complete.
func Warn(reason string) Status { return Status{kind: KindWarn, reason: reason} }

// Cached reports a link skipped because it is already known to be alive.
func Cached() Status { return Status{kind: KindCached} }

// Ignored reports a link skipped because of the ignore list.
func Ignored() Status { return Status{kind: KindIgnored} }

// Kind returns the status variant.
func (s Status) Kind() Kind { return s.kind }

// Reason returns the associated reason, empty for variants without one.
func (s Status) Reason() string { return s.reason }

// Category returns the classified cause for Dead and Warn statuses.
func (s Status) Category() ErrorCategory { return s.category }

// WithCategory returns a copy of s carrying cat.
func (s Status) WithCategory(cat ErrorCategory) Status {
	s.category = cat
	return s
}

// SameKind reports whether s and other are the same variant, ignoring reasons.
func (s Status) SameKind(other Status) bool { return s.kind == other.kind }

// Entry is one (link, status) pair.
type Entry struct {
	Link   Link
	Status Status
}

// Results is an ordered record of link outcomes. keys[i] was classified as values[i].
type Results struct {
	keys   []Link
	values []Status
}

// New returns an empty Results.
func New() *Results {
	return &Results{}
}

// Insert appends a result.
func (r *Results) Insert(link Link, status Status) {
	r.keys = append(r.keys, link)
	r.values = append(r.values, status)
}

// Merge appends other's entries after r's and leaves other empty.
func (r *Results) Merge(other *Results) {
	if other == nil {
		return
	}
	r.keys = append(r.keys, other.keys...)
	r.values = append(r.values, other.values...)
	other.keys = nil
	other.values = nil
}

// Len returns the number of entries.
func (r *Results) Len() int {
	return len(r.keys)
}

// CountWith counts entries of the given kind. Reasons are not compared.
func (r *Results) CountWith(kind Kind) int {
	n := 0
	for _, s := range r.values {
		if s.kind == kind {
			n++
		}
	}
	return n
}

// All iterates over entries in insertion order.
func (r *Results) All() iter.Seq2[Link, Status] {
	return func(yield func(Link, Status) bool) {
		for i, link := range r.keys {
			if !yield(link, r.values[i]) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in insertion order.
func (r *Results) Entries() []Entry {
	entries := make([]Entry, 0, len(r.keys))
	for link, status := range r.All() {
		entries = append(entries, Entry{Link: link, Status: status})
	}
	return entries
}

// String renders one line per entry, each prefixed by a newline and a tab:
// the kind tag, the link, then the reason when there is one.
func (r *Results) String() string {
	var b strings.Builder
	for link, status := range r.All() {
		b.WriteString("\n\t")
		b.WriteString(status.kind.Tag())
		b.WriteString(" ")
		b.WriteString(link.value)
		if status.reason != "" {
			b.WriteString(" ")
			b.WriteString(status.reason)
		}
	}
	return b.String()
}
