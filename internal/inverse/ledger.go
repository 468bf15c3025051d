package inverse

import (
	"errors"
	"slices"
	"sort"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// ErrEmptyTag is returned by ledger operations given an empty tag.
var ErrEmptyTag = errors.New("empty tag")

// Ledger maps tags to their recorded inverse sequences. At most one
// sequence is live per tag; writing a tag again replaces the previous
// sequence entirely (last-write-wins, no stacking).
//
// All operations are guarded by a single mutex so concurrent
// recordings for the same tag cannot lose updates and a consumed tag
// cannot be restored twice.
type Ledger struct {
	mu      sync.Mutex
	entries map[string]Sequence
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make(map[string]Sequence)}
}

// canonicalTag normalizes a tag to NFC so visually identical tags
// address the same ledger entry (CP-5).
func canonicalTag(tag string) string {
	return norm.NFC.String(tag)
}

// Put records a sequence under tag, replacing any previous entry.
// The sequence is stored opaquely; an empty sequence is valid and
// means restoring the tag is a no-op.
func (l *Ledger) Put(tag string, seq Sequence) error {
	if tag == "" {
		return ErrEmptyTag
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[canonicalTag(tag)] = slices.Clone(seq)
	return nil
}

// Get returns the sequence recorded under tag without consuming it.
func (l *Ledger) Get(tag string) (Sequence, bool, error) {
	if tag == "" {
		return nil, false, ErrEmptyTag
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	seq, ok := l.entries[canonicalTag(tag)]
	return slices.Clone(seq), ok, nil
}

// Has reports whether tag has a recorded sequence.
func (l *Ledger) Has(tag string) (bool, error) {
	if tag == "" {
		return false, ErrEmptyTag
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.entries[canonicalTag(tag)]
	return ok, nil
}

// Tags returns a sorted snapshot of all recorded tags.
func (l *Ledger) Tags() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	tags := make([]string, 0, len(l.entries))
	for tag := range l.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Remove drops the entry for tag, if any.
func (l *Ledger) Remove(tag string) error {
	if tag == "" {
		return ErrEmptyTag
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, canonicalTag(tag))
	return nil
}

// Take returns and removes the sequence recorded under tag in one
// atomic operation. A second Take for the same tag reports absent,
// which makes restoration at-most-once.
func (l *Ledger) Take(tag string) (Sequence, bool, error) {
	if tag == "" {
		return nil, false, ErrEmptyTag
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	key := canonicalTag(tag)
	seq, ok := l.entries[key]
	if ok {
		delete(l.entries, key)
	}
	return seq, ok, nil
}

// Len returns the number of recorded tags.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
