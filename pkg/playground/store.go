package playground

import (
	"sync"

	"github.com/goliatone/go-formgen-playground/pkg/formdata"
)

// Change describes one visible ReplayStore update. Submission is nil when the
// entry was reset.
type Change struct {
	Form       string
	Submission *EchoedSubmission
	Revision   uint64
}

// Observer is notified after every visible change, outside the store lock.
type Observer func(Change)

// ReplayStore maps form identifiers to the most recent echoed submission.
// There is at most one entry per form.
type ReplayStore struct {
	mu        sync.RWMutex
	entries   map[string]EchoedSubmission
	revision  uint64
	observers []Observer
}

// NewReplayStore returns a store seeded with the given submissions. Seeds
// without a form identifier are ignored; seeding does not bump the revision.
func NewReplayStore(seed ...EchoedSubmission) *ReplayStore {
	s := &ReplayStore{entries: make(map[string]EchoedSubmission, len(seed))}
	for _, sub := range seed {
		if !sub.HasForm {
			continue
		}
		sub.Entries = sub.Entries.Clone()
		s.entries[sub.Form] = sub
	}
	return s
}

// Observe registers fn for future changes.
func (s *ReplayStore) Observe(fn Observer) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

// Apply stores a copy of sub as the latest submission for its form. It
// returns false without touching the store when sub has no form or when the
// stored entry already is sub (same ID).
func (s *ReplayStore) Apply(sub EchoedSubmission) bool {
	if !sub.HasForm {
		return false
	}
	sub.Entries = sub.Entries.Clone()

	s.mu.Lock()
	if current, ok := s.entries[sub.Form]; ok && current.ID == sub.ID {
		s.mu.Unlock()
		return false
	}
	s.entries[sub.Form] = sub
	s.revision++
	published := sub
	published.Entries = sub.Entries.Clone()
	change := Change{Form: sub.Form, Submission: &published, Revision: s.revision}
	observers := s.observers
	s.mu.Unlock()

	notify(observers, change)
	return true
}

// Reset clears the entry for form. Other forms are untouched. It returns
// whether an entry was removed.
func (s *ReplayStore) Reset(form string) bool {
	s.mu.Lock()
	if _, ok := s.entries[form]; !ok {
		s.mu.Unlock()
		return false
	}
	delete(s.entries, form)
	s.revision++
	change := Change{Form: form, Revision: s.revision}
	observers := s.observers
	s.mu.Unlock()

	notify(observers, change)
	return true
}

// Lookup returns a copy of the stored submission for form.
func (s *ReplayStore) Lookup(form string) (EchoedSubmission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.entries[form]
	if !ok {
		return EchoedSubmission{}, false
	}
	sub.Entries = sub.Entries.Clone()
	return sub, true
}

// Entries returns the stored fields for form.
func (s *ReplayStore) Entries(form string) (formdata.Entries, bool) {
	sub, ok := s.Lookup(form)
	return sub.Entries, ok
}

// Revision counts visible changes since the store was created.
func (s *ReplayStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Snapshot returns a copy of every stored entry keyed by form.
func (s *ReplayStore) Snapshot() map[string]EchoedSubmission {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]EchoedSubmission, len(s.entries))
	for form, sub := range s.entries {
		sub.Entries = sub.Entries.Clone()
		out[form] = sub
	}
	return out
}

// Len returns the number of stored forms.
func (s *ReplayStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func notify(observers []Observer, change Change) {
	for _, fn := range observers {
		fn(change)
	}
}
