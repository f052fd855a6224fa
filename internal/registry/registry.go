// Package registry maps qualified function names to the test cases attached
// to them.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"thinline/internal/domain"
)

// ErrDuplicateCase is returned when a case ID is already registered for a
// different function
var ErrDuplicateCase = errors.New("duplicate test case id")

// Entry is an annotated function together with its test cases
type Entry struct {
	Function domain.Function
	Cases    []domain.TestCase
}

// Registry is safe for concurrent use
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	owners  map[string]string // case ID -> qualified function name
}

// New creates an empty Registry
func New() *Registry {
	return &Registry{
		entries: make(map[string]*Entry),
		owners:  make(map[string]string),
	}
}

// Register attaches cases to fn. Registering the same function again appends
// its cases. A case ID that is already registered, for this function or any
// other, is rejected and the remaining cases are still registered. A function
// is only listed once it owns a case
func (r *Registry) Register(fn domain.Function, cases ...domain.TestCase) error {
	name := fn.QualifiedName()

	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for _, tc := range cases {
		id := tc.ID()
		if owner, taken := r.owners[id]; taken {
			errs = append(errs, fmt.Errorf("%w: %s already attached to %s", ErrDuplicateCase, id, owner))
			continue
		}
		entry, ok := r.entries[name]
		if !ok {
			entry = &Entry{Function: fn}
			r.entries[name] = entry
		}
		r.owners[id] = name
		entry.Cases = append(entry.Cases, tc)
	}
	return errors.Join(errs...)
}

// Lookup returns the entry registered under a qualified name
func (r *Registry) Lookup(qualifiedName string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[qualifiedName]
	if !ok {
		return Entry{}, false
	}
	return copyEntry(entry), true
}

// Owner returns the qualified name of the function a case ID belongs to
func (r *Registry) Owner(caseID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owner, ok := r.owners[caseID]
	return owner, ok
}

// Entries returns all entries sorted by qualified name
func (r *Registry) Entries() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		entries = append(entries, copyEntry(r.entries[name]))
	}
	return entries
}

// Len returns the number of registered functions
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// CaseCount returns the number of registered test cases
func (r *Registry) CaseCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	total := 0
	for _, e := range r.entries {
		total += len(e.Cases)
	}
	return total
}

func copyEntry(e *Entry) Entry {
	cases := make([]domain.TestCase, len(e.Cases))
	copy(cases, e.Cases)
	return Entry{Function: e.Function, Cases: cases}
}
