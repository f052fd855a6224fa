package discovery

import (
	"path/filepath"
	"strings"

	"thinline/internal/registry"
)

// Filter filters source files and test cases by name pattern
type Filter struct{}

// NewFilter creates a new Filter
func NewFilter() *Filter {
	return &Filter{}
}

// FilterByName filters files by their base name using wildcard matching.
// Supports patterns like "*src1.py" or "*math*"
func (f *Filter) FilterByName(files []string, pattern string) []string {
	if pattern == "" {
		return files
	}

	var filtered []string
	for _, file := range files {
		if Match(pattern, filepath.Base(file)) {
			filtered = append(filtered, file)
		}
	}
	return filtered
}

// FilterEntries keeps the cases whose ID matches pattern. When the scoped
// function name matches, all its cases are kept. Entries left without cases
// are dropped
func (f *Filter) FilterEntries(entries []registry.Entry, pattern string) []registry.Entry {
	if pattern == "" {
		return entries
	}

	var filtered []registry.Entry
	for _, e := range entries {
		if Match(pattern, e.Function.ScopedName()) {
			filtered = append(filtered, e)
			continue
		}
		kept := registry.Entry{Function: e.Function}
		for _, tc := range e.Cases {
			if Match(pattern, tc.ID()) {
				kept.Cases = append(kept.Cases, tc)
			}
		}
		if len(kept.Cases) > 0 {
			filtered = append(filtered, kept)
		}
	}
	return filtered
}

// Match reports whether name matches pattern. Patterns with '*' or '?' are
// tried with filepath.Match first, then as ordered substrings split on '*'.
// Plain patterns match as substrings
func Match(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	if !strings.ContainsAny(pattern, "*?") {
		return strings.Contains(name, pattern)
	}
	if matched, err := filepath.Match(pattern, name); err == nil && matched {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}

	// Flexible match for patterns like "*math*" on names containing '/'
	rest := name
	nonEmpty := false
	for _, part := range strings.Split(pattern, "*") {
		if part == "" {
			continue
		}
		nonEmpty = true
		idx := strings.Index(rest, part)
		if idx < 0 {
			return false
		}
		rest = rest[idx+len(part):]
	}
	return nonEmpty
}
