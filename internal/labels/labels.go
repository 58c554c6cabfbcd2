// Package labels implements an ordered, duplicate-free set of visual-state
// labels attached to a row, with class-list style semantics.
package labels

import "strings"

// Parse splits a whitespace-separated label list. Duplicates are dropped and
// the first occurrence keeps its position.
func Parse(s string) []string {
	fields := strings.Fields(s)
	out := make([]string, 0, len(fields))
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Set is an ordered label set. The zero value is empty and ready to use.
type Set struct {
	names []string
}

// NewSet returns a set holding names in order.
func NewSet(names ...string) *Set {
	s := &Set{}
	s.Add(names...)
	return s
}

func (s *Set) index(name string) int {
	for i, n := range s.names {
		if n == name {
			return i
		}
	}
	return -1
}

// Has reports whether name is present.
func (s *Set) Has(name string) bool {
	if s == nil {
		return false
	}
	return s.index(name) >= 0
}

// HasAll reports whether every name is present. An empty list is trivially held.
func (s *Set) HasAll(names ...string) bool {
	for _, n := range names {
		if !s.Has(n) {
			return false
		}
	}
	return true
}

// Add appends names not already present. Blank names are ignored.
func (s *Set) Add(names ...string) {
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || s.index(n) >= 0 {
			continue
		}
		s.names = append(s.names, n)
	}
}

// Remove deletes names. Absent names are ignored.
func (s *Set) Remove(names ...string) {
	for _, n := range names {
		if i := s.index(strings.TrimSpace(n)); i >= 0 {
			s.names = append(s.names[:i], s.names[i+1:]...)
		}
	}
}

// Toggle flips name and reports whether it is present afterwards.
func (s *Set) Toggle(name string) bool {
	if s.Has(name) {
		s.Remove(name)
		return false
	}
	s.Add(name)
	return s.Has(name)
}

// Apply adds names when on is true and removes them otherwise.
func (s *Set) Apply(on bool, names ...string) {
	if on {
		s.Add(names...)
		return
	}
	s.Remove(names...)
}

// Names returns a copy of the labels in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

func (s *Set) String() string {
	if s == nil {
		return ""
	}
	return strings.Join(s.names, " ")
}
