package interp

import "sort"

// Store holds the variable cells of one program run. There is no scoping:
// every name maps to exactly one cell for the whole run.
type Store struct {
	cells map[string]int
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{cells: make(map[string]int)}
}

// Get returns the value of name, creating the cell with 0 if it is new.
func (s *Store) Get(name string) int {
	v, ok := s.cells[name]
	if !ok {
		s.cells[name] = 0
	}
	return v
}

// Set writes value into the cell for name.
func (s *Store) Set(name string, value int) {
	s.cells[name] = value
}

// Declare creates cells for names that do not exist yet.
func (s *Store) Declare(names ...string) {
	for _, name := range names {
		s.Get(name)
	}
}

// Has reports whether a cell exists for name.
func (s *Store) Has(name string) bool {
	_, ok := s.cells[name]
	return ok
}

// Names returns the cell names in sorted order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.cells))
	for name := range s.cells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a copy of all cells.
func (s *Store) Snapshot() map[string]int {
	out := make(map[string]int, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}
