package ack

// DefaultCapacity is the number of batch identifiers remembered.
const DefaultCapacity = 100

// Set is a bounded FIFO set of batch identifiers. When full, adding a new
// identifier evicts the oldest one.
//
// Set is not safe for concurrent use; the frame loop is its only writer.
type Set struct {
	ring     []string
	index    map[string]struct{}
	head     int // oldest entry
	count    int
	capacity int
}

// NewSet creates a Set holding at most capacity identifiers.
func NewSet(capacity int) *Set {
	if capacity < 1 {
		capacity = 1
	}
	return &Set{
		ring:     make([]string, capacity),
		index:    make(map[string]struct{}, capacity),
		capacity: capacity,
	}
}

// Contains reports whether id is in the set.
func (s *Set) Contains(id string) bool {
	_, ok := s.index[id]
	return ok
}

// Add inserts id. Adding an id already present leaves the set unchanged.
// If the set was full, the evicted identifier is returned with true.
func (s *Set) Add(id string) (evicted string, ok bool) {
	if _, exists := s.index[id]; exists {
		return "", false
	}

	if s.count == s.capacity {
		evicted = s.ring[s.head]
		delete(s.index, evicted)
		s.ring[s.head] = id
		s.head = (s.head + 1) % s.capacity
		s.index[id] = struct{}{}
		return evicted, true
	}

	tail := (s.head + s.count) % s.capacity
	s.ring[tail] = id
	s.count++
	s.index[id] = struct{}{}
	return "", false
}

// Len returns the number of identifiers held.
func (s *Set) Len() int {
	return s.count
}

// Cap returns the maximum number of identifiers held.
func (s *Set) Cap() int {
	return s.capacity
}

// Items returns the identifiers oldest first.
func (s *Set) Items() []string {
	out := make([]string, s.count)
	for i := 0; i < s.count; i++ {
		out[i] = s.ring[(s.head+i)%s.capacity]
	}
	return out
}
