package chat

import "slices"

// ReaderSet is the set of users who have seen a message. It only grows.
type ReaderSet struct {
	ids map[int64]struct{}
}

// NewReaderSet builds a set from ids; duplicates collapse.
func NewReaderSet(ids ...int64) ReaderSet {
	s := ReaderSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Add inserts id and reports whether it was new.
func (s *ReaderSet) Add(id int64) bool {
	if s.ids == nil {
		s.ids = make(map[int64]struct{})
	}
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s ReaderSet) Has(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

func (s ReaderSet) Len() int { return len(s.ids) }

// List returns the members in ascending order. It never returns nil.
func (s ReaderSet) List() []int64 {
	out := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}
