package util

// OrderedStringSet is a string set that remembers first-insertion order.
// Duplicates collapse onto the first occurrence.
type OrderedStringSet struct {
	seen   map[string]bool
	values []string
}

// NewOrderedStringSet creates a new OrderedStringSet
func NewOrderedStringSet() *OrderedStringSet {
	return &OrderedStringSet{seen: map[string]bool{}}
}

// Add inserts value unless it is already present. Reports whether the value
// was newly added.
func (s *OrderedStringSet) Add(value string) bool {
	if s.seen[value] {
		return false
	}
	s.seen[value] = true
	s.values = append(s.values, value)
	return true
}

// Has reports whether value is present.
func (s *OrderedStringSet) Has(value string) bool {
	return s.seen[value]
}

// Values returns the members in first-insertion order.
func (s *OrderedStringSet) Values() []string {
	out := make([]string, len(s.values))
	copy(out, s.values)
	return out
}

// Len returns the number of members.
func (s *OrderedStringSet) Len() int {
	return len(s.values)
}
