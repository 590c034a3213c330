package fileutil

// ExclusionSet is an immutable set of directory names that scanning and
// pruning never enter. Names are compared exactly, not as paths.
type ExclusionSet struct {
	names map[string]struct{}
}

// NewExclusionSet builds a set from the given names. Empty names are ignored.
func NewExclusionSet(names ...string) ExclusionSet {
	set := ExclusionSet{names: make(map[string]struct{}, len(names))}
	for _, n := range names {
		if n == "" {
			continue
		}
		set.names[n] = struct{}{}
	}
	return set
}

// Contains reports whether name is excluded.
func (s ExclusionSet) Contains(name string) bool {
	_, ok := s.names[name]
	return ok
}
