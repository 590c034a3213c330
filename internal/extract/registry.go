package extract

import (
	"sort"
	"strings"
)

// Registry maps format tags to extractors. It is filled once at startup and
// only read afterwards; Register is not safe for concurrent use.
type Registry struct {
	entries map[string]Extractor
	// byLength holds the tags longest first so compound tags win.
	byLength []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Extractor)}
}

// Register binds tag (for example "zip" or ".tar.gz") to e. Tags are stored
// lower case with a leading dot. Registering a tag twice replaces the
// extractor.
func (r *Registry) Register(tag string, e Extractor) *Registry {
	tag = normalizeTag(tag)
	if _, exists := r.entries[tag]; !exists {
		r.byLength = append(r.byLength, tag)
		sort.SliceStable(r.byLength, func(i, j int) bool {
			if len(r.byLength[i]) != len(r.byLength[j]) {
				return len(r.byLength[i]) > len(r.byLength[j])
			}
			return r.byLength[i] < r.byLength[j]
		})
	}
	r.entries[tag] = e
	return r
}

// Format returns the tag that handles name. The name must be longer than the
// tag, so a bare ".zip" file has no format.
func (r *Registry) Format(name string) (string, bool) {
	lower := strings.ToLower(name)
	for _, tag := range r.byLength {
		if len(lower) > len(tag) && strings.HasSuffix(lower, tag) {
			return tag, true
		}
	}
	return "", false
}

// Lookup returns the tag and extractor for name.
func (r *Registry) Lookup(name string) (string, Extractor, bool) {
	tag, ok := r.Format(name)
	if !ok {
		return "", nil, false
	}
	return tag, r.entries[tag], true
}

// Tags returns all registered tags in alphabetical order.
func (r *Registry) Tags() []string {
	tags := make([]string, 0, len(r.entries))
	for tag := range r.entries {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Predicate returns a name matcher for files whose resolved format is one of
// tags. With no tags it matches every registered format. Resolution is done
// against the whole registry, so "x.tar.gz" does not match a ".gz" predicate
// when ".tar.gz" is registered.
func (r *Registry) Predicate(tags ...string) func(name string) bool {
	want := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		want[normalizeTag(tag)] = struct{}{}
	}
	return func(name string) bool {
		tag, ok := r.Format(name)
		if !ok {
			return false
		}
		if len(want) == 0 {
			return true
		}
		_, ok = want[tag]
		return ok
	}
}

func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if !strings.HasPrefix(tag, ".") {
		tag = "." + tag
	}
	return tag
}
