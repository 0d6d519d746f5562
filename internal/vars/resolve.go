package vars

import (
	"strings"

	"bennypowers.dev/cvf/internal/collections"
)

// Resolver computes fallback values over one merged mapping. It carries
// the run's cycle set and a memo of finished resolutions, so it is valid
// for exactly one mapping and must not be shared across runs.
type Resolver struct {
	mapping Mapping
	cycles  collections.Set[string]
	memo    map[string]memoEntry
}

type memoEntry struct {
	value string
	ok    bool
}

// NewResolver prepares a resolver for the given mapping and cycle set.
func NewResolver(mapping Mapping, cycles collections.Set[string]) *Resolver {
	return &Resolver{
		mapping: mapping,
		cycles:  cycles,
		memo:    make(map[string]memoEntry),
	}
}

// Resolve expands a variable to its fallback value. It reports false for
// names that are cyclic or missing from the mapping. Otherwise the raw
// value is returned with each var() occurrence replaced by its recursive
// resolution, or by its written fallback text when resolution fails, or
// kept verbatim when neither is available.
func (r *Resolver) Resolve(name string) (string, bool) {
	return r.resolve(name, collections.NewSet[string]())
}

func (r *Resolver) resolve(name string, onPath collections.Set[string]) (string, bool) {
	if entry, done := r.memo[name]; done {
		return entry.value, entry.ok
	}
	if r.cycles.Has(name) {
		r.memo[name] = memoEntry{}
		return "", false
	}
	raw, defined := r.mapping[name]
	if !defined {
		r.memo[name] = memoEntry{}
		return "", false
	}
	if onPath.Has(name) {
		// Unreachable when the cycle set is complete; kept as a
		// recursion guard. Not memoized: the outcome depends on the
		// path that led here.
		return "", false
	}

	refs := ScanValue(raw)
	if len(refs) == 0 {
		r.memo[name] = memoEntry{value: raw, ok: true}
		return raw, true
	}

	// Each branch gets its own copy of the path so sibling expansions
	// cannot see one another's names.
	branch := onPath.Copy()
	branch.Add(name)

	var b strings.Builder
	last := 0
	for _, ref := range refs {
		b.WriteString(raw[last:ref.Start])
		b.WriteString(r.expand(ref, raw[ref.Start:ref.End], branch))
		last = ref.End
	}
	b.WriteString(raw[last:])

	value := b.String()
	r.memo[name] = memoEntry{value: value, ok: true}
	return value, true
}

// expand substitutes a single occurrence. A resolution that comes back
// empty counts as no resolution: an empty custom property is a valid
// declaration but never a usable fallback.
func (r *Resolver) expand(ref Ref, occurrence string, onPath collections.Set[string]) string {
	if resolved, ok := r.resolve(ref.Name, onPath); ok && strings.TrimSpace(resolved) != "" {
		return resolved
	}
	if ref.HasFallback {
		if fallback := strings.TrimSpace(ref.Fallback); fallback != "" {
			return fallback
		}
	}
	return occurrence
}
