package vars

import (
	"fmt"
	"strings"
)

// RewriteValue rewrites every var() occurrence in a consumer declaration
// value to carry a computed fallback: var(--name, <resolved>). A computed
// fallback replaces whatever fallback the author wrote. Occurrences that
// are cyclic or fail to resolve are kept byte-for-byte, as is all text
// between occurrences. The boolean reports whether anything changed.
func (r *Resolver) RewriteValue(value string) (string, bool) {
	refs := ScanValue(value)
	if len(refs) == 0 {
		return value, false
	}

	var b strings.Builder
	last := 0
	changed := false
	for _, ref := range refs {
		b.WriteString(value[last:ref.Start])
		occurrence := value[ref.Start:ref.End]
		replacement := occurrence
		if !r.cycles.Has(ref.Name) {
			if resolved, ok := r.Resolve(ref.Name); ok && strings.TrimSpace(resolved) != "" {
				replacement = fmt.Sprintf("var(%s, %s)", ref.Name, resolved)
			}
		}
		if replacement != occurrence {
			changed = true
		}
		b.WriteString(replacement)
		last = ref.End
	}
	b.WriteString(value[last:])

	if !changed {
		return value, false
	}
	return b.String(), true
}
