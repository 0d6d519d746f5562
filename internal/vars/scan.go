// Package vars implements the custom-property resolution engine:
// extraction of variable definitions from parsed sheets, precedence
// merging, cycle detection over the reference graph, and recursive
// fallback resolution with declaration rewriting.
package vars

import "strings"

// Ref is one var() occurrence inside a value. Start and End are byte
// offsets of the whole occurrence in the scanned value, closing
// parenthesis included, so value[Start:End] is the occurrence text.
type Ref struct {
	Name        string
	Fallback    string
	HasFallback bool
	Start       int
	End         int
}

// ScanValue finds var() occurrences in a value, left to right. The scan
// tracks parenthesis depth and string literals, so occurrences inside
// other functions such as calc() are found, fallback clauses may contain
// commas and nested calls, and quoted text is never matched. An
// occurrence's fallback clause is not scanned separately; nested
// references inside it belong to the occurrence.
func ScanValue(value string) []Ref {
	var refs []Ref
	for i := 0; i < len(value); {
		switch value[i] {
		case '"', '\'':
			i = skipString(value, i) + 1
			continue
		case 'v':
			if isVarStart(value, i) {
				if ref, ok := parseVarCall(value, i); ok {
					refs = append(refs, ref)
					i = ref.End
					continue
				}
				// Unterminated call: step past "var(" so any
				// complete occurrence inside it is still found.
				i += 4
				continue
			}
		}
		i++
	}
	return refs
}

// ReferencedNames returns every variable name referenced by a value at
// any nesting depth, fallback clauses included. These are the edges of
// the reference graph.
func ReferencedNames(value string) []string {
	var names []string
	for _, ref := range ScanValue(value) {
		names = append(names, ref.Name)
		if ref.HasFallback {
			names = append(names, ReferencedNames(ref.Fallback)...)
		}
	}
	return names
}

// isVarStart reports whether value[i:] begins a var() call that is not
// the tail of a longer identifier.
func isVarStart(value string, i int) bool {
	if i+4 > len(value) || value[i:i+4] != "var(" {
		return false
	}
	return i == 0 || !isIdentByte(value[i-1])
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// parseVarCall parses one var() occurrence starting at the 'v'. It
// returns false when the call never closes or its first argument is not
// a custom property name.
func parseVarCall(value string, start int) (Ref, bool) {
	depth := 1
	comma := -1
	j := start + 4
	for j < len(value) {
		switch value[j] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return makeRef(value, start, comma, j)
			}
		case ',':
			if depth == 1 && comma < 0 {
				comma = j
			}
		case '"', '\'':
			j = skipString(value, j)
			if j >= len(value) {
				return Ref{}, false
			}
		}
		j++
	}
	return Ref{}, false
}

func makeRef(value string, start, comma, close int) (Ref, bool) {
	nameEnd := close
	if comma >= 0 {
		nameEnd = comma
	}
	name := strings.TrimSpace(value[start+4 : nameEnd])
	if !isVariableName(name) {
		return Ref{}, false
	}
	ref := Ref{
		Name:  name,
		Start: start,
		End:   close + 1,
	}
	if comma >= 0 {
		ref.Fallback = value[comma+1 : close]
		ref.HasFallback = true
	}
	return ref, true
}

// isVariableName reports whether a trimmed first argument names a custom
// property. Anything else leaves the occurrence untouched.
func isVariableName(name string) bool {
	if !strings.HasPrefix(name, "--") {
		return false
	}
	return !strings.ContainsAny(name, " \t\r\n")
}

// skipString returns the index of the closing quote of the string
// starting at value[i], honoring backslash escapes, or len(value) when
// the string never closes.
func skipString(value string, i int) int {
	quote := value[i]
	for j := i + 1; j < len(value); j++ {
		switch value[j] {
		case '\\':
			j++
		case quote:
			return j
		}
	}
	return len(value)
}
