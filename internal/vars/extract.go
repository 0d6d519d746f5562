package vars

import (
	"strings"

	"bennypowers.dev/cvf/internal/parser/css"
)

// Mapping associates variable names with their raw declared values.
type Mapping map[string]string

// Extract collects custom property definitions from a parsed sheet.
// Declarations are visited in document order, so when a sheet declares
// the same variable more than once the last declaration wins.
func Extract(sheet *css.Sheet) Mapping {
	m := Mapping{}
	if sheet == nil {
		return m
	}
	for _, decl := range sheet.Declarations {
		if strings.HasPrefix(decl.Property, "--") {
			m[decl.Property] = strings.TrimSpace(decl.Value)
		}
	}
	return m
}

// Merge combines mappings in precedence order. Later mappings override
// earlier ones key by key; the inputs are left unmodified.
func Merge(mappings ...Mapping) Mapping {
	merged := Mapping{}
	for _, m := range mappings {
		for name, value := range m {
			merged[name] = value
		}
	}
	return merged
}
