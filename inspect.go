package cvf

import (
	"fmt"
	"sort"
	"strings"

	"bennypowers.dev/cvf/internal/parser"
	"bennypowers.dev/cvf/internal/vars"
)

// VariableInfo describes one variable from the merged fallback sources.
type VariableInfo struct {
	// Name is the custom property name, including the -- prefix.
	Name string

	// Raw is the declared value before resolution.
	Raw string

	// Resolved is the fully resolved value, empty when Resolvable is
	// false.
	Resolved string

	// Resolvable reports whether the variable resolves to a usable
	// value.
	Resolvable bool

	// Cyclic reports whether the variable participates in a circular
	// reference.
	Cyclic bool
}

// Variables loads the configured fallback sources and reports every
// merged variable with its resolution status, sorted by name. baseDir
// sets the directory identifiers resolve against; when empty,
// Options.Dir and then the working directory apply.
func (t *Transformer) Variables(baseDir string) ([]VariableInfo, []error) {
	r := &run{notify: t.opts.Warn}

	if baseDir == "" {
		baseDir = t.opts.Dir
	}
	if baseDir == "" {
		baseDir = "."
	}

	mapping := t.mergedMapping(baseDir, r)
	cycles := vars.DetectCycles(mapping, r)
	resolver := vars.NewResolver(mapping, cycles)

	names := make([]string, 0, len(mapping))
	for name := range mapping {
		names = append(names, name)
	}
	sort.Strings(names)

	infos := make([]VariableInfo, 0, len(names))
	for _, name := range names {
		resolved, ok := resolver.Resolve(name)
		infos = append(infos, VariableInfo{
			Name:       name,
			Raw:        mapping[name],
			Resolved:   resolved,
			Resolvable: usableResolution(resolved, ok),
			Cyclic:     cycles.Has(name),
		})
	}

	return infos, r.warnings
}

// usableResolution applies the substitution rule to a resolution result:
// an empty value is a valid declaration but never a usable fallback.
func usableResolution(resolved string, ok bool) bool {
	return ok && strings.TrimSpace(resolved) != ""
}

// Usage describes one var() occurrence in an inspected document.
type Usage struct {
	// Property is the declaration property the occurrence appears in.
	Property string

	// Name is the referenced custom property name.
	Name string

	// Occurrence is the var() expression text as written.
	Occurrence string

	// Resolved is the computed fallback value, empty when Resolvable is
	// false.
	Resolved string

	// Resolvable reports whether the referenced variable resolves to a
	// usable value.
	Resolvable bool

	// Cyclic reports whether the referenced variable participates in a
	// circular reference.
	Cyclic bool
}

// Usage lists every var() occurrence in doc with its resolution status,
// in document order. Unlike Process it reports occurrences even when no
// fallback sources are configured, so unresolved usage still shows up.
func (t *Transformer) Usage(doc Document) ([]Usage, []error) {
	r := &run{notify: t.opts.Warn}

	languageID := doc.languageID()
	if !parser.IsSupportedTarget(languageID) {
		r.AddWarning(&ConfigError{
			Reason: fmt.Sprintf("unsupported document type %q", languageID),
		})
		return nil, r.warnings
	}

	mapping := t.mergedMapping(t.baseDir(doc), r)
	cycles := vars.DetectCycles(mapping, r)

	sheet, err := parser.Sheet(doc.Content, languageID)
	if err != nil {
		r.AddWarning(fmt.Errorf("cannot parse document %s: %w", doc.Path, err))
		return nil, r.warnings
	}

	resolver := vars.NewResolver(mapping, cycles)

	var usages []Usage
	for _, decl := range sheet.Declarations {
		for _, ref := range vars.ScanValue(decl.Value) {
			resolved, ok := resolver.Resolve(ref.Name)
			usages = append(usages, Usage{
				Property:   decl.Property,
				Name:       ref.Name,
				Occurrence: decl.Value[ref.Start:ref.End],
				Resolved:   resolved,
				Resolvable: usableResolution(resolved, ok),
				Cyclic:     cycles.Has(ref.Name),
			})
		}
	}

	return usages, r.warnings
}
