// Package dtcg loads design token files (DTCG format, JSON or YAML) as
// fallback sources. Each token contributes a custom property definition;
// token references become var() references so alias chains take part in
// cycle detection and resolution like any other variable.
package dtcg

import (
	"fmt"
	"regexp"
	"strings"

	asimonimParser "bennypowers.dev/asimonim/parser"
	"bennypowers.dev/asimonim/schema"
	"bennypowers.dev/asimonim/validator"

	"bennypowers.dev/cvf/internal/vars"
)

// Options configure how a token file is interpreted.
type Options struct {
	// Prefix is prepended to every variable name from this source
	Prefix string

	// GroupMarkers indicate terminal paths that are also groups
	// (e.g. "DEFAULT" or "_")
	GroupMarkers []string
}

// curlyBraceReference matches curly brace token references: {token.reference.path}
var curlyBraceReference = regexp.MustCompile(`\{([^}]+)\}`)

// Definitions parses token file data and derives the custom property
// definitions its tokens contribute. Tokens whose values cannot be
// expressed as CSS fallback text are skipped; each skip and each schema
// validation finding is reported as a warning. The error is non-nil only
// when the file as a whole cannot be parsed.
func Definitions(data []byte, path string, opts Options) (vars.Mapping, []error, error) {
	parser := asimonimParser.NewJSONParser()
	parsed, err := parser.Parse(data, asimonimParser.Options{
		GroupMarkers: opts.GroupMarkers,
	})
	if err != nil {
		return nil, nil, err
	}

	var warnings []error

	// Determine schema version from parsed tokens for validation
	version := schema.Draft
	for _, t := range parsed {
		if t.SchemaVersion != schema.Unknown {
			version = t.SchemaVersion
			break
		}
	}
	for _, ve := range validator.ValidateConsistencyWithPath(data, version, path) {
		warnings = append(warnings, fmt.Errorf("schema validation in %s: %s", path, ve.Error()))
	}

	mapping := vars.Mapping{}
	for _, token := range parsed {
		value := translateReferences(token.Value, opts.Prefix)
		formatted, err := FormatValue(value, token.Type)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("skipping token %s in %s: %w", token.Name, path, err))
			continue
		}
		mapping[VariableName(token.Name, opts.Prefix)] = formatted
	}
	return mapping, warnings, nil
}

// VariableName derives the custom property name a token defines,
// e.g. "color.primary" -> "--color-primary", with an optional prefix.
func VariableName(name, prefix string) string {
	name = strings.ReplaceAll(name, ".", "-")
	if prefix != "" {
		prefix = strings.ReplaceAll(prefix, ".", "-")
		return "--" + prefix + "-" + name
	}
	return "--" + name
}

// translateReferences rewrites DTCG token references into var()
// references against this source's own definitions. Both curly brace
// references ({color.base}) and whole-value JSON Pointers (#/color/base)
// are recognized.
func translateReferences(value, prefix string) string {
	if strings.HasPrefix(value, "#/") {
		name := strings.ReplaceAll(strings.TrimPrefix(value, "#/"), "/", ".")
		return "var(" + VariableName(name, prefix) + ")"
	}
	return curlyBraceReference.ReplaceAllStringFunc(value, func(match string) string {
		name := strings.TrimSpace(match[1 : len(match)-1])
		return "var(" + VariableName(name, prefix) + ")"
	})
}
