// Package cvf rewrites CSS custom property references to carry computed
// fallback values. Given an ordered list of fallback sources (CSS, HTML,
// or DTCG token files) and a target document, it resolves each var()
// reference against the merged variable definitions and rewrites the
// reference to var(<name>, <resolved value>).
package cvf

import "bennypowers.dev/cvf/internal/parser"

// Document is one rewrite target.
type Document struct {
	// Path locates the document on disk. Relative fallback identifiers
	// resolve against its directory. May be empty for in-memory content.
	Path string

	// LanguageID is "css" or "html". Derived from the Path extension
	// when empty.
	LanguageID string

	// Content is the document text.
	Content string
}

// Result is the outcome of processing one document.
type Result struct {
	// Content is the rewritten document text. Identical to the input
	// when Modified is false.
	Content string

	// Modified reports whether any declaration changed.
	Modified bool

	// Warnings are the non-fatal problems encountered during the run:
	// sources that failed to load, circular references, configuration
	// issues.
	Warnings []error
}

func (d Document) languageID() string {
	if d.LanguageID != "" {
		return d.LanguageID
	}
	return parser.LanguageID(d.Path)
}
