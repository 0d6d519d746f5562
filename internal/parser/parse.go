// Package parser dispatches documents to the right parser by language.
package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cvf/internal/parser/css"
	"bennypowers.dev/cvf/internal/parser/dtcg"
	"bennypowers.dev/cvf/internal/parser/html"
	"bennypowers.dev/cvf/internal/vars"
)

// languageIDs maps file extensions to language IDs.
// "css" and "html" documents can be rewritten; "dtcg" token files can
// only contribute definitions.
var languageIDs = map[string]string{
	".css":  "css",
	".html": "html",
	".htm":  "html",
	".json": "dtcg",
	".yaml": "dtcg",
	".yml":  "dtcg",
}

// LanguageID derives a language ID from a file path, or "" when the
// file type is unsupported.
func LanguageID(path string) string {
	return languageIDs[strings.ToLower(filepath.Ext(path))]
}

// IsSupportedTarget returns true if documents of this language can be
// rewritten in place.
func IsSupportedTarget(languageID string) bool {
	return languageID == "css" || languageID == "html"
}

// Sheet parses a rewrite target into declarations whose value spans
// index the document's own bytes.
func Sheet(content, languageID string) (*css.Sheet, error) {
	switch languageID {
	case "css":
		p := css.AcquireParser()
		defer css.ReleaseParser(p)
		return p.Parse(content)

	case "html":
		p := html.AcquireParser()
		defer html.ReleaseParser(p)
		return p.Sheet(content)

	default:
		return nil, fmt.Errorf("unsupported language %q", languageID)
	}
}

// SourceDefinitions extracts the variable definitions one fallback
// source contributes. CSS and HTML sources contribute their custom
// property declarations; DTCG token files contribute one definition per
// token. Warnings report recoverable problems inside an otherwise
// usable source.
func SourceDefinitions(path string, content []byte, opts dtcg.Options) (vars.Mapping, []error, error) {
	switch LanguageID(path) {
	case "css", "html":
		sheet, err := Sheet(string(content), LanguageID(path))
		if err != nil {
			return nil, nil, err
		}
		return vars.Extract(sheet), nil, nil

	case "dtcg":
		return dtcg.Definitions(content, path, opts)

	default:
		return nil, nil, fmt.Errorf("unsupported source type %q", filepath.Ext(path))
	}
}
