package cvf

import (
	"fmt"
	"path/filepath"
	"strings"

	"bennypowers.dev/cvf/internal/log"
	"bennypowers.dev/cvf/internal/parser"
	"bennypowers.dev/cvf/internal/parser/css"
	"bennypowers.dev/cvf/internal/parser/dtcg"
	"bennypowers.dev/cvf/internal/vars"
)

// Transformer rewrites var() references in documents to carry computed
// fallback values. One Transformer may process any number of documents;
// loaded sources are cached across calls.
type Transformer struct {
	opts   Options
	loader *sourceLoader
}

// New creates a Transformer with the given options.
func New(opts Options) *Transformer {
	return &Transformer{
		opts: opts,
		loader: newSourceLoader(dtcg.Options{
			Prefix:       opts.Prefix,
			GroupMarkers: opts.GroupMarkers,
		}),
	}
}

// run collects the warnings of a single Process or Variables call.
type run struct {
	warnings []error
	notify   func(error)
}

// AddWarning records a non-fatal problem with this run.
func (r *run) AddWarning(err error) {
	if err == nil {
		return
	}
	r.warnings = append(r.warnings, err)
	if r.notify != nil {
		r.notify(err)
	}
}

// Process rewrites doc so that every resolvable var() reference carries
// a computed fallback value. It never fails: the worst outcome is an
// unchanged document accompanied by warnings.
func (t *Transformer) Process(doc Document) Result {
	r := &run{notify: t.opts.Warn}

	languageID := doc.languageID()
	if !parser.IsSupportedTarget(languageID) {
		r.AddWarning(&ConfigError{
			Reason: fmt.Sprintf("unsupported document type %q", languageID),
		})
		return Result{Content: doc.Content, Warnings: r.warnings}
	}

	mapping := t.mergedMapping(t.baseDir(doc), r)
	if len(mapping) == 0 {
		return Result{Content: doc.Content, Warnings: r.warnings}
	}

	cycles := vars.DetectCycles(mapping, r)

	sheet, err := parser.Sheet(doc.Content, languageID)
	if err != nil {
		r.AddWarning(fmt.Errorf("cannot parse document %s: %w", doc.Path, err))
		return Result{Content: doc.Content, Warnings: r.warnings}
	}

	resolver := vars.NewResolver(mapping, cycles)
	content, modified := rewriteSheet(doc.Content, sheet, resolver)

	return Result{Content: content, Modified: modified, Warnings: r.warnings}
}

// baseDir picks the directory fallback identifiers resolve against: the
// document's own directory when known, else Options.Dir, else the
// working directory.
func (t *Transformer) baseDir(doc Document) string {
	if doc.Path != "" {
		return filepath.Dir(doc.Path)
	}
	if t.opts.Dir != "" {
		return t.opts.Dir
	}
	return "."
}

// identifiers coerces Options.Fallbacks into an ordered identifier
// list, recording a warning for every entry that is not a string.
func (t *Transformer) identifiers(r *run) []string {
	out := make([]string, 0, len(t.opts.Fallbacks))
	for _, entry := range t.opts.Fallbacks {
		s, ok := entry.(string)
		if !ok {
			r.AddWarning(&ConfigError{
				Reason: fmt.Sprintf("fallback identifiers must be strings, got %T", entry),
			})
			continue
		}
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// mergedMapping loads every configured fallback source in order and
// merges their definitions, later sources overriding earlier ones.
// Sources that fail to load or parse are skipped with a warning.
func (t *Transformer) mergedMapping(baseDir string, r *run) vars.Mapping {
	identifiers := t.identifiers(r)
	if len(identifiers) == 0 {
		return vars.Mapping{}
	}

	if abs, err := filepath.Abs(baseDir); err == nil {
		baseDir = abs
	}

	mappings := make([]vars.Mapping, 0, len(identifiers))
	for _, identifier := range identifiers {
		paths, err := expandIdentifier(identifier, baseDir)
		if err != nil {
			r.AddWarning(&SourceLoadError{Source: identifier, Err: err})
			continue
		}
		if isGlobPattern(identifier) {
			log.Debug("Glob %s matched %d files", identifier, len(paths))
		}

		for _, path := range paths {
			entry := t.loader.load(path)
			if entry.err != nil {
				r.AddWarning(&SourceLoadError{Source: path, Err: entry.err})
				continue
			}
			for _, warning := range entry.warnings {
				r.AddWarning(warning)
			}
			mappings = append(mappings, entry.mapping)
		}
	}

	return vars.Merge(mappings...)
}

// rewriteSheet applies the resolver to every declaration value and
// splices the rewritten values back into the document text by byte
// span, leaving all surrounding text untouched.
func rewriteSheet(content string, sheet *css.Sheet, resolver *vars.Resolver) (string, bool) {
	var b strings.Builder
	last := 0
	modified := false

	for _, decl := range sheet.Declarations {
		if int(decl.ValueStart) < last || int(decl.ValueEnd) > len(content) {
			continue
		}

		rewritten, changed := resolver.RewriteValue(decl.Value)
		if !changed {
			continue
		}

		modified = true
		b.WriteString(content[last:decl.ValueStart])
		b.WriteString(rewritten)
		last = int(decl.ValueEnd)
	}

	if !modified {
		return content, false
	}

	b.WriteString(content[last:])
	return b.String(), true
}
