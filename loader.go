package cvf

import (
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"bennypowers.dev/cvf/internal/log"
	"bennypowers.dev/cvf/internal/parser"
	"bennypowers.dev/cvf/internal/parser/dtcg"
	"bennypowers.dev/cvf/internal/vars"
	"github.com/bmatcuk/doublestar/v4"
)

// sourceEntry caches what one fallback source contributes. Entries hold
// extraction results only, never resolved values, so a cached entry is
// valid under any run's merged mapping.
type sourceEntry struct {
	mapping  vars.Mapping
	warnings []error
	err      error
}

// sourceLoader loads fallback sources and caches them by absolute path
// for the life of its transformer.
type sourceLoader struct {
	mu    sync.RWMutex
	cache map[string]*sourceEntry
	opts  dtcg.Options
}

func newSourceLoader(opts dtcg.Options) *sourceLoader {
	return &sourceLoader{
		cache: make(map[string]*sourceEntry),
		opts:  opts,
	}
}

// load returns the definitions one source file contributes, reading and
// parsing the file at most once per transformer.
func (l *sourceLoader) load(path string) *sourceEntry {
	l.mu.RLock()
	entry, ok := l.cache[path]
	l.mu.RUnlock()
	if ok {
		return entry
	}

	entry = l.read(path)

	l.mu.Lock()
	l.cache[path] = entry
	l.mu.Unlock()
	return entry
}

func (l *sourceLoader) read(path string) *sourceEntry {
	data, err := os.ReadFile(path) //nolint:gosec // G304: reading configured fallback sources - local trusted environment
	if err != nil {
		return &sourceEntry{err: err}
	}

	log.Debug("Loading fallback source: %s", path)

	mapping, warnings, err := parser.SourceDefinitions(path, data, l.opts)
	if err != nil {
		return &sourceEntry{err: err}
	}
	return &sourceEntry{mapping: mapping, warnings: warnings}
}

// isGlobPattern checks whether an identifier contains glob
// metacharacters and needs expansion.
func isGlobPattern(identifier string) bool {
	return strings.ContainsAny(identifier, "*?[{")
}

// expandIdentifier resolves one source identifier to absolute file
// paths. Globs expand to every matching file under baseDir in sorted
// order; plain relative paths resolve against baseDir.
func expandIdentifier(identifier, baseDir string) ([]string, error) {
	if !isGlobPattern(identifier) {
		if filepath.IsAbs(identifier) {
			return []string{identifier}, nil
		}
		return []string{filepath.Join(baseDir, identifier)}, nil
	}

	var matches []string
	err := filepath.Walk(baseDir, collectGlobMatches(baseDir, identifier, &matches))
	if err != nil {
		return nil, err
	}

	sort.Strings(matches)
	return matches, nil
}

// shouldSkipDirectory checks if a directory should be skipped during
// glob expansion. Returns true for hidden directories (starting with .)
// and common build/dependency directories.
func shouldSkipDirectory(info os.FileInfo) bool {
	if !info.IsDir() {
		return false
	}

	// Skip hidden directories
	if strings.HasPrefix(info.Name(), ".") {
		return true
	}

	// Skip common build/dependency directories
	skipDirs := []string{"node_modules", "dist", "build"}
	return slices.Contains(skipDirs, info.Name())
}

// collectGlobMatches creates a filepath.Walk callback that collects
// files matching the glob pattern, skipping hidden and build
// directories.
func collectGlobMatches(rootDir, pattern string, matches *[]string) filepath.WalkFunc {
	return func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors, continue walking
		}

		// Never skip the walk root, whatever it is named
		if path != rootDir && shouldSkipDirectory(info) {
			return filepath.SkipDir
		}

		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(rootDir, path)
		if err != nil {
			return nil
		}

		if matched, err := matchGlobPattern(pattern, relPath); err == nil && matched {
			*matches = append(*matches, path)
		}

		return nil
	}
}

// matchGlobPattern matches a glob pattern against a path using
// doublestar, which supports ** for recursive directory matching.
// Paths are normalized to forward slashes for consistent matching
// across platforms.
func matchGlobPattern(pattern, path string) (bool, error) {
	return doublestar.Match(pattern, filepath.ToSlash(path))
}
