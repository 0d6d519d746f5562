package cvf

import (
	"os"
	"path/filepath"
	"testing"

	"bennypowers.dev/cvf/internal/parser/dtcg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsGlobPattern(t *testing.T) {
	assert.False(t, isGlobPattern("tokens.css"))
	assert.False(t, isGlobPattern("a/b/tokens.css"))
	assert.True(t, isGlobPattern("**/*.css"))
	assert.True(t, isGlobPattern("tokens/*.json"))
	assert.True(t, isGlobPattern("tokens/file?.css"))
	assert.True(t, isGlobPattern("tokens/[ab].css"))
	assert.True(t, isGlobPattern("tokens/{a,b}.css"))
}

func TestExpandIdentifier(t *testing.T) {
	t.Run("plain relative path", func(t *testing.T) {
		paths, err := expandIdentifier("tokens.css", "/base")
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join("/base", "tokens.css")}, paths)
	})

	t.Run("plain absolute path", func(t *testing.T) {
		abs := filepath.Join(string(filepath.Separator), "elsewhere", "tokens.css")
		paths, err := expandIdentifier(abs, "/base")
		require.NoError(t, err)
		assert.Equal(t, []string{abs}, paths)
	})

	t.Run("missing plain path still returned", func(t *testing.T) {
		// Load reports the read failure; expansion stays mechanical.
		paths, err := expandIdentifier("missing.css", t.TempDir())
		require.NoError(t, err)
		assert.Len(t, paths, 1)
	})

	t.Run("glob expands sorted", func(t *testing.T) {
		dir := writeFixtures(t, map[string]string{
			"tokens/z.css":      "",
			"tokens/a.css":      "",
			"tokens/deep/m.css": "",
		})

		paths, err := expandIdentifier("tokens/**/*.css", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{
			filepath.Join(dir, "tokens", "a.css"),
			filepath.Join(dir, "tokens", "deep", "m.css"),
			filepath.Join(dir, "tokens", "z.css"),
		}, paths)
	})

	t.Run("glob with no matches", func(t *testing.T) {
		paths, err := expandIdentifier("**/*.css", t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, paths)
	})

	t.Run("glob skips hidden and build directories", func(t *testing.T) {
		dir := writeFixtures(t, map[string]string{
			"ok.css":             "",
			".git/sneaky.css":    "",
			"node_modules/n.css": "",
			"build/b.css":        "",
		})

		paths, err := expandIdentifier("**/*.css", dir)
		require.NoError(t, err)
		assert.Equal(t, []string{filepath.Join(dir, "ok.css")}, paths)
	})
}

func TestSourceLoaderCache(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"tokens.css": ":root{--v:1px;}",
	})
	path := filepath.Join(dir, "tokens.css")

	loader := newSourceLoader(dtcg.Options{})

	first := loader.load(path)
	require.NoError(t, first.err)
	assert.Equal(t, "1px", first.mapping["--v"])

	// Changing the file must not affect the cached entry.
	require.NoError(t, os.WriteFile(path, []byte(":root{--v:9px;}"), 0o644))

	second := loader.load(path)
	assert.Equal(t, "1px", second.mapping["--v"])
	assert.Same(t, first, second)
}

func TestSourceLoaderErrorsCached(t *testing.T) {
	loader := newSourceLoader(dtcg.Options{})
	path := filepath.Join(t.TempDir(), "missing.css")

	entry := loader.load(path)
	require.Error(t, entry.err)

	again := loader.load(path)
	assert.Same(t, entry, again)
}

func TestSourceLoaderDTCGWarnings(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"tokens.json": `{
			"border": {
				"card": { "$type": "border", "$value": "1px solid #000" }
			},
			"color": {
				"ink": { "$type": "color", "$value": "#111111" }
			}
		}`,
	})

	loader := newSourceLoader(dtcg.Options{})
	entry := loader.load(filepath.Join(dir, "tokens.json"))

	require.NoError(t, entry.err)
	assert.Equal(t, "#111111", entry.mapping["--color-ink"])
	assert.NotContains(t, entry.mapping, "--border-card")
	assert.NotEmpty(t, entry.warnings, "composite token skipped with a warning")
}
