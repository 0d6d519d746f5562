package cvf

import (
	"path/filepath"
	"testing"

	"bennypowers.dev/cvf/internal/vars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariables(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"tokens.css": ":root{" +
			"--a:1px;" +
			"--b:var(--a);" +
			"--c:var(--missing) solid;" +
			"--x:var(--y);" +
			"--y:var(--x);" +
			"}",
	})

	transformer := New(Options{Fallbacks: []any{"tokens.css"}})
	infos, warnings := transformer.Variables(dir)

	require.Len(t, infos, 5)

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name)
	}
	assert.Equal(t, []string{"--a", "--b", "--c", "--x", "--y"}, names, "sorted by name")

	byName := make(map[string]VariableInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	a := byName["--a"]
	assert.Equal(t, "1px", a.Raw)
	assert.Equal(t, "1px", a.Resolved)
	assert.True(t, a.Resolvable)
	assert.False(t, a.Cyclic)

	b := byName["--b"]
	assert.Equal(t, "var(--a)", b.Raw)
	assert.Equal(t, "1px", b.Resolved)
	assert.True(t, b.Resolvable)

	// Undefined references stay in place; the value still resolves.
	c := byName["--c"]
	assert.Equal(t, "var(--missing) solid", c.Resolved)
	assert.True(t, c.Resolvable)

	for _, name := range []string{"--x", "--y"} {
		info := byName[name]
		assert.True(t, info.Cyclic, "%s is cyclic", name)
		assert.False(t, info.Resolvable, "%s does not resolve", name)
		assert.Empty(t, info.Resolved)
	}

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrCircularReference)
}

func TestVariablesEmptyConfiguration(t *testing.T) {
	transformer := New(Options{})
	infos, warnings := transformer.Variables("")

	assert.Empty(t, infos)
	assert.Empty(t, warnings)
}

func TestVariablesMissingSource(t *testing.T) {
	transformer := New(Options{Fallbacks: []any{"nope.css"}})
	infos, warnings := transformer.Variables(t.TempDir())

	assert.Empty(t, infos)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrSourceLoad)
}

func TestVariablesMergesSources(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"base.css":  ":root{--c:red;--base:1px;}",
		"theme.css": ":root{--c:blue;}",
	})

	transformer := New(Options{Fallbacks: []any{"base.css", "theme.css"}})
	infos, _ := transformer.Variables(dir)

	byName := make(map[string]VariableInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	assert.Equal(t, "blue", byName["--c"].Raw, "later source wins")
	assert.Equal(t, "1px", byName["--base"].Raw)
}

func TestUsableResolution(t *testing.T) {
	assert.True(t, usableResolution("16px", true))
	assert.False(t, usableResolution("16px", false))
	assert.False(t, usableResolution("", true), "empty resolution is not usable")
	assert.False(t, usableResolution(" \t ", true))
}

// seedSource plants a ready-made mapping in the transformer's source
// cache under the given path, which is never read from disk.
func seedSource(transformer *Transformer, path string, mapping vars.Mapping) {
	transformer.loader.cache[path] = &sourceEntry{mapping: mapping}
}

// A variable declared empty is valid but never a usable fallback, and
// the report says so.
func TestVariablesEmptyValue(t *testing.T) {
	source := filepath.Join(t.TempDir(), "tokens.css")
	transformer := New(Options{Fallbacks: []any{source}})
	seedSource(transformer, source, vars.Mapping{
		"--empty": "",
		"--pad":   "var(--empty)",
	})

	infos, warnings := transformer.Variables("")

	require.Len(t, infos, 2)
	byName := make(map[string]VariableInfo, len(infos))
	for _, info := range infos {
		byName[info.Name] = info
	}

	empty := byName["--empty"]
	assert.False(t, empty.Resolvable)
	assert.False(t, empty.Cyclic)
	assert.Empty(t, empty.Resolved)

	// The reference to it stays in place, which is itself usable text.
	pad := byName["--pad"]
	assert.True(t, pad.Resolvable)
	assert.Equal(t, "var(--empty)", pad.Resolved)

	assert.Empty(t, warnings)
}

func TestUsage(t *testing.T) {
	dir := writeFixtures(t, map[string]string{
		"tokens.css": ":root{--a:1px;--x:var(--y);--y:var(--x);}",
	})

	transformer := New(Options{Fallbacks: []any{"tokens.css"}})
	usages, warnings := transformer.Usage(Document{
		Path:    filepath.Join(dir, "target.css"),
		Content: ".a{top:var(--a);color:var(--missing, red);border:var(--x) solid;}",
	})

	require.Len(t, usages, 3, "one entry per occurrence, in document order")

	top := usages[0]
	assert.Equal(t, "top", top.Property)
	assert.Equal(t, "--a", top.Name)
	assert.Equal(t, "var(--a)", top.Occurrence)
	assert.Equal(t, "1px", top.Resolved)
	assert.True(t, top.Resolvable)
	assert.False(t, top.Cyclic)

	color := usages[1]
	assert.Equal(t, "color", color.Property)
	assert.Equal(t, "--missing", color.Name)
	assert.Equal(t, "var(--missing, red)", color.Occurrence)
	assert.False(t, color.Resolvable)
	assert.False(t, color.Cyclic)

	border := usages[2]
	assert.Equal(t, "border", border.Property)
	assert.Equal(t, "--x", border.Name)
	assert.Equal(t, "var(--x)", border.Occurrence)
	assert.True(t, border.Cyclic)
	assert.False(t, border.Resolvable)

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrCircularReference)
}

// Usage reports occurrences even with no sources configured, unlike
// Process which returns early.
func TestUsageNoSources(t *testing.T) {
	transformer := New(Options{})
	usages, warnings := transformer.Usage(Document{
		LanguageID: "css",
		Content:    ".a{color:var(--c);}",
	})

	require.Len(t, usages, 1)
	assert.Equal(t, "--c", usages[0].Name)
	assert.Equal(t, "var(--c)", usages[0].Occurrence)
	assert.False(t, usages[0].Resolvable)
	assert.Empty(t, warnings)
}

func TestUsageEmptyValue(t *testing.T) {
	source := filepath.Join(t.TempDir(), "tokens.css")
	transformer := New(Options{Fallbacks: []any{source}})
	seedSource(transformer, source, vars.Mapping{"--empty": ""})

	usages, warnings := transformer.Usage(Document{
		LanguageID: "css",
		Content:    ".a{margin:var(--empty, 4px);}",
	})

	require.Len(t, usages, 1)
	assert.Equal(t, "--empty", usages[0].Name)
	assert.False(t, usages[0].Resolvable, "an empty value is never a usable fallback")
	assert.False(t, usages[0].Cyclic)
	assert.Empty(t, usages[0].Resolved)
	assert.Empty(t, warnings)
}

func TestUsageUnsupportedDocument(t *testing.T) {
	transformer := New(Options{})
	usages, warnings := transformer.Usage(Document{Path: "script.js", Content: "let x = 1"})

	assert.Empty(t, usages)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrInvalidConfig)
}
