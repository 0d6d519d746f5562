package vars_test

import (
	"testing"

	"bennypowers.dev/cvf/internal/vars"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestScanValue verifies occurrence detection across the value shapes
// that defeat naive pattern matching.
func TestScanValue(t *testing.T) {
	t.Run("single reference without fallback", func(t *testing.T) {
		refs := vars.ScanValue("var(--pad)")
		require.Len(t, refs, 1)
		assert.Equal(t, "--pad", refs[0].Name)
		assert.False(t, refs[0].HasFallback)
		assert.Equal(t, 0, refs[0].Start)
		assert.Equal(t, len("var(--pad)"), refs[0].End)
	})

	t.Run("reference with simple fallback", func(t *testing.T) {
		refs := vars.ScanValue("var(--pad, 16px)")
		require.Len(t, refs, 1)
		assert.Equal(t, "--pad", refs[0].Name)
		assert.True(t, refs[0].HasFallback)
		assert.Equal(t, " 16px", refs[0].Fallback)
	})

	t.Run("fallback containing commas and nested calls", func(t *testing.T) {
		value := "var(--shadow, 1px 2px rgba(0, 0, 0, 0.5))"
		refs := vars.ScanValue(value)
		require.Len(t, refs, 1)
		assert.Equal(t, "--shadow", refs[0].Name)
		assert.Equal(t, " 1px 2px rgba(0, 0, 0, 0.5)", refs[0].Fallback)
		assert.Equal(t, len(value), refs[0].End)
	})

	t.Run("nested var in fallback belongs to the outer occurrence", func(t *testing.T) {
		refs := vars.ScanValue("var(--a, var(--b, 2px))")
		require.Len(t, refs, 1)
		assert.Equal(t, "--a", refs[0].Name)
		assert.Equal(t, " var(--b, 2px)", refs[0].Fallback)
	})

	t.Run("reference inside another function is found", func(t *testing.T) {
		value := "calc(var(--gap) * 2)"
		refs := vars.ScanValue(value)
		require.Len(t, refs, 1)
		assert.Equal(t, "--gap", refs[0].Name)
		assert.Equal(t, "var(--gap)", value[refs[0].Start:refs[0].End])
	})

	t.Run("multiple references in one value", func(t *testing.T) {
		refs := vars.ScanValue("var(--x) var(--y, 1px)")
		require.Len(t, refs, 2)
		assert.Equal(t, "--x", refs[0].Name)
		assert.Equal(t, "--y", refs[1].Name)
	})

	t.Run("identifier tails are not matched", func(t *testing.T) {
		assert.Empty(t, vars.ScanValue("somevar(--x)"))
		assert.Empty(t, vars.ScanValue("--var(--x)"))
	})

	t.Run("quoted text is never matched", func(t *testing.T) {
		assert.Empty(t, vars.ScanValue(`"var(--x)"`))
		assert.Empty(t, vars.ScanValue(`'var(--x)'`))
		refs := vars.ScanValue(`"var(--x)" var(--y)`)
		require.Len(t, refs, 1)
		assert.Equal(t, "--y", refs[0].Name)
	})

	t.Run("unterminated call is skipped", func(t *testing.T) {
		assert.Empty(t, vars.ScanValue("var(--x"))
		// A complete inner call is still found.
		refs := vars.ScanValue("var(--a, var(--b)")
		require.Len(t, refs, 1)
		assert.Equal(t, "--b", refs[0].Name)
	})

	t.Run("first argument must be a custom property name", func(t *testing.T) {
		assert.Empty(t, vars.ScanValue("var(1px)"))
		assert.Empty(t, vars.ScanValue("var(foo, 1px)"))
		assert.Empty(t, vars.ScanValue("var(--a b)"))
	})

	t.Run("surrounding whitespace in arguments", func(t *testing.T) {
		refs := vars.ScanValue("var( --pad , 1rem )")
		require.Len(t, refs, 1)
		assert.Equal(t, "--pad", refs[0].Name)
		assert.Equal(t, " 1rem ", refs[0].Fallback)
	})

	t.Run("offsets index the original text", func(t *testing.T) {
		value := "1px solid var(--border-color, currentColor)"
		refs := vars.ScanValue(value)
		require.Len(t, refs, 1)
		assert.Equal(t, "var(--border-color, currentColor)", value[refs[0].Start:refs[0].End])
	})
}

// TestReferencedNames verifies edge extraction for the reference graph,
// fallback clauses included.
func TestReferencedNames(t *testing.T) {
	t.Run("plain value has no references", func(t *testing.T) {
		assert.Empty(t, vars.ReferencedNames("16px"))
	})

	t.Run("top level references", func(t *testing.T) {
		names := vars.ReferencedNames("var(--a) var(--b)")
		assert.Equal(t, []string{"--a", "--b"}, names)
	})

	t.Run("names inside fallbacks are edges too", func(t *testing.T) {
		names := vars.ReferencedNames("var(--a, var(--b, var(--c)))")
		assert.Equal(t, []string{"--a", "--b", "--c"}, names)
	})

	t.Run("names inside other functions are edges", func(t *testing.T) {
		names := vars.ReferencedNames("calc(var(--x) + var(--y))")
		assert.Equal(t, []string{"--x", "--y"}, names)
	})
}
