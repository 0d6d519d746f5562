package cvf

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors(t *testing.T) {
	t.Run("ConfigError", func(t *testing.T) {
		err := &ConfigError{Reason: "fallbacks must be a sequence"}

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "invalid configuration")
		assert.Contains(t, err.Error(), "fallbacks must be a sequence")

		// Should be unwrappable to ErrInvalidConfig
		assert.True(t, errors.Is(err, ErrInvalidConfig))
	})

	t.Run("SourceLoadError", func(t *testing.T) {
		err := &SourceLoadError{Source: "theme.css", Err: fs.ErrNotExist}

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "theme.css")

		// Unwraps to both the sentinel and the underlying cause
		assert.True(t, errors.Is(err, ErrSourceLoad))
		assert.True(t, errors.Is(err, fs.ErrNotExist))
	})

	t.Run("circular reference sentinel is shared with warnings", func(t *testing.T) {
		dir := writeFixtures(t, map[string]string{
			"tokens.css": ":root{--a:var(--b);--b:var(--a);}",
		})

		transformer := New(Options{Fallbacks: []any{"tokens.css"}, Dir: dir})
		_, warnings := transformer.Variables("")

		if assert.Len(t, warnings, 1) {
			assert.True(t, errors.Is(warnings[0], ErrCircularReference))
			assert.Contains(t, warnings[0].Error(), "--a")
			assert.Contains(t, warnings[0].Error(), "--b")
		}
	})
}
