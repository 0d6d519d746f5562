package vars

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCircularReference indicates a variable participates in a reference cycle
var ErrCircularReference = errors.New("circular reference detected")

// CircularReferenceError provides details about a circular reference chain
type CircularReferenceError struct {
	Name  string
	Chain []string
}

func (e *CircularReferenceError) Error() string {
	return fmt.Sprintf("circular reference detected for %s: %s",
		e.Name, strings.Join(e.Chain, " → "))
}

func (e *CircularReferenceError) Unwrap() error {
	return ErrCircularReference
}
