// ABOUTME: Typed errors for the submission pipeline
// ABOUTME: Distinguishes refused validation from aborted attachment encoding
package register

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationErrors maps field names to stable human-readable reasons. An
// empty map means the draft is submittable.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "valid"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed: %s", strings.Join(fields, ", "))
}

// EncodingError aborts a submit before anything is persisted.
type EncodingError struct {
	Op      string
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}
