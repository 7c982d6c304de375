package validation

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-supplied free text. Output is HTML-escaped
// text and is never unescaped again.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Text removes every tag from s and trims the result.
func (s *Sanitizer) Text(in string) string {
	return strings.TrimSpace(s.policy.Sanitize(in))
}

// Ptr sanitizes an optional field, keeping nil as nil.
func (s *Sanitizer) Ptr(in *string) *string {
	if in == nil {
		return nil
	}
	out := s.Text(*in)
	return &out
}
