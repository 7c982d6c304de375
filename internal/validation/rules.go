package validation

import (
	"net/mail"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/garnizeh/carematch/internal/apperr"
)

// DefaultMinPasswordLength is used when the configuration leaves it unset.
const DefaultMinPasswordLength = 6

// MaxStatusLength bounds appointment status tags.
const MaxStatusLength = 100

var phonePattern = regexp.MustCompile(`^\+?[0-9 ]*[0-9][0-9 ]*$`)

// Field records msg on verr under name unless msg is empty.
func Field(verr *apperr.ValidationError, name, msg string) {
	if msg != "" {
		verr.Add(name, msg)
	}
}

// Password returns a problem with p, or "".
func Password(p string, minLen int) string {
	if minLen <= 0 {
		minLen = DefaultMinPasswordLength
	}
	switch {
	case len([]rune(p)) < minLen:
		return "must be at least " + strconv.Itoa(minLen) + " characters"
	case strings.TrimSpace(p) != p:
		return "must not start or end with whitespace"
	}
	return ""
}

// Phone accepts digits and spaces with an optional leading '+'. Nil is fine.
func Phone(p *string) string {
	if p == nil || *p == "" {
		return ""
	}
	if !phonePattern.MatchString(*p) {
		return "may contain only digits, spaces and a leading +"
	}
	return ""
}

// Email checks for a single bare address.
func Email(e string) string {
	addr, err := mail.ParseAddress(e)
	if err != nil || addr.Address != e {
		return "must be a valid email address"
	}
	return ""
}

// Required rejects blank strings.
func Required(s string) string {
	if strings.TrimSpace(s) == "" {
		return "is required"
	}
	return ""
}

// Date accepts YYYY-MM-DD.
func Date(s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	if _, err := time.Parse(time.DateOnly, *s); err != nil {
		return "must be a date in YYYY-MM-DD format"
	}
	return ""
}

// Clock accepts HH:MM or HH:MM:SS.
func Clock(s *string) string {
	if s == nil || *s == "" {
		return ""
	}
	if _, err := time.Parse("15:04", *s); err == nil {
		return ""
	}
	if _, err := time.Parse(time.TimeOnly, *s); err == nil {
		return ""
	}
	return "must be a time in HH:MM or HH:MM:SS format"
}

// NonNegative rejects negative numbers.
func NonNegative[T int | float64](v *T) string {
	if v != nil && *v < 0 {
		return "must not be negative"
	}
	return ""
}

// Status requires a non-empty tag of bounded length.
func Status(s string) string {
	switch {
	case strings.TrimSpace(s) == "":
		return "is required"
	case len(s) > MaxStatusLength:
		return "must be at most " + strconv.Itoa(MaxStatusLength) + " characters"
	}
	return ""
}
