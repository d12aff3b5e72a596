package sanitize

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmptyAfterSanitization indicates that nothing embeddable remained once
// control characters and whitespace were stripped. Fatal for the item, not
// retryable.
var ErrEmptyAfterSanitization = errors.New("text is empty after sanitization")

// Sanitize strips control characters and null bytes and trims whitespace.
// Newlines and tabs are kept: they carry structure the embedding model can
// use. Returns ErrEmptyAfterSanitization if nothing remains.
func Sanitize(text string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		if r == 0 {
			return -1
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, text)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return "", ErrEmptyAfterSanitization
	}
	return cleaned, nil
}
