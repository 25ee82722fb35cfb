package errors

import (
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Limits applied to caller-supplied word lists.
const (
	MaxWords      = 256
	MaxWordLength = 128
)

// ValidateWord validates a single word token.
//
// The validation rules are intentionally conservative:
//   - No empty words
//   - No control characters
//   - Maximum length of MaxWordLength runes
func ValidateWord(word string) error {
	if word == "" {
		return New(ErrCodeInvalidInput, "word cannot be empty")
	}
	if utf8.RuneCountInString(word) > MaxWordLength {
		return New(ErrCodeInvalidInput, "word too long (max %d characters)", MaxWordLength)
	}
	for _, r := range word {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "word contains invalid control characters")
		}
	}
	return nil
}

// ValidateWords validates a complete word list. Duplicates are allowed;
// exercises often repeat articles and particles.
func ValidateWords(words []string) error {
	if len(words) == 0 {
		return New(ErrCodeInvalidInput, "word list cannot be empty")
	}
	if len(words) > MaxWords {
		return New(ErrCodeInvalidInput, "too many words (max %d)", MaxWords)
	}
	for i, w := range words {
		if err := ValidateWord(w); err != nil {
			return Wrap(ErrCodeInvalidInput, err, "word %d", i)
		}
	}
	return nil
}

// ValidateSessionID validates a session identifier.
// Session IDs are UUIDs in canonical textual form.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "session id cannot be empty")
	}
	if _, err := uuid.Parse(id); err != nil {
		return New(ErrCodeInvalidInput, "invalid session id: %q", id)
	}
	return nil
}
