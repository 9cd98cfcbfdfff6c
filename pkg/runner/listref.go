package runner

import (
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxListRefLength bounds a list id or "#N" reference in a command.
const MaxListRefLength = 128

var ErrUnsafeListRef = errors.New("unsafe list reference")

// checkListRef rejects references that cannot name a list and would only
// end up in logs and terminal output: control characters, whitespace,
// invalid UTF-8 and overlong values.
func checkListRef(field, ref string) error {
	if len(ref) > MaxListRefLength {
		return fmt.Errorf("%w: %s is %d bytes, limit %d", ErrUnsafeListRef, field, len(ref), MaxListRefLength)
	}
	if !utf8.ValidString(ref) {
		return fmt.Errorf("%w: %s is not valid UTF-8", ErrUnsafeListRef, field)
	}
	for _, r := range ref {
		if unicode.IsControl(r) || unicode.IsSpace(r) || r == utf8.RuneError {
			return fmt.Errorf("%w: %s contains %q", ErrUnsafeListRef, field, r)
		}
	}
	return nil
}
