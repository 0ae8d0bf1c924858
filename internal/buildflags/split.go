package buildflags

import (
	"errors"
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Split breaks s into words the way a POSIX shell would, honouring single
// quotes, double quotes and backslash escapes. No variable expansion is done.
func Split(s string) ([]string, error) {
	words, err := shellquote.Split(s)
	switch {
	case err == nil:
		return words, nil
	case errors.Is(err, shellquote.UnterminatedSingleQuoteError),
		errors.Is(err, shellquote.UnterminatedDoubleQuoteError):
		return nil, fmt.Errorf("%w: %w", ErrUnterminatedQuote, err)
	case errors.Is(err, shellquote.UnterminatedEscapeError):
		return nil, fmt.Errorf("%w: %w", ErrTrailingEscape, err)
	}
	return nil, err
}
