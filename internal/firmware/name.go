// Package firmware derives the firmware program name from board and version.
package firmware

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// NamePrefix is the fixed first segment of every firmware name.
	NamePrefix = "mavesp"

	// DefaultPlaceholder stands in for a missing version.
	DefaultPlaceholder = "None"
)

var ErrMissingVersion = errors.New("VERSION_STRING is not defined")

// MissingPolicy selects what happens when no version is defined.
type MissingPolicy string

const (
	MissingPlaceholder MissingPolicy = "placeholder"
	MissingFail        MissingPolicy = "fail"
)

type NameOptions struct {
	OnMissing   MissingPolicy
	Placeholder string
	// ReplaceDots turns "1.2.2" into "1_2_2" for linkers that choke on dots
	// in output paths.
	ReplaceDots bool
}

// Name returns "mavesp-<board>-<version>". ok reports whether the version
// was defined at all; neither board nor version is otherwise validated.
func Name(board, version string, ok bool, opts NameOptions) (string, error) {
	if !ok {
		switch opts.OnMissing {
		case MissingFail:
			return "", ErrMissingVersion
		case MissingPlaceholder, "":
			version = opts.Placeholder
			if version == "" {
				version = DefaultPlaceholder
			}
		default:
			return "", fmt.Errorf("unknown missing-version policy %q", opts.OnMissing)
		}
	} else if opts.ReplaceDots {
		version = strings.ReplaceAll(version, ".", "_")
	}

	return fmt.Sprintf("%s-%s-%s", NamePrefix, board, version), nil
}
