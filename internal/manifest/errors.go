package manifest

import (
	"errors"
	"fmt"
)

// Error classes. Format, security and duplicate-include errors are fatal
// and stop evaluation; verification errors are absorbed per file.
var (
	// ErrFormat indicates a malformed manifest: wrong structure, missing
	// field, unsupported scheme or digest algorithm.
	ErrFormat = errors.New("manifest format invalid")

	// ErrSecurity indicates a path outside the working directory while
	// directory traversal is disabled.
	ErrSecurity = errors.New("directory traversal is disabled")

	// ErrDuplicateInclude indicates the same include URL was scheduled twice.
	ErrDuplicateInclude = errors.New("a single manifest can only be included once")

	// ErrVerification indicates a digest mismatch or missing archive entries.
	ErrVerification = errors.New("verification failed")
)

// IsFatal reports whether err is a format, security or duplicate-include
// error. These stop evaluation wherever they occur.
func IsFatal(err error) bool {
	return errors.Is(err, ErrFormat) ||
		errors.Is(err, ErrSecurity) ||
		errors.Is(err, ErrDuplicateInclude)
}

func formatErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrFormat, fmt.Sprintf(format, args...))
}

func verificationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrVerification, fmt.Sprintf(format, args...))
}
