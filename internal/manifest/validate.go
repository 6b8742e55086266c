package manifest

import (
	"errors"
	"fmt"

	"github.com/cameronsjo/racoon/internal/digest"
	"github.com/cameronsjo/racoon/internal/fetch"
)

// Validate checks the structure of m without fetching anything. It does
// not follow includes. All problems are reported, joined into one error;
// each matches ErrFormat or ErrDuplicateInclude.
func Validate(m *Manifest) error {
	if m == nil {
		return formatErrorf("manifest must be a mapping")
	}

	var errs []error
	sectionNames := []string{"before.files", "files", "after.files"}
	for s, section := range m.sections() {
		for i := range section {
			where := fmt.Sprintf("%s[%d]", sectionNames[s], i)
			errs = append(errs, validateEntry(where, &section[i], true)...)
		}
	}

	seen := make(map[string]int)
	for i := range m.Includes {
		where := fmt.Sprintf("includes[%d]", i)
		entryErrs := validateEntry(where, &m.Includes[i], false)
		errs = append(errs, entryErrs...)
		if len(entryErrs) > 0 {
			continue
		}
		loc, _ := fetch.ParseLocator(m.Includes[i].URL)
		if first, dup := seen[loc.String()]; dup {
			errs = append(errs, fmt.Errorf("%w: %s duplicates includes[%d]: %s", ErrDuplicateInclude, where, first, loc))
			continue
		}
		seen[loc.String()] = i
	}

	return errors.Join(errs...)
}

// ValidateDocument parses data and validates the resulting manifest.
func ValidateDocument(data []byte) (*Manifest, error) {
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return m, Validate(m)
}

func validateEntry(where string, entry *FileEntry, persist bool) []error {
	var errs []error

	if entry.URL == "" {
		errs = append(errs, formatErrorf("%s: url is required", where))
	} else if _, err := fetch.ParseLocator(entry.URL); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrFormat, where, err))
	}

	if persist && entry.Destination == "" {
		errs = append(errs, formatErrorf("%s: destination is required", where))
	}

	if entry.Verify == nil || entry.Verify.Digest == nil {
		return errs
	}

	d := entry.Verify.Digest
	alg, err := digest.ParseAlgorithm(d.Algorithm)
	if err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %w", ErrFormat, where, err))
		return errs
	}
	if alg == digest.None {
		return errs
	}

	switch {
	case d.Text != "":
	case d.File != nil:
		errs = append(errs, validateEntry(where+".verify.digest.file", d.File, false)...)
	default:
		errs = append(errs, formatErrorf("%s: digest needs either text or file", where))
	}
	return errs
}
