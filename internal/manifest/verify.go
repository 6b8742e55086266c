package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/cameronsjo/racoon/internal/archive"
	"github.com/cameronsjo/racoon/internal/digest"
	"github.com/cameronsjo/racoon/internal/fetch"
)

// maxDigestFileSize bounds how much of a digest file is read.
const maxDigestFileSize = 1 << 20

// verify runs the digest stage and then the archive stage against the
// file written to dst. The first failing stage aborts verification.
func (r *Resolver) verify(ctx context.Context, spec *Verify, dst string) error {
	r.observers.verifyStart(dst)

	var d *Digest
	var a *Archive
	if spec != nil {
		d, a = spec.Digest, spec.Archive
	}

	path := r.absPath(dst)
	if err := r.verifyDigest(ctx, d, path); err != nil {
		r.observers.verifyEnd(dst, true)
		return err
	}
	if err := r.verifyArchive(a, path); err != nil {
		r.observers.verifyEnd(dst, true)
		return err
	}

	r.observers.verifyEnd(dst, false)
	return nil
}

func (r *Resolver) verifyDigest(ctx context.Context, d *Digest, path string) error {
	if d == nil {
		return nil
	}

	alg, err := digest.ParseAlgorithm(d.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if alg == digest.None {
		return nil
	}

	var expected string
	switch {
	case d.Text != "":
		expected = strings.TrimSpace(d.Text)
	case d.File != nil:
		expected, err = r.fetchDigest(ctx, d.File)
		if err != nil {
			return err
		}
	default:
		return formatErrorf("digest of %s needs either text or file", path)
	}

	actual, err := digest.SumFile(r.fs, path, alg)
	if err != nil {
		return verificationErrorf("compute %s digest: %v", alg, err)
	}

	if !strings.EqualFold(actual, expected) {
		return verificationErrorf("invalid %s digest for %s: got %s, want %s", alg, path, actual, expected)
	}
	return nil
}

// fetchDigest loads a digest file and returns its first token. Retrieval
// failures become verification failures of the file being checked.
func (r *Resolver) fetchDigest(ctx context.Context, entry *FileEntry) (string, error) {
	body, err := r.processFile(ctx, entry, modeMemory)
	if err != nil {
		if IsFatal(err) || requiredFetchFailed(err) {
			return "", fmt.Errorf("digest file %s: %w", entry.URL, err)
		}
		return "", verificationErrorf("load digest file %s: %v", entry.URL, err)
	}

	content, err := io.ReadAll(io.LimitReader(body, maxDigestFileSize))
	if err != nil {
		return "", verificationErrorf("read digest file %s: %v", entry.URL, err)
	}

	fields := strings.Fields(string(content))
	if len(fields) == 0 {
		return "", verificationErrorf("digest file %s is empty", entry.URL)
	}
	return fields[0], nil
}

// requiredFetchFailed reports whether err is a digest file that is missing
// or whose server could not be reached. Those end the run; an HTTP error
// status only fails the file being verified.
func requiredFetchFailed(err error) bool {
	if errors.Is(err, fetch.ErrNotFound) {
		return true
	}
	var te *fetch.TransportError
	return errors.As(err, &te) && te.StatusCode == 0
}

func (r *Resolver) verifyArchive(a *Archive, path string) error {
	if a == nil || len(a.Contains) == 0 {
		return nil
	}

	missing, err := archive.MissingFile(r.fs, path, a.Contains)
	if err != nil {
		return verificationErrorf("inspect archive: %v", err)
	}
	if len(missing) > 0 {
		return verificationErrorf("archive %s does not contain %s", path, strings.Join(missing, ", "))
	}
	return nil
}
