// Package digest computes content digests of fetched files.
package digest

import (
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"

	"github.com/go-git/go-billy/v5"
)

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	// None disables digest verification.
	None Algorithm = "none"

	// MD5 is the md5 digest.
	MD5 Algorithm = "md5"

	// SHA256 is the sha256 digest.
	SHA256 Algorithm = "sha256"
)

// ErrUnsupportedAlgorithm indicates an algorithm name outside the supported set.
var ErrUnsupportedAlgorithm = errors.New("digest algorithm unsupported")

// SupportedAlgorithms lists the algorithm names accepted by ParseAlgorithm.
var SupportedAlgorithms = []Algorithm{None, MD5, SHA256}

// ParseAlgorithm maps a manifest algorithm name to an Algorithm.
// An empty name is treated as None.
func ParseAlgorithm(name string) (Algorithm, error) {
	switch Algorithm(name) {
	case "", None:
		return None, nil
	case MD5:
		return MD5, nil
	case SHA256:
		return SHA256, nil
	}
	return "", fmt.Errorf("%w: %q (supported: %v)", ErrUnsupportedAlgorithm, name, SupportedAlgorithms)
}

// New returns a fresh hash for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil
	case SHA256:
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, string(a))
}

// Sum returns the lowercase hex digest of everything read from r.
// Reads are sized to the hash block size so memory stays bounded
// regardless of input length.
func Sum(a Algorithm, r io.Reader) (string, error) {
	h, err := a.New()
	if err != nil {
		return "", err
	}

	block := make([]byte, h.BlockSize())
	for {
		n, err := r.Read(block)
		if n > 0 {
			h.Write(block[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read content: %w", err)
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// SumFile returns the digest of the file at path on fs.
func SumFile(fs billy.Filesystem, path string, a Algorithm) (string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Sum(a, f)
}
