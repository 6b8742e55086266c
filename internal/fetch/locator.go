package fetch

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Scheme is the closed set of locator schemes the Retriever understands.
type Scheme int

const (
	// SchemeUnknown is the zero value and never produced by ParseLocator.
	SchemeUnknown Scheme = iota
	SchemeHTTP
	SchemeHTTPS
	SchemeFile
)

func (s Scheme) String() string {
	switch s {
	case SchemeHTTP:
		return "http"
	case SchemeHTTPS:
		return "https"
	case SchemeFile:
		return "file"
	default:
		return "unknown"
	}
}

// Locator errors.
var (
	// ErrUnsupportedScheme indicates a URL scheme other than http, https or file.
	ErrUnsupportedScheme = errors.New("URL scheme unsupported")

	// ErrInvalidFileURL indicates a file URL with a host or a relative path.
	ErrInvalidFileURL = errors.New("invalid file URL")

	// ErrInvalidURL indicates a string that does not parse as a URL.
	ErrInvalidURL = errors.New("invalid URL")
)

// Locator identifies a retrievable resource.
type Locator struct {
	Scheme Scheme
	url    *url.URL
}

// ParseLocator parses raw into a Locator. File URLs must have an empty
// host and an absolute path.
func ParseLocator(raw string) (Locator, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Locator{}, fmt.Errorf("%w: %w", ErrInvalidURL, err)
	}

	switch u.Scheme {
	case "http":
		return newHTTPLocator(SchemeHTTP, u)
	case "https":
		return newHTTPLocator(SchemeHTTPS, u)
	case "file":
		if u.Host != "" {
			return Locator{}, fmt.Errorf("%w: hostname must be empty: %s", ErrInvalidFileURL, raw)
		}
		if u.Opaque != "" || !path.IsAbs(u.Path) {
			return Locator{}, fmt.Errorf("%w: only absolute paths are supported: %s", ErrInvalidFileURL, raw)
		}
		u.Path = path.Clean(u.Path)
		u.RawPath = ""
		u.OmitHost = false
		return Locator{Scheme: SchemeFile, url: u}, nil
	case "":
		return Locator{}, fmt.Errorf("%w: missing scheme in %q", ErrUnsupportedScheme, raw)
	default:
		return Locator{}, fmt.Errorf("%w: %s", ErrUnsupportedScheme, u.Scheme)
	}
}

func newHTTPLocator(s Scheme, u *url.URL) (Locator, error) {
	if u.Host == "" {
		return Locator{}, fmt.Errorf("%w: missing host in %s", ErrInvalidURL, u.String())
	}
	u.Host = strings.ToLower(u.Host)
	return Locator{Scheme: s, url: u}, nil
}

// String returns the normalized URL. Two locators naming the same
// resource produce equal strings.
func (l Locator) String() string {
	if l.url == nil {
		return ""
	}
	return l.url.String()
}

// Path returns the filesystem path of a file locator.
func (l Locator) Path() string {
	if l.url == nil {
		return ""
	}
	return l.url.Path
}

// URL returns a copy of the underlying URL.
func (l Locator) URL() *url.URL {
	if l.url == nil {
		return nil
	}
	u := *l.url
	return &u
}

// FileLocator builds a file locator for an absolute path.
func FileLocator(absPath string) (Locator, error) {
	u := &url.URL{Scheme: "file", Path: absPath}
	return ParseLocator(u.String())
}
