package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/cameronsjo/racoon/internal/fileutil"
)

// ChunkSize is the copy buffer size used when streaming content.
const ChunkSize = 10 * 1024

// DefaultUserAgent is sent on HTTP requests that do not set one.
const DefaultUserAgent = "racoon"

// Target selects where fetched content goes.
type Target struct {
	path string
}

// ToMemory returns a Target that spools content into memory.
func ToMemory() Target { return Target{} }

// ToPath returns a Target that writes content to path, replacing any
// existing file.
func ToPath(path string) Target { return Target{path: path} }

// Persisting reports whether the target writes to disk.
func (t Target) Persisting() bool { return t.path != "" }

// Path returns the destination path of a persisting target.
func (t Target) Path() string { return t.path }

// Result is the outcome of a successful Fetch. Exactly one of Body or
// Path is set, matching the Target.
type Result struct {
	// Body holds the content positioned at its start (memory targets).
	Body io.ReadSeeker

	// Path is where the content was written (path targets).
	Path string

	// Size is the number of bytes retrieved.
	Size int64
}

// Retriever fetches resources over HTTP(S) or from a filesystem.
type Retriever struct {
	client    *http.Client
	fs        billy.Filesystem
	userAgent string
	chunkSize int
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(r *Retriever) {
		r.client = c
	}
}

// WithTimeout sets the overall HTTP request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Retriever) {
		r.client = &http.Client{Timeout: d}
	}
}

// WithFilesystem sets the filesystem used for file:// sources and
// persisting targets. Paths handed to the Retriever are absolute.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(r *Retriever) {
		r.fs = fsys
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(r *Retriever) {
		if ua != "" {
			r.userAgent = ua
		}
	}
}

// New creates a Retriever. By default it uses the host filesystem and an
// HTTP client without a timeout.
func New(opts ...Option) *Retriever {
	r := &Retriever{
		client:    &http.Client{},
		fs:        osfs.New("/"),
		userAgent: DefaultUserAgent,
		chunkSize: ChunkSize,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Filesystem returns the filesystem the Retriever reads and writes.
func (r *Retriever) Filesystem() billy.Filesystem {
	return r.fs
}

// Fetch retrieves the resource named by loc into target. headers are sent
// with HTTP requests and ignored for file sources.
func (r *Retriever) Fetch(ctx context.Context, loc Locator, headers map[string]string, target Target) (*Result, error) {
	switch loc.Scheme {
	case SchemeHTTP, SchemeHTTPS:
		return r.fetchHTTP(ctx, loc, headers, target)
	case SchemeFile:
		return r.fetchFile(loc, target)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, loc.Scheme)
	}
}

func (r *Retriever) fetchHTTP(ctx context.Context, loc Locator, headers map[string]string, target Target) (*Result, error) {
	url := loc.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", r.userAgent)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &TransportError{URL: url, StatusCode: resp.StatusCode}
	}

	res, err := r.deliver(resp.Body, target)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	return res, nil
}

func (r *Retriever) fetchFile(loc Locator, target Target) (*Result, error) {
	src := loc.Path()

	f, err := r.fs.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: src, Err: err}
		}
		return nil, fmt.Errorf("open %s: %w", src, err)
	}
	defer f.Close()

	return r.deliver(f, target)
}

func (r *Retriever) deliver(src io.Reader, target Target) (*Result, error) {
	buf := make([]byte, r.chunkSize)

	if !target.Persisting() {
		var spool bytes.Buffer
		n, err := io.CopyBuffer(&spool, src, buf)
		if err != nil {
			return nil, fmt.Errorf("read content: %w", err)
		}
		return &Result{Body: bytes.NewReader(spool.Bytes()), Size: n}, nil
	}

	n, err := fileutil.WriteAtomic(r.fs, target.Path(), src, buf)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", target.Path(), err)
	}
	return &Result{Path: target.Path(), Size: n}, nil
}
