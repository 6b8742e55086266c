package manifest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/cameronsjo/racoon/internal/fetch"
	"github.com/cameronsjo/racoon/internal/fileutil"
)

// Fetcher retrieves the resource named by a locator. *fetch.Retriever
// implements it.
type Fetcher interface {
	Fetch(ctx context.Context, loc fetch.Locator, headers map[string]string, target fetch.Target) (*fetch.Result, error)
}

// fetchMode selects whether a file entry is written to disk or returned
// as a transient stream.
type fetchMode int

const (
	modePersist fetchMode = iota
	modeMemory
)

// Resolver evaluates a manifest and the manifests it includes.
type Resolver struct {
	manifest     *Manifest
	submanifests []*Manifest
	observers    observers
	seen         map[string]struct{}

	allowTraversal bool
	workDir        string
	fs             billy.Filesystem
	fetcher        Fetcher
	headers        map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAllowDirectoryTraversal permits reading and writing outside the
// working directory.
func WithAllowDirectoryTraversal(allow bool) Option {
	return func(r *Resolver) {
		r.allowTraversal = allow
	}
}

// WithWorkDir sets the working directory relative destinations resolve
// against. Defaults to the process working directory.
func WithWorkDir(dir string) Option {
	return func(r *Resolver) {
		r.workDir = dir
	}
}

// WithFilesystem sets the filesystem files are written to, verified on
// and removed from. Defaults to the host filesystem.
func WithFilesystem(fsys billy.Filesystem) Option {
	return func(r *Resolver) {
		r.fs = fsys
	}
}

// WithFetcher sets the Fetcher. Defaults to a fetch.Retriever on the
// Resolver's filesystem.
func WithFetcher(f Fetcher) Option {
	return func(r *Resolver) {
		r.fetcher = f
	}
}

// WithDefaultHeaders sets HTTP headers sent with every request. Headers
// on a file entry take precedence.
func WithDefaultHeaders(h map[string]string) Option {
	return func(r *Resolver) {
		r.headers = h
	}
}

// New creates a Resolver with an empty manifest loaded.
func New(opts ...Option) (*Resolver, error) {
	r := &Resolver{
		manifest: &Manifest{},
		seen:     make(map[string]struct{}),
	}

	for _, opt := range opts {
		opt(r)
	}

	if r.workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		r.workDir = wd
	}
	abs, err := filepath.Abs(r.workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	r.workDir = abs

	if r.fs == nil {
		r.fs = osfs.New("/")
	}
	if r.fetcher == nil {
		r.fetcher = fetch.New(fetch.WithFilesystem(r.fs))
	}

	return r, nil
}

// AddObserver registers o. Observers are notified in registration order.
func (r *Resolver) AddObserver(o Observer) error {
	if o == nil {
		return errors.New("observer must not be nil")
	}
	r.observers = append(r.observers, o)
	return nil
}

// Load sets the root manifest.
func (r *Resolver) Load(m *Manifest) error {
	if m == nil {
		return formatErrorf("manifest must be a mapping")
	}
	r.manifest = m
	return nil
}

// LoadTree sets the root manifest from a generic mapping tree.
func (r *Resolver) LoadTree(tree any) error {
	m, err := FromTree(tree)
	if err != nil {
		return err
	}
	return r.Load(m)
}

// LoadYAML parses a manifest document from rd and sets it as the root.
func (r *Resolver) LoadYAML(rd io.Reader) error {
	m, err := ParseReader(rd)
	if err != nil {
		return err
	}
	return r.Load(m)
}

// LoadFile reads and parses the manifest at path.
func (r *Resolver) LoadFile(path string) error {
	f, err := r.fs.Open(r.absPath(path))
	if err != nil {
		return fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	if err := r.LoadYAML(f); err != nil {
		return fmt.Errorf("load manifest %s: %w", path, err)
	}
	return nil
}

// Manifest returns the root manifest.
func (r *Resolver) Manifest() *Manifest {
	return r.manifest
}

// Included returns the included manifests evaluated so far, in
// evaluation order.
func (r *Resolver) Included() []*Manifest {
	return r.submanifests
}

// WorkDir returns the absolute working directory.
func (r *Resolver) WorkDir() string {
	return r.workDir
}

// Evaluate processes the root manifest and, depth-first, every manifest it
// includes. It returns fatal errors (see IsFatal), a failed include or
// digest file fetch, and context cancellation.
func (r *Resolver) Evaluate(ctx context.Context) error {
	return r.evaluate(ctx, r.manifest)
}

func (r *Resolver) evaluate(ctx context.Context, m *Manifest) error {
	r.observers.manifestParsingStart(m.Name)
	for _, section := range m.sections() {
		for i := range section {
			if _, err := r.processFile(ctx, &section[i], modePersist); err != nil {
				return err
			}
		}
	}
	r.observers.manifestParsingEnd(m.Name)

	return r.evaluateIncludes(ctx, m)
}

func (r *Resolver) evaluateIncludes(ctx context.Context, m *Manifest) error {
	for i := range m.Includes {
		include := &m.Includes[i]
		if include.URL == "" {
			return formatErrorf("url is required for includes")
		}

		key := include.URL
		loc, err := fetch.ParseLocator(include.URL)
		switch {
		case err == nil:
			key = loc.String()
		case !sourceLevel(err):
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}

		if _, dup := r.seen[key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateInclude, key)
		}
		r.seen[key] = struct{}{}

		body, err := r.processFile(ctx, include, modeMemory)
		if err != nil {
			if errors.Is(err, fetch.ErrNotFound) {
				continue
			}
			return fmt.Errorf("include %s: %w", key, err)
		}

		sub, err := ParseReader(body)
		if err != nil {
			return fmt.Errorf("include %s: %w", key, err)
		}

		r.submanifests = append(r.submanifests, sub)
		if err := r.evaluate(ctx, sub); err != nil {
			return err
		}
	}
	return nil
}

// processFile retrieves one file entry. In modePersist the file is written
// to its destination and verified; retrieval and verification failures are
// absorbed, except fatal errors and a digest file that is missing or
// unreachable. In modeMemory the content is
// returned and every failure propagates.
func (r *Resolver) processFile(ctx context.Context, entry *FileEntry, mode fetchMode) (io.ReadSeeker, error) {
	if entry.URL == "" {
		return nil, formatErrorf("url is required for files")
	}

	// Scheme and file URL problems are reported after file_start, like
	// every other failure of a named source.
	loc, locErr := fetch.ParseLocator(entry.URL)
	if locErr != nil && !sourceLevel(locErr) {
		return nil, fmt.Errorf("%w: %w", ErrFormat, locErr)
	}

	persist := mode == modePersist
	var dst string
	target := fetch.ToMemory()
	if persist {
		if entry.Destination == "" {
			return nil, formatErrorf("destination is required for %s", entry.URL)
		}
		dst = entry.Destination
		if !r.destinationAllowed(dst) {
			return nil, fmt.Errorf("%w: destination %s", ErrSecurity, dst)
		}
		target = fetch.ToPath(r.absPath(dst))
	}

	src := entry.URL
	if locErr == nil {
		src = loc.String()
	}
	r.observers.fileStart(src, dst, persist)
	if locErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, locErr)
	}

	switch loc.Scheme {
	case fetch.SchemeHTTP, fetch.SchemeHTTPS:
	case fetch.SchemeFile:
		if !r.sourceAllowed(loc.Path()) {
			return nil, fmt.Errorf("%w: source %s", ErrSecurity, loc.Path())
		}
	default:
		return nil, formatErrorf("URL scheme unsupported: %s", loc.Scheme)
	}

	res, err := r.fetcher.Fetch(ctx, loc, r.headersFor(entry), target)
	if err != nil {
		r.observers.fileEnd(src, dst, persist, true)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if !persist {
			return nil, err
		}
		return nil, nil
	}
	r.observers.fileEnd(src, dst, persist, false)

	if !persist {
		return res.Body, nil
	}

	if err := r.verify(ctx, entry.Verify, dst); err != nil {
		// The file is not trusted; remove it as if it was never fetched.
		fileutil.RemoveIfExists(r.fs, target.Path())
		if IsFatal(err) || requiredFetchFailed(err) {
			return nil, err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
	}
	return nil, nil
}

func (r *Resolver) headersFor(entry *FileEntry) map[string]string {
	if len(r.headers) == 0 {
		return entry.Headers
	}
	merged := make(map[string]string, len(r.headers)+len(entry.Headers))
	for k, v := range r.headers {
		merged[k] = v
	}
	for k, v := range entry.Headers {
		merged[k] = v
	}
	return merged
}

func (r *Resolver) absPath(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.workDir, p)
}

// sourceLevel reports whether a locator error concerns a well-formed URL
// naming a source racoon cannot read.
func sourceLevel(err error) bool {
	return errors.Is(err, fetch.ErrUnsupportedScheme) || errors.Is(err, fetch.ErrInvalidFileURL)
}

// destinationAllowed reports whether dst may be written. Without the
// traversal flag, only bare relative file names and files directly inside
// the working directory are allowed.
func (r *Resolver) destinationAllowed(dst string) bool {
	if r.allowTraversal {
		return true
	}
	clean := filepath.Clean(dst)
	parent := filepath.Dir(clean)
	if parent == "." {
		return clean != ".." && clean != "."
	}
	return parent == r.workDir
}

// sourceAllowed reports whether a file:// source may be read.
func (r *Resolver) sourceAllowed(src string) bool {
	if r.allowTraversal {
		return true
	}
	return filepath.Dir(filepath.Clean(src)) == r.workDir
}
