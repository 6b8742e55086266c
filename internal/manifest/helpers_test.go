package manifest

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/racoon/internal/fetch"
)

const testWorkDir = "/work"

type event struct {
	Kind    string
	Name    string
	Src     string
	Dst     string
	Persist bool
	Failed  bool
}

// recorder captures notifications in order.
type recorder struct {
	events []event
}

func (r *recorder) ManifestParsingStart(name string) {
	r.events = append(r.events, event{Kind: "manifest_parsing_start", Name: name})
}

func (r *recorder) ManifestParsingEnd(name string) {
	r.events = append(r.events, event{Kind: "manifest_parsing_end", Name: name})
}

func (r *recorder) FileStart(src, dst string, persist bool) {
	r.events = append(r.events, event{Kind: "file_start", Src: src, Dst: dst, Persist: persist})
}

func (r *recorder) FileEnd(src, dst string, persist, failed bool) {
	r.events = append(r.events, event{Kind: "file_end", Src: src, Dst: dst, Persist: persist, Failed: failed})
}

func (r *recorder) VerifyStart(path string) {
	r.events = append(r.events, event{Kind: "verify_start", Dst: path})
}

func (r *recorder) VerifyEnd(path string, failed bool) {
	r.events = append(r.events, event{Kind: "verify_end", Dst: path, Failed: failed})
}

func (r *recorder) ofKind(kind string) []event {
	var out []event
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (r *recorder) manifestNames() []string {
	var names []string
	for _, e := range r.ofKind("manifest_parsing_start") {
		names = append(names, e.Name)
	}
	return names
}

func (r *recorder) fetchedSources() []string {
	var srcs []string
	for _, e := range r.ofKind("file_start") {
		srcs = append(srcs, e.Src)
	}
	return srcs
}

// countingFetcher counts Fetch calls before delegating.
type countingFetcher struct {
	calls int
	next  Fetcher
}

func (c *countingFetcher) Fetch(ctx context.Context, loc fetch.Locator, headers map[string]string, target fetch.Target) (*fetch.Result, error) {
	c.calls++
	return c.next.Fetch(ctx, loc, headers, target)
}

type testEnv struct {
	resolver *Resolver
	fs       billy.Filesystem
	rec      *recorder
	fetcher  *countingFetcher
}

func newTestEnv(t *testing.T, opts ...Option) *testEnv {
	t.Helper()

	fs := memfs.New()
	fetcher := &countingFetcher{next: fetch.New(fetch.WithFilesystem(fs))}
	base := []Option{WithFilesystem(fs), WithWorkDir(testWorkDir), WithFetcher(fetcher)}

	r, err := New(append(base, opts...)...)
	require.NoError(t, err)

	rec := &recorder{}
	require.NoError(t, r.AddObserver(rec))

	return &testEnv{resolver: r, fs: fs, rec: rec, fetcher: fetcher}
}

func (e *testEnv) write(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, util.WriteFile(e.fs, path, content, 0o644))
}

func (e *testEnv) read(t *testing.T, path string) string {
	t.Helper()
	data, err := util.ReadFile(e.fs, path)
	require.NoError(t, err)
	return string(data)
}

func (e *testEnv) exists(path string) bool {
	_, err := e.fs.Stat(path)
	return err == nil
}

func (e *testEnv) evaluate(t *testing.T, m *Manifest) error {
	t.Helper()
	require.NoError(t, e.resolver.Load(m))
	return e.resolver.Evaluate(context.Background())
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
