package archive

import (
	"bytes"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildZip(t *testing.T, names ...string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range names {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte("content of " + name))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestMissing(t *testing.T) {
	data := buildZip(t, "a.txt", "b.txt", "dir/c.txt")

	tests := []struct {
		name string
		want []string
		miss []string
	}{
		{name: "single present entry", want: []string{"a.txt"}},
		{name: "all present", want: []string{"a.txt", "b.txt", "dir/c.txt"}},
		{name: "one missing", want: []string{"a.txt", "c.txt"}, miss: []string{"c.txt"}},
		{name: "no glob support", want: []string{"*.txt"}, miss: []string{"*.txt"}},
		{name: "nested path must match exactly", want: []string{"c.txt"}, miss: []string{"c.txt"}},
		{name: "empty list", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			missing, err := Missing(bytes.NewReader(data), int64(len(data)), tt.want)
			require.NoError(t, err)
			assert.Equal(t, tt.miss, missing)
		})
	}
}

func TestMissing_NotAnArchive(t *testing.T) {
	data := []byte("plain text, not a zip")
	_, err := Missing(bytes.NewReader(data), int64(len(data)), []string{"a.txt"})
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/bundle.zip", buildZip(t, "a.txt", "b.txt"), 0o644))

	missing, err := MissingFile(fs, "/work/bundle.zip", []string{"b.txt", "z.txt"})
	require.NoError(t, err)
	assert.Equal(t, []string{"z.txt"}, missing)
}

func TestMissingFile_EmptyListSkipsOpen(t *testing.T) {
	fs := memfs.New()

	// The file does not exist; an empty list must not try to open it.
	missing, err := MissingFile(fs, "/work/absent.zip", nil)
	require.NoError(t, err)
	assert.Empty(t, missing)
}
