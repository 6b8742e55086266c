package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	doc := `name: toolchain
before:
  files:
    - url: https://example.com/keys.txt
      destination: keys.txt
files:
  - url: https://example.com/tool.zip
    destination: tool.zip
    headers:
      Authorization: Bearer abc
    verify:
      digest:
        algorithm: sha256
        file:
          url: https://example.com/tool.zip.sha256
      archive:
        contains: [bin/tool, LICENSE]
  - url: file:///srv/second.bin
    destination: second.bin
after:
  files:
    - url: https://example.com/done
      destination: done
includes:
  - url: file:///srv/manifests/extra.yaml
  - url: https://example.com/other.yaml
    headers:
      X-Token: t
`

	m, err := Parse([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "toolchain", m.Name)
	require.Len(t, m.Before.Files, 1)
	require.Len(t, m.Files, 2)
	require.Len(t, m.After.Files, 1)
	require.Len(t, m.Includes, 2)
	assert.Equal(t, 4, m.FileCount())

	tool := m.Files[0]
	assert.Equal(t, "https://example.com/tool.zip", tool.URL)
	assert.Equal(t, "Bearer abc", tool.Headers["Authorization"])
	require.NotNil(t, tool.Verify)
	require.NotNil(t, tool.Verify.Digest)
	assert.Equal(t, "sha256", tool.Verify.Digest.Algorithm)
	require.NotNil(t, tool.Verify.Digest.File)
	assert.Equal(t, "https://example.com/tool.zip.sha256", tool.Verify.Digest.File.URL)
	assert.Equal(t, []string{"bin/tool", "LICENSE"}, tool.Verify.Archive.Contains)

	// Sequence order is preserved.
	assert.Equal(t, "file:///srv/second.bin", m.Files[1].URL)
	assert.Equal(t, "file:///srv/manifests/extra.yaml", m.Includes[0].URL)
	assert.Equal(t, "t", m.Includes[1].Headers["X-Token"])
}

func TestParse_NotAMapping(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "empty document", doc: ""},
		{name: "null", doc: "null\n"},
		{name: "scalar", doc: "just a string\n"},
		{name: "sequence", doc: "- url: file:///a\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrFormat)

			_, err = ParseReader(strings.NewReader(tt.doc))
			require.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("files: [\n  - url: a\n"))
	require.ErrorIs(t, err, ErrFormat)
}

func TestParse_WrongFieldType(t *testing.T) {
	_, err := Parse([]byte("files: not-a-list\n"))
	require.ErrorIs(t, err, ErrFormat)
}

func TestFromTree(t *testing.T) {
	m, err := FromTree(map[string]any{
		"name": "built",
		"includes": []any{
			map[string]any{"url": "file:///srv/a.yaml"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "built", m.Name)
	require.Len(t, m.Includes, 1)

	_, err = FromTree("scalar")
	require.ErrorIs(t, err, ErrFormat)
}

func TestNewSynthetic(t *testing.T) {
	m := NewSynthetic([]string{"file:///srv/a.yaml", "https://example.com/b.yaml"})
	assert.Equal(t, SyntheticName, m.Name)
	require.Len(t, m.Includes, 2)
	assert.Equal(t, "https://example.com/b.yaml", m.Includes[1].URL)
	assert.Zero(t, m.FileCount())
}
