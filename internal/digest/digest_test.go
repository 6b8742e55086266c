package digest

import (
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Algorithm
		wantErr bool
	}{
		{name: "empty means none", input: "", want: None},
		{name: "explicit none", input: "none", want: None},
		{name: "md5", input: "md5", want: MD5},
		{name: "sha256", input: "sha256", want: SHA256},
		{name: "sha1 unsupported", input: "sha1", wantErr: true},
		{name: "case sensitive", input: "SHA256", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAlgorithm(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnsupportedAlgorithm)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSum(t *testing.T) {
	tests := []struct {
		name    string
		alg     Algorithm
		content string
		want    string
	}{
		{
			name:    "sha256 of empty input",
			alg:     SHA256,
			content: "",
			want:    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
		{
			name:    "sha256 of hello",
			alg:     SHA256,
			content: "hello",
			want:    "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:    "md5 of hello",
			alg:     MD5,
			content: "hello",
			want:    "5d41402abc4b2a76b9719d911017c592",
		},
		{
			name:    "md5 spanning several blocks",
			alg:     MD5,
			content: strings.Repeat("a", 1000),
			want:    "cabe45dcc9ae5b66ba86600cca6b8ba8",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sum(tt.alg, strings.NewReader(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSum_None(t *testing.T) {
	_, err := Sum(None, strings.NewReader("data"))
	require.ErrorIs(t, err, ErrUnsupportedAlgorithm)
}

func TestSum_Deterministic(t *testing.T) {
	content := strings.Repeat("racoon", 4096)

	first, err := Sum(SHA256, strings.NewReader(content))
	require.NoError(t, err)
	second, err := Sum(SHA256, strings.NewReader(content))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestSumFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "/work/hello.txt", []byte("hello"), 0o644))

	got, err := SumFile(fs, "/work/hello.txt", SHA256)
	require.NoError(t, err)
	assert.Equal(t, "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824", got)

	_, err = SumFile(fs, "/work/missing.txt", SHA256)
	assert.Error(t, err)
}
