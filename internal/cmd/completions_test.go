package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteManifestFiles(t *testing.T) {
	dir := chdirTemp(t)
	writeFile(t, filepath.Join(dir, "base.yaml"), "")
	writeFile(t, filepath.Join(dir, "extra.YML"), "")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")
	writeFile(t, filepath.Join(dir, ".hidden.yaml"), "")
	writeFile(t, filepath.Join(dir, "stacks", "media.yaml"), "")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0755))

	sep := string(filepath.Separator)

	tests := []struct {
		name       string
		toComplete string
		want       []string
	}{
		{
			name:       "empty prefix lists manifests and directories",
			toComplete: "",
			want:       []string{"base.yaml", "extra.YML", "stacks" + sep, "bin" + sep},
		},
		{
			name:       "prefix filters",
			toComplete: "b",
			want:       []string{"base.yaml", "bin" + sep},
		},
		{
			name:       "dot prefix shows hidden files",
			toComplete: ".h",
			want:       []string{".hidden.yaml"},
		},
		{
			name:       "descends into directories",
			toComplete: "stacks" + sep,
			want:       []string{"stacks" + sep + "media.yaml"},
		},
		{
			name:       "no match",
			toComplete: "zzz",
			want:       nil,
		},
		{
			name:       "missing directory",
			toComplete: "nope" + sep + "x",
			want:       nil,
		},
		{
			name:       "urls are not completed",
			toComplete: "https://",
			want:       nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, directive := completeManifestFiles(nil, nil, tt.toComplete)
			assert.ElementsMatch(t, tt.want, got)
			assert.NotZero(t, directive&cobra.ShellCompDirectiveNoFileComp)
		})
	}
}

func TestCompleteAlgorithms(t *testing.T) {
	got, directive := completeAlgorithms(nil, nil, "s")
	assert.Equal(t, []string{"sha256"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	got, _ = completeAlgorithms(nil, nil, "")
	assert.ElementsMatch(t, []string{"md5", "sha256"}, got)
}

func TestCompletionsRegistered(t *testing.T) {
	assert.NotNil(t, rootCmd.ValidArgsFunction)
	assert.NotNil(t, validateCmd.ValidArgsFunction)
}
