package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// resetFlags restores every flag of cmd and its children to its default.
// Flag variables are package globals, so values would otherwise leak from
// one execution into the next.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetFlags(child)
	}
}

// resetRootCmd resets the root command state for test isolation.
func resetRootCmd(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	// Reset args to empty slice (not nil, which would use os.Args)
	rootCmd.SetArgs([]string{})
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetContext(context.TODO())
	for _, cmd := range rootCmd.Commands() {
		cmd.SetContext(context.TODO())
	}
	resetFlags(rootCmd)
	return buf
}

// executeCmd executes the root command with the given args and returns the output.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := resetRootCmd(t)
	oldNoColor := color.NoColor
	t.Cleanup(func() { color.NoColor = oldNoColor })

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

// evalSymlinks resolves symlinks for path comparison (macOS /var -> /private/var).
func evalSymlinks(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return path
	}
	return resolved
}

// chdirTemp switches into a fresh temp directory for the rest of the test.
func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := evalSymlinks(t, t.TempDir())
	oldWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}
