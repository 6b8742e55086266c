package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// manifestExtensions are the file suffixes offered as manifests.
var manifestExtensions = []string{".yaml", ".yml"}

// completeManifestFiles completes YAML files and directories under the
// directory being typed.
func completeManifestFiles(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if hasScheme(toComplete) {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	dir, prefix := filepath.Split(toComplete)
	readDir := dir
	if readDir == "" {
		readDir = "."
	}

	entries, err := os.ReadDir(readDir)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(name, prefix) || (strings.HasPrefix(name, ".") && !strings.HasPrefix(prefix, ".")) {
			continue
		}
		if e.IsDir() {
			names = append(names, dir+name+string(filepath.Separator))
			continue
		}
		if isManifestFile(name) {
			names = append(names, dir+name)
		}
	}

	return names, cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

func isManifestFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, want := range manifestExtensions {
		if ext == want {
			return true
		}
	}
	return false
}

// completeAlgorithms completes digest algorithm names.
func completeAlgorithms(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, name := range algorithmNames() {
		if strings.HasPrefix(name, toComplete) {
			names = append(names, name)
		}
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

func init() {
	rootCmd.ValidArgsFunction = completeManifestFiles
}
