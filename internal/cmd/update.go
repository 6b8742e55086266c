package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/racoon/internal/ui"
	"github.com/cameronsjo/racoon/internal/update"
)

var updateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"upgrade", "selfupdate"},
	Short:   "Update racoon to the latest version",
	Long: `Update racoon to the latest version from GitHub releases.

This command will:
1. Check for a newer version on GitHub
2. Download the appropriate binary for your platform
3. Replace the current binary with the new version

Examples:
  racoon update           # Update to latest version
  racoon update --check   # Check for updates without installing`,
	Args: cobra.NoArgs,
	RunE: runUpdate,
}

var (
	checkOnly bool
)

func init() {
	rootCmd.AddCommand(updateCmd)
	updateCmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for updates, don't install")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	ui.Blue.Fprintf(out, "Current version: %s (%s)\n", version, update.GetPlatformInfo())
	ui.Blue.Fprintln(out, "Checking for updates...")

	if checkOnly {
		release, available, err := update.CheckForUpdate(cmd.Context(), version)
		if err != nil {
			return fmt.Errorf("check for updates: %w", err)
		}
		if !available {
			ui.Done(out, "You're running the latest version!")
			return nil
		}
		ui.Done(out, "New version available: %s (released %s)", release.Version, release.PublishedAt)
		fmt.Fprintln(out)
		ui.Blue.Fprintln(out, "To update, run: racoon update")
		printChangelog(out, release.Changelog)
		return nil
	}

	release, err := update.Update(cmd.Context(), version)
	if err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	if release == nil {
		ui.Done(out, "You're already running the latest version!")
		return nil
	}

	fmt.Fprintln(out)
	ui.Done(out, "Successfully updated to version %s!", release.Version)
	printChangelog(out, release.Changelog)
	return nil
}

// printChangelog prints the first lines of a release's notes.
func printChangelog(w io.Writer, changelog string) {
	if changelog == "" {
		return
	}

	const maxLines = 10
	fmt.Fprintln(w)
	ui.Yellow.Fprintln(w, "What's new:")
	lines := strings.Split(strings.TrimRight(changelog, "\n"), "\n")
	for i, line := range lines {
		if i == maxLines {
			fmt.Fprintf(w, "  ... (%d more lines)\n", len(lines)-maxLines)
			break
		}
		fmt.Fprintf(w, "  %s\n", line)
	}
}
