package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/racoon/internal/manifest"
	"github.com/cameronsjo/racoon/internal/ui"
)

// errInvalid is returned when at least one manifest fails validation.
var errInvalid = errors.New("validation failed")

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate <manifest>...",
	Short: "Check manifests without fetching anything",
	Long: `Validate parses each manifest and checks its structure without touching
the network or the filesystem beyond reading the manifest itself.

Checks:
  - every file and include has a url with a supported scheme
  - every file has a destination
  - digest algorithms are supported and have a text or file source
  - no include is listed twice

Included manifests are not followed.

Examples:
  racoon validate manifest.yaml
  racoon validate base.yaml extras/*.yaml`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: completeManifestFiles,
	RunE:              runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	failed := 0

	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			ui.Failure(out, "%s: %v", path, err)
			failed++
			continue
		}

		m, err := manifest.ValidateDocument(data)
		if err != nil {
			ui.Failure(out, "%s:", path)
			for _, line := range splitJoined(err) {
				fmt.Fprintf(out, "    %s\n", line)
			}
			failed++
			continue
		}

		ui.Done(out, "%s: %q is valid (%d files, %d includes)", path, m.Name, m.FileCount(), len(m.Includes))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d manifests", errInvalid, failed, len(args))
	}
	return nil
}

// splitJoined returns one message per error of an errors.Join result.
func splitJoined(err error) []string {
	return strings.Split(err.Error(), "\n")
}
