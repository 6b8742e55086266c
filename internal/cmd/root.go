// Package cmd provides the CLI commands for racoon.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/racoon/internal/ui"
)

const version = "0.3.1"

var (
	allowTraversal bool
	configPath     string
	logJSON        string
	noColor        bool
	httpTimeout    time.Duration
	showSummary    bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "racoon [manifest | url ...]",
	Short: "Fetch and verify files described by a YAML manifest",
	Long: `racoon - gathers files so you don't have to

Evaluates a YAML manifest: every file is copied from its URL (http, https
or file) to a destination in the current directory and optionally verified
by digest or archive contents. Manifests may include other manifests.

Given a single path, racoon runs that manifest. Given several arguments, or
any URL, racoon runs them in order as includes of a generated manifest.

MANIFEST COMMANDS
  validate <manifest>   Check a manifest without fetching anything
  digest <file>         Print the digest of a local file

OTHER
  update                Update racoon to the latest release
  completion <shell>    Generate shell completions

CONFIGURATION
  Settings are read from the nearest .racoon.toml at or above the current
  directory. Flags override it.

Examples:
  racoon manifest.yaml
  racoon https://example.com/base.yaml extra.yaml
  racoon -u --timeout 30s manifest.yaml`,
	Version:       version,
	Args:          cobra.ArbitraryArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if noColor || !ui.IsTerminal(os.Stdout) {
			ui.SetColor(false)
		}
	},
	RunE: runRoot,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ui.Failure(os.Stderr, "Error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVarP(&allowTraversal, "allow-directory-traversal", "u", false,
		"Allow access to directories other than the current working directory (unsafe)")
	rootCmd.Flags().StringVar(&logJSON, "log-json", "", `Write JSON events to a file ("-" for stderr)`)
	rootCmd.Flags().BoolVar(&showSummary, "summary", false, "Print totals when done")
	rootCmd.Flags().DurationVar(&httpTimeout, "timeout", 0, "Timeout for each HTTP request (default from config, 60s)")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a .racoon.toml (default: search upward)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	rootCmd.SetVersionTemplate("racoon version {{.Version}}\n")
}

func banner() string {
	return fmt.Sprintf("racoon v%s", version)
}
