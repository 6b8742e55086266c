package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/cameronsjo/racoon/internal/digest"
)

var digestAlgorithm string

var digestCmd = &cobra.Command{
	Use:   "digest <file>...",
	Short: "Print the digest of local files",
	Long: `Print the digest of each file in the same format as sha256sum, ready to
paste into a manifest's verify.digest.text or to publish as a digest file.

Examples:
  racoon digest tool.zip
  racoon digest -a md5 tool.zip`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDigest,
}

func init() {
	digestCmd.Flags().StringVarP(&digestAlgorithm, "algorithm", "a", string(digest.SHA256),
		fmt.Sprintf("Digest algorithm (%s)", strings.Join(algorithmNames(), ", ")))
	// Completions are optional; registration only fails for unknown flags.
	_ = digestCmd.RegisterFlagCompletionFunc("algorithm", completeAlgorithms)

	rootCmd.AddCommand(digestCmd)
}

func runDigest(cmd *cobra.Command, args []string) error {
	alg, err := digest.ParseAlgorithm(digestAlgorithm)
	if err != nil {
		return err
	}
	if alg == digest.None {
		return fmt.Errorf("%w: pick one of %s", digest.ErrUnsupportedAlgorithm, strings.Join(algorithmNames(), ", "))
	}

	fs := osfs.New("/")
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", path, err)
		}
		sum, err := digest.SumFile(fs, abs, alg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", sum, path)
	}
	return nil
}

func algorithmNames() []string {
	names := make([]string, 0, len(digest.SupportedAlgorithms))
	for _, a := range digest.SupportedAlgorithms {
		if a != digest.None {
			names = append(names, string(a))
		}
	}
	return names
}
