package cmd

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cameronsjo/racoon/internal/config"
	"github.com/cameronsjo/racoon/internal/fetch"
	"github.com/cameronsjo/racoon/internal/lock"
	"github.com/cameronsjo/racoon/internal/manifest"
	"github.com/cameronsjo/racoon/internal/status"
	"github.com/cameronsjo/racoon/internal/ui"
)

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}

	out := cmd.OutOrStdout()
	ui.Raccoon(out, "%s", banner())

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	cfg, err := loadConfig(cmd, workDir)
	if err != nil {
		return err
	}

	if cfg.AllowDirectoryTraversal {
		ui.Warning(out, "Directory traversal is enabled: files may be read and written outside %s", workDir)
	}

	res, err := newResolver(cfg, workDir)
	if err != nil {
		return err
	}

	if err := res.AddObserver(status.NewConsole(out)); err != nil {
		return err
	}

	logOut, closeLog, err := openEventLog(cfg.LogFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()
	if logOut != nil {
		if err := res.AddObserver(status.NewLogObserver(logOut)); err != nil {
			return err
		}
	}

	rec := &status.Recorder{}
	if err := res.AddObserver(rec); err != nil {
		return err
	}

	if err := loadArgs(res, args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = lock.WithLock(workDir, func() error {
		return res.Evaluate(ctx)
	})

	if showSummary {
		printSummary(out, rec.Summary())
	}
	return err
}

// loadConfig reads the configuration and applies flags on top of it.
func loadConfig(cmd *cobra.Command, workDir string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load(workDir)
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("allow-directory-traversal") {
		cfg.AllowDirectoryTraversal = allowTraversal
	}
	if flags.Changed("timeout") {
		if httpTimeout <= 0 {
			return nil, fmt.Errorf("--timeout must be positive, got %s", httpTimeout)
		}
		cfg.HTTPTimeout = httpTimeout
	}
	if flags.Changed("log-json") {
		cfg.LogFile = logJSON
	}
	return cfg, nil
}

func newResolver(cfg *config.Config, workDir string) (*manifest.Resolver, error) {
	retriever := fetch.New(
		fetch.WithTimeout(cfg.HTTPTimeout),
		fetch.WithUserAgent(cfg.UserAgent),
	)

	return manifest.New(
		manifest.WithWorkDir(workDir),
		manifest.WithAllowDirectoryTraversal(cfg.AllowDirectoryTraversal),
		manifest.WithFilesystem(retriever.Filesystem()),
		manifest.WithFetcher(retriever),
		manifest.WithDefaultHeaders(cfg.Headers),
	)
}

// openEventLog resolves the event log destination. An empty path disables
// the log; "-" means stderr.
func openEventLog(path string, stderr io.Writer) (io.Writer, func(), error) {
	switch path {
	case "":
		return nil, func() {}, nil
	case "-":
		return stderr, func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open event log: %w", err)
	}
	return f, func() { f.Close() }, nil
}

// loadArgs loads a single manifest path directly. Anything else becomes
// the includes of a generated top-level manifest.
func loadArgs(res *manifest.Resolver, args []string) error {
	if len(args) == 1 && !hasScheme(args[0]) {
		return res.LoadFile(args[0])
	}

	urls := make([]string, 0, len(args))
	for _, arg := range args {
		if hasScheme(arg) {
			urls = append(urls, arg)
			continue
		}
		abs, err := filepath.Abs(arg)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", arg, err)
		}
		loc, err := fetch.FileLocator(abs)
		if err != nil {
			return err
		}
		urls = append(urls, loc.String())
	}
	return res.Load(manifest.NewSynthetic(urls))
}

// hasScheme reports whether arg is a URL rather than a local path. A
// single-letter scheme is a Windows drive.
func hasScheme(arg string) bool {
	u, err := url.Parse(arg)
	return err == nil && len(u.Scheme) > 1
}

func printSummary(w io.Writer, s status.Summary) {
	fmt.Fprintln(w)
	ui.Bold.Fprintln(w, "Summary")
	fmt.Fprintf(w, "  Manifests:     %d\n", s.Manifests)
	fmt.Fprintf(w, "  Files:         %d (%d failed)\n", s.Files, s.FilesFailed)
	fmt.Fprintf(w, "  Loaded:        %d (%d failed)\n", s.Loads, s.LoadsFailed)
	fmt.Fprintf(w, "  Verifications: %d (%d failed)\n", s.Verifications, s.VerificationFailed)
}
