// Command roko is the roko command-line tool: it compiles templates and
// runs the development server.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rokoui/roko/internal/config"
	"github.com/rokoui/roko/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬─┐┌─┐┬┌─┌─┐
  ├┬┘│ │├┴┐│ │
  ┴└─└─┘┴ ┴└─┘
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		errors.PrintError(err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		verbose bool
		noColor bool
	)

	rootCmd := &cobra.Command{
		Use:   "roko",
		Short: "Typed HTML templates and a reconciling renderer for Go",
		Long: `roko compiles HTML templates written inside Go files into typed
virtual-node constructors, and applies patches to a live document.

Templates live in *.roko.go files behind the roko build tag:

  return vdom.HTML[Msg](` + "`" + `<button onclick={Clicked{}}>{m.Label}</button>` + "`" + `)

roko gen writes the generated *_gen.go next to each of them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging(cmd.ErrOrStderr(), verbose)
			if noColor {
				errors.DisableColors()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored error output")

	rootCmd.AddCommand(
		genCmd(),
		devCmd(),
		versionCmd(),
	)

	return rootCmd
}

// configureLogging installs the default slog handler used by every
// package that has no logger of its own.
func configureLogging(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig loads roko.json from the project containing the working
// directory, or defaults rooted at the working directory when there is
// none.
func loadConfig() (*config.Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := config.FindProjectRoot(wd)
	if err != nil {
		if errors.Code(err) == "RE121" {
			return config.LoadOrDefault(wd)
		}
		return nil, err
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// printBanner prints the roko banner.
func printBanner(w io.Writer) {
	fmt.Fprint(w, banner)
}

// success prints a success message.
func success(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
