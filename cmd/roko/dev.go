package main

import (
	"fmt"
	"os/exec"
	"time"

	"github.com/spf13/cobra"

	"github.com/rokoui/roko/internal/dev"
)

func devCmd() *cobra.Command {
	var (
		port        int
		host        string
		openBrowser bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with hot reload.

The dev server regenerates templates as they change, rebuilds the
WebAssembly package named by dev.build, serves dev.static and refreshes
connected browsers.

Examples:
  roko dev
  roko dev --port=3000
  roko dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Dev.Port = port
			}
			if host != "" {
				cfg.Dev.Host = host
			}
			if cfg.Dev.Build != "" {
				if _, err := exec.LookPath("go"); err != nil {
					return fmt.Errorf("dev.build is set but go is not in PATH: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			printBanner(out)
			fmt.Fprintln(out, "  dev")
			fmt.Fprintln(out)

			server := dev.NewServer(dev.ServerOptions{
				Config: cfg,
				OnBuildComplete: func(result dev.BuildResult) {
					if result.Success {
						success(out, "Built in %s", result.Duration.Round(time.Millisecond))
					}
				},
				OnReload: func(clients int) {
					success(out, "Reloaded %d browsers", clients)
				},
			})

			if openBrowser {
				go func() {
					time.Sleep(500 * time.Millisecond)
					openURL(cfg.DevURL())
				}()
			}

			info(out, "Serving %s at %s", cfg.StaticPath(), cfg.DevURL())
			return server.Start(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from roko.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from roko.json)")
	cmd.Flags().BoolVarP(&openBrowser, "open", "o", false, "Open browser on start")

	return cmd
}

// openURL opens a URL in the default browser.
func openURL(url string) {
	var cmd *exec.Cmd

	switch {
	case commandExists("xdg-open"):
		cmd = exec.Command("xdg-open", url)
	case commandExists("open"):
		cmd = exec.Command("open", url)
	case commandExists("cmd"):
		cmd = exec.Command("cmd", "/c", "start", url)
	default:
		return
	}

	cmd.Start()
}

// commandExists checks if a command exists in PATH.
func commandExists(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
