package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/flowlens/internal/ui"
	"github.com/leapstack-labs/flowlens/pkg/source"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Start the Flowlens UI",
		Long: `Start a local web server showing the Components page.

The page lists every component from the configured source with its
health. When the source is a local file, edits are pushed to open
pages as they happen.`,
		Example: `  # Start UI on default port
  flowlens ui

  # Start on custom port
  flowlens ui --port 3000

  # Serve a components file without opening a browser
  flowlens ui --source file --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Watch the source file for changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Serve assets from disk and enable hot reload")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx := NewCommandContext(cmd)
	logger := cmdCtx.Logger

	uiCfg := cmdCtx.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	autoOpen := uiCfg.AutoOpen
	if opts.NoBrowser {
		autoOpen = false
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	src, err := cmdCtx.OpenSource(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	var watchPath string
	if w, ok := src.(source.Watchable); ok {
		watchPath = w.WatchPath()
	}
	if watch && watchPath == "" {
		logger.Debug("source has no local file, live updates disabled", "type", cmdCtx.Cfg.Source.Type)
	}

	server := ui.NewServer(ui.Config{
		Loader:        src,
		Port:          port,
		Watch:         watch,
		WatchPath:     watchPath,
		SessionSecret: uiCfg.SessionSecret,
		IsDev:         opts.Dev,
		Logger:        logger,
	})

	if autoOpen {
		go openBrowser(server.URL())
	}

	r := cmdCtx.Renderer
	r.Printf("Starting UI server on %s\n", server.URL())
	r.Println("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	if err := server.Serve(ctx); err != nil {
		return fmt.Errorf("ui server: %w", err)
	}
	return nil
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
