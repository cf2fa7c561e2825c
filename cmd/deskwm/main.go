package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/ipc"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
	"github.com/1broseidon/deskwm/internal/x11"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "windows":
		os.Exit(runWindows(os.Args[2:]))
	case "open", "close", "focus", "minimize", "maximize", "restore":
		os.Exit(runWindowCommand(os.Args[1], os.Args[2:]))
	case "pointer":
		os.Exit(runPointer(os.Args[2:]))
	case "cancel":
		os.Exit(runCancel(os.Args[2:]))
	case "viewport":
		os.Exit(runViewport(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskwm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the desktop daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Print the desktop snapshot")
	fmt.Fprintln(w, "  windows             List launchable windows and their state")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  open <id>           Open (or focus) a window")
	fmt.Fprintln(w, "  close <id>          Close a window")
	fmt.Fprintln(w, "  focus <id>          Bring a window to the front")
	fmt.Fprintln(w, "  minimize <id>       Minimize a window")
	fmt.Fprintln(w, "  maximize <id>       Toggle maximize")
	fmt.Fprintln(w, "  restore <id>        Restore a window from the taskbar")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  pointer down X Y    Press the primary button at X,Y")
	fmt.Fprintln(w, "  pointer move X Y    Move the pointer to X,Y")
	fmt.Fprintln(w, "  pointer up          Release the primary button")
	fmt.Fprintln(w, "  cancel              Abort the running drag or resize")
	fmt.Fprintln(w, "  viewport W H        Resize the desktop")
	fmt.Fprintln(w, "  reload              Reload the daemon configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Create a config file interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Run the desktop in this terminal")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskwm <command> --help' for command-specific options.")
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	res, err := config.LoadFromPath(path)
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warning", "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

// daemonLayout is the pixel hit testing layout, with the configured chrome.
func daemonLayout(chrome hittest.Chrome) pointer.Layout {
	layout := pointer.DefaultLayout()
	layout.Chrome = chrome
	return layout
}

// resolveViewport returns the configured viewport, or the primary monitor's
// when viewport_source is x11. A failed probe falls back to the config.
func resolveViewport(cfg *config.Config) geometry.Viewport {
	vp := cfg.DesktopViewport()
	if cfg.ViewportSource != config.ViewportSourceX11 {
		return vp
	}
	probed, err := x11.ProbeViewport(cfg.Display, cfg.TaskbarHeight)
	if err != nil {
		log.Printf("Warning: X11 viewport probe failed, using configured %dx%d: %v", vp.Width, vp.Height, err)
		return vp
	}
	log.Printf("Viewport from X11: %dx%d", probed.Width, probed.Height)
	return probed
}

// restartOnlyChanges lists the settings that differ between two configs but
// are only read when the daemon starts.
func restartOnlyChanges(old, next *config.Config) []string {
	var changed []string
	if old.FocusBase != next.FocusBase {
		changed = append(changed, "focus_base")
	}
	if old.ActionLogConfig() != next.ActionLogConfig() {
		changed = append(changed, "logging")
	}
	if old.DoubleClick() != next.DoubleClick() {
		changed = append(changed, "tui.double_click_ms")
	}
	return changed
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/deskwm/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskwm daemon [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the desktop and serve IPC commands until interrupted.")
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfig(*path)
	if err != nil {
		log.Printf("Failed to load configuration: %v", err)
		return 1
	}
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)
	log.Printf("Configuration loaded (%d windows, viewport source: %s)", len(cfg.Windows), cfg.ViewportSource)

	actions, err := actionlog.New(cfg.ActionLogConfig())
	if err != nil {
		log.Printf("Failed to open action log: %v", err)
		return 1
	}
	defer actions.Close()

	opts := cfg.ManagerOptions()
	opts.Viewport = resolveViewport(cfg)
	opts.Logger = logger
	opts.Actions = actions
	desktop := wm.NewManager(opts)
	dispatcher := pointer.NewDispatcher(desktop, daemonLayout(cfg.Chrome), cfg.DoubleClick())

	reloadChan := make(chan struct{}, 1)
	server, err := ipc.NewServer(cfg, desktop, dispatcher, reloadChan)
	if err != nil {
		log.Printf("Failed to create IPC server: %v", err)
		return 1
	}
	server.SetConfigLoader(func() (*config.Config, error) { return loadConfig(*path) })
	if err := server.Start(); err != nil {
		log.Printf("Failed to start IPC server: %v", err)
		return 1
	}
	defer server.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watchPath := *path
	if watchPath == "" {
		watchPath, _ = config.DefaultConfigPath()
	}
	if watchPath != "" {
		watcher, err := config.NewWatcher(watchPath, func(newCfg *config.Config) {
			server.UpdateConfig(newCfg)
			select {
			case reloadChan <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.Printf("Warning: config hot reload disabled: %v", err)
		} else {
			go watcher.Run(ctx)
		}
	}

	applyConfig := func(newCfg *config.Config) {
		logger = newLogger(newCfg.LogLevel)
		slog.SetDefault(logger)

		newOpts := newCfg.ManagerOptions()
		newOpts.Viewport = resolveViewport(newCfg)
		newOpts.Logger = logger
		desktop.Reconfigure(newOpts)
		dispatcher.SetLayout(daemonLayout(newCfg.Chrome))

		if restart := restartOnlyChanges(cfg, newCfg); len(restart) > 0 {
			log.Printf("Warning: %s changed; restart the daemon to apply", strings.Join(restart, ", "))
		}
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	log.Println("deskwm daemon started successfully")
	for {
		select {
		case sig := <-sigCh:
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				newCfg, err := loadConfig(*path)
				if err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				server.UpdateConfig(newCfg)
				applyConfig(newCfg)
				log.Println("Config reloaded successfully")
			default:
				log.Println("Shutting down deskwm daemon...")
				return 0
			}
		case <-reloadChan:
			// Config was replaced via IPC or the file watcher.
			applyConfig(server.GetConfig())
		}
	}
}
