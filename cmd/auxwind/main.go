package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/auxwind/internal/actionlog"
	"github.com/1broseidon/auxwind/internal/config"
	"github.com/1broseidon/auxwind/internal/daemon"
	"github.com/1broseidon/auxwind/internal/hotkeys"
	"github.com/1broseidon/auxwind/internal/ipc"
	"github.com/1broseidon/auxwind/internal/palette"
	"github.com/1broseidon/auxwind/internal/platform"
	"github.com/1broseidon/auxwind/internal/runtimepath"
	"github.com/1broseidon/auxwind/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "show":
		os.Exit(runShow(os.Args[2:]))
	case "close":
		os.Exit(runClose(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "roles":
		os.Exit(runRoles(os.Args[2:]))
	case "reload":
		os.Exit(runReload(os.Args[2:]))
	case "role":
		os.Exit(runRole(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
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
	fmt.Fprintln(w, "Usage: auxwind <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the auxwind daemon (foreground)")
	fmt.Fprintln(w, "  show <role>         Show the auxiliary window for a role")
	fmt.Fprintln(w, "  close <role>        Close the auxiliary window for a role")
	fmt.Fprintln(w, "  status              Show daemon and window status")
	fmt.Fprintln(w, "  roles               List configured roles")
	fmt.Fprintln(w, "  reload              Ask the daemon to reload its config")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  role add            Add a role to the config interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  palette             Open a rofi/dmenu role picker")
	fmt.Fprintln(w, "  tui                 Open the interactive role browser")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'auxwind <command> --help' for command-specific options.")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	configPath := fs.String("config", "", "Config file path (default: ~/.config/auxwind/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind daemon [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Run the window daemon in the foreground. SIGHUP reloads the config.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	// Load configuration. The resolved path is kept so SIGHUP and IPC
	// reloads re-read the same file.
	cfgPath := *configPath
	if cfgPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			log.Fatalf("Failed to resolve config path: %v", err)
		}
		cfgPath = p
	}
	cfg, err := config.LoadFromPath(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (%d roles)", len(cfg.Roles))

	// Action logger
	logPath := cfg.Logging.File
	if logPath == "" {
		if logPath, err = config.DefaultLogPath(); err != nil {
			log.Fatalf("Failed to resolve log path: %v", err)
		}
	}
	logger, err := actionlog.New(actionlog.Config{
		Enabled:   cfg.Logging.Enabled,
		FilePath:  logPath,
		MaxSizeMB: cfg.Logging.MaxSizeMB,
		MaxFiles:  cfg.Logging.MaxFiles,
	})
	if err != nil {
		log.Fatalf("Failed to create action logger: %v", err)
	}
	defer logger.Close()

	// Connect to display server
	host, err := platform.NewLinuxHostFromDisplay(cfg.Display)
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer host.Disconnect()

	d, err := daemon.New(cfg, cfgPath, host, logger)
	if err != nil {
		log.Fatalf("Failed to create daemon: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := d.Run(ctx); err != nil {
			log.Printf("Dispatch loop error: %v", err)
		}
	}()

	// Start IPC server
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		log.Fatalf("Failed to resolve socket path: %v", err)
	}
	ipcServer := ipc.NewServer(socketPath, d)
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Register per-role global hotkeys if configured
	registerHotkeys(host, d, cfg)

	log.Println("auxwind daemon started successfully")

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, reloading config...")
				if err := d.Reload(); err != nil {
					log.Printf("Config reload failed: %v", err)
					continue
				}
				log.Println("Config reloaded successfully")

			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down auxwind daemon...")
				cancel()
				ipcServer.Stop()
				os.Exit(0)
			}
		}
	}()

	// Start event loop (blocking). User close requests are serviced here.
	log.Println("Entering event loop...")
	host.EventLoop()
	return 0
}

func registerHotkeys(host platform.Host, d *daemon.Daemon, cfg *config.Config) {
	var handler *hotkeys.Handler
	for _, name := range cfg.RoleNames() {
		rc := cfg.Roles[name]
		if rc.Hotkey == "" {
			continue
		}
		if handler == nil {
			var err error
			handler, err = hotkeys.NewHandler(host, d)
			if err != nil {
				log.Printf("Warning: hotkeys unavailable: %v", err)
				return
			}
		}
		if err := handler.RegisterRole(rc.Hotkey, name); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			log.Printf("Hotkey registered: %s -> %s", rc.Hotkey, name)
		}
	}
}

func runShow(args []string) int {
	return runRoleCommand("show", args, func(client *ipc.Client, role string) error {
		return client.ShowWindow(role)
	})
}

func runClose(args []string) int {
	return runRoleCommand("close", args, func(client *ipc.Client, role string) error {
		return client.CloseWindow(role)
	})
}

func runRoleCommand(name string, args []string, fn func(*ipc.Client, string) error) int {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: auxwind %s <role>\n", name)
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := fn(ipc.NewClient(), fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	for _, w := range status.Windows {
		fmt.Printf("%-14s %-13s %dx%d", w.Role, w.State, w.Width, w.Height)
		if w.WindowID != 0 {
			fmt.Printf("  window=0x%x", w.WindowID)
		}
		if w.Generation > 0 {
			fmt.Printf("  shown=%d", w.Generation)
		}
		fmt.Println()
	}
	return 0
}

func runRoles(args []string) int {
	fs := flag.NewFlagSet("roles", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind roles")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	data, err := client.ListRoles()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, role := range data.Roles {
		fmt.Println(role)
	}
	return 0
}

func runReload(args []string) int {
	fs := flag.NewFlagSet("reload", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind reload")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Ask the running daemon to reload its configuration.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if err := ipc.NewClient().Reload(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("reload: ok")
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  auxwind config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  auxwind config print [--path PATH] [--defaults]")
		fmt.Fprintln(os.Stderr, "  auxwind config path")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/auxwind/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var err error
		if *path == "" {
			_, err = config.Load()
		} else {
			_, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/auxwind/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		var cfg *config.Config
		var err error
		if *printDefaults {
			cfg = config.DefaultConfig()
		} else if *path == "" {
			cfg, err = config.Load()
		} else {
			cfg, err = config.LoadFromPath(*path)
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		path, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	backendName := fs.String("backend", "auto", "Palette backend: auto, rofi, fuzzel, wofi, dmenu")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind palette [--backend NAME]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Open a launcher-style role picker. Selecting a role shows its window.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	backend, err := palette.NewBackend(*backendName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if err := palette.RunPicker(backend, ipc.NewClient()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/auxwind/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: auxwind tui [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive browser for auxiliary window roles.")
		fmt.Fprintln(os.Stderr, "Works as an offline browser when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  j/k, up/down  Navigate roles")
		fmt.Fprintln(os.Stderr, "  Enter, s      Show the selected window")
		fmt.Fprintln(os.Stderr, "  c             Close the selected window")
		fmt.Fprintln(os.Stderr, "  r             Refresh from the daemon")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C     Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
