package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/auxwind/internal/config"
	"github.com/1broseidon/auxwind/internal/ipc"
	"github.com/1broseidon/auxwind/internal/x11"
)

func printRoleUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: auxwind role <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  add    Add a window role to the config interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'auxwind role <command> --help' for command-specific options.")
}

func runRole(args []string) int {
	if len(args) == 0 {
		printRoleUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "add":
		return runRoleAdd(args[1:])
	case "help", "-h", "--help":
		printRoleUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown role command: %s\n\n", args[0])
		printRoleUsage(os.Stderr)
		return 2
	}
}

func runRoleAdd(args []string) int {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("config", "", "Config file path (default: ~/.config/auxwind/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: auxwind role add [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Prompt for a new window role and append it to the config file.")
		fmt.Fprintln(os.Stderr, "A running daemon is reloaded automatically when reachable.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	configPath := *path
	if configPath == "" {
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		configPath = p
	}

	cfg, err := config.LoadFromPath(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	role, rc, err := promptRole(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	cfg.Roles[role] = rc
	if err := config.Save(cfg, configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("role %q added to %s\n", role, configPath)

	client := ipc.NewClient()
	if err := client.Ping(); err == nil {
		if err := client.Reload(); err != nil {
			fmt.Fprintf(os.Stderr, "daemon reload failed: %v\n", err)
			return 1
		}
		fmt.Println("daemon reloaded")
	}
	return 0
}

// promptRole collects a role definition via an interactive form.
func promptRole(cfg *config.Config) (string, config.RoleConfig, error) {
	var (
		name       string
		title      string
		width      = "400"
		height     = "500"
		floating   = true
		hotkey     string
		background = "#2e3440"
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Role").
				Description("Identifier used with 'auxwind show' (e.g. about)").
				Value(&name).
				Validate(func(s string) error {
					s = strings.TrimSpace(s)
					if s == "" {
						return fmt.Errorf("role must not be empty")
					}
					if _, exists := cfg.Roles[s]; exists {
						return fmt.Errorf("role %q already exists", s)
					}
					return nil
				}),

			huh.NewInput().
				Key("title").
				Title("Window Title").
				Value(&title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title must not be empty")
					}
					return nil
				}),

			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Fixed window width in pixels").
				Value(&width).
				Validate(validateDimension),

			huh.NewInput().
				Key("height").
				Title("Height").
				Description("Fixed window height in pixels").
				Value(&height).
				Validate(validateDimension),

			huh.NewConfirm().
				Key("floating").
				Title("Floating").
				Description("Keep the window above normal windows").
				Value(&floating),

			huh.NewInput().
				Key("hotkey").
				Title("Hotkey").
				Description("Optional global keybinding (e.g. Mod4-F1)").
				Value(&hotkey),

			huh.NewInput().
				Key("background").
				Title("Background").
				Description("Window background color (#rrggbb)").
				Value(&background).
				Validate(func(s string) error {
					_, err := x11.ParseColor(s)
					return err
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	if err := form.Run(); err != nil {
		return "", config.RoleConfig{}, err
	}

	w, _ := strconv.Atoi(strings.TrimSpace(width))
	h, _ := strconv.Atoi(strings.TrimSpace(height))

	return strings.TrimSpace(name), config.RoleConfig{
		Title:      strings.TrimSpace(title),
		Width:      w,
		Height:     h,
		Floating:   &floating,
		Background: strings.TrimSpace(background),
		Hotkey:     strings.TrimSpace(hotkey),
	}, nil
}

func validateDimension(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n <= 0 {
		return fmt.Errorf("must be positive")
	}
	return nil
}
