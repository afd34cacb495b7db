// Package palette shows a launcher-style role picker using rofi, fuzzel,
// wofi or dmenu, whichever is installed.
package palette

import (
	"fmt"
	"os/exec"
	"strings"
)

// Item is a single selectable entry in the palette.
type Item struct {
	Label    string // Display text
	Role     string // Role identifier returned on selection
	Icon     string // Icon name for rofi -show-icons
	IsActive bool   // Highlighted as currently displayed (rofi active row)
}

// Capabilities describes what features a backend supports.
type Capabilities struct {
	Icons       bool // Supports icon display
	IndexOutput bool // Can output selection index (not just text)
	RowStates   bool // Supports active row highlighting
}

// Backend shows a palette to the user and returns the selected item.
type Backend interface {
	Show(prompt string, items []Item) (Item, error)
	Capabilities() Capabilities
}

// AutoDetect selects the first available backend in priority order.
func AutoDetect() (Backend, error) {
	name, err := DetectBackend()
	if err != nil {
		return nil, err
	}
	return NewBackend(name)
}

// NewBackend creates a backend by name.
//
// Supported names: auto, rofi, fuzzel, wofi, dmenu.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "auto":
		return AutoDetect()
	case "rofi":
		if _, err := exec.LookPath("rofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "rofi")
		}
		return NewRofiBackend(), nil
	case "fuzzel":
		if _, err := exec.LookPath("fuzzel"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "fuzzel")
		}
		return NewFuzzelBackend(), nil
	case "wofi":
		if _, err := exec.LookPath("wofi"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "wofi")
		}
		return NewWofiBackend(), nil
	case "dmenu":
		if _, err := exec.LookPath("dmenu"); err != nil {
			return nil, fmt.Errorf("palette backend %q not found in PATH", "dmenu")
		}
		return NewDmenuBackend(), nil
	default:
		return nil, fmt.Errorf("unknown palette backend: %q (expected: auto, rofi, fuzzel, wofi, dmenu)", name)
	}
}
