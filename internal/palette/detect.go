package palette

import (
	"fmt"
	"os/exec"
)

// DetectBackend returns the first available palette backend found in PATH, in
// priority order: rofi, fuzzel, wofi, dmenu.
func DetectBackend() (string, error) {
	for _, name := range []string{"rofi", "fuzzel", "wofi", "dmenu"} {
		if _, err := exec.LookPath(name); err == nil {
			return name, nil
		}
	}
	return "", fmt.Errorf("no palette backend found in PATH (looked for: rofi, fuzzel, wofi, dmenu)")
}
