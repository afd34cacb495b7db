package palette

import (
	"errors"
	"fmt"

	"github.com/1broseidon/auxwind/internal/ipc"
)

// Commander is the subset of the IPC client the picker needs.
type Commander interface {
	ShowWindow(role string) error
	GetStatus() (*ipc.StatusData, error)
}

var _ Commander = (*ipc.Client)(nil)

// RunPicker shows the role palette and asks the daemon to show the selected
// window. A cancelled palette is not an error.
func RunPicker(backend Backend, commander Commander) error {
	status, err := commander.GetStatus()
	if err != nil {
		return fmt.Errorf("daemon not reachable: %w", err)
	}

	items := buildRoleItems(status)
	if len(items) == 0 {
		return fmt.Errorf("no roles configured")
	}

	selected, err := backend.Show("auxwind", items)
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			return nil
		}
		return err
	}

	return commander.ShowWindow(selected.Role)
}

// buildRoleItems converts daemon window status into palette entries. Roles
// with a live window are marked active so the picker highlights them.
func buildRoleItems(status *ipc.StatusData) []Item {
	items := make([]Item, 0, len(status.Windows))
	for _, w := range status.Windows {
		label := fmt.Sprintf("%s: %s (%dx%d)", w.Role, w.Title, w.Width, w.Height)
		items = append(items, Item{
			Label:    label,
			Role:     w.Role,
			Icon:     "preferences-system-windows",
			IsActive: w.State == "displayed",
		})
	}
	return items
}
