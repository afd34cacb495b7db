package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/auxwind/internal/config"
	"github.com/1broseidon/auxwind/internal/ipc"
)

// roleItem implements list.Item for the role browser.
type roleItem struct {
	role       string
	state      string
	title      string
	width      int
	height     int
	floating   bool
	generation uint64
}

func (i roleItem) Title() string {
	marker := "  "
	if i.state == "displayed" {
		marker = "* "
	}
	return marker + i.role
}

func (i roleItem) Description() string {
	desc := fmt.Sprintf("%s  %dx%d  %s", i.state, i.width, i.height, i.title)
	if i.generation > 1 {
		desc += fmt.Sprintf("  (shown %d times)", i.generation)
	}
	return desc
}

func (i roleItem) FilterValue() string { return i.role }

// statusMsg is sent after a daemon action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

// refreshMsg triggers a refresh of window data from the daemon.
type refreshMsg struct{}

// model is the root bubbletea model for the role browser.
type model struct {
	configPath string
	cfg        *config.Config
	ipcClient  *ipc.Client

	list       list.Model
	statusText string

	daemonConnected bool

	width  int
	height int
}

func newModel(configPath string) model {
	m := model{
		configPath: configPath,
		ipcClient:  ipc.NewClient(),
	}

	// Config is the fallback role source when the daemon is down.
	var err error
	if configPath == "" {
		m.cfg, err = config.Load()
	} else {
		m.cfg, err = config.LoadFromPath(configPath)
	}
	if err != nil {
		m.cfg = config.DefaultConfig()
	}

	delegate := list.NewDefaultDelegate()
	delegate.SetSpacing(0)

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Auxiliary Windows"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()
	m.list = l

	m.refresh()
	return m
}

// refresh rebuilds the role list from daemon status, falling back to the
// configured roles when the daemon is unreachable.
func (m *model) refresh() {
	selected := m.selectedRole()

	status, err := m.ipcClient.GetStatus()
	if err != nil {
		m.daemonConnected = false
		m.list.SetItems(itemsFromConfig(m.cfg))
	} else {
		m.daemonConnected = true
		m.list.SetItems(itemsFromStatus(status))
	}

	if selected != "" {
		for i, item := range m.list.Items() {
			if ri, ok := item.(roleItem); ok && ri.role == selected {
				m.list.Select(i)
				break
			}
		}
	}
}

func itemsFromStatus(status *ipc.StatusData) []list.Item {
	items := make([]list.Item, 0, len(status.Windows))
	for _, w := range status.Windows {
		items = append(items, roleItem{
			role:       w.Role,
			state:      w.State,
			title:      w.Title,
			width:      w.Width,
			height:     w.Height,
			floating:   w.Floating,
			generation: w.Generation,
		})
	}
	return items
}

func itemsFromConfig(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	names := cfg.RoleNames()
	items := make([]list.Item, 0, len(names))
	for _, name := range names {
		rc := cfg.Roles[name]
		items = append(items, roleItem{
			role:     name,
			state:    "daemon offline",
			title:    rc.Title,
			width:    rc.Width,
			height:   rc.Height,
			floating: rc.IsFloating(),
		})
	}
	return items
}

func (m model) selectedRole() string {
	item, ok := m.list.SelectedItem().(roleItem)
	if !ok {
		return ""
	}
	return item.role
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateListSize()
		return m, nil

	case statusMsg:
		m.statusText = msg.text
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusText = ""
		return m, nil

	case refreshMsg:
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "enter", "s":
			return m.showSelected()
		case "c":
			return m.closeSelected()
		case "r":
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) showSelected() (tea.Model, tea.Cmd) {
	role := m.selectedRole()
	if role == "" {
		return m, nil
	}
	if err := m.ipcClient.ShowWindow(role); err != nil {
		m.statusText = fmt.Sprintf("error: %v", err)
	} else {
		m.statusText = fmt.Sprintf("shown: %s", role)
		m.refresh()
	}
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m model) closeSelected() (tea.Model, tea.Cmd) {
	role := m.selectedRole()
	if role == "" {
		return m, nil
	}
	if err := m.ipcClient.CloseWindow(role); err != nil {
		m.statusText = fmt.Sprintf("error: %v", err)
	} else {
		m.statusText = fmt.Sprintf("closed: %s", role)
		m.refresh()
	}
	return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

func (m *model) updateListSize() {
	// Status bar (1) + help bar (1) + status line (1)
	h := m.height - 3
	if h < 1 {
		h = 1
	}
	m.list.SetSize(m.width, h)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	statusBar := renderStatusBar(m.daemonConnected, m.width)
	helpBar := renderHelpBar(m.width)
	statusLine := renderStatusLine(m.statusText, m.width)

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		m.list.View(),
		statusLine,
		helpBar,
	)
}
