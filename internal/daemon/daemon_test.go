package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/1broseidon/auxwind/internal/actionlog"
	"github.com/1broseidon/auxwind/internal/config"
	"github.com/1broseidon/auxwind/internal/ipc"
	"github.com/1broseidon/auxwind/internal/platform"
)

// fakeHost records constructions; safe for cross-goroutine inspection in
// tests even though the daemon itself serializes all access.
type fakeHost struct {
	mu      sync.Mutex
	nextID  platform.WindowID
	created int
	live    map[platform.WindowID]bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{live: make(map[platform.WindowID]bool)}
}

func (h *fakeHost) Create(spec platform.WindowSpec, content platform.Content) (platform.WindowID, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	h.created++
	h.live[h.nextID] = true
	return h.nextID, nil
}

func (h *fakeHost) Show(id platform.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.live[id] {
		return errors.New("show of dead window")
	}
	return nil
}

func (h *fakeHost) Alive(id platform.WindowID) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.live[id]
}

func (h *fakeHost) Close(id platform.WindowID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.live, id)
	return nil
}

func (h *fakeHost) Geometry(id platform.WindowID) (platform.Rect, error) {
	return platform.Rect{}, nil
}

func (h *fakeHost) constructions() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

func startDaemon(t *testing.T, cfgYAML string) (*Daemon, *fakeHost, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(cfgYAML), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	logger, err := actionlog.New(actionlog.Config{Enabled: false})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	host := newFakeHost()
	d, err := New(cfg, path, host, logger)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go d.Run(ctx)

	return d, host, path
}

func TestShowWindow_SingletonAcrossDispatch(t *testing.T) {
	d, host, _ := startDaemon(t, "")

	for i := 0; i < 3; i++ {
		if err := d.ShowWindow("about"); err != nil {
			t.Fatalf("show %d: %v", i+1, err)
		}
	}
	if got := host.constructions(); got != 1 {
		t.Fatalf("expected 1 construction, got %d", got)
	}
}

func TestShowWindow_UnknownRole(t *testing.T) {
	d, _, _ := startDaemon(t, "")
	if err := d.ShowWindow("nope"); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestStatusAndRoles(t *testing.T) {
	d, _, _ := startDaemon(t, "roles:\n"+
		"  about:\n    title: About\n    width: 400\n    height: 500\n"+
		"  preferences:\n    title: Preferences\n    width: 600\n    height: 420\n")

	roles := d.Roles()
	if len(roles.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", roles.Roles)
	}

	if err := d.ShowWindow("preferences"); err != nil {
		t.Fatalf("show preferences: %v", err)
	}

	status := d.Status()
	if !status.DaemonRunning {
		t.Fatalf("expected daemon running")
	}
	var prefs *ipc.WindowInfo
	for i := range status.Windows {
		if status.Windows[i].Role == "preferences" {
			prefs = &status.Windows[i]
		}
	}
	if prefs == nil {
		t.Fatalf("preferences missing from status: %+v", status.Windows)
	}
	if prefs.State != "displayed" || prefs.Generation != 1 {
		t.Fatalf("preferences status = %+v", *prefs)
	}
	if prefs.Width != 600 || prefs.Height != 420 {
		t.Fatalf("preferences geometry = %dx%d", prefs.Width, prefs.Height)
	}
}

func TestCloseThenShowReconstructs(t *testing.T) {
	d, host, _ := startDaemon(t, "")

	if err := d.ShowWindow("about"); err != nil {
		t.Fatalf("show: %v", err)
	}
	if err := d.CloseWindow("about"); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := d.ShowWindow("about"); err != nil {
		t.Fatalf("re-show: %v", err)
	}
	if got := host.constructions(); got != 2 {
		t.Fatalf("expected reconstruction after close, got %d constructions", got)
	}
}

func TestReload_PicksUpNewRolesAndKeepsLiveWindows(t *testing.T) {
	d, host, path := startDaemon(t, "")

	if err := d.ShowWindow("about"); err != nil {
		t.Fatalf("show about: %v", err)
	}

	updated := "roles:\n" +
		"  about:\n    title: About\n    width: 400\n    height: 500\n" +
		"  inspector:\n    title: Inspector\n    width: 320\n    height: 240\n"
	if err := os.WriteFile(path, []byte(updated), 0644); err != nil {
		t.Fatalf("rewrite config: %v", err)
	}

	if err := d.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	roles := d.Roles()
	if len(roles.Roles) != 2 {
		t.Fatalf("expected 2 roles after reload, got %v", roles.Roles)
	}

	// The live about window survived the reload: showing it again must not
	// construct a new instance.
	if err := d.ShowWindow("about"); err != nil {
		t.Fatalf("show about after reload: %v", err)
	}
	if got := host.constructions(); got != 1 {
		t.Fatalf("expected live window kept across reload, got %d constructions", got)
	}

	if err := d.ShowWindow("inspector"); err != nil {
		t.Fatalf("show inspector: %v", err)
	}
	if got := host.constructions(); got != 2 {
		t.Fatalf("expected inspector construction, got %d", got)
	}
}
