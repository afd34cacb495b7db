package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/1broseidon/auxwind/internal/ipc"
)

// fakeCommander simulates the daemon behind the IPC client.
type fakeCommander struct {
	shown   []string
	closed  []string
	windows map[string]*ipc.WindowInfo
	err     error
}

func newFakeCommander(roles ...string) *fakeCommander {
	f := &fakeCommander{windows: make(map[string]*ipc.WindowInfo)}
	for _, role := range roles {
		f.windows[role] = &ipc.WindowInfo{
			Role:   role,
			State:  "uninitialized",
			Title:  role,
			Width:  400,
			Height: 500,
		}
	}
	return f
}

func (f *fakeCommander) ShowWindow(role string) error {
	if f.err != nil {
		return f.err
	}
	w, ok := f.windows[role]
	if !ok {
		return errors.New("unknown role")
	}
	f.shown = append(f.shown, role)
	if w.State != "displayed" {
		w.Generation++
		w.WindowID = uint32(100 + w.Generation)
	}
	w.State = "displayed"
	return nil
}

func (f *fakeCommander) CloseWindow(role string) error {
	if f.err != nil {
		return f.err
	}
	w, ok := f.windows[role]
	if !ok {
		return errors.New("unknown role")
	}
	f.closed = append(f.closed, role)
	w.State = "closed"
	return nil
}

func (f *fakeCommander) GetStatus() (*ipc.StatusData, error) {
	if f.err != nil {
		return nil, f.err
	}
	status := &ipc.StatusData{DaemonRunning: true}
	for _, role := range []string{"about", "preferences"} {
		if w, ok := f.windows[role]; ok {
			status.Windows = append(status.Windows, *w)
		}
	}
	return status, nil
}

func (f *fakeCommander) ListRoles() (*ipc.RolesData, error) {
	if f.err != nil {
		return nil, f.err
	}
	data := &ipc.RolesData{}
	for role := range f.windows {
		data.Roles = append(data.Roles, role)
	}
	return data, nil
}

func TestShowWindowTool(t *testing.T) {
	cmd := newFakeCommander("about")
	s := NewServer(cmd)

	_, out, err := s.handleShowWindow(context.Background(), nil, ShowWindowInput{Role: "about"})
	if err != nil {
		t.Fatalf("show_window: %v", err)
	}
	if out.State != "displayed" || out.Generation != 1 {
		t.Fatalf("unexpected output %+v", out)
	}
	if len(cmd.shown) != 1 {
		t.Fatalf("expected one show command, got %d", len(cmd.shown))
	}

	// Second show re-uses the instance: generation stays at 1.
	_, out, err = s.handleShowWindow(context.Background(), nil, ShowWindowInput{Role: "about"})
	if err != nil {
		t.Fatalf("second show_window: %v", err)
	}
	if out.Generation != 1 {
		t.Fatalf("expected generation 1 on re-show, got %d", out.Generation)
	}
}

func TestShowWindowTool_Errors(t *testing.T) {
	s := NewServer(newFakeCommander("about"))

	if _, _, err := s.handleShowWindow(context.Background(), nil, ShowWindowInput{}); err == nil {
		t.Fatalf("expected error for empty role")
	}
	if _, _, err := s.handleShowWindow(context.Background(), nil, ShowWindowInput{Role: "nope"}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestCloseWindowTool(t *testing.T) {
	cmd := newFakeCommander("about")
	s := NewServer(cmd)

	if err := cmd.ShowWindow("about"); err != nil {
		t.Fatalf("seed show: %v", err)
	}

	_, out, err := s.handleCloseWindow(context.Background(), nil, CloseWindowInput{Role: "about"})
	if err != nil {
		t.Fatalf("close_window: %v", err)
	}
	if out.Role != "about" {
		t.Fatalf("unexpected output %+v", out)
	}
	if len(cmd.closed) != 1 {
		t.Fatalf("expected one close command")
	}
}

func TestListWindowsTool(t *testing.T) {
	cmd := newFakeCommander("about", "preferences")
	s := NewServer(cmd)

	if err := cmd.ShowWindow("about"); err != nil {
		t.Fatalf("seed show: %v", err)
	}

	_, out, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{})
	if err != nil {
		t.Fatalf("list_windows: %v", err)
	}
	if len(out.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(out.Windows))
	}
	byRole := make(map[string]WindowStatus)
	for _, w := range out.Windows {
		byRole[w.Role] = w
	}
	if byRole["about"].State != "displayed" {
		t.Fatalf("about state = %q", byRole["about"].State)
	}
	if byRole["preferences"].State != "uninitialized" {
		t.Fatalf("preferences state = %q", byRole["preferences"].State)
	}
}

func TestWindowStatusTool(t *testing.T) {
	cmd := newFakeCommander("about")
	s := NewServer(cmd)

	_, out, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{Role: "about"})
	if err != nil {
		t.Fatalf("window_status: %v", err)
	}
	if out.Width != 400 || out.Height != 500 {
		t.Fatalf("unexpected geometry %dx%d", out.Width, out.Height)
	}

	if _, _, err := s.handleWindowStatus(context.Background(), nil, WindowStatusInput{Role: "ghost"}); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestToolsSurfaceDaemonErrors(t *testing.T) {
	cmd := newFakeCommander("about")
	cmd.err = errors.New("daemon unreachable")
	s := NewServer(cmd)

	if _, _, err := s.handleListWindows(context.Background(), nil, ListWindowsInput{}); err == nil {
		t.Fatalf("expected daemon error to surface")
	}
}
