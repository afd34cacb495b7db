//go:build linux

package platform

import (
	"fmt"

	"github.com/1broseidon/auxwind/internal/x11"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
)

// LinuxHost implements Host on X11 via an existing connection.
type LinuxHost struct {
	conn *x11.Connection
}

var _ Host = (*LinuxHost)(nil)

// NewLinuxHost creates a Linux windowing host from an existing X11 connection.
func NewLinuxHost(conn *x11.Connection) *LinuxHost {
	return &LinuxHost{conn: conn}
}

// NewLinuxHostFromDisplay creates a new Linux host by opening a fresh X11
// connection. An empty display uses the DISPLAY environment variable.
func NewLinuxHostFromDisplay(display string) (*LinuxHost, error) {
	conn, err := x11.NewConnectionDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	return &LinuxHost{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (h *LinuxHost) Disconnect() {
	if h != nil && h.conn != nil {
		h.conn.Close()
	}
}

// EventLoop starts the X11 event loop (blocking). User-initiated window
// closes are serviced here.
func (h *LinuxHost) EventLoop() {
	if h != nil && h.conn != nil {
		h.conn.EventLoop()
	}
}

// Create allocates a fixed-size auxiliary window and binds its content.
// The window is centered on the active monitor's work area and never
// registers with the session manager, so it cannot be restored.
func (h *LinuxHost) Create(spec WindowSpec, content Content) (WindowID, error) {
	conn, err := h.connection()
	if err != nil {
		return 0, err
	}

	opts := x11.WindowOptions{
		Title:    spec.Title,
		Width:    spec.Width,
		Height:   spec.Height,
		Floating: spec.Floating,
	}
	if panel, ok := content.(*x11.PanelContent); ok {
		opts.Background = panel.Background
	}

	win, err := conn.CreateWindow(opts, content)
	if err != nil {
		return 0, err
	}
	return WindowID(win), nil
}

// Show maps and raises the window, makes it key and activates the application.
func (h *LinuxHost) Show(id WindowID) error {
	conn, err := h.connection()
	if err != nil {
		return err
	}
	return conn.ShowWindow(xproto.Window(id))
}

// Alive reports whether the window still exists on the X server.
func (h *LinuxHost) Alive(id WindowID) bool {
	if h == nil || h.conn == nil {
		return false
	}
	return h.conn.WindowAlive(xproto.Window(id))
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (h *LinuxHost) Close(id WindowID) error {
	conn, err := h.connection()
	if err != nil {
		return err
	}
	return conn.CloseWindow(xproto.Window(id))
}

// Geometry returns the window's position and size in root coordinates.
func (h *LinuxHost) Geometry(id WindowID) (Rect, error) {
	conn, err := h.connection()
	if err != nil {
		return Rect{}, err
	}
	x, y, w, hh, err := conn.WindowGeometry(xproto.Window(id))
	if err != nil {
		return Rect{}, err
	}
	return Rect{X: x, Y: y, Width: w, Height: hh}, nil
}

// Displays returns all active displays.
func (h *LinuxHost) Displays() ([]Display, error) {
	conn, err := h.connection()
	if err != nil {
		return nil, err
	}

	monitors, err := conn.GetMonitors()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(monitors))
	for _, m := range monitors {
		bounds := Rect{X: m.X, Y: m.Y, Width: m.Width, Height: m.Height}
		displays = append(displays, Display{
			ID:     m.ID,
			Name:   m.Name,
			Bounds: bounds,
			Usable: bounds,
		})
	}
	return displays, nil
}

// XUtil exposes the underlying xgbutil connection for hotkey registration.
func (h *LinuxHost) XUtil() *xgbutil.XUtil {
	if h == nil || h.conn == nil {
		return nil
	}
	return h.conn.XUtil
}

// RootWindow returns the X11 root window.
func (h *LinuxHost) RootWindow() xproto.Window {
	if h == nil || h.conn == nil {
		return 0
	}
	return h.conn.Root
}

func (h *LinuxHost) connection() (*x11.Connection, error) {
	if h == nil || h.conn == nil {
		return nil, fmt.Errorf("x11 host connection is nil")
	}
	return h.conn, nil
}
