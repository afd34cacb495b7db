package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// WindowOptions describes a fixed-size top-level window to create.
type WindowOptions struct {
	Title      string
	Width      int
	Height     int
	Floating   bool // request _NET_WM_STATE_ABOVE
	Background uint32
}

// ContentBinder is implemented by content values that know how to attach
// themselves to an X11 window. Content that does not implement it is accepted
// and left untouched; the window layer never inspects content beyond this.
type ContentBinder interface {
	Bind(xu *xgbutil.XUtil, win xproto.Window) error
}

// CreateWindow allocates and configures a fixed-size auxiliary window,
// centered on the active monitor's work area, without mapping it.
//
// Fixed size is enforced through WM_NORMAL_HINTS with min == max, so any WM
// resize request is a no-op. The window advertises WM_DELETE_WINDOW and is
// destroyed from the event loop when the user closes it; no session manager
// registration happens, so the window is never restored across restarts.
func (c *Connection) CreateWindow(opts WindowOptions, content interface{}) (xproto.Window, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return 0, fmt.Errorf("invalid window size %dx%d", opts.Width, opts.Height)
	}

	x, y := c.centerOnActiveMonitor(opts.Width, opts.Height)

	win, err := xwindow.Generate(c.XUtil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(c.Root, x, y, opts.Width, opts.Height,
		xproto.CwBackPixel|xproto.CwEventMask,
		opts.Background,
		xproto.EventMaskStructureNotify,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create window: %w", err)
	}

	if err := c.applyWindowProperties(win.Id, opts, x, y); err != nil {
		win.Destroy()
		return 0, err
	}

	// Bind content exactly once, before the window is ever mapped.
	if binder, ok := content.(ContentBinder); ok {
		if err := binder.Bind(c.XUtil, win.Id); err != nil {
			win.Destroy()
			return 0, fmt.Errorf("failed to bind content: %w", err)
		}
	}

	c.watchForClose(win)

	return win.Id, nil
}

// applyWindowProperties sets the ICCCM/EWMH properties that make the window
// a fixed-size, non-restorable auxiliary window.
func (c *Connection) applyWindowProperties(win xproto.Window, opts WindowOptions, x, y int) error {
	if err := ewmh.WmNameSet(c.XUtil, win, opts.Title); err != nil {
		return fmt.Errorf("failed to set window title: %w", err)
	}
	// Legacy WM_NAME for window managers that ignore _NET_WM_NAME.
	icccm.WmNameSet(c.XUtil, win, opts.Title)

	// min == max pins the size; PPosition keeps the WM from re-placing the
	// centered window.
	hints := icccm.NormalHints{
		Flags:     icccm.SizeHintPPosition | icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize,
		X:         x,
		Y:         y,
		MinWidth:  uint(opts.Width),
		MinHeight: uint(opts.Height),
		MaxWidth:  uint(opts.Width),
		MaxHeight: uint(opts.Height),
	}
	if err := icccm.WmNormalHintsSet(c.XUtil, win, &hints); err != nil {
		return fmt.Errorf("failed to set size hints: %w", err)
	}

	if err := ewmh.WmWindowTypeSet(c.XUtil, win, []string{"_NET_WM_WINDOW_TYPE_UTILITY"}); err != nil {
		return fmt.Errorf("failed to set window type: %w", err)
	}

	if opts.Floating {
		if err := ewmh.WmStateSet(c.XUtil, win, []string{"_NET_WM_STATE_ABOVE"}); err != nil {
			return fmt.Errorf("failed to set floating state: %w", err)
		}
	}

	// Advertise WM_DELETE_WINDOW so close goes through the event loop instead
	// of the WM killing our connection.
	if err := icccm.WmProtocolsSet(c.XUtil, win, []string{"WM_DELETE_WINDOW"}); err != nil {
		return fmt.Errorf("failed to set WM protocols: %w", err)
	}

	return nil
}

// watchForClose destroys the window when the user dismisses it. Controllers
// never learn about the close directly: they discover staleness through
// WindowAlive on their next show.
func (c *Connection) watchForClose(win *xwindow.Window) {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return
	}

	xevent.ClientMessageFun(func(xu *xgbutil.XUtil, ev xevent.ClientMessageEvent) {
		if ev.Format != 32 || len(ev.Data.Data32) == 0 {
			return
		}
		if xproto.Atom(ev.Data.Data32[0]) == deleteAtom {
			win.Destroy()
		}
	}).Connect(c.XUtil, win.Id)
}

// ShowWindow maps the window, raises it to the front and activates it so it
// becomes the key window and the application comes to the foreground.
func (c *Connection) ShowWindow(windowID xproto.Window) error {
	win := xwindow.New(c.XUtil, windowID)
	win.Map()
	win.Stack(xproto.StackModeAbove)

	if err := c.ActivateWindow(windowID); err != nil {
		return fmt.Errorf("failed to activate window: %w", err)
	}
	return nil
}

// WindowAlive reports whether the window still exists on the server. A
// destroyed window makes the attribute query fail, which is the liveness
// signal controllers rely on.
func (c *Connection) WindowAlive(windowID xproto.Window) bool {
	if windowID == 0 {
		return false
	}
	_, err := xproto.GetWindowAttributes(c.XUtil.Conn(), windowID).Reply()
	return err == nil
}

// WindowGeometry returns the window's current position and size in root
// coordinates.
func (c *Connection) WindowGeometry(windowID xproto.Window) (x, y, width, height int, err error) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to get window geometry: %w", err)
	}

	translate, err := xproto.TranslateCoordinates(
		c.XUtil.Conn(),
		windowID,
		c.Root,
		0, 0,
	).Reply()
	if err != nil {
		return 0, 0, 0, 0, fmt.Errorf("failed to translate window coordinates: %w", err)
	}

	return int(translate.DstX), int(translate.DstY), int(geom.Width), int(geom.Height), nil
}

// CloseWindow requests graceful window close via WM_DELETE_WINDOW.
func (c *Connection) CloseWindow(windowID xproto.Window) error {
	deleteAtom, err := c.internAtom("WM_DELETE_WINDOW")
	if err != nil {
		return err
	}
	protocolsAtom, err := c.internAtom("WM_PROTOCOLS")
	if err != nil {
		return err
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   protocolsAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{uint32(deleteAtom), 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		windowID,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

// ActivateWindow raises and focuses a window using _NET_ACTIVE_WINDOW.
// Sends a client message to the root window per EWMH spec.
// We build the message manually because the xgbutil ewmh helpers panic on
// this library version (uint vs int type assertion).
func (c *Connection) ActivateWindow(windowID xproto.Window) error {
	activeAtom, err := c.internAtom("_NET_ACTIVE_WINDOW")
	if err != nil {
		return err
	}

	const sourceIndication = 2 // pager/direct action
	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: windowID,
		Type:   activeAtom,
		Data:   xproto.ClientMessageDataUnionData32New([]uint32{sourceIndication, 0, 0, 0, 0}),
	}

	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}

// internAtom resolves an atom by name.
func (c *Connection) internAtom(name string) (xproto.Atom, error) {
	reply, err := xproto.InternAtom(c.XUtil.Conn(), false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to intern %s: %w", name, err)
	}
	return reply.Atom, nil
}

// centerOnActiveMonitor computes the top-left position that centers a window
// of the given size on the active monitor's work area. Falls back to the
// screen origin when monitor detection fails.
func (c *Connection) centerOnActiveMonitor(width, height int) (x, y int) {
	mon, err := c.GetActiveMonitor()
	if err != nil {
		return 0, 0
	}
	x = mon.X + (mon.Width-width)/2
	y = mon.Y + (mon.Height-height)/2
	if x < mon.X {
		x = mon.X
	}
	if y < mon.Y {
		y = mon.Y
	}
	return x, y
}
