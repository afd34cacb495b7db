// Package hotkeys registers global X11 keyboard shortcuts that show
// auxiliary windows.
package hotkeys

import (
	"fmt"
	"log"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"

	"github.com/1broseidon/auxwind/internal/platform"
)

// WindowShower shows the window for a role. The daemon implements this.
type WindowShower interface {
	ShowWindow(role string) error
}

// x11Accessor is an optional interface for hosts that expose X11 internals.
type x11Accessor interface {
	XUtil() *xgbutil.XUtil
	RootWindow() xproto.Window
}

// Handler manages global keyboard shortcuts.
type Handler struct {
	xu     *xgbutil.XUtil
	root   xproto.Window
	shower WindowShower
}

var ignoreModsOnce sync.Once

// NewHandler creates a hotkey handler bound to the host's X11 connection.
func NewHandler(host platform.Host, shower WindowShower) (*Handler, error) {
	accessor, ok := host.(x11Accessor)
	if !ok {
		return nil, fmt.Errorf("host does not expose an X11 connection")
	}
	xu := accessor.XUtil()
	if xu == nil {
		return nil, fmt.Errorf("host has no X11 connection")
	}

	ignoreModsOnce.Do(func() {
		configureIgnoreMods(xu)
	})

	return &Handler{
		xu:     xu,
		root:   accessor.RootWindow(),
		shower: shower,
	}, nil
}

// RegisterRole binds keySequence to showing the window for role.
func (h *Handler) RegisterRole(keySequence, role string) error {
	if err := h.RegisterFunc(keySequence, func() {
		if err := h.shower.ShowWindow(role); err != nil {
			log.Printf("Hotkey show %q failed: %v", role, err)
		}
	}); err != nil {
		return fmt.Errorf("failed to register hotkey for role %q: %w", role, err)
	}
	return nil
}

// RegisterFunc registers an arbitrary hotkey callback.
func (h *Handler) RegisterFunc(keySequence string, callback func()) error {
	return keybind.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		callback()
	}).Connect(h.xu, h.root, keySequence, true)
}

func configureIgnoreMods(xu *xgbutil.XUtil) {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}
