package x11

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xwindow"
)

// PanelContent is a minimal hosted content implementation: a solid-color
// child window filling the parent's client area. It stands in for whatever
// renderable view an application embeds in its auxiliary windows.
type PanelContent struct {
	Background uint32
}

// Bind creates the panel child window inside win. Called exactly once per
// window instance; the panel lives and dies with its parent.
func (p *PanelContent) Bind(xu *xgbutil.XUtil, win xproto.Window) error {
	geom, err := xproto.GetGeometry(xu.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return fmt.Errorf("failed to get parent geometry: %w", err)
	}

	child, err := xwindow.Generate(xu)
	if err != nil {
		return fmt.Errorf("failed to allocate content window id: %w", err)
	}

	err = child.CreateChecked(win, 0, 0, int(geom.Width), int(geom.Height),
		xproto.CwBackPixel, p.Background)
	if err != nil {
		return fmt.Errorf("failed to create content window: %w", err)
	}

	child.Map()
	return nil
}

// ParseColor parses a "#rrggbb" hex color into an X11 pixel value.
func ParseColor(s string) (uint32, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return 0, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return uint32(v), nil
}
