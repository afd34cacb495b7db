package platform

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Content is an opaque renderable unit supplied by a content factory.
// The host binds it to a window exactly once at construction time; nothing
// above the host layer ever inspects it.
type Content interface{}

// WindowSpec describes a fixed-size auxiliary window. Width and Height are
// both the minimum and maximum size: auxiliary windows never resize.
type WindowSpec struct {
	Title    string
	Width    int
	Height   int
	Floating bool // keep above normal-level windows

	// Restorable is never persisted by any host implementation. It exists so
	// callers can assert the window was constructed without state restoration.
	Restorable bool
}

// Host abstracts the windowing system an auxiliary window is created on.
//
// Create allocates and configures a window without mapping it; Show maps the
// window, orders it to the front, makes it the key window and activates the
// owning application. Alive reports liveness of the handle, not mere
// presence: a window the user closed is not alive even if the ID is still
// held somewhere.
type Host interface {
	Create(spec WindowSpec, content Content) (WindowID, error)
	Show(id WindowID) error
	Alive(id WindowID) bool
	Close(id WindowID) error
	Geometry(id WindowID) (Rect, error)
}
