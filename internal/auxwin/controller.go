// Package auxwin implements singleton lifecycle control for auxiliary
// windows: secondary, fixed-size, non-document windows such as About boxes
// and preference panels. Each role (about, preferences, ...) is owned by one
// Controller which guarantees at most one live window instance per role.
package auxwin

import (
	"fmt"

	"github.com/1broseidon/auxwind/internal/platform"
)

// Role identifies one auxiliary window purpose (e.g. "about", "preferences").
type Role string

// ContentFactory produces the opaque content bound to a window instance.
// It is invoked exactly once per constructed instance: re-showing an existing
// window never rebuilds content.
type ContentFactory func() (platform.Content, error)

// State describes where a role is in its window lifecycle.
type State string

const (
	StateUninitialized State = "uninitialized" // no instance ever created
	StateDisplayed     State = "displayed"     // a live instance exists
	StateClosed        State = "closed"        // a previous instance was dismissed
)

// Controller owns at most one window instance for a single role.
//
// Controller is not safe for concurrent use. All methods must be called from
// the single goroutine that owns the windowing host (the daemon dispatch
// loop); the controller performs no internal locking and no call blocks.
type Controller struct {
	role    Role
	spec    platform.WindowSpec
	factory ContentFactory
	host    platform.Host

	window platform.WindowID
	held   bool // false until the first construction
	gen    uint64
}

// NewController creates a controller for role. Restorable in spec is forced
// off: auxiliary windows are never recreated from persisted state.
func NewController(role Role, spec platform.WindowSpec, factory ContentFactory, host platform.Host) (*Controller, error) {
	if role == "" {
		return nil, fmt.Errorf("auxwin: role must not be empty")
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return nil, fmt.Errorf("auxwin: role %q has invalid size %dx%d", role, spec.Width, spec.Height)
	}
	if factory == nil {
		return nil, fmt.Errorf("auxwin: role %q has no content factory", role)
	}
	if host == nil {
		return nil, fmt.Errorf("auxwin: role %q has no host", role)
	}
	spec.Restorable = false
	return &Controller{
		role:    role,
		spec:    spec,
		factory: factory,
		host:    host,
	}, nil
}

// Show guarantees that after it returns without error, exactly one window for
// this role is visible, key/front, and the owning application is active.
//
// A live held instance is re-displayed without reconstruction; a missing or
// stale handle falls through silently to the construction branch, so a window
// the user closed is replaced by a fresh instance on the next Show.
func (c *Controller) Show() error {
	if c.held && c.host.Alive(c.window) {
		if err := c.host.Show(c.window); err != nil {
			return fmt.Errorf("auxwin: show %q: %w", c.role, err)
		}
		return nil
	}

	content, err := c.factory()
	if err != nil {
		return fmt.Errorf("auxwin: build content for %q: %w", c.role, err)
	}

	id, err := c.host.Create(c.spec, content)
	if err != nil {
		// Host rejection is unrecoverable for this call; no retry semantics.
		return fmt.Errorf("auxwin: create window for %q: %w", c.role, err)
	}

	c.window = id
	c.held = true
	c.gen++

	if err := c.host.Show(id); err != nil {
		return fmt.Errorf("auxwin: show %q: %w", c.role, err)
	}
	return nil
}

// Close requests a graceful close of the current instance, if one is live.
// Closing is idempotent: a missing or already-dead instance is not an error.
func (c *Controller) Close() error {
	if !c.held || !c.host.Alive(c.window) {
		return nil
	}
	if err := c.host.Close(c.window); err != nil {
		return fmt.Errorf("auxwin: close %q: %w", c.role, err)
	}
	return nil
}

// Role returns the role this controller owns.
func (c *Controller) Role() Role {
	return c.role
}

// Spec returns the fixed window spec for this role.
func (c *Controller) Spec() platform.WindowSpec {
	return c.spec
}

// State reports the lifecycle state, checking liveness of the held handle.
func (c *Controller) State() State {
	switch {
	case !c.held:
		return StateUninitialized
	case c.host.Alive(c.window):
		return StateDisplayed
	default:
		return StateClosed
	}
}

// Window returns the held window ID and whether it is currently live.
func (c *Controller) Window() (platform.WindowID, bool) {
	if !c.held || !c.host.Alive(c.window) {
		return 0, false
	}
	return c.window, true
}

// Generation returns how many instances this controller has constructed.
// It increments once per construction, never on re-show.
func (c *Controller) Generation() uint64 {
	return c.gen
}
