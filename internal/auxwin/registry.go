package auxwin

import (
	"fmt"
	"sort"

	"github.com/1broseidon/auxwind/internal/platform"
)

// Registry maps roles to their controllers. One controller (and therefore at
// most one live window) exists per role. Like Controller, Registry must only
// be used from the goroutine that owns the host.
type Registry struct {
	host        platform.Host
	controllers map[Role]*Controller
}

// RoleStatus is a point-in-time snapshot of one role's lifecycle.
type RoleStatus struct {
	Role       Role
	State      State
	WindowID   platform.WindowID
	Generation uint64
	Spec       platform.WindowSpec
}

// NewRegistry creates an empty registry bound to host.
func NewRegistry(host platform.Host) *Registry {
	return &Registry{
		host:        host,
		controllers: make(map[Role]*Controller),
	}
}

// Register adds a controller for role. Registering an already-known role is
// an error: the one-instance-per-role invariant is owned here.
func (r *Registry) Register(role Role, spec platform.WindowSpec, factory ContentFactory) error {
	if _, ok := r.controllers[role]; ok {
		return fmt.Errorf("auxwin: role %q already registered", role)
	}
	ctl, err := NewController(role, spec, factory, r.host)
	if err != nil {
		return err
	}
	r.controllers[role] = ctl
	return nil
}

// Controller returns the controller for role, if registered.
func (r *Registry) Controller(role Role) (*Controller, bool) {
	ctl, ok := r.controllers[role]
	return ctl, ok
}

// Show displays the window for role, constructing it if needed.
func (r *Registry) Show(role Role) error {
	ctl, ok := r.controllers[role]
	if !ok {
		return fmt.Errorf("auxwin: unknown role %q", role)
	}
	return ctl.Show()
}

// Close requests a close of role's window, if one is live.
func (r *Registry) Close(role Role) error {
	ctl, ok := r.controllers[role]
	if !ok {
		return fmt.Errorf("auxwin: unknown role %q", role)
	}
	return ctl.Close()
}

// Roles returns all registered roles in sorted order.
func (r *Registry) Roles() []Role {
	roles := make([]Role, 0, len(r.controllers))
	for role := range r.controllers {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Status returns a snapshot of every role, sorted by role name.
func (r *Registry) Status() []RoleStatus {
	statuses := make([]RoleStatus, 0, len(r.controllers))
	for _, role := range r.Roles() {
		ctl := r.controllers[role]
		id, _ := ctl.Window()
		statuses = append(statuses, RoleStatus{
			Role:       role,
			State:      ctl.State(),
			WindowID:   id,
			Generation: ctl.Generation(),
			Spec:       ctl.Spec(),
		})
	}
	return statuses
}
