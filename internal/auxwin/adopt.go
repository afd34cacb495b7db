package auxwin

import "fmt"

// Adopt inserts an existing controller into the registry. Used on config
// reload so roles with live windows keep their instance instead of being
// rebuilt.
func (r *Registry) Adopt(ctl *Controller) error {
	if ctl == nil {
		return fmt.Errorf("auxwin: cannot adopt nil controller")
	}
	if _, ok := r.controllers[ctl.Role()]; ok {
		return fmt.Errorf("auxwin: role %q already registered", ctl.Role())
	}
	r.controllers[ctl.Role()] = ctl
	return nil
}
