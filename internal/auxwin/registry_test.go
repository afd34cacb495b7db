package auxwin

import (
	"testing"

	"github.com/1broseidon/auxwind/internal/platform"
)

func registerRole(t *testing.T, r *Registry, role Role, w, h int) {
	t.Helper()
	spec := platform.WindowSpec{Title: string(role), Width: w, Height: h}
	err := r.Register(role, spec, func() (platform.Content, error) {
		return struct{}{}, nil
	})
	if err != nil {
		t.Fatalf("register %q: %v", role, err)
	}
}

func TestRegistry_DuplicateRoleRejected(t *testing.T) {
	r := NewRegistry(newFakeHost())
	registerRole(t, r, "about", 400, 500)

	err := r.Register("about", aboutSpec(), func() (platform.Content, error) {
		return struct{}{}, nil
	})
	if err == nil {
		t.Fatalf("expected duplicate role to be rejected")
	}
}

func TestRegistry_RolesAreIndependent(t *testing.T) {
	host := newFakeHost()
	r := NewRegistry(host)
	registerRole(t, r, "about", 400, 500)
	registerRole(t, r, "preferences", 600, 420)

	if err := r.Show("about"); err != nil {
		t.Fatalf("show about: %v", err)
	}
	if err := r.Show("preferences"); err != nil {
		t.Fatalf("show preferences: %v", err)
	}
	if len(host.created) != 2 {
		t.Fatalf("expected one instance per role, got %d constructions", len(host.created))
	}

	// Closing one role must not disturb the other.
	aboutCtl, _ := r.Controller("about")
	aboutID, _ := aboutCtl.Window()
	host.userCloses(aboutID)

	prefCtl, _ := r.Controller("preferences")
	if prefCtl.State() != StateDisplayed {
		t.Fatalf("preferences state = %q after about close, want displayed", prefCtl.State())
	}

	if err := r.Show("about"); err != nil {
		t.Fatalf("re-show about: %v", err)
	}
	if len(host.created) != 3 {
		t.Fatalf("expected about to be reconstructed, got %d constructions", len(host.created))
	}
}

func TestRegistry_UnknownRole(t *testing.T) {
	r := NewRegistry(newFakeHost())
	if err := r.Show("nope"); err == nil {
		t.Fatalf("expected error for unknown role on show")
	}
	if err := r.Close("nope"); err == nil {
		t.Fatalf("expected error for unknown role on close")
	}
}

func TestRegistry_Status(t *testing.T) {
	host := newFakeHost()
	r := NewRegistry(host)
	registerRole(t, r, "preferences", 600, 420)
	registerRole(t, r, "about", 400, 500)

	if err := r.Show("about"); err != nil {
		t.Fatalf("show about: %v", err)
	}

	statuses := r.Status()
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	// Sorted by role name.
	if statuses[0].Role != "about" || statuses[1].Role != "preferences" {
		t.Fatalf("unexpected status order: %q, %q", statuses[0].Role, statuses[1].Role)
	}
	if statuses[0].State != StateDisplayed || statuses[0].Generation != 1 {
		t.Fatalf("about status = %+v, want displayed gen 1", statuses[0])
	}
	if statuses[1].State != StateUninitialized || statuses[1].WindowID != 0 {
		t.Fatalf("preferences status = %+v, want uninitialized", statuses[1])
	}
}
