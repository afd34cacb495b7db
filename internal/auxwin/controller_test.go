package auxwin

import (
	"errors"
	"testing"

	"github.com/1broseidon/auxwind/internal/platform"
)

// fakeHost is an in-memory windowing host that counts constructions and
// records every spec and content it was handed.
type fakeHost struct {
	nextID    platform.WindowID
	created   []platform.WindowSpec
	contents  []platform.Content
	live      map[platform.WindowID]bool
	shown     []platform.WindowID
	activated int
	createErr error
	showErr   error
}

func newFakeHost() *fakeHost {
	return &fakeHost{live: make(map[platform.WindowID]bool)}
}

func (h *fakeHost) Create(spec platform.WindowSpec, content platform.Content) (platform.WindowID, error) {
	if h.createErr != nil {
		return 0, h.createErr
	}
	h.nextID++
	h.created = append(h.created, spec)
	h.contents = append(h.contents, content)
	h.live[h.nextID] = true
	return h.nextID, nil
}

func (h *fakeHost) Show(id platform.WindowID) error {
	if h.showErr != nil {
		return h.showErr
	}
	if !h.live[id] {
		return errors.New("show of dead window")
	}
	h.shown = append(h.shown, id)
	h.activated++
	return nil
}

func (h *fakeHost) Alive(id platform.WindowID) bool {
	return h.live[id]
}

func (h *fakeHost) Close(id platform.WindowID) error {
	if !h.live[id] {
		return errors.New("close of dead window")
	}
	delete(h.live, id)
	return nil
}

func (h *fakeHost) Geometry(id platform.WindowID) (platform.Rect, error) {
	if !h.live[id] {
		return platform.Rect{}, errors.New("geometry of dead window")
	}
	return platform.Rect{}, nil
}

// userCloses simulates the user dismissing a window out from under the
// controller: the handle stays held but is no longer live.
func (h *fakeHost) userCloses(id platform.WindowID) {
	delete(h.live, id)
}

func aboutSpec() platform.WindowSpec {
	return platform.WindowSpec{Title: "About", Width: 400, Height: 500, Floating: true}
}

func newAboutController(t *testing.T, host platform.Host, factory ContentFactory) *Controller {
	t.Helper()
	if factory == nil {
		factory = func() (platform.Content, error) { return struct{}{}, nil }
	}
	ctl, err := NewController("about", aboutSpec(), factory, host)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return ctl
}

func TestShow_IdempotentSingleton(t *testing.T) {
	host := newFakeHost()
	factoryCalls := 0
	ctl := newAboutController(t, host, func() (platform.Content, error) {
		factoryCalls++
		return struct{}{}, nil
	})

	for i := 0; i < 5; i++ {
		if err := ctl.Show(); err != nil {
			t.Fatalf("show %d: %v", i+1, err)
		}
	}

	if len(host.created) != 1 {
		t.Fatalf("expected exactly 1 construction, got %d", len(host.created))
	}
	if factoryCalls != 1 {
		t.Fatalf("expected content factory called once, got %d", factoryCalls)
	}
	if len(host.shown) != 5 {
		t.Fatalf("expected 5 show operations, got %d", len(host.shown))
	}
	for i, id := range host.shown {
		if id != host.shown[0] {
			t.Fatalf("show %d targeted window %d, want %d", i+1, id, host.shown[0])
		}
	}
	if ctl.Generation() != 1 {
		t.Fatalf("expected generation 1, got %d", ctl.Generation())
	}
}

func TestShow_FixedGeometryAndNoRestoration(t *testing.T) {
	host := newFakeHost()
	// Restorable true in the incoming spec must be forced off at construction.
	spec := aboutSpec()
	spec.Restorable = true
	ctl, err := NewController("about", spec, func() (platform.Content, error) {
		return struct{}{}, nil
	}, host)
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}

	if err := ctl.Show(); err != nil {
		t.Fatalf("show: %v", err)
	}

	got := host.created[0]
	if got.Width != 400 || got.Height != 500 {
		t.Fatalf("expected 400x500, got %dx%d", got.Width, got.Height)
	}
	if got.Restorable {
		t.Fatalf("expected restorable to be false at all times")
	}
	if !got.Floating {
		t.Fatalf("expected floating flag to be preserved")
	}
}

func TestShow_ReconstructionAfterClose(t *testing.T) {
	host := newFakeHost()
	ctl := newAboutController(t, host, nil)

	if err := ctl.Show(); err != nil {
		t.Fatalf("first show: %v", err)
	}
	first, ok := ctl.Window()
	if !ok {
		t.Fatalf("expected live window after first show")
	}

	host.userCloses(first)
	if ctl.State() != StateClosed {
		t.Fatalf("expected state closed after user close, got %q", ctl.State())
	}

	if err := ctl.Show(); err != nil {
		t.Fatalf("show after close: %v", err)
	}
	second, ok := ctl.Window()
	if !ok {
		t.Fatalf("expected live window after reconstruction")
	}
	if second == first {
		t.Fatalf("expected a distinct instance after close, got the dead one reused")
	}
	if len(host.created) != 2 {
		t.Fatalf("expected 2 constructions, got %d", len(host.created))
	}
	if ctl.Generation() != 2 {
		t.Fatalf("expected generation 2, got %d", ctl.Generation())
	}

	// Replacement instance keeps the fixed geometry.
	if host.created[1] != host.created[0] {
		t.Fatalf("expected identical spec for replacement instance")
	}
}

func TestShow_ActivationOnEveryCall(t *testing.T) {
	host := newFakeHost()
	ctl := newAboutController(t, host, nil)

	for i := 0; i < 3; i++ {
		if err := ctl.Show(); err != nil {
			t.Fatalf("show %d: %v", i+1, err)
		}
	}
	if host.activated != 3 {
		t.Fatalf("expected activation on every show, got %d of 3", host.activated)
	}
}

func TestShow_HostRejectionSurfacesError(t *testing.T) {
	host := newFakeHost()
	host.createErr = errors.New("out of window handles")
	ctl := newAboutController(t, host, nil)

	if err := ctl.Show(); err == nil {
		t.Fatalf("expected error when host rejects window creation")
	}
	if ctl.State() != StateUninitialized {
		t.Fatalf("expected state uninitialized after rejected create, got %q", ctl.State())
	}

	// A later call may succeed once the host recovers; no stale state remains.
	host.createErr = nil
	if err := ctl.Show(); err != nil {
		t.Fatalf("show after host recovery: %v", err)
	}
}

func TestShow_FactoryErrorLeavesNoInstance(t *testing.T) {
	host := newFakeHost()
	ctl := newAboutController(t, host, func() (platform.Content, error) {
		return nil, errors.New("content unavailable")
	})

	if err := ctl.Show(); err == nil {
		t.Fatalf("expected factory error to surface")
	}
	if len(host.created) != 0 {
		t.Fatalf("expected no window constructed when content fails, got %d", len(host.created))
	}
}

func TestClose_IdempotentOnDeadOrMissingInstance(t *testing.T) {
	host := newFakeHost()
	ctl := newAboutController(t, host, nil)

	// Never shown: nothing to close.
	if err := ctl.Close(); err != nil {
		t.Fatalf("close on uninitialized: %v", err)
	}

	if err := ctl.Show(); err != nil {
		t.Fatalf("show: %v", err)
	}
	id, _ := ctl.Window()
	host.userCloses(id)

	// Already dead: still not an error.
	if err := ctl.Close(); err != nil {
		t.Fatalf("close on dead instance: %v", err)
	}
}

func TestNewController_Validation(t *testing.T) {
	host := newFakeHost()
	factory := func() (platform.Content, error) { return struct{}{}, nil }

	cases := []struct {
		name    string
		role    Role
		spec    platform.WindowSpec
		factory ContentFactory
		host    platform.Host
	}{
		{"empty role", "", aboutSpec(), factory, host},
		{"zero width", "about", platform.WindowSpec{Title: "About", Height: 500}, factory, host},
		{"zero height", "about", platform.WindowSpec{Title: "About", Width: 400}, factory, host},
		{"nil factory", "about", aboutSpec(), nil, host},
		{"nil host", "about", aboutSpec(), factory, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewController(tc.role, tc.spec, tc.factory, tc.host); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

// TestAboutScenario walks the example scenario end to end: show, re-show,
// user close, show again.
func TestAboutScenario(t *testing.T) {
	host := newFakeHost()
	ctl := newAboutController(t, host, nil)

	if st := ctl.State(); st != StateUninitialized {
		t.Fatalf("fresh controller state = %q, want uninitialized", st)
	}

	if err := ctl.Show(); err != nil {
		t.Fatalf("show 1: %v", err)
	}
	w1, ok := ctl.Window()
	if !ok {
		t.Fatalf("expected live window after show 1")
	}
	if st := ctl.State(); st != StateDisplayed {
		t.Fatalf("state after show 1 = %q, want displayed", st)
	}

	if err := ctl.Show(); err != nil {
		t.Fatalf("show 2: %v", err)
	}
	if len(host.created) != 1 {
		t.Fatalf("show 2 constructed a new window")
	}
	if host.created[0].Width != 400 || host.created[0].Height != 500 {
		t.Fatalf("w1 geometry changed")
	}

	host.userCloses(w1)

	if err := ctl.Show(); err != nil {
		t.Fatalf("show 3: %v", err)
	}
	w2, ok := ctl.Window()
	if !ok || w2 == w1 {
		t.Fatalf("expected distinct live window after show 3, got %d (w1=%d)", w2, w1)
	}
	if got := host.created[1]; got.Width != 400 || got.Height != 500 {
		t.Fatalf("w2 geometry = %dx%d, want 400x500", got.Width, got.Height)
	}
}
