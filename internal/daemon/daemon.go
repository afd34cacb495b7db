// Package daemon runs the auxiliary-window registry behind a single dispatch
// loop. Window construction, display and liveness checks all execute on that
// loop, so controllers never see concurrent callers.
package daemon

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/1broseidon/auxwind/internal/actionlog"
	"github.com/1broseidon/auxwind/internal/auxwin"
	"github.com/1broseidon/auxwind/internal/config"
	"github.com/1broseidon/auxwind/internal/ipc"
	"github.com/1broseidon/auxwind/internal/platform"
	"github.com/1broseidon/auxwind/internal/x11"
)

// FactoryBuilder turns a role's configuration into a content factory.
type FactoryBuilder func(role string, rc config.RoleConfig) auxwin.ContentFactory

// Daemon owns the host, the role registry and the dispatch loop.
type Daemon struct {
	configPath string
	cfg        *config.Config
	host       platform.Host
	registry   *auxwin.Registry
	logger     *actionlog.Logger
	buildFn    FactoryBuilder

	tasks     chan func()
	done      chan struct{}
	startTime time.Time
}

// New creates a daemon and registers every configured role.
func New(cfg *config.Config, configPath string, host platform.Host, logger *actionlog.Logger) (*Daemon, error) {
	d := &Daemon{
		configPath: configPath,
		cfg:        cfg,
		host:       host,
		logger:     logger,
		buildFn:    panelFactory,
		tasks:      make(chan func()),
		done:       make(chan struct{}),
		startTime:  time.Now(),
	}
	d.registry = auxwin.NewRegistry(host)

	if err := d.registerRoles(d.registry, cfg); err != nil {
		return nil, err
	}
	return d, nil
}

// panelFactory is the default content builder: a solid-color panel.
func panelFactory(role string, rc config.RoleConfig) auxwin.ContentFactory {
	return func() (platform.Content, error) {
		background := uint32(0)
		if rc.Background != "" {
			pixel, err := x11.ParseColor(rc.Background)
			if err != nil {
				return nil, err
			}
			background = pixel
		}
		return &x11.PanelContent{Background: background}, nil
	}
}

func (d *Daemon) registerRoles(reg *auxwin.Registry, cfg *config.Config) error {
	for _, name := range cfg.RoleNames() {
		rc := cfg.Roles[name]
		spec := platform.WindowSpec{
			Title:    rc.Title,
			Width:    rc.Width,
			Height:   rc.Height,
			Floating: rc.IsFloating(),
		}
		if err := reg.Register(auxwin.Role(name), spec, d.buildFn(name, rc)); err != nil {
			return fmt.Errorf("failed to register role %q: %w", name, err)
		}
		d.logger.Log(actionlog.ActionRegister, name, map[string]interface{}{
			"title":  rc.Title,
			"width":  rc.Width,
			"height": rc.Height,
		})
	}
	return nil
}

// Run executes the dispatch loop until ctx is cancelled. All registry access
// happens here.
func (d *Daemon) Run(ctx context.Context) error {
	defer close(d.done)
	log.Printf("auxwind daemon running with %d role(s)", len(d.registry.Roles()))
	for {
		select {
		case <-ctx.Done():
			return nil
		case task := <-d.tasks:
			task()
		}
	}
}

// dispatch runs fn on the daemon loop and returns its result. Callers on
// other goroutines (IPC handlers) block until the loop has executed fn.
func (d *Daemon) dispatch(fn func() error) error {
	result := make(chan error, 1)
	wrapped := func() { result <- fn() }

	select {
	case d.tasks <- wrapped:
	case <-d.done:
		return fmt.Errorf("daemon is shutting down")
	}
	select {
	case err := <-result:
		return err
	case <-d.done:
		return fmt.Errorf("daemon is shutting down")
	}
}

var _ ipc.Handler = (*Daemon)(nil)

// ShowWindow displays the window for role, constructing it on first use.
func (d *Daemon) ShowWindow(role string) error {
	return d.dispatch(func() error {
		ctl, ok := d.registry.Controller(auxwin.Role(role))
		if !ok {
			return fmt.Errorf("unknown role %q", role)
		}
		genBefore := ctl.Generation()
		if err := ctl.Show(); err != nil {
			return err
		}
		id, _ := ctl.Window()
		if ctl.Generation() != genBefore {
			d.logger.Log(actionlog.ActionCreate, role, map[string]interface{}{
				"window":     uint32(id),
				"generation": ctl.Generation(),
			})
		}
		d.logger.Log(actionlog.ActionShow, role, map[string]interface{}{
			"window": uint32(id),
		})
		return nil
	})
}

// CloseWindow requests a graceful close of role's window.
func (d *Daemon) CloseWindow(role string) error {
	return d.dispatch(func() error {
		if err := d.registry.Close(auxwin.Role(role)); err != nil {
			return err
		}
		d.logger.Log(actionlog.ActionClose, role, nil)
		return nil
	})
}

// Status snapshots every role's lifecycle state.
func (d *Daemon) Status() ipc.StatusData {
	var status ipc.StatusData
	d.dispatch(func() error {
		for _, rs := range d.registry.Status() {
			status.Windows = append(status.Windows, ipc.WindowInfo{
				Role:       string(rs.Role),
				State:      string(rs.State),
				WindowID:   uint32(rs.WindowID),
				Generation: rs.Generation,
				Title:      rs.Spec.Title,
				Width:      rs.Spec.Width,
				Height:     rs.Spec.Height,
				Floating:   rs.Spec.Floating,
			})
		}
		status.UptimeSeconds = int64(time.Since(d.startTime).Seconds())
		status.DaemonRunning = true
		return nil
	})
	return status
}

// Roles lists registered role names.
func (d *Daemon) Roles() ipc.RolesData {
	var data ipc.RolesData
	d.dispatch(func() error {
		for _, role := range d.registry.Roles() {
			data.Roles = append(data.Roles, string(role))
		}
		return nil
	})
	return data
}

// Reload re-reads the configuration and rebuilds the registry. Roles whose
// window is currently live keep their controller (and instance); everything
// else is registered fresh from the new config.
func (d *Daemon) Reload() error {
	newCfg, err := config.LoadFromPath(d.configPath)
	if err != nil {
		return err
	}

	return d.dispatch(func() error {
		fresh := auxwin.NewRegistry(d.host)
		for _, name := range newCfg.RoleNames() {
			if ctl, ok := d.registry.Controller(auxwin.Role(name)); ok && ctl.State() == auxwin.StateDisplayed {
				if err := fresh.Adopt(ctl); err != nil {
					return err
				}
				continue
			}
			rc := newCfg.Roles[name]
			spec := platform.WindowSpec{
				Title:    rc.Title,
				Width:    rc.Width,
				Height:   rc.Height,
				Floating: rc.IsFloating(),
			}
			if err := fresh.Register(auxwin.Role(name), spec, d.buildFn(name, rc)); err != nil {
				return err
			}
		}

		d.cfg = newCfg
		d.registry = fresh
		d.logger.Log(actionlog.ActionReload, "", map[string]interface{}{
			"roles": len(newCfg.Roles),
		})
		log.Printf("configuration reloaded: %d role(s)", len(newCfg.Roles))
		return nil
	})
}
