// Package daemon bundles the singletons the event loop owns — the
// playlist, the player supervisor, the reactor, the session registry
// and the admin HTTP surface — into one value and drives their combined
// lifecycle with an errgroup, one goroutine per background subsystem.
package daemon

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/famish99/vpd/internal/admin"
	"github.com/famish99/vpd/internal/config"
	"github.com/famish99/vpd/internal/player"
	"github.com/famish99/vpd/internal/playlist"
	"github.com/famish99/vpd/internal/reactor"
	"github.com/famish99/vpd/internal/session"
	"github.com/famish99/vpd/internal/vpd"
)

// WireVersionMajor and WireVersionMinor are the "M.m" the welcome
// banner advertises.
const (
	WireVersionMajor = 0
	WireVersionMinor = 1
)

// Daemon is the fully wired VPD server, ready to Run.
type Daemon struct {
	cfg        *config.Config
	logger     zerolog.Logger
	reactor    *reactor.Reactor
	playlist   *playlist.Playlist
	supervisor *player.Supervisor
	engine     *vpd.Engine
	registry   *session.Registry
}

// New wires every component per cfg. It does not open any socket or
// start any goroutine — that happens in Run.
func New(cfg *config.Config, logger zerolog.Logger) (*Daemon, error) {
	if err := playlist.EnsureDir(cfg.PlaylistDir()); err != nil {
		return nil, fmt.Errorf("daemon: creating playlist directory: %w", err)
	}

	rx := reactor.New()
	pl := playlist.New()

	playerCfg := player.DefaultConfig()
	playerCfg.VLCStartDelay = time.Duration(cfg.VLCStartDelay)

	sup := player.New(playerCfg, rx, logger.With().Str("component", "player").Logger())

	engine := vpd.New(pl, sup, rx, cfg.PlaylistDir(), logger.With().Str("component", "vpd").Logger())

	// An unexpected primary-player crash runs the `next` command through
	// the engine (which posts it onto the reactor), so playback advances
	// the same way a client's `next` would instead of stalling.
	sup.OnPrimaryExit = func() {
		engine.Dispatch("next")
	}

	return &Daemon{
		cfg:        cfg,
		logger:     logger,
		reactor:    rx,
		playlist:   pl,
		supervisor: sup,
		engine:     engine,
		registry:   session.NewRegistry(),
	}, nil
}

// Run opens the control-plane listener (and, if configured, the admin
// HTTP listener), starts the reactor, and blocks until ctx is cancelled
// or a subsystem fails. On return, the daemon has stopped accepting new
// work and every supervised child process has been terminated.
func (d *Daemon) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", d.cfg.BindToAddress, d.cfg.Port))
	if err != nil {
		return fmt.Errorf("daemon: listening: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.reactor.Run(ctx)
		return nil
	})

	g.Go(func() error {
		return session.Serve(ctx, ln, d.registry, d.engine, WireVersionMajor, WireVersionMinor, d.logger.With().Str("component", "session").Logger())
	})

	if d.cfg.MetricsAddr != "" {
		srv := &http.Server{Addr: d.cfg.MetricsAddr, Handler: admin.NewRouter(nil)}
		g.Go(func() error {
			<-ctx.Done()
			return srv.Close()
		})
		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("daemon: admin server: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		d.supervisor.Stop()
		return nil
	})

	return g.Wait()
}
