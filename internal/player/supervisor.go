// Package player implements the player supervisor: URI-scheme
// dispatch to external sopcast/cvlc subprocesses, their lifecycle
// (spawn, observe, terminate), and an optional exit-status observer that
// advances the playlist cursor when the primary player process dies
// unexpectedly.
package player

import (
	"os/exec"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/famish99/vpd/internal/metrics"
	"github.com/famish99/vpd/internal/procguard"
)

// Config controls timing knobs for subprocess lifecycle management.
type Config struct {
	// VLCStartDelay is the warmup between spawning the sopcast relay
	// and spawning the local player pointed at it.
	VLCStartDelay time.Duration
	// KillGrace is how long Stop waits after SIGTERM before escalating
	// to SIGKILL.
	KillGrace time.Duration
	// KillTimeout is how long Stop waits for SIGKILL to be reaped
	// before giving up and logging (never returned to the client).
	KillTimeout time.Duration
}

// DefaultConfig returns reasonable defaults for the timing knobs above.
func DefaultConfig() Config {
	return Config{
		VLCStartDelay: 5 * time.Second,
		KillGrace:     3 * time.Second,
		KillTimeout:   2 * time.Second,
	}
}

// liveChild is one supervised subprocess.
type liveChild struct {
	cmd          *exec.Cmd
	primary      bool
	expectedExit bool
}

// Supervisor holds the live supervised-player list and drives process
// lifecycle. All exported methods are safe to call from the reactor
// goroutine; Supervisor takes its own lock internally so a handler never
// needs to reach for a separate mutex.
type Supervisor struct {
	mu     sync.Mutex
	live   []*liveChild
	cfg    Config
	sched  Scheduler
	logger zerolog.Logger

	// OnPrimaryExit, if set, is invoked (off the reactor goroutine —
	// callers must Post it back on) when the primary player process
	// for the current item exits with a nonzero status that was not
	// caused by Stop. It is the hook the command engine uses to
	// advance the playlist cursor on an unexpected crash.
	OnPrimaryExit func()
}

// New returns a Supervisor. sched schedules the sopcast warmup delay;
// logger may be zerolog.Nop() in tests.
func New(cfg Config, sched Scheduler, logger zerolog.Logger) *Supervisor {
	return &Supervisor{cfg: cfg, sched: sched, logger: logger}
}

// PlayURI launches the subprocess(es) needed to play uri. A spawn
// failure (including an unrecognized scheme) is returned to the caller,
// which should treat it as a failure to play the current item and
// advance the cursor.
func (s *Supervisor) PlayURI(uri string) error {
	p, err := buildPlan(uri, s.cfg.VLCStartDelay)
	if err != nil {
		s.logger.Warn().Err(err).Str("uri", uri).Msg("player: no launch plan for URI")
		return err
	}

	var spawned []*liveChild
	for i, spec := range p.immediate {
		primary := len(p.delayed) == 0 && i == len(p.immediate)-1
		child, err := s.spawn(spec, primary)
		if err != nil {
			s.terminateAll(spawned)
			return err
		}
		spawned = append(spawned, child)
	}

	s.mu.Lock()
	s.live = append(s.live, spawned...)
	s.mu.Unlock()

	for _, d := range p.delayed {
		d := d
		s.sched.PostAfter(d.after, func() {
			child, err := s.spawn(d.spawnSpec, true)
			if err != nil {
				s.logger.Warn().Err(err).Str("program", d.program).Msg("player: delayed spawn failed")
				return
			}
			s.mu.Lock()
			s.live = append(s.live, child)
			s.mu.Unlock()
		})
	}

	return nil
}

// spawn starts one subprocess in its own process group and, if primary,
// arms the exit-status observer.
func (s *Supervisor) spawn(spec spawnSpec, primary bool) (*liveChild, error) {
	cmd := exec.Command(spec.program, spec.args...)
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = s.logger
	procguard.Set(cmd)

	if err := cmd.Start(); err != nil {
		metrics.RecordSpawn(spec.scheme, err)
		return nil, err
	}
	metrics.RecordSpawn(spec.scheme, nil)

	child := &liveChild{cmd: cmd, primary: primary}
	s.logger.Info().Str("program", spec.program).Strs("args", spec.args).Int("pid", cmd.Process.Pid).Msg("player: spawned child")

	go s.watch(child)

	return child, nil
}

// watch waits for child to exit and, if it was the primary player and
// the exit was not expected (i.e. not caused by Stop), fires
// OnPrimaryExit for a nonzero exit code.
func (s *Supervisor) watch(child *liveChild) {
	err := child.cmd.Wait()

	s.mu.Lock()
	s.removeLocked(child)
	expected := child.expectedExit
	s.mu.Unlock()

	if !child.primary {
		return
	}
	if expected {
		metrics.RecordPlayerExit(true)
		return
	}
	if err == nil {
		return
	}
	s.logger.Warn().Err(err).Int("pid", child.cmd.Process.Pid).Msg("player: primary player exited unexpectedly")
	metrics.RecordPlayerExit(false)
	if s.OnPrimaryExit != nil {
		s.OnPrimaryExit()
	}
}

func (s *Supervisor) removeLocked(child *liveChild) {
	for i, c := range s.live {
		if c == child {
			s.live = append(s.live[:i], s.live[i+1:]...)
			return
		}
	}
}

// Stop terminates every supervised child and clears the list. It always
// leaves the supervisor observable as "no players running" on return —
// any OS error raised while killing a child is logged and swallowed.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	live := s.live
	s.live = nil
	s.mu.Unlock()

	s.terminateAll(live)
}

func (s *Supervisor) terminateAll(children []*liveChild) {
	s.mu.Lock()
	for _, child := range children {
		child.expectedExit = true
	}
	s.mu.Unlock()

	for _, child := range children {
		if child.cmd.Process == nil {
			continue
		}
		if err := procguard.KillGroup(child.cmd.Process.Pid, s.cfg.KillGrace, s.cfg.KillTimeout); err != nil {
			s.logger.Warn().Err(err).Int("pid", child.cmd.Process.Pid).Msg("player: failed to terminate child cleanly")
		}
	}
}

// Running reports whether any supervised child is currently alive.
func (s *Supervisor) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live) > 0
}
