// Package procguard sets up spawned media-player subprocesses as their
// own process group leaders and tears the whole group down on stop, so
// that a sopcast relay's own children can never outlive the daemon.
package procguard

import (
	"errors"
	"os/exec"
	"time"
)

// ErrKillTimeout is returned by KillGroup when the process group is
// still alive after SIGKILL plus timeout.
var ErrKillTimeout = errors.New("procguard: kill timeout exceeded")

// Set configures cmd to start as the leader of a new process group.
// Must be called before cmd.Start(); KillGroup only terminates the whole
// tree for commands that were Set.
func Set(cmd *exec.Cmd) {
	set(cmd)
}

// KillGroup sends SIGTERM to the process group rooted at pid, waits up
// to grace for it to exit, then escalates to SIGKILL and waits up to
// timeout for the kernel to reap it. A pid <= 0 is treated as already
// gone. Any OS error raised along the way is swallowed except a final
// kill timeout — callers (the player supervisor's stop()) must always be
// able to observe "no players running" on return.
func KillGroup(pid int, grace, timeout time.Duration) error {
	return killGroup(pid, grace, timeout)
}
