package vpd

import (
	"fmt"
	"strings"
	"time"
)

// formatElapsed renders d using the wire's lossy H:S format — hours and
// seconds only, skipping minutes. Kept as-is even though it looks like a
// bug: clients parse exactly this shape.
func formatElapsed(d time.Duration) string {
	hours := int(d.Hours())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%d", hours, seconds)
}

// renderStatus builds the `status` command's response body. Fields that
// only make sense while something is playing or queued are omitted
// entirely rather than emitted with a placeholder value.
func renderStatus(e *Engine) string {
	var sb strings.Builder

	writeLine(&sb, "volume: 100")
	writeLine(&sb, "repeat: 0")
	writeLine(&sb, "random: 0")
	writeLine(&sb, "single: 0")
	writeLine(&sb, "consume: 0")
	writeLine(&sb, "playlist: %d", e.Playlist.Version())
	writeLine(&sb, "playlistlength: %d", e.Playlist.Len())

	current := e.Playlist.Current()
	if !current.IsZero() {
		writeLine(&sb, "videoclip: %d", e.Playlist.CursorIndex())
		if current.ID >= 0 {
			writeLine(&sb, "videoclipid: %d", current.ID)
		}
	}

	if e.Supervisor.Running() {
		elapsed := formatElapsed(e.elapsedSincePlay())
		writeLine(&sb, "time: %s", elapsed)
		writeLine(&sb, "elapsed: %s", elapsed)
	}

	next := e.Playlist.PeekNext()
	if !next.IsZero() {
		writeLine(&sb, "nextvideoclip: %d", e.Playlist.CursorIndex())
		if next.ID >= 0 {
			writeLine(&sb, "nextvideoid: %d", next.ID)
		}
	}

	return sb.String()
}
