package vpd

import (
	"strconv"
	"time"

	"github.com/famish99/vpd/internal/playlist"
)

// cmdPlay handles the 'play' command. With no argument, playback starts
// (or resumes) at the current cursor position; with one argument, the
// cursor is moved there first.
func cmdPlay(e *Engine, args []string) Response {
	item := e.Playlist.Current()
	pos := e.Playlist.CursorIndex()
	if len(args) == 1 {
		p, err := strconv.Atoi(args[0])
		if err != nil {
			return errResp("play", KindInvalidUri)
		}
		item = e.Playlist.SeekTo(p)
		pos = e.Playlist.CursorIndex()
	}
	e.playFrom(item, pos)
	return ok("")
}

// cmdStop handles the 'stop' command: terminate every supervised child.
func cmdStop(e *Engine, args []string) Response {
	e.Supervisor.Stop()
	return ok("")
}

// cmdClear handles the 'clear' command: stop playback and empty the
// playlist.
func cmdClear(e *Engine, args []string) Response {
	e.Supervisor.Stop()
	e.Playlist.Clear()
	return ok("")
}

// cmdNext handles the 'next' command: stop, advance the cursor, play.
func cmdNext(e *Engine, args []string) Response {
	e.Supervisor.Stop()
	item := e.Playlist.Next()
	e.playFrom(item, e.Playlist.CursorIndex()-1)
	return ok("")
}

// cmdPrevious handles the 'previous' command: stop, retreat the cursor,
// play.
func cmdPrevious(e *Engine, args []string) Response {
	e.Supervisor.Stop()
	item := e.Playlist.Previous()
	e.playFrom(item, e.Playlist.CursorIndex())
	return ok("")
}

// playFrom attempts to play item (at playlist index pos), and on spawn
// failure keeps asking the playlist for the next item and retrying
// until one plays or the list is exhausted. A failure to spawn is never
// surfaced to the client — only logged, per the error model's
// infrastructure-error rule. The item's real ID is only assigned here,
// the moment the playlist actually issues it for playback.
func (e *Engine) playFrom(item playlist.Item, pos int) {
	for !item.IsZero() {
		played := e.Playlist.MarkPlayed(pos)
		err := e.Supervisor.PlayURI(played.URI)
		if err == nil {
			e.playStartedAt = time.Now()
			return
		}
		e.Logger.Warn().Err(err).Str("uri", played.URI).Msg("vpd: failed to start playback, trying next item")
		item = e.Playlist.Next()
		pos = e.Playlist.CursorIndex() - 1
	}
	e.playStartedAt = time.Time{}
}
