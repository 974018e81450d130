package vpd

import (
	"strings"

	"github.com/famish99/vpd/internal/playlist"
)

// cmdAdd handles the 'add' command. The URI's only validated shape is
// `scheme://rest` — anything else is InvalidUri.
func cmdAdd(e *Engine, args []string) Response {
	uri := args[0]
	if !looksLikeURI(uri) {
		return errResp("add", KindInvalidUri)
	}
	e.Playlist.Add(uri)
	return ok("")
}

// looksLikeURI reports whether uri has the minimal `scheme://rest` shape
// the wire contract requires — a non-empty scheme, "://", and something
// after it.
func looksLikeURI(uri string) bool {
	scheme, rest, ok := strings.Cut(uri, "://")
	return ok && scheme != "" && rest != ""
}

// cmdPlaylistInfo handles the 'playlistinfo' command: one group per item,
// in order, of `file:`, an optional `name:`, `Pos:`, and an optional `Id:`.
func cmdPlaylistInfo(e *Engine, args []string) Response {
	var sb strings.Builder
	e.Playlist.Enumerate(func(index int, item playlist.Item) {
		writeLine(&sb, "file: %s", item.URI)
		if item.Name != "" {
			writeLine(&sb, "name: %s", item.Name)
		}
		writeLine(&sb, "Pos: %d", index)
		if item.ID >= 0 {
			writeLine(&sb, "Id: %d", item.ID)
		}
	})
	return ok(sb.String())
}

// cmdSave handles the 'save' command: persist the playlist to
// workdir/playlists/<name>.m3u.
func cmdSave(e *Engine, args []string) Response {
	name := args[0]
	if !playlist.ValidName(name) {
		return errResp("save", KindInvalidFilename)
	}
	if err := playlist.EnsureDir(e.PlaylistDir); err != nil {
		e.Logger.Warn().Err(err).Str("dir", e.PlaylistDir).Msg("vpd: could not create playlist directory")
		return ok("")
	}
	if err := e.Playlist.Save(e.PlaylistDir, name); err != nil {
		e.Logger.Warn().Err(err).Str("name", name).Msg("vpd: save failed")
	}
	return ok("")
}

// cmdListPlaylists handles the 'listplaylists' command: one
// `playlist:`/`Last-Modified:` pair per stored playlist.
func cmdListPlaylists(e *Engine, args []string) Response {
	var sb strings.Builder
	err := playlist.Enumerate(e.PlaylistDir, func(info playlist.Info) {
		writeLine(&sb, "playlist: %s", info.Name)
		writeLine(&sb, "Last-Modified: %d", info.LastModified.Unix())
	})
	if err != nil {
		e.Logger.Warn().Err(err).Str("dir", e.PlaylistDir).Msg("vpd: listplaylists failed to read directory")
	}
	return ok(sb.String())
}

// cmdLoad handles the 'load' command. A missing playlist is not a wire
// error: the current playlist is left untouched and the response is OK.
func cmdLoad(e *Engine, args []string) Response {
	name := args[0]
	info, err := playlist.FromPath(e.PlaylistDir, name)
	if err == playlist.ErrNotFound {
		return ok("")
	}
	if err != nil {
		e.Logger.Warn().Err(err).Str("name", name).Msg("vpd: load failed to stat playlist")
		return ok("")
	}
	if err := e.Playlist.Load(info); err != nil {
		e.Logger.Warn().Err(err).Str("name", name).Msg("vpd: load found a malformed playlist file")
	}
	return ok("")
}
