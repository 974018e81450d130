package vpd

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/famish99/vpd/internal/playlist"
	"github.com/famish99/vpd/internal/reactor"
)

// fakeSupervisor stands in for *player.Supervisor so engine tests never
// touch a real subprocess.
type fakeSupervisor struct {
	mu      sync.Mutex
	running bool
	playErr error
}

func (f *fakeSupervisor) PlayURI(uri string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return f.playErr
	}
	f.running = true
	return nil
}

func (f *fakeSupervisor) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.running = false
}

func (f *fakeSupervisor) Running() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	rx := reactor.New()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go rx.Run(ctx)

	pl := playlist.New()
	sup := &fakeSupervisor{}

	return New(pl, sup, rx, t.TempDir(), zerolog.Nop())
}

func TestDispatchUnknownCommand(t *testing.T) {
	e := newTestEngine(t)
	resp, closeAfter := e.Dispatch("frobnicate")
	assert.Equal(t, "ACK [1@0] {frobnicate} unknown command\r\n", resp)
	assert.False(t, closeAfter)
}

func TestDispatchEmptyLine(t *testing.T) {
	e := newTestEngine(t)
	resp, _ := e.Dispatch("")
	assert.Equal(t, "ACK [1@0] {} unknown command\r\n", resp)
}

func TestDispatchAddThenPlaylistInfo(t *testing.T) {
	e := newTestEngine(t)

	resp, _ := e.Dispatch("clear")
	require.Equal(t, "OK\r\n", resp)

	resp, _ = e.Dispatch("add sop://broker.example:3912/149252")
	require.Equal(t, "OK\r\n", resp)

	resp, _ = e.Dispatch("playlistinfo")
	assert.Equal(t, "file: sop://broker.example:3912/149252\r\nPos: 0\r\nOK\r\n", resp)
}

func TestDispatchArgShapeErrors(t *testing.T) {
	e := newTestEngine(t)

	resp, _ := e.Dispatch("add")
	assert.Equal(t, "ACK [4@0] {add} missing parameter\r\n", resp)

	resp, _ = e.Dispatch("add a b")
	assert.Equal(t, "ACK [3@0] {add} too many arguments\r\n", resp)

	resp, _ = e.Dispatch("add not-a-uri")
	assert.Equal(t, "ACK [5@0] {add} the given URI is invalid\r\n", resp)
}

func TestDispatchClose(t *testing.T) {
	e := newTestEngine(t)
	resp, closeAfter := e.Dispatch("close")
	assert.Equal(t, "ACK [7@0] {close} No error\r\n", resp)
	assert.True(t, closeAfter)
}

func TestDispatchClearAfterAdds(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	e.Dispatch("add sop://x/1")
	e.Dispatch("add sop://x/2")
	e.Dispatch("clear")

	resp, _ := e.Dispatch("status")
	assert.Contains(t, resp, "playlistlength: 0\r\n")
}

func TestDispatchVersionBumpsAfterAdds(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	before := e.Playlist.Version()

	e.Dispatch("add sop://x/1")
	e.Dispatch("add sop://x/2")

	assert.Greater(t, e.Playlist.Version(), before)
	resp, _ := e.Dispatch("status")
	assert.Contains(t, resp, "playlistlength: 2\r\n")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	e.Dispatch("add sop://x/1")

	resp, _ := e.Dispatch("save test_list")
	require.Equal(t, "OK\r\n", resp)

	data, err := os.ReadFile(filepath.Join(e.PlaylistDir, "test_list.m3u"))
	require.NoError(t, err)
	assert.Equal(t, "sop://x/1\n", string(data))

	e.Dispatch("clear")
	resp, _ = e.Dispatch("listplaylists")
	assert.Contains(t, resp, "playlist: test_list\r\n")
	assert.Contains(t, resp, "Last-Modified: ")

	resp, _ = e.Dispatch("load test_list")
	require.Equal(t, "OK\r\n", resp)

	resp, _ = e.Dispatch("playlistinfo")
	assert.Contains(t, resp, "file: sop://x/1\r\n")
	assert.Contains(t, resp, "Pos: 0\r\n")
}

func TestLoadMissingPlaylistLeavesStateUnchanged(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	e.Dispatch("add sop://x/1")

	resp, _ := e.Dispatch("load does-not-exist")
	assert.Equal(t, "OK\r\n", resp)

	resp, _ = e.Dispatch("playlistinfo")
	assert.Contains(t, resp, "file: sop://x/1\r\n")
}

func TestStatusFieldOrder(t *testing.T) {
	e := newTestEngine(t)
	resp, _ := e.Dispatch("status")

	keysInOrder := []string{"volume:", "repeat:", "random:", "single:", "consume:", "playlist:", "playlistlength:"}
	lastIdx := -1
	for _, k := range keysInOrder {
		idx := indexOf(resp, k)
		require.GreaterOrEqual(t, idx, 0, "missing key %s", k)
		require.Greater(t, idx, lastIdx)
		lastIdx = idx
	}
}

func TestPlayReportsRunningAfterSuccess(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	e.Dispatch("add sop://x/1")

	resp, _ := e.Dispatch("play")
	require.Equal(t, "OK\r\n", resp)
	assert.True(t, e.Supervisor.Running())

	resp, _ = e.Dispatch("status")
	assert.Contains(t, resp, "time: ")
	assert.Contains(t, resp, "elapsed: ")
}

func TestPlaylistInfoOmitsIdUntilPlayed(t *testing.T) {
	e := newTestEngine(t)
	e.Dispatch("clear")
	e.Dispatch("add sop://x/1")

	resp, _ := e.Dispatch("playlistinfo")
	assert.NotContains(t, resp, "Id:")

	resp, _ = e.Dispatch("play")
	require.Equal(t, "OK\r\n", resp)

	resp, _ = e.Dispatch("playlistinfo")
	assert.Contains(t, resp, "Id: 1\r\n")
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
