package session

import (
	"bufio"
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDispatcher is a scripted Dispatcher: each call returns the next
// entry in responses, or a plain "OK\r\n" once they are exhausted.
type fakeDispatcher struct {
	calls     []string
	responses []struct {
		body  string
		close bool
	}
	i int
}

func (f *fakeDispatcher) Dispatch(line string) (string, bool) {
	f.calls = append(f.calls, line)
	if f.i >= len(f.responses) {
		return "OK\r\n", false
	}
	r := f.responses[f.i]
	f.i++
	return r.body, r.close
}

func listenLoopback(t *testing.T) net.Listener {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	return ln
}

func TestBannerIsFirstBytes(t *testing.T) {
	ln := listenLoopback(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := NewRegistry()
	fd := &fakeDispatcher{}
	go Serve(ctx, ln, reg, fd, 0, 1, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "VPD 0.1 ready\r\n", line)
}

func TestDispatchRoundTrip(t *testing.T) {
	ln := listenLoopback(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := NewRegistry()
	fd := &fakeDispatcher{responses: []struct {
		body  string
		close bool
	}{{body: "OK\r\n", close: false}}}
	go Serve(ctx, ln, reg, fd, 0, 1, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n') // banner
	require.NoError(t, err)

	_, err = conn.Write([]byte("status\r\n"))
	require.NoError(t, err)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "OK\r\n", line)
	assert.Equal(t, []string{"status"}, fd.calls)
}

func TestCloseAfterClosesConnection(t *testing.T) {
	ln := listenLoopback(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := NewRegistry()
	fd := &fakeDispatcher{responses: []struct {
		body  string
		close bool
	}{{body: "ACK [7@0] {close} No error\r\n", close: true}}}
	go Serve(ctx, ln, reg, fd, 0, 1, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n') // banner
	require.NoError(t, err)

	_, err = conn.Write([]byte("close\r\n"))
	require.NoError(t, err)

	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "ACK [7@0] {close} No error\r\n", line)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 16)
	_, err = conn.Read(buf)
	assert.Error(t, err) // EOF: server closed its side
}

func TestOversizedLineIsRejected(t *testing.T) {
	ln := listenLoopback(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	reg := NewRegistry()
	fd := &fakeDispatcher{}
	go Serve(ctx, ln, reg, fd, 0, 1, zerolog.Nop())

	conn, err := net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	r := bufio.NewReader(conn)
	_, err = r.ReadString('\n') // banner
	require.NoError(t, err)

	oversized := strings.Repeat("a", maxLineBytes+10) + "\r\n"
	_, err = conn.Write([]byte(oversized))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, line, "ACK")
	assert.Contains(t, line, "line too long")
}
