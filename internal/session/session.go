// Package session implements the session dispatcher: the TCP
// accept loop, per-connection line framing, and the welcome-banner /
// read-execute-write cycle. It has no knowledge of command semantics —
// every line it reads is handed, verbatim, to an Engine for dispatch.
package session

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/famish99/vpd/internal/metrics"
	"github.com/famish99/vpd/internal/vpd"
)

// maxLineBytes is the largest accepted command line, including its
// `\r\n` terminator.
const maxLineBytes = 1024

// Dispatcher is the subset of *vpd.Engine the session package depends
// on, kept as an interface so tests can supply a fake without wiring a
// real playlist/supervisor/reactor.
type Dispatcher interface {
	Dispatch(line string) (response string, closeAfter bool)
}

var _ Dispatcher = (*vpd.Engine)(nil)

// Banner renders the welcome line sent once per connection, before any
// command response.
func Banner(major, minor int) string {
	return fmt.Sprintf("VPD %d.%d ready\r\n", major, minor)
}

// Registry tracks live sessions. It exists for observability (the admin
// HTTP surface reports the live count) — sessions hold no references to
// each other, and closing one never touches shared player state.
type Registry struct {
	mu       sync.Mutex
	sessions map[uint64]*Session
	nextNum  uint64
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uint64]*Session)}
}

func (r *Registry) add(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.Number] = s
	metrics.SessionsTotal.Inc()
	metrics.SessionsActive.Set(float64(len(r.sessions)))
}

func (r *Registry) remove(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, s.Number)
	metrics.SessionsActive.Set(float64(len(r.sessions)))
}

// Len reports the number of currently live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) nextNumber() uint64 {
	return atomic.AddUint64(&r.nextNum, 1)
}

// Session is one accepted connection: a session number for the wire
// protocol's bookkeeping and a correlation ID used only in logs (never
// sent on the wire), per the ambient logging contract.
type Session struct {
	Number        uint64
	CorrelationID uuid.UUID
	conn          net.Conn
}

// Serve runs the accept loop on ln until ctx is cancelled, dispatching
// every accepted connection to its own goroutine. Cancelling ctx closes
// ln and makes Serve return nil, a clean shutdown per the cancellation
// model (stop accepting, let in-flight sessions drain or be closed out
// from under them); any other Accept error is returned as is.
func Serve(ctx context.Context, ln net.Listener, reg *Registry, engine Dispatcher, major, minor int, logger zerolog.Logger) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}

		s := &Session{
			Number:        reg.nextNumber(),
			CorrelationID: uuid.New(),
			conn:          conn,
		}
		reg.add(s)

		go func() {
			defer reg.remove(s)
			sessionLogger := logger.With().
				Uint64("session_number", s.Number).
				Str("correlation_id", s.CorrelationID.String()).
				Str("remote_addr", conn.RemoteAddr().String()).
				Logger()
			s.run(ctx, engine, major, minor, sessionLogger)
		}()
	}
}

// run drives the welcome-then-read-execute-write loop for one
// connection until the peer disconnects, a protocol-level close occurs,
// or ctx is cancelled.
func (s *Session) run(ctx context.Context, engine Dispatcher, major, minor int, logger zerolog.Logger) {
	defer s.conn.Close()
	logger.Info().Msg("session: connected")
	defer logger.Info().Msg("session: closed")

	if _, err := writeAll(s.conn, Banner(major, minor)); err != nil {
		return
	}

	reader := bufio.NewReaderSize(s.conn, maxLineBytes)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := readLine(reader)
		if err != nil {
			if err == errLineTooLong {
				writeString(s.conn, (&vpd.AckError{Opcode: "", Kind: vpd.KindTooManyArgs, Detail: "line too long"}).Error()+"\r\n")
			}
			return
		}

		resp, closeAfter := engine.Dispatch(line)
		if _, err := writeAll(s.conn, resp); err != nil {
			return
		}
		if closeAfter {
			return
		}
	}
}

// errLineTooLong is returned by readLine when a line (including its
// `\r\n`) would exceed maxLineBytes before a terminator is found.
var errLineTooLong = fmt.Errorf("session: line exceeds %d bytes", maxLineBytes)

// readLine reads one `\r\n`-terminated line, stripped of its terminator.
// Bare `\n` without a preceding `\r` is treated as part of the line, not
// a terminator — the wire contract is strictly `\r\n`.
func readLine(r *bufio.Reader) (string, error) {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return "", err
		}
		if buf.Len() >= maxLineBytes {
			return "", errLineTooLong
		}
		buf.WriteByte(b)
		if b == '\n' {
			data := buf.Bytes()
			if len(data) >= 2 && data[len(data)-2] == '\r' {
				return string(data[:len(data)-2]), nil
			}
		}
	}
}

func writeString(w net.Conn, s string) {
	_, _ = writeAll(w, s)
}

// writeAll writes all of s to w, re-issuing the write after a short
// write until every byte is sent or an error occurs.
func writeAll(w net.Conn, s string) (int, error) {
	written := 0
	data := []byte(s)
	for written < len(data) {
		n, err := w.Write(data[written:])
		if err != nil {
			return written, err
		}
		written += n
	}
	return written, nil
}
