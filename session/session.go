package session

import (
	"context"
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/internal/pool"
	"github.com/arloliu/go-rgpio/logger"
	"github.com/arloliu/go-rgpio/wire"
)

// maxPayloadSize bounds a single reply payload. The daemon never sends more
// than a few kilobytes; a larger status means the stream is out of step.
const maxPayloadSize = 1 << 20

// Session is one TCP connection to the daemon carrying strictly alternating
// requests and replies.
//
// A Session is safe for concurrent use. Every exchange holds the session
// mutex from the first byte written until the last reply byte read, so a
// reply always belongs to the request that precedes it.
type Session struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	mu       sync.Mutex // serializes exchanges, guards conn
	conn     net.Conn
	hijacked bool

	// sock is the socket Close shuts down without taking mu.
	sock atomic.Pointer[net.Conn]

	opState AtomicOpState
	broken  atomic.Bool
	metrics ConnectionMetrics

	salt SaltFunc
}

// Open dials the daemon described by cfg and returns an opened session.
// ctx bounds the dial together with the configured connect timeout.
func Open(ctx context.Context, cfg *ConnectionConfig) (*Session, error) {
	if cfg == nil {
		return nil, ErrConnConfigNil
	}

	s := &Session{
		cfg:    cfg,
		logger: cfg.Logger().With("component", "session", "remote", cfg.Address()),
		salt:   DefaultSalt,
	}

	if err := s.open(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Session) open(ctx context.Context) error {
	if !s.opState.ToOpening() {
		return ErrAlreadyOpened
	}

	dialer := net.Dialer{Timeout: s.cfg.ConnectTimeout()}
	conn, err := dialer.DialContext(ctx, "tcp", s.cfg.Address())
	if err != nil {
		s.opState.Set(ClosedState)
		s.logger.Debug("dial failed", "error", err)

		return fmt.Errorf("connect to %s: %w", s.cfg.Address(), err)
	}

	if tcpConn, ok := conn.(*net.TCPConn); ok {
		_ = tcpConn.SetNoDelay(true)
	}

	s.mu.Lock()
	s.conn = conn
	s.sock.Store(&conn)
	s.mu.Unlock()

	s.opState.ToOpened()
	s.logger.Debug("session opened", "local", conn.LocalAddr().String())

	return nil
}

// Execute sends cmd and returns the status of the reply.
//
// Negative statuses reported by the daemon are returned as-is with a nil
// error. When the exchange can't complete (closed session, I/O fault) the
// status is errcode.CmdInterrupted and the error wraps both
// errcode.CmdInterrupted and the cause.
func (s *Session) Execute(cmd *wire.Command) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exchange(cmd)
}

// ExecuteWithPayload sends cmd and, when the reply status is positive, reads
// that many payload bytes. The payload is read before the mutex is released.
func (s *Session) ExecuteWithPayload(cmd *wire.Command) (int32, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.exchangeWithPayload(cmd)
}

// Transact runs fn while holding the session mutex. Every exchange made
// through tx is guaranteed to be adjacent on the wire; no other caller can
// interleave a request.
//
// tx must not be used after fn returns.
func (s *Session) Transact(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{s: s}
	defer func() { tx.s = nil }()

	return fn(tx)
}

// Hijack detaches the socket from the session and hands it to the caller.
// Afterwards the session is closed and every call returns ErrSessionHijacked.
// Hijack waits for an in-flight exchange to finish.
func (s *Session) Hijack() (net.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return nil, err
	}

	conn := s.conn
	s.conn = nil
	s.sock.Store(nil)
	s.hijacked = true
	s.opState.Set(ClosedState)
	s.logger.Debug("session hijacked")

	return conn, nil
}

// Close closes the socket. It is idempotent and safe to call on a session
// whose open failed or whose socket was hijacked.
//
// Close does not wait for the session mutex: closing the socket unblocks an
// exchange that is waiting for a reply.
func (s *Session) Close() error {
	if !s.opState.ToClosing() {
		return nil
	}
	defer s.opState.ToClosed()

	conn := s.sock.Swap(nil)
	if conn == nil {
		return nil
	}

	s.logger.Debug("closing session")
	if err := (*conn).Close(); err != nil {
		return fmt.Errorf("close session: %w", err)
	}

	return nil
}

// IsOpened reports whether the session is open and not hijacked.
func (s *Session) IsOpened() bool {
	return s.opState.IsOpened()
}

// IsBroken reports whether an I/O fault has left the session unusable.
func (s *Session) IsBroken() bool {
	return s.broken.Load()
}

// Metrics returns the session metrics.
func (s *Session) Metrics() *ConnectionMetrics {
	return &s.metrics
}

// Config returns the configuration the session was opened with.
func (s *Session) Config() *ConnectionConfig {
	return s.cfg
}

// Tx performs exchanges inside Session.Transact.
type Tx struct {
	s *Session
}

// Execute is Session.Execute without acquiring the mutex.
func (tx *Tx) Execute(cmd *wire.Command) (int32, error) {
	return tx.s.exchange(cmd)
}

// ExecuteWithPayload is Session.ExecuteWithPayload without acquiring the mutex.
func (tx *Tx) ExecuteWithPayload(cmd *wire.Command) (int32, []byte, error) {
	return tx.s.exchangeWithPayload(cmd)
}

// ReadPayload reads exactly n bytes following the last reply.
func (tx *Tx) ReadPayload(n int) ([]byte, error) {
	if err := tx.s.usable(); err != nil {
		return nil, err
	}

	return tx.s.readPayload(n)
}

// usable must be called with s.mu held.
func (s *Session) usable() error {
	switch {
	case s.hijacked:
		return interrupted(ErrSessionHijacked)
	case s.broken.Load():
		return interrupted(ErrSessionBroken)
	case s.conn == nil || !s.opState.IsOpened():
		return interrupted(ErrSessionClosed)
	}

	return nil
}

// exchange must be called with s.mu held.
func (s *Session) exchange(cmd *wire.Command) (int32, error) {
	if err := s.usable(); err != nil {
		return int32(errcode.CmdInterrupted), err
	}

	if d := s.cfg.IOTimeout(); d > 0 {
		_ = s.conn.SetDeadline(time.Now().Add(d))
		defer s.conn.SetDeadline(time.Time{}) //nolint:errcheck
	}

	frame := pool.GetFrame()
	defer pool.PutFrame(frame)
	*frame = cmd.AppendTo(*frame)

	n, err := s.conn.Write(*frame)
	s.metrics.addBytesSent(n)
	if err != nil {
		return s.fault(cmd, "write", err)
	}
	s.metrics.incCommandSendCount()

	var reply [wire.HeaderSize]byte
	n, err = io.ReadFull(s.conn, reply[:])
	s.metrics.addBytesRecv(n)
	if err != nil {
		return s.fault(cmd, "read reply", err)
	}

	status := wire.DecodeReply(reply[:]).Status
	if status < 0 {
		s.metrics.incCommandErrCount()
	}
	s.logger.Debug("command", "op", cmd.Opcode().String(), "ext_len", len(cmd.Extension()), "status", status)

	return status, nil
}

// exchangeWithPayload must be called with s.mu held.
func (s *Session) exchangeWithPayload(cmd *wire.Command) (int32, []byte, error) {
	status, err := s.exchange(cmd)
	if err != nil || status <= 0 {
		return status, nil, err
	}

	payload, err := s.readPayload(int(status))
	if err != nil {
		return int32(errcode.CmdInterrupted), nil, err
	}

	return status, payload, nil
}

// readPayload must be called with s.mu held.
func (s *Session) readPayload(n int) ([]byte, error) {
	if n < 0 || n > maxPayloadSize {
		s.broken.Store(true)
		return nil, interrupted(fmt.Errorf("%w: %d", ErrInvalidPayloadSize, n))
	}

	if d := s.cfg.IOTimeout(); d > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(d))
		defer s.conn.SetReadDeadline(time.Time{}) //nolint:errcheck
	}

	payload := make([]byte, n)
	read, err := io.ReadFull(s.conn, payload)
	s.metrics.addBytesRecv(read)
	if err != nil {
		s.broken.Store(true)
		s.metrics.incInterruptedCount()
		s.logger.Error("payload read failed", "want", n, "got", read, "error", err)

		return nil, interrupted(fmt.Errorf("read payload: %w", err))
	}

	return payload, nil
}

func (s *Session) fault(cmd *wire.Command, stage string, err error) (int32, error) {
	s.broken.Store(true)
	s.metrics.incInterruptedCount()
	s.logger.Error("command interrupted", "op", cmd.Opcode().String(), "stage", stage, "error", err)

	return int32(errcode.CmdInterrupted), interrupted(fmt.Errorf("%s %s: %w", stage, cmd.Opcode(), err))
}

func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", errcode.CmdInterrupted, cause)
}
