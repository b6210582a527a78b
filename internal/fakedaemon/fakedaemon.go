// Package fakedaemon is an in-process rgpiod simulator for tests.
//
// It speaks the real framing over loopback TCP: it reads command headers and
// their extensions, answers with reply headers and optional payloads, hands
// out notification stream handles for NOIB and lets tests push notification
// bytes into those streams in arbitrary chunks.
package fakedaemon

import (
	"crypto/md5" //nolint:gosec
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/arloliu/go-rgpio/logger"
	"github.com/arloliu/go-rgpio/wire"
)

// ServerSalt is the salt the simulator sends in reply to USER. It is longer
// than the 15 bytes the client is expected to keep.
const ServerSalt = "0123456789abcdefEXTRA"

// Request is one command received by the simulator.
type Request struct {
	ConnID int
	Header wire.CommandHeader
	Ext    []byte
}

// Long returns the i-th 32-bit structured field, assuming no quads precede it.
func (r Request) Long(i int) uint32 {
	return binary.LittleEndian.Uint32(r.Ext[i*wire.LongSize:])
}

// Reply is the simulator's answer to a request.
type Reply struct {
	Status  int32
	Payload []byte
}

// HandlerFunc answers a request.
type HandlerFunc func(req Request) Reply

// Daemon is a running simulator.
type Daemon struct {
	ln     net.Listener
	logger logger.Logger

	mu         sync.Mutex
	handlers   map[wire.Opcode]HandlerFunc
	requests   []Request
	conns      map[int]*serverConn
	streams    map[int32]*serverConn
	secrets    map[string]string
	nextConnID int
	nextHandle int32
	closed     bool

	wg sync.WaitGroup
}

type serverConn struct {
	id   int
	conn net.Conn

	writeMu sync.Mutex

	// handshake state
	user  string
	salt1 string
}

// Start listens on a loopback port and starts accepting connections.
func Start() (*Daemon, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("fakedaemon listen: %w", err)
	}

	d := &Daemon{
		ln:         ln,
		logger:     logger.GetLogger().With("component", "fakedaemon"),
		handlers:   make(map[wire.Opcode]HandlerFunc),
		conns:      make(map[int]*serverConn),
		streams:    make(map[int32]*serverConn),
		secrets:    make(map[string]string),
		nextHandle: 1,
	}

	d.wg.Add(1)
	go d.acceptLoop()

	return d, nil
}

// Host returns the listening host.
func (d *Daemon) Host() string {
	host, _, _ := net.SplitHostPort(d.ln.Addr().String())
	return host
}

// Port returns the listening port.
func (d *Daemon) Port() int {
	_, port, _ := net.SplitHostPort(d.ln.Addr().String())
	p, _ := strconv.Atoi(port)

	return p
}

// Handle installs fn as the handler for op. Opcodes without a handler reply
// with status 0, except NOIB, NC, USER and PASSW which are built in.
func (d *Daemon) Handle(op wire.Opcode, fn HandlerFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.handlers[op] = fn
}

// SetSecret registers the shared secret of user for the USER/PASSW handshake.
func (d *Daemon) SetSecret(user, secret string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.secrets[user] = secret
}

// Requests returns a copy of every request received so far, in arrival order.
func (d *Daemon) Requests() []Request {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]Request(nil), d.requests...)
}

// Opcodes returns the opcodes of every request received so far, in arrival order.
func (d *Daemon) Opcodes() []wire.Opcode {
	reqs := d.Requests()
	ops := make([]wire.Opcode, 0, len(reqs))
	for _, r := range reqs {
		ops = append(ops, r.Header.Opcode)
	}

	return ops
}

// StreamHandles returns the handles of the currently open notification streams.
func (d *Daemon) StreamHandles() []int32 {
	d.mu.Lock()
	defer d.mu.Unlock()

	handles := make([]int32, 0, len(d.streams))
	for h := range d.streams {
		handles = append(handles, h)
	}

	return handles
}

// PushNotify writes the notifications to stream handle as one write.
func (d *Daemon) PushNotify(handle int32, ns ...wire.Notification) error {
	var buf []byte
	for _, n := range ns {
		buf = append(buf, wire.EncodeNotification(n)...)
	}

	return d.PushRaw(handle, buf)
}

// PushRaw writes b to stream handle unchanged, e.g. half a notification.
func (d *Daemon) PushRaw(handle int32, b []byte) error {
	d.mu.Lock()
	sc, ok := d.streams[handle]
	d.mu.Unlock()
	if !ok {
		return fmt.Errorf("fakedaemon: no stream with handle %d", handle)
	}

	return sc.write(b)
}

// Close stops accepting, closes every connection and waits for the
// connection goroutines.
func (d *Daemon) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	err := d.ln.Close()
	for _, sc := range d.conns {
		_ = sc.conn.Close()
	}
	d.mu.Unlock()

	d.wg.Wait()

	return err
}

func (d *Daemon) acceptLoop() {
	defer d.wg.Done()

	for {
		conn, err := d.ln.Accept()
		if err != nil {
			return
		}

		d.mu.Lock()
		if d.closed {
			d.mu.Unlock()
			_ = conn.Close()

			return
		}
		d.nextConnID++
		sc := &serverConn{id: d.nextConnID, conn: conn}
		d.conns[sc.id] = sc
		d.wg.Add(1)
		d.mu.Unlock()

		go d.serve(sc)
	}
}

func (d *Daemon) serve(sc *serverConn) {
	defer d.wg.Done()
	defer d.dropConn(sc)

	hdr := make([]byte, wire.HeaderSize)
	for {
		if _, err := io.ReadFull(sc.conn, hdr); err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, net.ErrClosed) {
				d.logger.Debug("read header failed", "conn", sc.id, "error", err)
			}

			return
		}

		h := wire.DecodeCommandHeader(hdr)
		if h.Magic != wire.Magic {
			d.logger.Warn("bad magic", "conn", sc.id, "magic", h.Magic)
			return
		}

		ext := make([]byte, h.Param3)
		if _, err := io.ReadFull(sc.conn, ext); err != nil {
			return
		}

		req := Request{ConnID: sc.id, Header: h, Ext: ext}
		d.mu.Lock()
		d.requests = append(d.requests, req)
		d.mu.Unlock()

		reply := d.dispatch(sc, req)

		out := wire.EncodeReply(wire.ReplyHeader{Status: reply.Status})
		out = append(out, reply.Payload...)
		if err := sc.write(out); err != nil {
			return
		}
	}
}

func (d *Daemon) dispatch(sc *serverConn, req Request) Reply {
	d.mu.Lock()
	fn, ok := d.handlers[req.Header.Opcode]
	d.mu.Unlock()
	if ok {
		return fn(req)
	}

	switch req.Header.Opcode {
	case wire.OpNotifyOpenInBand:
		d.mu.Lock()
		handle := d.nextHandle
		d.nextHandle++
		d.streams[handle] = sc
		d.mu.Unlock()

		return Reply{Status: handle}

	case wire.OpNotifyClose:
		if len(req.Ext) < wire.LongSize {
			return Reply{Status: -5}
		}
		handle := int32(req.Long(0)) //nolint:gosec
		d.mu.Lock()
		stream, ok := d.streams[handle]
		delete(d.streams, handle)
		d.mu.Unlock()
		if !ok {
			return Reply{Status: -5}
		}
		_ = stream.conn.Close()

		return Reply{}

	case wire.OpUser:
		salt1, user, found := strings.Cut(string(req.Ext), ".")
		if !found || len(salt1) != 15 {
			return Reply{Status: -94}
		}
		sc.salt1, sc.user = salt1, user

		return Reply{Status: int32(len(ServerSalt)), Payload: []byte(ServerSalt)}

	case wire.OpPassword:
		d.mu.Lock()
		secret, known := d.secrets[sc.user]
		d.mu.Unlock()
		if !known || sc.salt1 == "" {
			return Reply{Status: 0}
		}
		sum := md5.Sum([]byte(sc.salt1 + secret + ServerSalt[:15])) //nolint:gosec
		if string(req.Ext) == hex.EncodeToString(sum[:]) {
			return Reply{Status: 1}
		}

		return Reply{Status: 0}
	}

	return Reply{}
}

func (d *Daemon) dropConn(sc *serverConn) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.conns, sc.id)
	for h, s := range d.streams {
		if s == sc {
			delete(d.streams, h)
		}
	}
	_ = sc.conn.Close()
}

func (sc *serverConn) write(b []byte) error {
	sc.writeMu.Lock()
	defer sc.writeMu.Unlock()

	_, err := sc.conn.Write(b)

	return err
}
