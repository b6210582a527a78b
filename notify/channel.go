package notify

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"go.uber.org/multierr"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/internal/task"
	"github.com/arloliu/go-rgpio/logger"
	"github.com/arloliu/go-rgpio/session"
	"github.com/arloliu/go-rgpio/wire"
)

// recvBufSize is the size of each read from the notification socket.
const recvBufSize = 4096

// Channel is a running notification stream.
type Channel struct {
	cfg      *session.ConnectionConfig
	logger   logger.Logger
	registry *Registry

	conn   net.Conn
	handle int32

	recvMgr     *task.Manager
	dispatchMgr *task.Manager
	queue       chan wire.Notification
	reasm       Reassembler
	stopping    atomic.Bool
	dispatching atomic.Bool // a handler is running
	abandoned   atomic.Bool // dispatcher must not call further handlers
	metrics     ChannelMetrics
}

// OpenChannel opens a second connection to the daemon, requests an in-band
// notification stream on it and starts the receiver and dispatcher tasks.
// Events are dispatched to registry.
func OpenChannel(ctx context.Context, cfg *session.ConnectionConfig, registry *Registry) (*Channel, error) {
	if cfg == nil {
		return nil, session.ErrConnConfigNil
	}
	if registry == nil {
		return nil, ErrRegistryNil
	}

	s, err := session.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open notification session: %w", err)
	}

	handle, err := s.Execute(wire.NewCommand(wire.OpNotifyOpenInBand))
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open notification stream: %w", err)
	}
	if handle < 0 {
		_ = s.Close()
		return nil, fmt.Errorf("open notification stream: %w", errcode.Code(handle))
	}

	conn, err := s.Hijack()
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("open notification stream: %w", err)
	}

	l := cfg.Logger().With("component", "notify", "handle", handle)
	ch := &Channel{
		cfg:      cfg,
		logger:   l,
		registry: registry,
		conn:     conn,
		handle:   handle,
		queue:    make(chan wire.Notification, cfg.EventQueueSize()),
	}
	ch.recvMgr = task.NewManager(context.Background(), l)
	ch.dispatchMgr = task.NewManager(context.Background(), l)

	if err := ch.start(); err != nil {
		ch.recvMgr.Stop()
		ch.dispatchMgr.Stop()
		_ = conn.Close()

		return nil, err
	}
	l.Info("notification channel opened")

	return ch, nil
}

func (c *Channel) start() error {
	if err := task.StartConsumer(c.dispatchMgr, "notify-dispatcher", c.queue, c.dispatch, nil); err != nil {
		return err
	}

	return c.recvMgr.StartReceiver("notify-receiver", recvBufSize, c.receive, func() { close(c.queue) })
}

// Handle returns the daemon handle of the notification stream. It is the
// notify handle to pass when claiming a line for alerts.
func (c *Channel) Handle() int32 {
	return c.handle
}

// Registry returns the registry events are dispatched to.
func (c *Channel) Registry() *Registry {
	return c.registry
}

// Metrics returns the channel metrics.
func (c *Channel) Metrics() *ChannelMetrics {
	return &c.metrics
}

// Running reports whether the receiver or dispatcher task is still running.
func (c *Channel) Running() bool {
	return c.recvMgr.TaskCount()+c.dispatchMgr.TaskCount() > 0
}

// Stop shuts the channel down. It is idempotent.
//
// closeStream is called first; it should ask the daemon to close the stream
// (an NC request on the control session) so the blocked read returns. Stop
// then waits up to the configured close timeout for the receiver. If it is
// still running the read deadline is expired to force the read to return.
// The dispatcher is then given the same timeout to drain queued events.
// The socket is closed last.
//
// Stop may be called from a handler. While a handler runs, Stop does not wait
// for the dispatcher: queued events are dropped and the dispatcher exits
// once the running handler returns.
func (c *Channel) Stop(closeStream func() error) error {
	if !c.stopping.CompareAndSwap(false, true) {
		return nil
	}

	inHandler := c.dispatching.Load()
	if inHandler {
		c.abandoned.Store(true)
	}
	c.logger.Debug("stopping notification channel", "in_handler", inHandler)

	var err error
	if closeStream != nil {
		if cerr := closeStream(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("close notification stream: %w", cerr))
		}
	}

	timeout := c.cfg.CloseTimeout()
	if !c.recvMgr.WaitTimeout(timeout) {
		c.recvMgr.Stop()
		_ = c.conn.SetReadDeadline(time.Now())
		if !c.recvMgr.WaitTimeout(timeout) {
			err = multierr.Append(err, errors.New("notification receiver did not stop"))
		}
	}
	c.recvMgr.Stop()

	if inHandler {
		c.dispatchMgr.Stop()
	} else {
		if !c.dispatchMgr.WaitTimeout(timeout) {
			err = multierr.Append(err, errors.New("notification dispatcher did not stop"))
		}
		c.dispatchMgr.Stop()
	}

	if cerr := c.conn.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) {
		err = multierr.Append(err, fmt.Errorf("close notification socket: %w", cerr))
	}
	c.logger.Info("notification channel stopped")

	return err
}

// receive runs on the receiver task. It returns false to end the task.
func (c *Channel) receive(buf []byte) bool {
	if c.stopping.Load() {
		return false
	}

	n, err := c.conn.Read(buf)
	if n > 0 {
		c.metrics.BytesRead.Add(uint64(n)) //nolint:gosec
		c.reasm.Feed(buf[:n], c.enqueue)
	}

	if err != nil {
		if !c.stopping.Load() {
			c.logger.Warn("notification stream ended", "error", err)
		}

		return false
	}

	return true
}

func (c *Channel) enqueue(n wire.Notification) {
	c.metrics.MsgDecodedCount.Add(1)

	select {
	case c.queue <- n:
		c.metrics.QueueLenGauge.Add(1)
	case <-c.recvMgr.Context().Done():
	}
}

// dispatch runs on the dispatcher task.
func (c *Channel) dispatch(n wire.Notification) bool {
	c.metrics.QueueLenGauge.Add(-1)
	if c.abandoned.Load() {
		return false
	}

	if n.Flags != 0 {
		c.metrics.MsgIgnoredCount.Add(1)
		c.logger.Debug("ignoring flagged notification", "flags", n.Flags)

		return true
	}

	c.metrics.MsgDispatchedCount.Add(1)
	c.dispatching.Store(true)
	called := c.registry.Dispatch(eventFromNotification(n))
	c.dispatching.Store(false)
	c.metrics.HandlerCallCount.Add(uint64(called)) //nolint:gosec

	return true
}
