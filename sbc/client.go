package sbc

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/multierr"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/logger"
	"github.com/arloliu/go-rgpio/notify"
	"github.com/arloliu/go-rgpio/session"
	"github.com/arloliu/go-rgpio/wire"
)

// Client is a connection to one rgpiod daemon: a control session for
// commands plus a notification channel feeding the callback registry.
//
// A Client is safe for concurrent use. Commands from different goroutines
// are serialized on the control session.
type Client struct {
	cfg    *session.ConnectionConfig
	logger logger.Logger

	ctrl     *session.Session
	channel  *notify.Channel
	registry *notify.Registry

	authStatus int32

	stopOnce sync.Once
	stopErr  error
}

// Connect opens the control session and the notification channel. When
// cfg names a user, the user is logged in with the secret found in the
// configured secrets file.
//
// On failure every resource already opened is released.
func Connect(ctx context.Context, cfg *session.ConnectionConfig) (*Client, error) {
	if cfg == nil {
		return nil, session.ErrConnConfigNil
	}

	c := &Client{
		cfg:    cfg,
		logger: cfg.Logger().With("component", "sbc", "remote", cfg.Address()),
	}
	c.registry = notify.NewRegistry(c.logger)

	ctrl, err := session.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	c.ctrl = ctrl

	c.channel, err = notify.OpenChannel(ctx, cfg, c.registry)
	if err != nil {
		_ = ctrl.Close()
		return nil, err
	}

	if user := cfg.User(); user != "" {
		if err := c.login(user); err != nil {
			_ = c.Stop()
			return nil, err
		}
	}

	c.logger.Info("connected", "notify_handle", c.channel.Handle())

	return c, nil
}

func (c *Client) login(user string) error {
	store, found, err := session.LoadSecretsFile(c.cfg.SecretsFile())
	if err != nil {
		return err
	}
	if !found {
		c.logger.Warn("secrets file not found, logging in with an empty secret", "path", c.cfg.SecretsFile())
	}

	status, err := c.SetUser(user, store.Lookup(user))
	if err != nil {
		return fmt.Errorf("log in as %q: %w", user, err)
	}
	if status == 0 {
		c.logger.Warn("user not granted, using default permissions", "user", user)
	}

	return nil
}

// Stop shuts the client down: the notification channel first, then the
// daemon resources held by this client are released with FREE, then the
// control socket is closed. Stop is idempotent; later calls return the
// error of the first.
//
// A callback handler may call Stop. Events still queued behind that handler
// are dropped.
func (c *Client) Stop() error {
	c.stopOnce.Do(func() {
		c.stopErr = c.stop()
	})

	return c.stopErr
}

func (c *Client) stop() error {
	l := c.logger
	if l == nil {
		l = logger.GetLogger()
	}

	var err error

	if c.channel != nil {
		err = multierr.Append(err, c.channel.Stop(c.closeStream))
	}

	if c.ctrl != nil {
		if c.ctrl.IsOpened() && !c.ctrl.IsBroken() {
			if _, ferr := c.ctrl.Execute(wire.NewCommand(wire.OpFreeResources)); ferr != nil {
				err = multierr.Append(err, fmt.Errorf("free resources: %w", ferr))
			}
		}
		err = multierr.Append(err, c.ctrl.Close())
	}

	if err != nil {
		l.Warn("stopped with errors", "error", err)
	} else {
		l.Info("stopped")
	}

	return err
}

// closeStream asks the daemon to end the notification stream.
func (c *Client) closeStream() error {
	if !c.ctrl.IsOpened() {
		return nil
	}

	status, err := c.ctrl.Execute(wire.NewCommand(wire.OpNotifyClose).Long(uint32(c.channel.Handle()))) //nolint:gosec
	if err != nil {
		return err
	}
	if status < 0 {
		return errcode.Code(status)
	}

	return nil
}

// Config returns the client configuration.
func (c *Client) Config() *session.ConnectionConfig { return c.cfg }

// Registry returns the callback registry fed by the notification channel.
func (c *Client) Registry() *notify.Registry { return c.registry }

// NotifyHandle returns the handle of the client's own notification stream.
// It is -1 for a client that was not returned by Connect.
func (c *Client) NotifyHandle() int {
	if c.channel == nil {
		return -1
	}

	return int(c.channel.Handle())
}

// SessionMetrics returns the control session metrics.
func (c *Client) SessionMetrics() *session.ConnectionMetrics { return c.ctrl.Metrics() }

// ChannelMetrics returns the notification channel metrics.
func (c *Client) ChannelMetrics() *notify.ChannelMetrics { return c.channel.Metrics() }

// Connected reports whether the control session is usable.
func (c *Client) Connected() bool {
	return c.ctrl != nil && c.ctrl.IsOpened() && !c.ctrl.IsBroken()
}

// exec sends cmd and applies the error mode to the status.
func (c *Client) exec(cmd *wire.Command) (int, error) {
	if c.ctrl == nil {
		return int(errcode.CmdInterrupted), ErrNotConnected
	}

	status, err := c.ctrl.Execute(cmd)

	return c.result(cmd.Opcode(), status, err)
}

// execPayload sends cmd and returns the reply payload when the status is positive.
func (c *Client) execPayload(cmd *wire.Command) (int, []byte, error) {
	if c.ctrl == nil {
		return int(errcode.CmdInterrupted), nil, ErrNotConnected
	}

	status, payload, err := c.ctrl.ExecuteWithPayload(cmd)
	n, err := c.result(cmd.Opcode(), status, err)

	return n, payload, err
}

// result converts a daemon status according to the configured error mode.
// Transport errors are always returned.
func (c *Client) result(op wire.Opcode, status int32, err error) (int, error) {
	if err != nil {
		return int(status), err
	}

	if status < 0 && c.cfg.ErrorMode() == session.RaiseErrors {
		return int(status), fmt.Errorf("%s: %w", op, errcode.Code(status))
	}

	return int(status), nil
}

// failed builds the return of an operation rejected before reaching the
// daemon, honouring the error mode.
func (c *Client) failed(code errcode.Code) (int, error) {
	if c.cfg == nil || c.cfg.ErrorMode() == session.RaiseErrors {
		return int(code), code
	}

	return int(code), nil
}

// handleCmd sends op with handle as its only field.
func (c *Client) handleCmd(op wire.Opcode, handle int) (int, error) {
	return c.exec(wire.NewCommand(op).Long(uint32(handle))) //nolint:gosec
}

// handleCountCmd sends op with handle and count, returning the payload.
func (c *Client) handleCountCmd(op wire.Opcode, handle, count int) (int, []byte, error) {
	return c.execPayload(wire.NewCommand(op).Long(uint32(handle)).Long(uint32(count))) //nolint:gosec
}

// handleDataCmd sends op with handle followed by raw data.
func (c *Client) handleDataCmd(op wire.Opcode, handle int, data []byte) (int, error) {
	return c.exec(wire.NewCommand(op).Long(uint32(handle)).Bytes(data)) //nolint:gosec
}

// handleArgCmd sends op with handle and one argument.
func (c *Client) handleArgCmd(op wire.Opcode, handle, arg int) (int, error) {
	return c.exec(wire.NewCommand(op).Long(uint32(handle)).Long(uint32(arg))) //nolint:gosec
}
