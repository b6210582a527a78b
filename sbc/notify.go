package sbc

import (
	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/wire"
)

// NotifyOpen opens a daemon-side notification pipe and returns its handle.
// Alerts claimed with that handle are written to the pipe on the daemon host
// instead of this client's stream.
func (c *Client) NotifyOpen() (int, error) {
	return c.exec(wire.NewCommand(wire.OpNotifyOpen))
}

// NotifyPause stops alerts being sent to a notification handle.
func (c *Client) NotifyPause(handle int) (int, error) {
	return c.handleCmd(wire.OpNotifyPause, handle)
}

// NotifyResume restarts alerts on a paused notification handle.
func (c *Client) NotifyResume(handle int) (int, error) {
	return c.handleCmd(wire.OpNotifyResume, handle)
}

// NotifyClose closes a notification handle. The client's own stream is
// closed by Stop and is rejected here with BadHandle.
func (c *Client) NotifyClose(handle int) (int, error) {
	if handle == c.NotifyHandle() {
		return c.failed(errcode.BadHandle)
	}

	return c.handleCmd(wire.OpNotifyClose, handle)
}
