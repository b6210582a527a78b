package sbc

import (
	"encoding/binary"

	"github.com/arloliu/go-rgpio/errcode"
	"github.com/arloliu/go-rgpio/wire"
)

// SBCName returns the host name of the machine running the daemon.
func (c *Client) SBCName() (string, error) {
	_, payload, err := c.execPayload(wire.NewCommand(wire.OpSBCName))
	if err != nil {
		return "", err
	}

	return cString(payload), nil
}

// SetUser logs user in with secret. It returns 1 when the user's
// permissions were granted and 0 when the daemon kept the default
// permissions.
func (c *Client) SetUser(user, secret string) (int, error) {
	if c.ctrl == nil {
		return int(errcode.CmdInterrupted), ErrNotConnected
	}

	status, err := c.ctrl.Authenticate(user, secret)

	return c.result(wire.OpUser, status, err)
}

// SetShareID sets the share id of an object so other clients may use it.
func (c *Client) SetShareID(handle, shareID int) (int, error) {
	return c.handleArgCmd(wire.OpShareSet, handle, shareID)
}

// UseShareID makes objects shared with shareID usable by this client. 0
// stops using shared objects.
func (c *Client) UseShareID(shareID int) (int, error) {
	return c.handleCmd(wire.OpShareUse, shareID)
}

// GetInternal returns the daemon configuration value id.
func (c *Client) GetInternal(id int) (int, uint64, error) {
	cmd := wire.NewCommand(wire.OpGetInternal).Long(uint32(id)) //nolint:gosec
	status, payload, err := c.execPayload(cmd)
	if err != nil || status <= 0 {
		return status, 0, err
	}
	if len(payload) < wire.QuadSize {
		return shortPayload(cmd, payload, uint64(0))
	}

	return 0, binary.LittleEndian.Uint64(payload), nil
}

// SetInternal sets the daemon configuration value id.
func (c *Client) SetInternal(id int, value uint64) (int, error) {
	return c.exec(wire.NewCommand(wire.OpSetInternal).Quad(value).Long(uint32(id))) //nolint:gosec
}
