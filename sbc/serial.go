package sbc

import "github.com/arloliu/go-rgpio/wire"

// SerialOpen opens the serial device tty (for example "ttyAMA0") at baud and
// returns its handle.
func (c *Client) SerialOpen(tty string, baud int, flags uint32) (int, error) {
	return c.exec(wire.NewCommand(wire.OpSerialOpen).Long(uint32(baud)).Long(flags).Text(tty)) //nolint:gosec
}

// SerialClose closes a serial handle.
func (c *Client) SerialClose(handle int) (int, error) {
	return c.handleCmd(wire.OpSerialClose, handle)
}

// SerialReadByte reads one byte. It fails with SerialReadNoData when nothing is buffered.
func (c *Client) SerialReadByte(handle int) (int, error) {
	return c.handleCmd(wire.OpSerialReadByte, handle)
}

// SerialWriteByte writes one byte.
func (c *Client) SerialWriteByte(handle int, value byte) (int, error) {
	return c.handleArgCmd(wire.OpSerialWriteByte, handle, int(value))
}

// SerialRead reads up to count buffered bytes.
func (c *Client) SerialRead(handle, count int) (int, []byte, error) {
	return c.handleCountCmd(wire.OpSerialRead, handle, count)
}

// SerialWrite writes data.
func (c *Client) SerialWrite(handle int, data []byte) (int, error) {
	return c.handleDataCmd(wire.OpSerialWrite, handle, data)
}

// SerialDataAvailable returns the number of bytes ready to be read.
func (c *Client) SerialDataAvailable(handle int) (int, error) {
	return c.handleCmd(wire.OpSerialDataAvailable, handle)
}
