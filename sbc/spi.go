package sbc

import "github.com/arloliu/go-rgpio/wire"

// SPI modes for the low two bits of the SPIOpen flags.
const (
	SPIMode0 uint32 = 0
	SPIMode1 uint32 = 1
	SPIMode2 uint32 = 2
	SPIMode3 uint32 = 3
)

// SPIOpen opens channel of SPI device at baud bits per second and returns its handle.
func (c *Client) SPIOpen(device, channel, baud int, flags uint32) (int, error) {
	return c.exec(wire.NewCommand(wire.OpSPIOpen).
		Long(uint32(device)).Long(uint32(channel)).Long(uint32(baud)).Long(flags)) //nolint:gosec
}

// SPIClose closes an SPI handle.
func (c *Client) SPIClose(handle int) (int, error) {
	return c.handleCmd(wire.OpSPIClose, handle)
}

// SPIRead reads count bytes.
func (c *Client) SPIRead(handle, count int) (int, []byte, error) {
	return c.handleCountCmd(wire.OpSPIRead, handle, count)
}

// SPIWrite writes data.
func (c *Client) SPIWrite(handle int, data []byte) (int, error) {
	return c.handleDataCmd(wire.OpSPIWrite, handle, data)
}

// SPIXfer writes data while reading the same number of bytes.
func (c *Client) SPIXfer(handle int, data []byte) (int, []byte, error) {
	return c.execPayload(wire.NewCommand(wire.OpSPIXfer).Long(uint32(handle)).Bytes(data)) //nolint:gosec
}
