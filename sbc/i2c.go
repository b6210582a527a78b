package sbc

import "github.com/arloliu/go-rgpio/wire"

// I2CZip command codes. A zip sequence is a byte string of these codes and
// their parameters, ended by ZipEnd.
const (
	ZipEnd     byte = 0
	ZipEscape  byte = 1
	ZipAddress byte = 2
	ZipFlags   byte = 3
	ZipRead    byte = 4
	ZipWrite   byte = 5
)

// I2COpen opens the device at addr on I2C bus and returns its handle.
func (c *Client) I2COpen(bus, addr int, flags uint32) (int, error) {
	return c.exec(wire.NewCommand(wire.OpI2COpen).Long(uint32(bus)).Long(uint32(addr)).Long(flags)) //nolint:gosec
}

// I2CClose closes an I2C handle.
func (c *Client) I2CClose(handle int) (int, error) {
	return c.handleCmd(wire.OpI2CClose, handle)
}

// I2CWriteQuick sends an SMBus quick command with the given bit.
func (c *Client) I2CWriteQuick(handle, bit int) (int, error) {
	return c.handleArgCmd(wire.OpI2CWriteQuick, handle, bit)
}

// I2CWriteByte sends a single byte to the device.
func (c *Client) I2CWriteByte(handle int, value byte) (int, error) {
	return c.handleArgCmd(wire.OpI2CWriteByte, handle, int(value))
}

// I2CReadByte reads a single byte from the device.
func (c *Client) I2CReadByte(handle int) (int, error) {
	return c.handleCmd(wire.OpI2CReadByte, handle)
}

// I2CWriteByteData writes a byte to register reg.
func (c *Client) I2CWriteByteData(handle, reg int, value byte) (int, error) {
	return c.regArgCmd(wire.OpI2CWriteByteData, handle, reg, uint32(value))
}

// I2CReadByteData reads a byte from register reg.
func (c *Client) I2CReadByteData(handle, reg int) (int, error) {
	return c.handleArgCmd(wire.OpI2CReadByteData, handle, reg)
}

// I2CWriteWordData writes a 16-bit word to register reg.
func (c *Client) I2CWriteWordData(handle, reg int, value uint16) (int, error) {
	return c.regArgCmd(wire.OpI2CWriteWordData, handle, reg, uint32(value))
}

// I2CReadWordData reads a 16-bit word from register reg.
func (c *Client) I2CReadWordData(handle, reg int) (int, error) {
	return c.handleArgCmd(wire.OpI2CReadWordData, handle, reg)
}

// I2CProcessCall writes value to register reg and returns the word the device answers with.
func (c *Client) I2CProcessCall(handle, reg int, value uint16) (int, error) {
	return c.regArgCmd(wire.OpI2CProcessCall, handle, reg, uint32(value))
}

// I2CWriteBlockData writes an SMBus block (up to 32 bytes) to register reg.
func (c *Client) I2CWriteBlockData(handle, reg int, data []byte) (int, error) {
	return c.exec(regCommand(wire.OpI2CWriteBlockData, handle, reg).Bytes(data))
}

// I2CReadBlockData reads an SMBus block from register reg.
func (c *Client) I2CReadBlockData(handle, reg int) (int, []byte, error) {
	return c.execPayload(regCommand(wire.OpI2CReadBlockData, handle, reg))
}

// I2CBlockProcessCall writes data to register reg and reads the block the device answers with.
func (c *Client) I2CBlockProcessCall(handle, reg int, data []byte) (int, []byte, error) {
	return c.execPayload(regCommand(wire.OpI2CBlockProcess, handle, reg).Bytes(data))
}

// I2CReadI2CBlockData reads count bytes starting at register reg.
func (c *Client) I2CReadI2CBlockData(handle, reg, count int) (int, []byte, error) {
	return c.execPayload(regCommand(wire.OpI2CReadI2CBlock, handle, reg).Long(uint32(count))) //nolint:gosec
}

// I2CWriteI2CBlockData writes data starting at register reg.
func (c *Client) I2CWriteI2CBlockData(handle, reg int, data []byte) (int, error) {
	return c.exec(regCommand(wire.OpI2CWriteI2CBlock, handle, reg).Bytes(data))
}

// I2CReadDevice reads count raw bytes from the device.
func (c *Client) I2CReadDevice(handle, count int) (int, []byte, error) {
	return c.handleCountCmd(wire.OpI2CReadDevice, handle, count)
}

// I2CWriteDevice writes raw bytes to the device.
func (c *Client) I2CWriteDevice(handle int, data []byte) (int, error) {
	return c.handleDataCmd(wire.OpI2CWriteDevice, handle, data)
}

// I2CZip runs a sequence of zip commands and returns the concatenated read data.
func (c *Client) I2CZip(handle int, commands []byte) (int, []byte, error) {
	return c.execPayload(wire.NewCommand(wire.OpI2CZip).Long(uint32(handle)).Bytes(commands)) //nolint:gosec
}

func regCommand(op wire.Opcode, handle, reg int) *wire.Command {
	return wire.NewCommand(op).Long(uint32(handle)).Long(uint32(reg)) //nolint:gosec
}

func (c *Client) regArgCmd(op wire.Opcode, handle, reg int, arg uint32) (int, error) {
	return c.exec(regCommand(op, handle, reg).Long(arg))
}
