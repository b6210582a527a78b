package wire

import (
	"encoding/binary"
	"math"
)

// Command is a request under construction: an opcode plus its extension.
//
// Structured fields are appended with Quad, Long and Int, raw suffixes with
// Bytes and Text. Fields are serialized in call order and the daemon reads
// quads before longs, so quads go first. Param3 is the total extension length
// unless overridden with SetParam3.
type Command struct {
	op        Opcode
	quads     uint16
	longs     uint16
	halves    uint16
	param3    uint32
	hasParam3 bool
	ext       []byte
}

// NewCommand creates an empty request for op.
func NewCommand(op Opcode) *Command {
	return &Command{op: op}
}

// Opcode returns the request opcode.
func (c *Command) Opcode() Opcode { return c.op }

// Quad appends a 64-bit structured field.
func (c *Command) Quad(v uint64) *Command {
	c.ext = binary.LittleEndian.AppendUint64(c.ext, v)
	c.quads++

	return c
}

// Long appends a 32-bit structured field.
func (c *Command) Long(v uint32) *Command {
	c.ext = binary.LittleEndian.AppendUint32(c.ext, v)
	c.longs++

	return c
}

// Int appends a signed 32-bit structured field.
func (c *Command) Int(v int32) *Command {
	return c.Long(uint32(v)) //nolint:gosec
}

// Bytes appends a raw suffix. Raw bytes are not counted in the quad/long counts.
func (c *Command) Bytes(b []byte) *Command {
	c.ext = append(c.ext, b...)

	return c
}

// Text appends s as a raw suffix.
func (c *Command) Text(s string) *Command {
	c.ext = append(c.ext, s...)

	return c
}

// SetParam3 overrides the default param3 (total extension length).
func (c *Command) SetParam3(v uint32) *Command {
	c.param3 = v
	c.hasParam3 = true

	return c
}

// Header returns the command header for the current extension.
func (c *Command) Header() CommandHeader {
	p3 := c.param3
	if !c.hasParam3 {
		p3 = extLen(len(c.ext))
	}

	return CommandHeader{
		Magic:     Magic,
		Param3:    p3,
		Opcode:    c.op,
		QuadCount: c.quads,
		LongCount: c.longs,
		HalfCount: c.halves,
	}
}

// Extension returns the serialized extension bytes.
func (c *Command) Extension() []byte {
	return c.ext
}

// Encode returns header and extension as a single buffer.
func (c *Command) Encode() []byte {
	return EncodeCommand(c.Header(), c.ext)
}

// AppendTo appends header and extension to dst and returns the extended buffer.
func (c *Command) AppendTo(dst []byte) []byte {
	var hdr [HeaderSize]byte
	PutCommandHeader(hdr[:], c.Header())
	dst = append(dst, hdr[:]...)

	return append(dst, c.ext...)
}

func extLen(n int) uint32 {
	if n > math.MaxUint32 {
		panic("wire: extension too large")
	}

	return uint32(n)
}
