package wire

import (
	"encoding/binary"
	"fmt"
)

const (
	// Magic is the constant that opens every command header.
	Magic uint32 = 1818715245

	// HeaderSize is the size in bytes of a command header, a reply header and
	// a notification record.
	HeaderSize = 16

	// QuadSize and LongSize are the widths of the structured extension fields.
	QuadSize = 8
	LongSize = 4
)

// CommandHeader is the fixed header sent ahead of every request.
type CommandHeader struct {
	Magic     uint32
	Param3    uint32
	Opcode    Opcode
	QuadCount uint16
	LongCount uint16
	HalfCount uint16
}

// ReplyHeader is the fixed reply returned for every request.
type ReplyHeader struct {
	Status   int32
	Reserved [12]byte
}

// PutCommandHeader writes h into the first HeaderSize bytes of dst.
func PutCommandHeader(dst []byte, h CommandHeader) {
	_ = dst[HeaderSize-1] // bounds check hint
	binary.LittleEndian.PutUint32(dst[0:4], h.Magic)
	binary.LittleEndian.PutUint32(dst[4:8], h.Param3)
	binary.LittleEndian.PutUint16(dst[8:10], uint16(h.Opcode))
	binary.LittleEndian.PutUint16(dst[10:12], h.QuadCount)
	binary.LittleEndian.PutUint16(dst[12:14], h.LongCount)
	binary.LittleEndian.PutUint16(dst[14:16], h.HalfCount)
}

// EncodeCommand returns the header followed by every extension chunk, in
// order, as a single buffer ready for one write.
func EncodeCommand(h CommandHeader, ext ...[]byte) []byte {
	size := HeaderSize
	for _, chunk := range ext {
		size += len(chunk)
	}

	buf := make([]byte, HeaderSize, size)
	PutCommandHeader(buf, h)
	for _, chunk := range ext {
		buf = append(buf, chunk...)
	}

	return buf
}

// DecodeCommandHeader decodes a 16 byte command header.
// It panics if b is not exactly HeaderSize bytes long.
func DecodeCommandHeader(b []byte) CommandHeader {
	mustHeaderSize("command header", b)

	return CommandHeader{
		Magic:     binary.LittleEndian.Uint32(b[0:4]),
		Param3:    binary.LittleEndian.Uint32(b[4:8]),
		Opcode:    Opcode(binary.LittleEndian.Uint16(b[8:10])),
		QuadCount: binary.LittleEndian.Uint16(b[10:12]),
		LongCount: binary.LittleEndian.Uint16(b[12:14]),
		HalfCount: binary.LittleEndian.Uint16(b[14:16]),
	}
}

// StructuredLen returns the number of extension bytes described by the
// quad and long counts.
func (h CommandHeader) StructuredLen() int {
	return int(h.QuadCount)*QuadSize + int(h.LongCount)*LongSize
}

// EncodeReply encodes a reply header.
func EncodeReply(r ReplyHeader) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(r.Status)) //nolint:gosec
	copy(buf[4:], r.Reserved[:])

	return buf
}

// DecodeReply decodes a 16 byte reply header.
// It panics if b is not exactly HeaderSize bytes long.
func DecodeReply(b []byte) ReplyHeader {
	mustHeaderSize("reply header", b)

	r := ReplyHeader{Status: int32(binary.LittleEndian.Uint32(b[0:4]))} //nolint:gosec
	copy(r.Reserved[:], b[4:16])

	return r
}

func mustHeaderSize(what string, b []byte) {
	if len(b) != HeaderSize {
		panic(fmt.Sprintf("wire: %s must be %d bytes, got %d", what, HeaderSize, len(b)))
	}
}
