package wire

import (
	"encoding/binary"
	"fmt"
)

// Levels reported in a notification.
const (
	LevelLow     uint8 = 0
	LevelHigh    uint8 = 1
	LevelTimeout uint8 = 2 // watchdog expired, no edge seen
)

// Notification is one 16 byte record from the notification stream.
//
// Tick is a nanosecond timestamp whose origin depends on the daemon and
// kernel; only differences between ticks are meaningful.
type Notification struct {
	Tick  uint64
	Chip  uint8
	Line  uint8
	Level uint8
	Flags uint8
	Pad   uint32
}

// EncodeNotification encodes n as a 16 byte record.
func EncodeNotification(n Notification) []byte {
	buf := make([]byte, HeaderSize)
	binary.LittleEndian.PutUint64(buf[0:8], n.Tick)
	buf[8] = n.Chip
	buf[9] = n.Line
	buf[10] = n.Level
	buf[11] = n.Flags
	binary.LittleEndian.PutUint32(buf[12:16], n.Pad)

	return buf
}

// DecodeNotification decodes a 16 byte notification record.
// It panics if b is not exactly HeaderSize bytes long.
func DecodeNotification(b []byte) Notification {
	mustHeaderSize("notification", b)

	return Notification{
		Tick:  binary.LittleEndian.Uint64(b[0:8]),
		Chip:  b[8],
		Line:  b[9],
		Level: b[10],
		Flags: b[11],
		Pad:   binary.LittleEndian.Uint32(b[12:16]),
	}
}

func (n Notification) String() string {
	return fmt.Sprintf("chip=%d line=%d level=%d tick=%d flags=%#x", n.Chip, n.Line, n.Level, n.Tick, n.Flags)
}
