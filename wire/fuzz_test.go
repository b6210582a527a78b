package wire

import (
	"testing"
)

// FuzzDecodeCommandHeader checks that every 16 byte buffer decodes to a
// header that re-encodes to the same bytes.
func FuzzDecodeCommandHeader(f *testing.F) {
	f.Add(EncodeCommand(CommandHeader{Magic: Magic, Param3: 4, Opcode: OpGpiochipOpen, LongCount: 1}))
	f.Add(make([]byte, HeaderSize))
	f.Add([]byte("mdgl\xff\xff\xff\xff\x83\x00\x01\x00\x02\x00\x03\x00"))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) != HeaderSize {
			return
		}

		h := DecodeCommandHeader(data)
		if got := EncodeCommand(h); string(got) != string(data) {
			t.Fatalf("re-encode mismatch: %x != %x", got, data)
		}
	})
}

// FuzzDecodeNotification checks the notification record round trip.
func FuzzDecodeNotification(f *testing.F) {
	f.Add(EncodeNotification(Notification{Tick: 1, Chip: 0, Line: 4, Level: LevelHigh}))
	f.Add(make([]byte, HeaderSize))

	f.Fuzz(func(t *testing.T, data []byte) {
		if len(data) != HeaderSize {
			return
		}

		n := DecodeNotification(data)
		if got := EncodeNotification(n); string(got) != string(data) {
			t.Fatalf("re-encode mismatch: %x != %x", got, data)
		}
	})
}
