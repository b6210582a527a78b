package notify

import "github.com/arloliu/go-rgpio/wire"

// Reassembler rebuilds fixed size notification records from a byte stream
// whose reads may end anywhere, including in the middle of a record.
//
// A Reassembler is not safe for concurrent use.
type Reassembler struct {
	buf []byte
}

// Feed appends p to the pending bytes, calls emit for every complete record
// in stream order and keeps the partial tail for the next call. It returns
// the number of records emitted.
func (r *Reassembler) Feed(p []byte, emit func(wire.Notification)) int {
	r.buf = append(r.buf, p...)

	count := 0
	off := 0
	for len(r.buf)-off >= wire.HeaderSize {
		emit(wire.DecodeNotification(r.buf[off : off+wire.HeaderSize]))
		off += wire.HeaderSize
		count++
	}

	n := copy(r.buf, r.buf[off:])
	r.buf = r.buf[:n]

	return count
}

// Pending returns the number of buffered bytes of an incomplete record.
func (r *Reassembler) Pending() int {
	return len(r.buf)
}

// Reset discards any buffered partial record.
func (r *Reassembler) Reset() {
	r.buf = r.buf[:0]
}
