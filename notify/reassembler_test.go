package notify

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-rgpio/wire"
)

func makeStream(count int) ([]wire.Notification, []byte) {
	msgs := make([]wire.Notification, count)
	var stream []byte
	for i := range msgs {
		msgs[i] = wire.Notification{
			Tick:  uint64(1_000_000 + i), //nolint:gosec
			Chip:  uint8(i % 3),          //nolint:gosec
			Line:  uint8(i % 40),         //nolint:gosec
			Level: uint8(i % 2),          //nolint:gosec
		}
		stream = append(stream, wire.EncodeNotification(msgs[i])...)
	}

	return msgs, stream
}

func TestReassembler_WholeMessages(t *testing.T) {
	msgs, stream := makeStream(3)

	var got []wire.Notification
	var r Reassembler
	n := r.Feed(stream, func(m wire.Notification) { got = append(got, m) })

	assert.Equal(t, 3, n)
	assert.Equal(t, msgs, got)
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_SplitMessage(t *testing.T) {
	msgs, stream := makeStream(1)

	var got []wire.Notification
	emit := func(m wire.Notification) { got = append(got, m) }

	var r Reassembler
	assert.Equal(t, 0, r.Feed(stream[:5], emit))
	assert.Equal(t, 5, r.Pending())
	assert.Equal(t, 0, r.Feed(stream[5:15], emit))
	assert.Equal(t, 1, r.Feed(stream[15:], emit))

	assert.Equal(t, msgs, got)
	assert.Equal(t, 0, r.Pending())
}

func TestReassembler_EmptyFeedAndReset(t *testing.T) {
	var r Reassembler
	emit := func(wire.Notification) { t.Fatal("nothing should be emitted") }

	assert.Equal(t, 0, r.Feed(nil, emit))
	r.Feed([]byte{1, 2, 3}, emit)
	assert.Equal(t, 3, r.Pending())

	r.Reset()
	assert.Equal(t, 0, r.Pending())
}

// Any split of the stream into reads must yield the same messages in the
// same order, and nothing but the trailing partial record stays buffered.
func TestReassembler_ArbitrarySplits(t *testing.T) {
	msgs, stream := makeStream(200)
	rng := rand.New(rand.NewPCG(1, 2)) //nolint:gosec

	for round := range 100 {
		// drop a random tail so the last record is usually incomplete
		cut := len(stream) - rng.IntN(wire.HeaderSize)
		data := stream[:cut]

		var got []wire.Notification
		var r Reassembler
		for off := 0; off < len(data); {
			size := 1 + rng.IntN(3*wire.HeaderSize)
			end := min(off+size, len(data))
			r.Feed(data[off:end], func(m wire.Notification) { got = append(got, m) })
			off = end
		}

		complete := cut / wire.HeaderSize
		require.Equal(t, msgs[:complete], got, "round %d", round)
		require.Equal(t, cut%wire.HeaderSize, r.Pending(), "round %d", round)
	}
}

func FuzzReassembler(f *testing.F) {
	_, stream := makeStream(4)
	f.Add(stream, uint8(7))
	f.Add([]byte{}, uint8(1))

	f.Fuzz(func(t *testing.T, data []byte, chunk uint8) {
		size := int(chunk) + 1

		var whole []wire.Notification
		var r1 Reassembler
		r1.Feed(data, func(m wire.Notification) { whole = append(whole, m) })

		var split []wire.Notification
		var r2 Reassembler
		for off := 0; off < len(data); off += size {
			r2.Feed(data[off:min(off+size, len(data))], func(m wire.Notification) { split = append(split, m) })
		}

		if len(whole) != len(data)/wire.HeaderSize || len(split) != len(whole) {
			t.Fatalf("decoded %d and %d records from %d bytes", len(whole), len(split), len(data))
		}
		for i := range whole {
			if whole[i] != split[i] {
				t.Fatalf("record %d differs", i)
			}
		}
	})
}
