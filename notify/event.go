package notify

import (
	"fmt"
	"sync/atomic"

	"github.com/arloliu/go-rgpio/wire"
)

// Edge names the level changes the daemon reports for a claimed alert.
// Filtering happens daemon side; a registration keeps its edge as metadata.
type Edge int

// The values match the daemon's alert edge flags.
const (
	RisingEdge  Edge = 1
	FallingEdge Edge = 2
	BothEdges   Edge = 3
)

func (e Edge) String() string {
	switch e {
	case RisingEdge:
		return "rising"
	case FallingEdge:
		return "falling"
	case BothEdges:
		return "both"
	default:
		return fmt.Sprintf("Edge(%d)", int(e))
	}
}

// Valid reports whether e is one of the defined edges.
func (e Edge) Valid() bool {
	return e == RisingEdge || e == FallingEdge || e == BothEdges
}

// ParseEdge converts "rising", "falling" or "both" to an Edge.
func ParseEdge(s string) (Edge, error) {
	switch s {
	case "rising":
		return RisingEdge, nil
	case "falling":
		return FallingEdge, nil
	case "both":
		return BothEdges, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidEdge, s)
	}
}

// Event is a level change delivered to a handler.
type Event struct {
	Chip  int
	Line  int
	Level int    // 0 low, 1 high, 2 watchdog timeout
	Tick  uint64 // nanoseconds, daemon clock
}

// IsTimeout reports whether the event is a watchdog timeout rather than an edge.
func (ev Event) IsTimeout() bool {
	return ev.Level == int(wire.LevelTimeout)
}

func eventFromNotification(n wire.Notification) Event {
	return Event{Chip: int(n.Chip), Line: int(n.Line), Level: int(n.Level), Tick: n.Tick}
}

// Handler receives events for a registration.
type Handler interface {
	HandleEvent(ev Event)
}

// HandlerFunc adapts an ordinary function to Handler.
type HandlerFunc func(ev Event)

// HandleEvent calls f(ev).
func (f HandlerFunc) HandleEvent(ev Event) {
	f(ev)
}

// Tally is a Handler that counts the events it receives.
// It is installed for registrations made without a handler.
type Tally struct {
	count atomic.Int64
}

var _ Handler = (*Tally)(nil)

// HandleEvent increments the count.
func (t *Tally) HandleEvent(Event) {
	t.count.Add(1)
}

// Count returns the number of events received since creation or the last Reset.
func (t *Tally) Count() int64 {
	return t.count.Load()
}

// Reset sets the count back to zero.
func (t *Tally) Reset() {
	t.count.Store(0)
}
