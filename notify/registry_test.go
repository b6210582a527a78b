package notify

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-rgpio/logger"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) HandleEvent(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, ev)
}

func (r *recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Event(nil), r.events...)
}

func TestParseEdge(t *testing.T) {
	e, err := ParseEdge("falling")
	require.NoError(t, err)
	assert.Equal(t, FallingEdge, e)

	_, err = ParseEdge("sideways")
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestRegistry_DispatchOrder(t *testing.T) {
	reg := NewRegistry(nil)

	var order []string
	mk := func(name string) Handler {
		return HandlerFunc(func(Event) { order = append(order, name) })
	}

	_, err := reg.Register(0, 4, BothEdges, mk("both"))
	require.NoError(t, err)
	_, err = reg.Register(0, 4, RisingEdge, mk("rising"))
	require.NoError(t, err)
	_, err = reg.Register(0, 4, FallingEdge, mk("falling"))
	require.NoError(t, err)
	_, err = reg.Register(1, 4, BothEdges, mk("other chip"))
	require.NoError(t, err)

	// every registration on the pair fires for every level
	for _, level := range []int{1, 0, 2} {
		order = nil
		assert.Equal(t, 3, reg.Dispatch(Event{Chip: 0, Line: 4, Level: level}), "level %d", level)
		assert.Equal(t, []string{"both", "rising", "falling"}, order, "level %d", level)
	}

	order = nil
	assert.Equal(t, 0, reg.Dispatch(Event{Chip: 0, Line: 5, Level: 1}))
	assert.Empty(t, order)
	assert.Equal(t, 4, reg.Len())
}

func TestRegistry_EdgeDoesNotFilter(t *testing.T) {
	reg := NewRegistry(nil)

	var levels []int
	_, err := reg.Register(0, 17, RisingEdge, HandlerFunc(func(ev Event) { levels = append(levels, ev.Level) }))
	require.NoError(t, err)
	tally, err := reg.Register(0, 17, RisingEdge, nil)
	require.NoError(t, err)
	assert.Equal(t, RisingEdge, tally.Edge())

	reg.Dispatch(Event{Chip: 0, Line: 17, Level: 0})
	reg.Dispatch(Event{Chip: 0, Line: 17, Level: 1})

	assert.Equal(t, []int{0, 1}, levels)
	assert.Equal(t, int64(2), tally.Tally())
}

func TestRegistry_Tally(t *testing.T) {
	reg := NewRegistry(nil)

	r, err := reg.Register(0, 17, RisingEdge, nil)
	require.NoError(t, err)

	for range 5 {
		reg.Dispatch(Event{Chip: 0, Line: 17, Level: 1})
	}
	reg.Dispatch(Event{Chip: 0, Line: 17, Level: 0})
	assert.Equal(t, int64(6), r.Tally())

	r.ResetTally()
	assert.Equal(t, int64(0), r.Tally())

	user, err := reg.Register(0, 17, RisingEdge, HandlerFunc(func(Event) {}))
	require.NoError(t, err)
	reg.Dispatch(Event{Chip: 0, Line: 17, Level: 1})
	assert.Equal(t, int64(0), user.Tally())
	assert.Equal(t, int64(1), r.Tally())
}

func TestRegistry_Cancel(t *testing.T) {
	reg := NewRegistry(nil)
	rec1, rec2 := &recorder{}, &recorder{}

	r1, err := reg.Register(0, 4, BothEdges, rec1)
	require.NoError(t, err)
	r2, err := reg.Register(0, 4, BothEdges, rec2)
	require.NoError(t, err)

	r1.Cancel()
	assert.False(t, r1.Active())
	r1.Cancel()
	reg.Cancel(nil)

	reg.Dispatch(Event{Chip: 0, Line: 4, Level: 1})
	assert.Empty(t, rec1.Events())
	assert.Len(t, rec2.Events(), 1)
	assert.Equal(t, []*Registration{r2}, reg.Registrations(0, 4))

	r2.Cancel()
	assert.Equal(t, 0, reg.Len())
	assert.Empty(t, reg.Registrations(0, 4))

	// the key is reusable after every registration was cancelled
	r3, err := reg.Register(0, 4, BothEdges, nil)
	require.NoError(t, err)
	reg.Dispatch(Event{Chip: 0, Line: 4, Level: 0})
	assert.Equal(t, int64(1), r3.Tally())
}

func TestRegistry_CancelForeignRegistration(t *testing.T) {
	a, b := NewRegistry(nil), NewRegistry(nil)

	r, err := a.Register(0, 1, RisingEdge, nil)
	require.NoError(t, err)

	b.Cancel(r)
	assert.True(t, r.Active())
	assert.Equal(t, 1, a.Len())
}

func TestRegistry_InvalidArguments(t *testing.T) {
	reg := NewRegistry(nil)

	_, err := reg.Register(-1, 0, RisingEdge, nil)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = reg.Register(0, 256, RisingEdge, nil)
	assert.ErrorIs(t, err, ErrInvalidLine)
	_, err = reg.Register(0, 0, Edge(0), nil)
	assert.ErrorIs(t, err, ErrInvalidEdge)
}

func TestRegistry_HandlerPanic(t *testing.T) {
	l := logger.NewMockLogger()
	l.On("Error", "callback panicked", mock.Anything).Return()
	l.Quiet()

	reg := NewRegistry(l)
	after := &recorder{}

	_, err := reg.Register(0, 2, BothEdges, HandlerFunc(func(Event) { panic("handler bug") }))
	require.NoError(t, err)
	_, err = reg.Register(0, 2, BothEdges, after)
	require.NoError(t, err)

	assert.NotPanics(t, func() {
		assert.Equal(t, 2, reg.Dispatch(Event{Chip: 0, Line: 2, Level: 1}))
	})
	assert.Len(t, after.Events(), 1)
	l.AssertCalled(t, "Error", "callback panicked", mock.Anything)
}

// Cancels racing dispatches must never panic or corrupt the registry, and
// the key must stay usable afterwards.
func TestRegistry_CancelRacingDispatch(t *testing.T) {
	reg := NewRegistry(nil)

	var delivered atomic.Int64
	handler := HandlerFunc(func(Event) { delivered.Add(1) })

	stop := make(chan struct{})
	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for {
			select {
			case <-stop:
				return
			default:
				reg.Dispatch(Event{Chip: 0, Line: 9, Level: 1})
			}
		}
	}()

	var writers sync.WaitGroup
	for range 4 {
		writers.Add(1)
		go func() {
			defer writers.Done()
			for range 500 {
				r, err := reg.Register(0, 9, RisingEdge, handler)
				if err != nil {
					t.Error(err)
					return
				}
				r.Cancel()
			}
		}()
	}
	writers.Wait()
	close(stop)
	<-dispatched

	assert.Equal(t, 0, reg.Len())

	r, err := reg.Register(0, 9, RisingEdge, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, reg.Dispatch(Event{Chip: 0, Line: 9, Level: 1}))
	assert.Equal(t, int64(1), r.Tally())
}
