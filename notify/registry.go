package notify

import (
	"slices"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/go-rgpio/logger"
)

type lineKey struct {
	chip int
	line int
}

// Registry maps (chip, line) pairs to the registrations interested in them.
//
// Registrations for one pair are kept in an immutable slice that is replaced
// on every Register and Cancel, so Dispatch iterates a stable snapshot and
// never observes a half-updated list. A Cancel racing a Dispatch may or may
// not see the in-flight event.
type Registry struct {
	lines  *xsync.MapOf[lineKey, []*Registration]
	logger logger.Logger
}

// NewRegistry creates an empty registry. A nil logger selects the package default logger.
func NewRegistry(l logger.Logger) *Registry {
	if l == nil {
		l = logger.GetLogger()
	}

	return &Registry{
		lines:  xsync.NewMapOf[lineKey, []*Registration](),
		logger: l,
	}
}

// Registration is one handler watching one (chip, line) pair.
type Registration struct {
	registry *Registry
	key      lineKey
	edge     Edge
	handler  Handler
	tally    *Tally
	enabled  atomic.Bool
}

// Chip returns the gpiochip number watched by the registration.
func (r *Registration) Chip() int { return r.key.chip }

// Line returns the line offset watched by the registration.
func (r *Registration) Line() int { return r.key.line }

// Edge returns the edge the registration was made with.
func (r *Registration) Edge() Edge { return r.edge }

// Active reports whether the registration has not been cancelled.
func (r *Registration) Active() bool { return r.enabled.Load() }

// Cancel removes the registration from its registry. It is idempotent.
func (r *Registration) Cancel() {
	r.registry.Cancel(r)
}

// Tally returns the number of events counted by the default handler.
// It is always 0 for registrations with a caller supplied handler.
func (r *Registration) Tally() int64 {
	if r.tally == nil {
		return 0
	}

	return r.tally.Count()
}

// ResetTally sets the count of the default handler back to zero.
func (r *Registration) ResetTally() {
	if r.tally != nil {
		r.tally.Reset()
	}
}

// Register adds a registration for (chip, line). The edge is recorded for
// the caller and does not filter dispatch.
// A nil handler installs a Tally, readable through Registration.Tally.
func (reg *Registry) Register(chip, line int, edge Edge, handler Handler) (*Registration, error) {
	if chip < 0 || chip > 255 || line < 0 || line > 255 {
		return nil, ErrInvalidLine
	}
	if !edge.Valid() {
		return nil, ErrInvalidEdge
	}

	r := &Registration{
		registry: reg,
		key:      lineKey{chip: chip, line: line},
		edge:     edge,
		handler:  handler,
	}
	if handler == nil {
		r.tally = &Tally{}
		r.handler = r.tally
	}
	r.enabled.Store(true)

	reg.lines.Compute(r.key, func(old []*Registration, _ bool) ([]*Registration, bool) {
		next := make([]*Registration, len(old), len(old)+1)
		copy(next, old)

		return append(next, r), false
	})
	reg.logger.Debug("callback registered", "chip", chip, "line", line, "edge", edge.String())

	return r, nil
}

// Cancel disables r and removes exactly r from the registry.
// Cancelling an already cancelled or nil registration is a no-op.
func (reg *Registry) Cancel(r *Registration) {
	if r == nil || r.registry != reg || !r.enabled.CompareAndSwap(true, false) {
		return
	}

	reg.lines.Compute(r.key, func(old []*Registration, loaded bool) ([]*Registration, bool) {
		if !loaded {
			return nil, true
		}

		idx := slices.Index(old, r)
		if idx < 0 {
			return old, false
		}

		next := slices.Delete(slices.Clone(old), idx, idx+1)

		return next, len(next) == 0
	})
	reg.logger.Debug("callback cancelled", "chip", r.key.chip, "line", r.key.line)
}

// Dispatch calls every enabled registration for the event's (chip, line),
// in registration order, whatever edge it was registered with. It returns the
// number of handlers called. A panicking handler is logged and does not
// prevent the remaining handlers from running.
func (reg *Registry) Dispatch(ev Event) int {
	regs, ok := reg.lines.Load(lineKey{chip: ev.Chip, line: ev.Line})
	if !ok {
		return 0
	}

	called := 0
	for _, r := range regs {
		if !r.enabled.Load() {
			continue
		}

		reg.invoke(r, ev)
		called++
	}

	return called
}

// Len returns the number of active registrations.
func (reg *Registry) Len() int {
	n := 0
	reg.lines.Range(func(_ lineKey, regs []*Registration) bool {
		n += len(regs)
		return true
	})

	return n
}

// Registrations returns a snapshot of the registrations for (chip, line).
func (reg *Registry) Registrations(chip, line int) []*Registration {
	regs, _ := reg.lines.Load(lineKey{chip: chip, line: line})

	return slices.Clone(regs)
}

func (reg *Registry) invoke(r *Registration, ev Event) {
	defer func() {
		if p := recover(); p != nil {
			reg.logger.Error("callback panicked", "chip", ev.Chip, "line", ev.Line, "level", ev.Level, "panic", p)
		}
	}()

	r.handler.HandleEvent(ev)
}
