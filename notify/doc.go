// Package notify delivers GPIO level changes reported by the daemon to
// registered handlers.
//
// The daemon pushes 16 byte notification records over a dedicated TCP
// connection. A Channel owns that connection: after the one NOIB handshake
// it hands the socket to a receiver task that reassembles records from
// arbitrary read boundaries and queues them for a dispatcher task. The
// dispatcher looks up the (chip, line) pair in a Registry and calls every
// matching handler synchronously, in registration order.
//
// Handlers run on the dispatcher goroutine. A slow handler delays every
// other handler; once the event queue is full it also stalls the receiver.
// Handlers that do real work should hand it off to their own goroutine.
package notify
