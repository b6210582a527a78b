package session

import "errors"

var (
	// ErrConnConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConnConfigNil = errors.New("connection config is nil")

	// ErrSessionClosed indicates that the session is closed or was never opened.
	ErrSessionClosed = errors.New("session closed")

	// ErrSessionBroken indicates that an earlier I/O fault left the request/reply
	// stream in an unknown position. The session must be closed and reopened.
	ErrSessionBroken = errors.New("session broken by an earlier I/O fault")

	// ErrSessionHijacked indicates that the socket was handed over with Hijack.
	ErrSessionHijacked = errors.New("session hijacked")

	// ErrAlreadyOpened indicates that Open was called on an opened session.
	ErrAlreadyOpened = errors.New("session already opened")
)

var (
	// ErrInvalidPayloadSize is returned when a negative or oversized payload read is requested.
	ErrInvalidPayloadSize = errors.New("invalid payload size")
)
