package sbc

import "errors"

var (
	// ErrNotConnected indicates a call on a Client that was not returned by Connect.
	ErrNotConnected = errors.New("client is not connected")

	// ErrInvalidHandle indicates a ChipHandle with a negative chip or raw handle.
	ErrInvalidHandle = errors.New("invalid gpiochip handle")
)
