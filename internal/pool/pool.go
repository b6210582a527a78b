// Package pool holds the sync.Pool wrappers shared by the session and task packages.
package pool

import (
	"sync"
	"time"
)

// Request frames are a 16 byte header plus an extension that is rarely more
// than a few dozen bytes. Frames that grew past maxFrameCap (a large file or
// SPI write) are left to the garbage collector.
const (
	frameCap    = 256
	maxFrameCap = 64 * 1024
)

var framePool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, frameCap)
		return &b
	},
}

// GetFrame returns an empty buffer for encoding one request.
func GetFrame() *[]byte {
	b, _ := framePool.Get().(*[]byte)
	*b = (*b)[:0]

	return b
}

// PutFrame returns b to the pool. b must not be used afterwards.
func PutFrame(b *[]byte) {
	if b == nil || cap(*b) > maxFrameCap {
		return
	}
	framePool.Put(b)
}

var timerPool sync.Pool

// GetTimer returns a timer that fires after d. Release it with PutTimer.
//
// Since Go 1.23 a stopped or reset timer never delivers a stale value, so a
// pooled timer only needs Reset.
func GetTimer(d time.Duration) *time.Timer {
	if t, ok := timerPool.Get().(*time.Timer); ok {
		t.Reset(d)
		return t
	}

	return time.NewTimer(d)
}

// PutTimer stops t and returns it to the pool.
func PutTimer(t *time.Timer) {
	t.Stop()
	timerPool.Put(t)
}
