// Package task runs the named background goroutines of a connection.
package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arloliu/go-rgpio/internal/pool"
	"github.com/arloliu/go-rgpio/logger"
)

// ErrStopped is returned when a task is started on a stopped Manager.
var ErrStopped = errors.New("task manager already stopped")

// startTimeout bounds the wait for a new goroutine to report that it runs.
const startTimeout = 5 * time.Second

// Func performs one iteration of a task.
// It should return true to continue running the task, or false to stop the goroutine.
type Func func() bool

// RecvFunc performs one iteration of a receive task. buf is a read buffer
// owned by the task and reused across iterations.
// It should return true to continue running the task, or false to stop the goroutine.
type RecvFunc func(buf []byte) bool

// CancelFunc is called when a goroutine managed by the Manager exits.
type CancelFunc func()

// Manager manages the lifecycle of goroutines (tasks).
//
// Every task runs in a loop that checks the manager context before each
// iteration, so Stop is observed at the next iteration boundary. Blocking
// work inside an iteration (a socket read, a channel receive) has to be
// interrupted by the caller, e.g. by expiring a read deadline.
//
// Example Usage:
//
//	mgr := task.NewManager(ctx, logger)
//	_ = mgr.StartReceiver("reader", 4096, func(buf []byte) bool {
//	    n, err := conn.Read(buf)
//	    ...
//	    return err == nil
//	}, nil)
//
//	mgr.Stop()
//	if !mgr.WaitTimeout(time.Second) {
//	    // tasks still running
//	}
//
// A stopped Manager refuses new tasks; create a new one to restart.
type Manager struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger logger.Logger
	count  atomic.Int32
	mu     sync.RWMutex // protect ctx and cancel
}

// NewManager creates a new Manager with the given context as the parent context and logger.
func NewManager(ctx context.Context, l logger.Logger) *Manager {
	mgr := &Manager{logger: l}
	mgr.ctx, mgr.cancel = context.WithCancel(ctx)

	return mgr
}

// Context returns the context that is cancelled by Stop.
func (mgr *Manager) Context() context.Context {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	return mgr.ctx
}

// StartReceiver starts a new goroutine that calls taskFunc with a read
// buffer of bufSize bytes.
//
// The cancelFunc will be called when the goroutine exits or is canceled.
func (mgr *Manager) StartReceiver(name string, bufSize int, taskFunc RecvFunc, cancelFunc CancelFunc) error {
	mgr.logger.Debug("start receiver task", "name", name, "buf_size", bufSize)

	if bufSize <= 0 {
		return fmt.Errorf("invalid buffer size: %d", bufSize)
	}

	return mgr.start(name, func() {
		if cancelFunc != nil {
			defer cancelFunc()
		}

		buf := make([]byte, bufSize)
		mgr.runLoop(name, func() bool {
			return taskFunc(buf)
		})
	})
}

// StartConsumer starts a new goroutine on mgr that calls taskFunc for every
// value received from input, in order. The goroutine exits when input is
// closed, when taskFunc returns false or when mgr is stopped.
//
// Panics raised by taskFunc are recovered and logged; the consumer keeps running.
func StartConsumer[T any](mgr *Manager, name string, input <-chan T, taskFunc func(T) bool, cancelFunc CancelFunc) error {
	mgr.logger.Debug("start consumer task", "name", name)

	if input == nil {
		return errors.New("input channel is nil")
	}

	return mgr.start(name, func() {
		if cancelFunc != nil {
			defer cancelFunc()
		}

		ctx := mgr.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case v, ok := <-input:
				if !ok {
					mgr.logger.Debug("input channel closed", "name", name)
					return
				}
				if !mgr.callWithRecover(name, func() bool { return taskFunc(v) }) {
					return
				}
			}
		}
	})
}

// Stop signals all running goroutines.
func (mgr *Manager) Stop() {
	mgr.mu.Lock()
	if mgr.cancel != nil {
		mgr.cancel()
	}
	mgr.mu.Unlock()
}

// WaitTimeout waits up to d for all goroutines to terminate.
// It returns false if some goroutines are still running after d.
func (mgr *Manager) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		mgr.wg.Wait()
		close(done)
	}()

	timer := pool.GetTimer(d)
	defer pool.PutTimer(timer)

	select {
	case <-done:
		return true
	case <-timer.C:
		mgr.logger.Warn("tasks still running after timeout", "timeout", d, "task_count", mgr.TaskCount())
		return false
	}
}

// TaskCount returns the number of currently running goroutines.
func (mgr *Manager) TaskCount() int {
	return int(mgr.count.Load())
}

// start runs the common startup sequence for all tasks and waits until the
// goroutine has reported that it runs.
func (mgr *Manager) start(name string, body func()) error {
	ctx := mgr.Context()
	select {
	case <-ctx.Done():
		return ErrStopped
	default:
	}

	started := make(chan struct{})
	mgr.wg.Add(1)
	go func() {
		defer mgr.wg.Done()

		mgr.count.Add(1)
		close(started)

		defer func() {
			mgr.count.Add(-1)
			mgr.logger.Debug(name+" task terminated", "task_count", mgr.TaskCount())
		}()

		body()
	}()

	timer := pool.GetTimer(startTimeout)
	defer pool.PutTimer(timer)

	select {
	case <-started:
		return nil
	case <-timer.C:
		return fmt.Errorf("timeout waiting for %s to start", name)
	}
}

// runLoop runs a task function in a loop until it returns false or the
// manager is stopped.
func (mgr *Manager) runLoop(name string, taskFunc Func) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task loop", "name", name, "panic", r)
		}
	}()

	for {
		ctx := mgr.Context()
		select {
		case <-ctx.Done():
			return
		default:
			if !taskFunc() {
				return
			}
		}
	}
}

// callWithRecover calls fn with panic protection. A recovered panic counts
// as a request to keep running.
func (mgr *Manager) callWithRecover(name string, fn func() bool) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			mgr.logger.Error("panic in task", "name", name, "panic", r)
			ok = true
		}
	}()

	return fn()
}
