package session

import (
	"sync/atomic"
)

// ConnectionMetrics contains atomic metrics for a control session.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ConnectionMetrics struct {
	// CommandSendCount indicates the number of commands sent.
	CommandSendCount atomic.Uint64
	// CommandErrCount indicates the number of replies carrying a negative status.
	CommandErrCount atomic.Uint64
	// InterruptedCount indicates the number of exchanges aborted by an I/O fault.
	InterruptedCount atomic.Uint64

	// BytesSent indicates the number of bytes written to the socket.
	BytesSent atomic.Uint64
	// BytesRecv indicates the number of bytes read from the socket.
	BytesRecv atomic.Uint64
}

func (m *ConnectionMetrics) incCommandSendCount() {
	m.CommandSendCount.Add(1)
}

func (m *ConnectionMetrics) incCommandErrCount() {
	m.CommandErrCount.Add(1)
}

func (m *ConnectionMetrics) incInterruptedCount() {
	m.InterruptedCount.Add(1)
}

func (m *ConnectionMetrics) addBytesSent(n int) {
	m.BytesSent.Add(uint64(n)) //nolint:gosec
}

func (m *ConnectionMetrics) addBytesRecv(n int) {
	m.BytesRecv.Add(uint64(n)) //nolint:gosec
}
