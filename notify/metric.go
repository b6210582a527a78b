package notify

import "sync/atomic"

// ChannelMetrics contains atomic metrics for a notification channel.
// Metrics can be used as the value of a prometheus CounterFunc or GaugeFunc.
type ChannelMetrics struct {
	// BytesRead indicates the number of bytes read from the notification socket.
	BytesRead atomic.Uint64
	// MsgDecodedCount indicates the number of complete records decoded.
	MsgDecodedCount atomic.Uint64
	// MsgIgnoredCount indicates the number of records dropped for non-zero flags.
	MsgIgnoredCount atomic.Uint64
	// MsgDispatchedCount indicates the number of records passed to the registry.
	MsgDispatchedCount atomic.Uint64
	// HandlerCallCount indicates the number of handler invocations.
	HandlerCallCount atomic.Uint64
	// QueueLenGauge indicates the number of records waiting for the dispatcher.
	QueueLenGauge atomic.Int64
}
