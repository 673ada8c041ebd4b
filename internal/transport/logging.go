// SPDX-License-Identifier: MIT
package transport

import (
	"scope/internal/log"
	"scope/internal/scope"
	"sync/atomic"
)

// LoggingTransport implements the Transport interface by logging a one-line
// summary of each message at debug level.
type LoggingTransport struct {
	count atomic.Uint64
}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	log.Infof("transport: using logging transport")
	return &LoggingTransport{}
}

// Send logs the received data.
func (lt *LoggingTransport) Send(data any) error {
	n := lt.count.Add(1)
	switch v := data.(type) {
	case scope.Frame:
		log.Debugf("transport: frame %d pos=%.0fms/%.0fms window=[%d,%d) points=%d",
			n, v.PositionMs, v.DurationMs, v.Start, v.End, len(v.Samples))
	default:
		log.Debugf("transport: message %d (%T)", n, data)
	}
	return nil
}

// Count returns how many messages were sent.
func (lt *LoggingTransport) Count() uint64 { return lt.count.Load() }

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	log.Debugf("transport: logging transport closed after %d messages", lt.count.Load())
	return nil
}

// Ensure LoggingTransport satisfies the interface at compile time.
var _ Transport = (*LoggingTransport)(nil)
