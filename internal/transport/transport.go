// SPDX-License-Identifier: MIT
package transport

import (
	"errors"
)

// ErrClosed is returned by Send after Close.
var ErrClosed = errors.New("transport closed")

// Transport defines a generic interface for publishing rendered frames.
// Implementations must be safe for concurrent use and must not block the
// caller on network I/O.
type Transport interface {
	Send(data any) error
	Close() error
}

// Fanout sends every message to each of its transports in order.
type Fanout []Transport

// Send forwards data to all transports and joins their errors.
func (f Fanout) Send(data any) error {
	var errs []error
	for _, t := range f {
		if err := t.Send(data); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes all transports and joins their errors.
func (f Fanout) Close() error {
	var errs []error
	for _, t := range f {
		if err := t.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ Transport = Fanout(nil)
