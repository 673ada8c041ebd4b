// SPDX-License-Identifier: MIT
package udp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	applog "scope/internal/log"
	"scope/internal/scope"
	"scope/internal/transport"
)

// UDPPublisher sends the most recent scope frame as a binary packet on
// every tick of its interval. Send only stores the frame, so the render
// loop never waits on the network; frames that arrive faster than the
// interval are coalesced.
type UDPPublisher struct {
	sender   *UDPSender
	interval time.Duration

	ticker   *time.Ticker
	doneChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	mu       sync.Mutex // Protects ticker, doneChan and the pending frame.

	pending scope.Frame
	fresh   bool

	sequenceNum  uint32
	packetBuffer *bytes.Buffer
	f32Buffer    []float32
}

// NewUDPPublisher creates a publisher over sender. A non-positive interval
// defaults to 16ms (~60Hz).
func NewUDPPublisher(interval time.Duration, sender *UDPSender) (*UDPPublisher, error) {
	if sender == nil {
		return nil, fmt.Errorf("UDPPublisher: UDP sender cannot be nil")
	}

	if interval <= 0 {
		interval = 16 * time.Millisecond
		applog.Warnf("UDPPublisher: invalid interval, defaulting to %s", interval)
	}

	return &UDPPublisher{
		sender:       sender,
		interval:     interval,
		packetBuffer: new(bytes.Buffer),
	}, nil
}

// Start begins the periodic publishing goroutine. Calling Start on a
// running publisher is a no-op.
func (p *UDPPublisher) Start() {
	p.mu.Lock()
	if p.ticker != nil {
		p.mu.Unlock()
		applog.Warnf("UDPPublisher: Start called but already running")
		return
	}

	p.ticker = time.NewTicker(p.interval)
	p.doneChan = make(chan struct{})
	p.stopOnce = sync.Once{}

	// Locals keep the goroutine off p.ticker/p.doneChan.
	ticker := p.ticker
	doneChan := p.doneChan
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		applog.Debugf("UDPPublisher: started (interval %s)", p.interval)
		for {
			select {
			case <-ticker.C:
				p.publish()
			case <-doneChan:
				return
			}
		}
	}()
}

// Stop signals the publishing goroutine and waits for it to exit.
func (p *UDPPublisher) Stop() error {
	p.mu.Lock()
	if p.ticker == nil {
		p.mu.Unlock()
		return nil
	}

	p.stopOnce.Do(func() {
		close(p.doneChan)
		p.ticker.Stop()
		p.ticker = nil
	})
	p.mu.Unlock()

	p.wg.Wait()
	applog.Debugf("UDPPublisher: stopped after %d packets", p.sequenceNum)
	return nil
}

// Send stores a scope.Frame for the next tick. Other message types are
// ignored.
func (p *UDPPublisher) Send(data any) error {
	frame, ok := data.(scope.Frame)
	if !ok {
		return nil
	}
	p.mu.Lock()
	p.pending = frame
	p.fresh = true
	p.mu.Unlock()
	return nil
}

// Close stops the publisher and closes its sender.
func (p *UDPPublisher) Close() error {
	if err := p.Stop(); err != nil {
		return err
	}
	return p.sender.Close()
}

/*
UDP Packet Structure (BigEndian)

|<- 4 Bytes ->|<- 8 Bytes ->|<- 4 Bytes ->|<- 4 Bytes ->|<- 2 Bytes ->|<- N * 4 Bytes ->|
+-------------+-------------+-------------+-------------+-------------+------------------+
|  Sequence   |  Timestamp  |  Position   |  Duration   |   Sample    |     Samples      |
|  (uint32)   | (int64, ns) | (float32 ms)| (float32 ms)| Count uint16|  (N * float32)   |
+-------------+-------------+-------------+-------------+-------------+------------------+
*/

// headerSize is the packet size without samples.
const headerSize = 4 + 8 + 4 + 4 + 2

// publish sends the pending frame if a new one arrived since the last tick.
func (p *UDPPublisher) publish() {
	p.mu.Lock()
	if !p.fresh {
		p.mu.Unlock()
		return
	}
	frame := p.pending
	p.fresh = false
	p.mu.Unlock()

	p.sequenceNum++
	packet, err := p.encode(p.sequenceNum, time.Now().UnixNano(), frame)
	if err != nil {
		applog.Errorf("UDPPublisher: error packing frame: %v", err)
		return
	}
	if err := p.sender.Send(packet); err == nil {
		applog.Debugf("UDPPublisher: sent packet %d (%d bytes)", p.sequenceNum, len(packet))
	}
}

// encode packs frame into the reusable packet buffer. The returned slice
// is only valid until the next call.
func (p *UDPPublisher) encode(seq uint32, timestamp int64, frame scope.Frame) ([]byte, error) {
	n := len(frame.Samples)
	if n > math.MaxUint16 {
		n = math.MaxUint16
	}
	if cap(p.f32Buffer) < n {
		p.f32Buffer = make([]float32, n)
	}
	p.f32Buffer = p.f32Buffer[:n]
	for i := range n {
		p.f32Buffer[i] = float32(frame.Samples[i])
	}

	p.packetBuffer.Reset()
	p.packetBuffer.Grow(headerSize + 4*n)
	for _, v := range []any{
		seq,
		timestamp,
		float32(frame.PositionMs),
		float32(frame.DurationMs),
		uint16(n),
		p.f32Buffer,
	} {
		if err := binary.Write(p.packetBuffer, binary.BigEndian, v); err != nil {
			return nil, err
		}
	}
	return p.packetBuffer.Bytes(), nil
}

var _ transport.Transport = (*UDPPublisher)(nil)
