// SPDX-License-Identifier: MIT
package audio

import "context"

// ReverseResult is delivered once by ReverseAsync.
type ReverseResult struct {
	Clip *Clip
	Err  error
}

// Reverse returns a new clip with the frame order reversed. Samples within
// a frame keep their channel order.
func (c *Clip) Reverse() *Clip {
	ch := c.Channels()
	src := c.Buffer.Data
	data := make([]int, len(src))
	if ch <= 0 {
		return c.derive(data)
	}

	frames := len(src) / ch
	for i := range frames {
		copy(data[(frames-1-i)*ch:(frames-i)*ch], src[i*ch:(i+1)*ch])
	}
	return c.derive(data)
}

// ReverseAsync reverses clip on its own goroutine. The returned channel is
// buffered so the worker never blocks on a receiver that has gone away.
func ReverseAsync(ctx context.Context, clip *Clip) <-chan ReverseResult {
	out := make(chan ReverseResult, 1)
	go func() {
		defer close(out)
		if err := ctx.Err(); err != nil {
			out <- ReverseResult{Err: err}
			return
		}
		reversed := clip.Reverse()
		if err := ctx.Err(); err != nil {
			out <- ReverseResult{Err: err}
			return
		}
		out <- ReverseResult{Clip: reversed}
	}()
	return out
}
