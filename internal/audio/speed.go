// SPDX-License-Identifier: MIT
package audio

import (
	"fmt"
	"math"
)

// ChangeSpeed plays the clip factor times faster by reinterpreting it at
// sampleRate*factor and resampling back to sampleRate. Pitch and length
// change together, like tape.
func (c *Clip) ChangeSpeed(factor float64) (*Clip, error) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return nil, fmt.Errorf("invalid speed factor %g", factor)
	}
	if factor == 1 {
		return c.derive(append([]int(nil), c.Buffer.Data...)), nil
	}

	ch := c.Channels()
	frames := c.Frames()
	if ch <= 0 || frames == 0 {
		return c.derive(nil), nil
	}

	outFrames := int(math.Round(float64(frames) / factor))
	if outFrames < 1 {
		outFrames = 1
	}
	src := c.Buffer.Data
	data := make([]int, outFrames*ch)

	for j := range outFrames {
		pos := float64(j) * factor
		i0 := int(pos)
		if i0 >= frames-1 {
			copy(data[j*ch:(j+1)*ch], src[(frames-1)*ch:frames*ch])
			continue
		}
		frac := pos - float64(i0)
		for k := range ch {
			a := float64(src[i0*ch+k])
			b := float64(src[(i0+1)*ch+k])
			data[j*ch+k] = int(math.Round(a + (b-a)*frac))
		}
	}

	return c.derive(data), nil
}
