/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

import (
	"strings"
	"sync"
)

const (
	// Width of the display in pixels.
	Width = 64

	// Height of the display in pixels.
	Height = 32
)

// Frame is a copy of the display, row-major, indexed x + y*Width.
type Frame [Width * Height]bool

// Pixel returns the pixel at x, y. Coordinates wrap.
func (f *Frame) Pixel(x, y int) bool {
	return f[x%Width+(y%Height)*Width]
}

// String renders the frame as rows of '#' and '.', mostly for tests.
func (f *Frame) String() string {
	var s strings.Builder

	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			if f[x+y*Width] {
				s.WriteByte('#')
			} else {
				s.WriteByte('.')
			}
		}

		s.WriteByte('\n')
	}

	return s.String()
}

// Display is the monochrome framebuffer. The engine holds the write lock for
// the whole sprite blit, and renderers take a snapshot under the read lock,
// so a half drawn sprite is never seen.
type Display struct {
	mu  sync.RWMutex
	buf Frame
}

// NewDisplay returns a cleared display.
func NewDisplay() *Display {
	return &Display{}
}

// Clear turns off every pixel.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.buf = Frame{}
}

// Draw XORs an 8 pixel wide sprite onto the display at x, y. Every pixel
// wraps around the edges. Returns true if any lit pixel was turned off.
func (d *Display) Draw(x, y int, sprite []byte) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	collision := false

	for row, b := range sprite {
		py := (y + row) % Height

		for bit := 0; bit < 8; bit++ {
			if b&(0x80>>uint(bit)) == 0 {
				continue
			}

			// wrapped target pixel
			i := (x+bit)%Width + py*Width

			if d.buf[i] {
				collision = true
			}

			d.buf[i] = !d.buf[i]
		}
	}

	return collision
}

// Snapshot returns a copy of the display.
func (d *Display) Snapshot() Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.buf
}
