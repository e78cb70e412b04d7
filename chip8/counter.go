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
	"sync/atomic"
)

// Counter is an 8-bit timer register shared between the engine, which sets
// and reads it, and a countdown worker, which drains it at 60 Hz.
type Counter struct {
	v atomic.Uint32
}

// Load returns the current value of the counter.
func (c *Counter) Load() byte {
	return byte(c.v.Load())
}

// Store sets the counter.
func (c *Counter) Store(b byte) {
	c.v.Store(uint32(b))
}

// Tick decrements the counter by one unless it is already zero. A store from
// the engine racing with the decrement is never lost or double counted.
func (c *Counter) Tick() {
	for {
		n := c.v.Load()
		if n == 0 {
			return
		}

		if c.v.CompareAndSwap(n, n-1) {
			return
		}
	}
}
