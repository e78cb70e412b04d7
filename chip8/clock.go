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
	"sync"
	"time"
)

// TickRate is the rate of the delay and sound counters, and the rate the
// machine steps and refreshes the display at.
const TickRate = time.Second / 60

// Clock is a free-running tick source. Every subscriber gets every tick.
type Clock struct {
	rate time.Duration

	mu   sync.Mutex
	subs []chan time.Time
}

// NewClock returns a clock that ticks once per rate.
func NewClock(rate time.Duration) *Clock {
	if rate <= 0 {
		rate = TickRate
	}

	return &Clock{rate: rate}
}

// Subscribe returns a new channel that receives each tick. The channel is
// closed when the clock stops. Subscribe before calling Run.
func (c *Clock) Subscribe() <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	c.subs = append(c.subs, ch)

	return ch
}

// Run ticks until shutdown is received. A slow subscriber holds up the tick
// rather than missing it.
func (c *Clock) Run(shutdown *Shutdown) {
	ticker := time.NewTicker(c.rate)
	defer ticker.Stop()

	c.mu.Lock()
	subs := c.subs
	c.mu.Unlock()

	// closing lets blocked consumers drop out
	defer func() {
		for _, ch := range subs {
			close(ch)
		}
	}()

	for !shutdown.Received() {
		select {
		case <-shutdown.Done():
			return
		case now := <-ticker.C:
			for _, ch := range subs {
				select {
				case ch <- now:
				case <-shutdown.Done():
					return
				}
			}
		}
	}
}

// Countdown drains a counter by one for each tick received, until shutdown
// or the clock stops.
func Countdown(counter *Counter, ticks <-chan time.Time, shutdown *Shutdown) {
	for !shutdown.Received() {
		select {
		case <-shutdown.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}

			counter.Tick()
		}
	}
}
