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
)

// Shutdown is a broadcast, cooperative cancellation signal. Once sent it
// stays sent: every worker that checks it afterwards sees it, no matter how
// many others already have. Sending more than once is harmless.
type Shutdown struct {
	once sync.Once
	done chan struct{}
}

// NewShutdown returns a signal that hasn't been sent.
func NewShutdown() *Shutdown {
	return &Shutdown{done: make(chan struct{})}
}

// Send raises the signal.
func (s *Shutdown) Send() {
	s.once.Do(func() {
		close(s.done)
	})
}

// Received returns true once the signal has been sent. It never blocks.
func (s *Shutdown) Received() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Done returns a channel that is closed when the signal is sent, for use in
// select statements.
func (s *Shutdown) Done() <-chan struct{} {
	return s.done
}
