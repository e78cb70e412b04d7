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

package main

import (
	"time"

	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// eventPoll is how often ReadKey checks the SDL event queue.
const eventPoll = 10 * time.Millisecond

// ReadKey processes pending SDL events. Closing the window or hitting
// Escape quits.
func (w *Window) ReadKey() (chip8.Key, error) {
	key := chip8.KeyNone

	sdl.Do(func() {
		for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
			switch ev := e.(type) {
			case *sdl.QuitEvent:
				key = chip8.KeyQuit
			case *sdl.KeyboardEvent:
				if ev.Type == sdl.KEYDOWN && ev.Keysym.Scancode == sdl.SCANCODE_ESCAPE {
					key = chip8.KeyQuit
				}
			}
		}
	})

	if key == chip8.KeyNone {
		time.Sleep(eventPoll)
	}

	return key, nil
}
