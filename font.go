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
	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

// glyph dimensions in pixels, before scaling
const (
	glyphWidth   = 4
	glyphAdvance = glyphWidth + 1
)

// DrawHex draws the hex digits in s with the CHIP-8 font, each font pixel
// scaled to a square of size scale. Any other character is left blank.
func DrawHex(r *sdl.Renderer, s string, x, y, scale int32) error {
	for _, c := range s {
		if digit, ok := hexDigit(c); ok {
			if err := drawGlyph(r, chip8.Glyph(digit), x, y, scale); err != nil {
				return err
			}
		}

		// advance
		x += glyphAdvance * scale
	}

	return nil
}

// drawGlyph fills a rect for every lit pixel of a font glyph.
func drawGlyph(r *sdl.Renderer, glyph []byte, x, y, scale int32) error {
	for row, bits := range glyph {
		for col := int32(0); col < glyphWidth; col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}

			rect := sdl.Rect{
				X: x + col*scale,
				Y: y + int32(row)*scale,
				W: scale,
				H: scale,
			}

			if err := r.FillRect(&rect); err != nil {
				return err
			}
		}
	}

	return nil
}

// hexDigit returns the value of a hex digit character.
func hexDigit(c rune) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), true
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, true
	case c >= 'a' && c <= 'f':
		return byte(c-'a') + 10, true
	}

	return 0, false
}
