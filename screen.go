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
	"fmt"

	"github.com/massung/chip8vm/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	// pixel scale of the CHIP-8 screen in the window
	screenScale = 5

	// size of the window
	windowWidth  = 550
	windowHeight = 178

	// register panel layout
	panelRows  = 7
	panelScale = 2
)

// Window is the SDL frontend. Every SDL call is made on the main thread with
// sdl.Do, so Render and ReadKey can be called from worker goroutines.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer

	// screen is the render target for the CHIP-8 display.
	screen *sdl.Texture

	title string
}

// OpenWindow creates the window and renderer. It must be called from inside
// sdl.Main.
func OpenWindow(title string) (w *Window, err error) {
	w = &Window{}

	sdl.Do(func() {
		err = w.open(title)
	})

	if err != nil {
		w.Close()

		return nil, err
	}

	return w, nil
}

func (w *Window) open(title string) error {
	var err error

	if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing sdl: %w", err)
	}

	w.window, err = sdl.CreateWindow(windowTitle(title),
		int32(sdl.WINDOWPOS_CENTERED), int32(sdl.WINDOWPOS_CENTERED),
		windowWidth, windowHeight,
		uint32(sdl.WINDOW_SHOWN))
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}

	w.renderer, err = sdl.CreateRenderer(w.window, -1, uint32(sdl.RENDERER_ACCELERATED))
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	// create a render target for the display
	w.screen, err = w.renderer.CreateTexture(uint32(sdl.PIXELFORMAT_RGB888), int(sdl.TEXTUREACCESS_TARGET), chip8.Width, chip8.Height)
	if err != nil {
		return fmt.Errorf("creating screen texture: %w", err)
	}

	w.title = title

	return nil
}

// Render draws the display and the register panel.
func (w *Window) Render(title string, frame *chip8.Frame, status chip8.Status) (err error) {
	sdl.Do(func() {
		err = w.render(title, frame, status)
	})

	return err
}

func (w *Window) render(title string, frame *chip8.Frame, status chip8.Status) error {
	if title != w.title {
		w.window.SetTitle(windowTitle(title))
		w.title = title
	}

	if err := w.renderer.SetDrawColor(32, 42, 53, 255); err != nil {
		return err
	}

	if err := w.renderer.Clear(); err != nil {
		return err
	}

	// frame various portions of the window
	w.bevel(8, 8, chip8.Width*screenScale+2, chip8.Height*screenScale+2)
	w.bevel(338, 8, 204, chip8.Height*screenScale+2)

	if err := w.refreshScreen(frame); err != nil {
		return err
	}

	dst := sdl.Rect{X: 9, Y: 9, W: chip8.Width * screenScale, H: chip8.Height * screenScale}

	if err := w.renderer.Copy(w.screen, nil, &dst); err != nil {
		return err
	}

	if err := w.drawRegisters(342, 14, status); err != nil {
		return err
	}

	w.renderer.Present()

	return nil
}

// refreshScreen redraws the screen texture from a frame.
func (w *Window) refreshScreen(frame *chip8.Frame) error {
	if err := w.renderer.SetRenderTarget(w.screen); err != nil {
		return err
	}

	// restore the render target
	defer w.renderer.SetRenderTarget(nil)

	// the background color for the screen
	w.renderer.SetDrawColor(143, 145, 133, 255)
	w.renderer.Clear()

	// set the pixel color
	w.renderer.SetDrawColor(17, 29, 43, 255)

	for y := 0; y < chip8.Height; y++ {
		for x := 0; x < chip8.Width; x++ {
			if frame.Pixel(x, y) {
				if err := w.renderer.DrawPoint(int32(x), int32(y)); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// drawRegisters shows the register values in columns, V0 through VF first,
// followed by PC, I, SP, DT and ST.
func (w *Window) drawRegisters(x, y int32, status chip8.Status) error {
	w.renderer.SetDrawColor(196, 200, 180, 255)

	colWidth := int32(glyphAdvance * panelScale * 6)
	rowHeight := int32(chip8.GlyphSize*panelScale + 6)

	for i, reg := range Registers(status) {
		col, row := int32(i/panelRows), int32(i%panelRows)

		if err := DrawHex(w.renderer, reg[1], x+col*colWidth, y+row*rowHeight, panelScale); err != nil {
			return err
		}
	}

	return nil
}

// bevel draws a sunken frame around a region.
func (w *Window) bevel(x, y, width, height int32) {
	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.DrawLine(x, y, x+width, y)
	w.renderer.DrawLine(x, y, x, y+height)

	// highlight
	w.renderer.SetDrawColor(95, 112, 120, 255)
	w.renderer.DrawLine(x+width, y, x+width, y+height)
	w.renderer.DrawLine(x, y+height, x+width, y+height)
}

// Close destroys the window and shuts down SDL.
func (w *Window) Close() error {
	var err error

	sdl.Do(func() {
		if w.screen != nil {
			err = w.screen.Destroy()
		}

		if w.renderer != nil {
			w.renderer.Destroy()
		}

		if w.window != nil {
			if destroyErr := w.window.Destroy(); err == nil {
				err = destroyErr
			}
		}

		sdl.Quit()
	})

	return err
}

func windowTitle(title string) string {
	return fmt.Sprintf("CHIP-8 - %s", title)
}
