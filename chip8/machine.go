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
	"context"
	"errors"
	"sync"
	"time"

	"github.com/retroenv/retrogolib/log"
)

// Config is the machine configuration.
type Config struct {
	// Title identifies the ROM to the renderer.
	Title string

	// TickRate is the period of the clock. Zero is 60 Hz.
	TickRate time.Duration

	// Quirks for the virtual machine.
	Quirks Quirks
}

// Renderer presents the display. Render is called once per clock tick from
// its own goroutine with a private copy of the framebuffer.
type Renderer interface {
	Render(title string, frame *Frame, status Status) error
}

// Key is a key event the machine cares about.
type Key int

const (
	// KeyNone means nothing was hit before the read timed out.
	KeyNone Key = iota

	// KeyQuit requests shutdown.
	KeyQuit
)

// Keyboard is a source of key events. ReadKey must return within a short
// time even if nothing was hit, so the worker can see shutdown.
type Keyboard interface {
	ReadKey() (Key, error)
}

// Machine runs a virtual machine against a clock, with optional renderer and
// keyboard workers.
type Machine struct {
	VM *CHIP_8

	config   Config
	logger   *log.Logger
	shutdown *Shutdown

	// first renderer or keyboard error
	errOnce sync.Once
	err     error
}

// NewMachine returns a machine with a fresh virtual machine.
func NewMachine(config Config, logger *log.Logger) *Machine {
	if config.TickRate <= 0 {
		config.TickRate = TickRate
	}

	return &Machine{
		VM:       New(config.Quirks),
		config:   config,
		logger:   logger,
		shutdown: NewShutdown(),
	}
}

// Title is the name the renderer shows for the ROM.
func (m *Machine) Title() string {
	return m.config.Title
}

// Stop raises the shutdown signal. It is safe to call from any goroutine,
// any number of times.
func (m *Machine) Stop() {
	m.shutdown.Send()
}

// Run the machine until it faults, is stopped, or ctx is cancelled. The
// engine executes one instruction per tick. All workers have exited by the
// time Run returns. A machine can only be run once.
func (m *Machine) Run(ctx context.Context, renderer Renderer, keyboard Keyboard) error {
	clock := NewClock(m.config.TickRate)

	// every consumer gets its own subscription
	engineTicks := clock.Subscribe()
	delayTicks := clock.Subscribe()
	soundTicks := clock.Subscribe()

	var frameTicks <-chan time.Time
	if renderer != nil {
		frameTicks = clock.Subscribe()
	}

	var wg sync.WaitGroup

	m.spawn(&wg, "clock", func() {
		clock.Run(m.shutdown)
	})

	m.spawn(&wg, "delay", func() {
		Countdown(m.VM.Delay, delayTicks, m.shutdown)
	})

	m.spawn(&wg, "sound", func() {
		Countdown(m.VM.Sound, soundTicks, m.shutdown)
	})

	if renderer != nil {
		m.spawn(&wg, "renderer", func() {
			m.render(renderer, frameTicks)
		})
	}

	if keyboard != nil {
		m.spawn(&wg, "keyboard", func() {
			m.poll(keyboard)
		})
	}

	m.spawn(&wg, "context", func() {
		select {
		case <-ctx.Done():
			m.shutdown.Send()
		case <-m.shutdown.Done():
		}
	})

	err := m.execute(engineTicks)

	// wake up and join everyone
	m.shutdown.Send()
	wg.Wait()

	if err != nil {
		var fault *Fault

		if errors.As(err, &fault) {
			m.logger.Debug("Engine faulted",
				log.Hex("pc", fault.Address),
				log.Hex("opcode", fault.Opcode))
		}

		return err
	}

	return m.err
}

// spawn a worker goroutine.
func (m *Machine) spawn(wg *sync.WaitGroup, name string, worker func()) {
	wg.Add(1)

	go func() {
		defer wg.Done()

		worker()

		m.logger.Debug("Worker stopped", log.String("worker", name))
	}()
}

// fail records the first worker error and shuts the machine down.
func (m *Machine) fail(err error) {
	m.errOnce.Do(func() {
		m.err = err
	})

	m.shutdown.Send()
}

// execute a single instruction per tick until shutdown or a fault.
func (m *Machine) execute(ticks <-chan time.Time) error {
	for !m.shutdown.Received() {
		select {
		case <-m.shutdown.Done():
			return nil
		case _, ok := <-ticks:
			if !ok {
				return nil
			}

			if err := m.VM.Step(); err != nil {
				return err
			}
		}
	}

	return nil
}

// render a snapshot of the display each tick.
func (m *Machine) render(renderer Renderer, ticks <-chan time.Time) {
	for !m.shutdown.Received() {
		select {
		case <-m.shutdown.Done():
			return
		case _, ok := <-ticks:
			if !ok {
				return
			}

			frame := m.VM.Display.Snapshot()

			if err := renderer.Render(m.config.Title, &frame, m.VM.Status()); err != nil {
				m.fail(err)
				return
			}
		}
	}
}

// poll the keyboard for a quit request.
func (m *Machine) poll(keyboard Keyboard) {
	for !m.shutdown.Received() {
		key, err := keyboard.ReadKey()
		if err != nil {
			m.fail(err)
			return
		}

		if key == KeyQuit {
			m.logger.Debug("Quit requested")
			m.shutdown.Send()
			return
		}
	}
}
