package chip8

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

// fakeRenderer counts frames and stops the machine after a number of them.
type fakeRenderer struct {
	machine *Machine
	stopAt  int
	err     error

	mu     sync.Mutex
	frames int
	title  string
	last   Frame
}

func (r *fakeRenderer) Render(title string, frame *Frame, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.frames++
	r.title = title
	r.last = *frame

	if r.err != nil {
		return r.err
	}

	if r.frames == r.stopAt {
		r.machine.Stop()
	}

	return nil
}

// fakeKeyboard returns KeyQuit after a number of reads.
type fakeKeyboard struct {
	quitAt int
	err    error
	reads  int
}

func (k *fakeKeyboard) ReadKey() (Key, error) {
	k.reads++

	if k.err != nil {
		return KeyNone, k.err
	}

	if k.reads == k.quitAt {
		return KeyQuit, nil
	}

	time.Sleep(time.Millisecond)

	return KeyNone, nil
}

func newTestMachine(t *testing.T, source string) *Machine {
	t.Helper()

	m := NewMachine(Config{Title: "TEST", TickRate: time.Millisecond}, log.NewTestLogger(t))

	asm, err := Assemble([]byte(source))
	assert.NoError(t, err)

	_, err = m.VM.LoadROM(bytes.NewReader(asm.ROM))
	assert.NoError(t, err)

	return m
}

func TestMachineRunsUntilStopped(t *testing.T) {
	m := newTestMachine(t, `
	LD  V0, 3
	LD  DT, V0
	LD  I, SPRITE
	DRW V1, V1, 1
LOOP:
	JP  LOOP
SPRITE:
	BYTE #80
`)

	renderer := &fakeRenderer{machine: m, stopAt: 12}

	err := m.Run(context.Background(), renderer, nil)
	assert.NoError(t, err)

	assert.Equal(t, 12, renderer.frames)
	assert.Equal(t, "TEST", renderer.title)

	// several instructions ran, and the delay counter drained
	status := m.VM.Status()
	assert.True(t, status.Cycles >= 4)
	assert.Equal(t, byte(0), m.VM.Delay.Load())
	assert.True(t, renderer.last.Pixel(0, 0))
}

func TestMachineFaultStopsEverything(t *testing.T) {
	m := newTestMachine(t, `
	LD   V0, 1
	WORD #00FF
	LD   V0, 2
`)

	renderer := &fakeRenderer{machine: m}
	keyboard := &fakeKeyboard{}

	err := m.Run(context.Background(), renderer, keyboard)

	var fault *Fault
	assert.True(t, errors.As(err, &fault))
	assert.Equal(t, uint16(0x202), fault.Address)
	assert.Equal(t, uint16(0x00FF), fault.Opcode)

	// nothing executed after the fault
	assert.Equal(t, byte(1), m.VM.V[0])
	assert.Equal(t, int64(1), m.VM.Cycles)
}

func TestMachineQuitKey(t *testing.T) {
	m := newTestMachine(t, `
LOOP:
	JP LOOP
`)

	err := m.Run(context.Background(), nil, &fakeKeyboard{quitAt: 5})
	assert.NoError(t, err)
}

func TestMachineKeyboardError(t *testing.T) {
	m := newTestMachine(t, `
LOOP:
	JP LOOP
`)

	readErr := errors.New("tty gone")

	err := m.Run(context.Background(), nil, &fakeKeyboard{err: readErr})
	assert.True(t, errors.Is(err, readErr))
}

func TestMachineRendererError(t *testing.T) {
	m := newTestMachine(t, `
LOOP:
	JP LOOP
`)

	renderErr := errors.New("window closed")

	err := m.Run(context.Background(), &fakeRenderer{machine: m, err: renderErr}, nil)
	assert.True(t, errors.Is(err, renderErr))
}

func TestMachineContextCancel(t *testing.T) {
	m := newTestMachine(t, `
LOOP:
	JP LOOP
`)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := m.Run(ctx, nil, nil)
	assert.NoError(t, err)
}

func TestMachineStopBeforeRun(t *testing.T) {
	m := newTestMachine(t, `
	LD V0, 1
`)

	m.Stop()
	m.Stop()

	err := m.Run(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), m.VM.Cycles)
}
