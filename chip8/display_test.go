package chip8

import (
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDisplayDraw(t *testing.T) {
	d := NewDisplay()

	assert.False(t, d.Draw(0, 0, []byte{0xA0}))

	frame := d.Snapshot()
	assert.True(t, frame.Pixel(0, 0))
	assert.False(t, frame.Pixel(1, 0))
	assert.True(t, frame.Pixel(2, 0))

	// turning off any lit pixel collides
	assert.True(t, d.Draw(1, 0, []byte{0xC0}))

	frame = d.Snapshot()
	assert.True(t, frame.Pixel(0, 0))
	assert.False(t, frame.Pixel(2, 0))
	assert.True(t, frame.Pixel(1, 0))

	d.Clear()
	assert.Equal(t, Frame{}, d.Snapshot())
}

func TestDisplaySnapshotIsCopy(t *testing.T) {
	d := NewDisplay()

	frame := d.Snapshot()
	d.Draw(0, 0, []byte{0x80})

	assert.False(t, frame.Pixel(0, 0))
}

func TestFrameString(t *testing.T) {
	d := NewDisplay()
	d.Draw(Width-1, Height-1, []byte{0xC0})

	frame := d.Snapshot()
	rows := strings.Split(strings.TrimSuffix(frame.String(), "\n"), "\n")

	assert.Equal(t, Height, len(rows))
	assert.Equal(t, "#"+strings.Repeat(".", Width-2)+"#", rows[Height-1])
	assert.Equal(t, strings.Repeat(".", Width), rows[0])
}

func TestDisplayConcurrentSnapshots(t *testing.T) {
	d := NewDisplay()
	done := make(chan struct{})

	go func() {
		defer close(done)

		for i := 0; i < 1000; i++ {
			d.Draw(0, 0, []byte{0xFF, 0xFF})
		}
	}()

	// a sprite is always either fully drawn or not drawn at all
	for i := 0; i < 1000; i++ {
		frame := d.Snapshot()
		lit := 0

		for x := 0; x < 8; x++ {
			for y := 0; y < 2; y++ {
				if frame.Pixel(x, y) {
					lit++
				}
			}
		}

		assert.True(t, lit == 0 || lit == 16)
	}

	<-done
}
