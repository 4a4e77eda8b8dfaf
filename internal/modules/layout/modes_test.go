package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModesRadioPair(t *testing.T) {
	var m Modes

	m.ToggleDrag()
	assert.True(t, m.Drag)
	assert.False(t, m.Resize)

	m.ToggleResize()
	assert.True(t, m.Resize)
	assert.False(t, m.Drag, "enabling resize disables drag")

	m.ToggleDrag()
	assert.True(t, m.Drag)
	assert.False(t, m.Resize, "enabling drag disables resize")

	m.ToggleDrag()
	assert.False(t, m.Drag)
	assert.False(t, m.Resize)
}

func TestModesNormalize(t *testing.T) {
	m := Modes{Edit: true, Drag: true, Resize: true}.Normalize()
	assert.False(t, m.Drag)
	assert.True(t, m.Resize)
}

func TestModesGates(t *testing.T) {
	assert.False(t, Modes{Drag: true}.CanDrag(), "drag toggle alone is inert")
	assert.False(t, Modes{Resize: true}.CanResize())
	assert.True(t, Modes{Edit: true, Drag: true}.CanDrag())
	assert.True(t, Modes{Edit: true, Resize: true}.CanResize())
	assert.False(t, Modes{Edit: true}.CanDrag())
}
