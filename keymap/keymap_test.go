package keymap_test

import (
	"testing"

	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	testCases := []struct {
		name     string
		expected model.KeyCode
	}{
		{"esc", model.KeyCode(evdev.KEY_ESC)},
		{"enter", keymap.Enter},
		{"mouse_left", keymap.MouseLeft},
		{"leftshift", keymap.LeftShift},
		{"f10", model.KeyCode(evdev.KEY_F10)},
		{"x", model.KeyCode(evdev.KEY_X)},
		{"7", model.KeyCode(evdev.KEY_7)},
		{"@", model.KeyCode(evdev.KEY_2)},
		{"_", model.KeyCode(evdev.KEY_MINUS)},
		{"ESC", model.KeyCode(evdev.KEY_ESC)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, ok := keymap.Lookup(tc.name)

			require.True(t, ok)
			assert.Equal(t, tc.expected, code)
		})
	}

	t.Run("unknown name", func(t *testing.T) {
		code, ok := keymap.Lookup("hyper")

		assert.False(t, ok)
		assert.Equal(t, model.NoKey, code)
	})

	t.Run("empty name", func(t *testing.T) {
		_, ok := keymap.Lookup("")

		assert.False(t, ok)
	})
}

func TestChar(t *testing.T) {
	testCases := []struct {
		r        rune
		expected keymap.Stroke
	}{
		{'a', keymap.Stroke{Code: model.KeyCode(evdev.KEY_A)}},
		{'Q', keymap.Stroke{Code: model.KeyCode(evdev.KEY_Q), Shift: true}},
		{'1', keymap.Stroke{Code: model.KeyCode(evdev.KEY_1)}},
		{'!', keymap.Stroke{Code: model.KeyCode(evdev.KEY_1), Shift: true}},
		{' ', keymap.Stroke{Code: keymap.Space}},
		{'?', keymap.Stroke{Code: model.KeyCode(evdev.KEY_SLASH), Shift: true}},
		{'.', keymap.Stroke{Code: model.KeyCode(evdev.KEY_DOT)}},
	}

	for _, tc := range testCases {
		t.Run(string(tc.r), func(t *testing.T) {
			s, ok := keymap.Char(tc.r)

			require.True(t, ok)
			assert.Equal(t, tc.expected, s)
		})
	}

	_, ok := keymap.Char('€')
	assert.False(t, ok)
}

func TestNamesSorted(t *testing.T) {
	names := keymap.Names()

	assert.Contains(t, names, "pagedown")
	assert.IsNonDecreasing(t, names)
}
