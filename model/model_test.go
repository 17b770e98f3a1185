package model_test

import (
	"testing"

	"github.com/dasdy/padkeys/model"
	"github.com/stretchr/testify/assert"
)

func TestButtonState(t *testing.T) {
	t.Run("set and clear", func(t *testing.T) {
		var s model.ButtonState

		s.Set(model.Up, true)
		s.Set(model.A, true)
		assert.True(t, s.Has(model.Up))
		assert.True(t, s.Any(model.DPad))

		s.Set(model.Up, false)
		assert.False(t, s.Has(model.Up))
		assert.False(t, s.Any(model.DPad))
		assert.True(t, s.Has(model.A))
	})

	t.Run("clearing an unset button is harmless", func(t *testing.T) {
		var s model.ButtonState

		s.Set(model.Guide, false)
		assert.Equal(t, model.NoButtons, s)
	})
}

func TestParseInput(t *testing.T) {
	testCases := []struct {
		name     string
		expected model.Input
		ok       bool
	}{
		{"a", model.ButtonInput(model.A), true},
		{"guide", model.ButtonInput(model.Guide), true},
		{"L1", model.ButtonInput(model.L1), true},
		{"left_analog_up", model.LeftAnalogUp, true},
		{"right_analog_right", model.RightAnalogRight, true},
		{"trigger", 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			in, ok := model.ParseInput(tc.name)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, in)
		})
	}
}

func TestInputString(t *testing.T) {
	assert.Equal(t, "r2", model.ButtonInput(model.R2).String())
	assert.Equal(t, "right_analog_down", model.RightAnalogDown.String())

	_, ok := model.RightAnalogDown.Button()
	assert.False(t, ok)
}

func TestHasHotkeyVariant(t *testing.T) {
	for _, b := range []model.Button{model.A, model.B, model.X, model.Y, model.L1, model.L2, model.R1, model.R2} {
		assert.True(t, model.ButtonInput(b).HasHotkeyVariant(), b.String())
	}

	for _, in := range []model.Input{
		model.ButtonInput(model.Start),
		model.ButtonInput(model.L3),
		model.ButtonInput(model.Up),
		model.LeftAnalogUp,
	} {
		assert.False(t, in.HasHotkeyVariant(), in.String())
	}
}
