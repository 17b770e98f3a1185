package controller_test

import (
	"testing"

	"github.com/dasdy/padkeys/controller"
	"github.com/dasdy/padkeys/model"
	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	testCases := []struct {
		name     string
		in       sdl.Event
		expected model.Event
	}{
		{
			"button press",
			&sdl.ControllerButtonEvent{Which: 3, Button: uint8(sdl.CONTROLLER_BUTTON_LEFTSHOULDER), State: uint8(sdl.PRESSED)},
			model.ButtonEvent{Device: 3, Button: model.L1, Pressed: true},
		},
		{
			"button release",
			&sdl.ControllerButtonEvent{Which: 1, Button: uint8(sdl.CONTROLLER_BUTTON_GUIDE), State: uint8(sdl.RELEASED)},
			model.ButtonEvent{Device: 1, Button: model.Guide},
		},
		{
			"dpad",
			&sdl.ControllerButtonEvent{Button: uint8(sdl.CONTROLLER_BUTTON_DPAD_LEFT), State: uint8(sdl.PRESSED)},
			model.ButtonEvent{Button: model.Left, Pressed: true},
		},
		{
			"axis",
			&sdl.ControllerAxisEvent{Which: 2, Axis: uint8(sdl.CONTROLLER_AXIS_RIGHTY), Value: -32768},
			model.AxisEvent{Device: 2, Axis: model.RightY, Value: -32768},
		},
		{
			"trigger",
			&sdl.ControllerAxisEvent{Axis: uint8(sdl.CONTROLLER_AXIS_TRIGGERLEFT), Value: 32767},
			model.AxisEvent{Axis: model.TriggerLeft, Value: 32767},
		},
		{"quit", &sdl.QuitEvent{}, model.QuitEvent{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, ok := controller.Translate(tc.in)

			assert.True(t, ok)
			assert.Equal(t, tc.expected, out)
		})
	}
}

func TestTranslateDrops(t *testing.T) {
	for _, ev := range []sdl.Event{
		&sdl.ControllerButtonEvent{Button: 200},
		&sdl.ControllerAxisEvent{Axis: 99},
		&sdl.KeyboardEvent{},
	} {
		out, ok := controller.Translate(ev)

		assert.False(t, ok)
		assert.Nil(t, out)
	}
}
