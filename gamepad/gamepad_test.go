package gamepad_test

import (
	"context"
	"testing"

	"github.com/dasdy/padkeys/gamepad"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
	"github.com/stretchr/testify/assert"
)

func newPassthrough(kill bool) (*gamepad.Passthrough, *output.PadRecorder) {
	pad := output.NewPadRecorder()
	p := gamepad.New(context.Background(), gamepad.Options{
		Hotkeys:         model.Guide.Mask(),
		Kill:            kill,
		TriggerDeadzone: 3000,
	}, pad)

	return p, pad
}

func TestButtonsPassThrough(t *testing.T) {
	p, pad := newPassthrough(false)

	p.HandleButton(model.ButtonEvent{Device: 1, Button: model.A, Pressed: true})
	p.HandleButton(model.ButtonEvent{Device: 1, Button: model.A})

	assert.Equal(t, []output.PadButton{
		{Button: model.A, Pressed: true},
		{Button: model.A, Pressed: false},
	}, pad.Buttons())
}

func TestAxes(t *testing.T) {
	p, pad := newPassthrough(false)

	p.HandleAxis(model.AxisEvent{Axis: model.LeftX, Value: -1200})
	p.HandleAxis(model.AxisEvent{Axis: model.RightY, Value: 32767})

	assert.Equal(t, []output.PadAxis{
		{Axis: model.LeftX, Value: -1200},
		{Axis: model.RightY, Value: 32767},
	}, pad.Axes())
}

func TestTriggersBecomeButtons(t *testing.T) {
	p, pad := newPassthrough(false)

	for _, v := range []int{1000, 4000, 20000, 3000, 0} {
		p.HandleAxis(model.AxisEvent{Axis: model.TriggerRight, Value: v})
	}

	assert.Equal(t, []output.PadButton{
		{Button: model.R2, Pressed: true},
		{Button: model.R2, Pressed: false},
	}, pad.Buttons())
	assert.Empty(t, pad.Axes())
}

func TestKillCombo(t *testing.T) {
	testCases := []struct {
		name     string
		kill     bool
		startDev model.DeviceID
		expected bool
	}{
		{"same device", true, 1, true},
		{"other device", true, 2, false},
		{"kill disabled", false, 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, _ := newPassthrough(tc.kill)

			assert.False(t, p.HandleButton(model.ButtonEvent{Device: 1, Button: model.Guide, Pressed: true}))
			assert.Equal(t, tc.expected, p.HandleButton(model.ButtonEvent{Device: tc.startDev, Button: model.Start, Pressed: true}))
		})
	}

	t.Run("released hotkey does not count", func(t *testing.T) {
		p, _ := newPassthrough(true)

		p.HandleButton(model.ButtonEvent{Device: 1, Button: model.Guide, Pressed: true})
		p.HandleButton(model.ButtonEvent{Device: 1, Button: model.Guide})

		assert.False(t, p.HandleButton(model.ButtonEvent{Device: 1, Button: model.Start, Pressed: true}))
	})
}
