// Package output holds the emulated devices events are injected into.
package output

import "github.com/dasdy/padkeys/model"

// Sink is an emulated keyboard and mouse.
type Sink interface {
	// Key presses or releases code. Modifiers are pressed before the key and
	// released after it. NoKey is ignored.
	Key(code model.KeyCode, pressed bool, mods ...model.KeyCode) error
	// Move emits relative pointer motion.
	Move(dx, dy int) error
	Close() error
}

// Pad is an emulated gamepad.
type Pad interface {
	Button(b model.Button, pressed bool) error
	// Axis sets a stick axis to a raw sample in [-AxisMax, AxisMax].
	Axis(a model.Axis, value int) error
	Close() error
}
