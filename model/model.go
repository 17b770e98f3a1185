package model

import "strings"

// Button is a logical controller button. Values double as bit positions in ButtonState.
type Button uint8

const (
	A Button = iota
	B
	X
	Y
	R1
	R2
	R3
	L1
	L2
	L3
	Up
	Down
	Left
	Right
	Start
	Back
	Guide

	ButtonCount
)

var buttonNames = [ButtonCount]string{
	A: "a", B: "b", X: "x", Y: "y",
	R1: "r1", R2: "r2", R3: "r3",
	L1: "l1", L2: "l2", L3: "l3",
	Up: "up", Down: "down", Left: "left", Right: "right",
	Start: "start", Back: "back", Guide: "guide",
}

func (b Button) String() string {
	if b < ButtonCount {
		return buttonNames[b]
	}

	return "unknown"
}

func (b Button) Mask() ButtonState {
	return 1 << b
}

// ParseButton resolves a button by the name used in config files and on the command line.
func ParseButton(name string) (Button, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range buttonNames {
		if n == name {
			return Button(i), true
		}
	}

	return 0, false
}

// ButtonState is the set of currently held buttons.
type ButtonState uint32

const (
	NoButtons ButtonState = 0
	DPad                  = ButtonState(1<<Up | 1<<Down | 1<<Left | 1<<Right)
)

func (s *ButtonState) Set(b Button, pressed bool) {
	if pressed {
		*s |= b.Mask()
	} else {
		*s &^= b.Mask()
	}
}

func (s ButtonState) Has(b Button) bool {
	return s&b.Mask() != 0
}

// Any reports whether at least one button of mask is held.
func (s ButtonState) Any(mask ButtonState) bool {
	return s&mask != 0
}

// Axis is an analog axis of the controller.
type Axis uint8

const (
	LeftX Axis = iota
	LeftY
	RightX
	RightY
	TriggerLeft
	TriggerRight

	AxisCount
)

func (a Axis) String() string {
	switch a {
	case LeftX:
		return "left_x"
	case LeftY:
		return "left_y"
	case RightX:
		return "right_x"
	case RightY:
		return "right_y"
	case TriggerLeft:
		return "trigger_left"
	case TriggerRight:
		return "trigger_right"
	default:
		return "unknown"
	}
}

// AxisMax is the nominal full-scale value of a raw axis sample.
const AxisMax = 32768

// DeviceID identifies the physical controller an event came from.
type DeviceID int32

// KeyCode is a Linux input event code (KEY_* or BTN_*). Zero means unbound.
type KeyCode uint16

const NoKey KeyCode = 0
