package model

// Event is anything a controller source delivers.
type Event interface {
	event()
}

type ButtonEvent struct {
	Device  DeviceID
	Button  Button
	Pressed bool
}

type AxisEvent struct {
	Device DeviceID
	Axis   Axis
	Value  int
}

type DeviceEvent struct {
	Device DeviceID
	Added  bool
	Name   string
}

type QuitEvent struct{}

func (ButtonEvent) event() {}
func (AxisEvent) event()   {}
func (DeviceEvent) event() {}
func (QuitEvent) event()   {}
