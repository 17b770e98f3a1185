package model

// Input is anything a Binding can be attached to: the buttons plus the eight
// digital directions of the two analog sticks.
type Input uint8

const (
	LeftAnalogUp Input = Input(ButtonCount) + iota
	LeftAnalogDown
	LeftAnalogLeft
	LeftAnalogRight
	RightAnalogUp
	RightAnalogDown
	RightAnalogLeft
	RightAnalogRight

	InputCount
)

var stickInputNames = [...]string{
	"left_analog_up", "left_analog_down", "left_analog_left", "left_analog_right",
	"right_analog_up", "right_analog_down", "right_analog_left", "right_analog_right",
}

func ButtonInput(b Button) Input {
	return Input(b)
}

// Button returns the button behind the input, false for stick directions.
func (i Input) Button() (Button, bool) {
	if i < Input(ButtonCount) {
		return Button(i), true
	}

	return 0, false
}

// HasHotkeyVariant reports whether the input has a *_hk binding used while the
// hotkey is held.
func (i Input) HasHotkeyVariant() bool {
	b, ok := i.Button()
	if !ok {
		return false
	}

	switch b {
	case A, B, X, Y, L1, L2, R1, R2:
		return true
	default:
		return false
	}
}

func (i Input) String() string {
	if b, ok := i.Button(); ok {
		return b.String()
	}

	if i < InputCount {
		return stickInputNames[i-LeftAnalogUp]
	}

	return "unknown"
}

func ParseInput(name string) (Input, bool) {
	if b, ok := ParseButton(name); ok {
		return ButtonInput(b), true
	}

	for i, n := range stickInputNames {
		if n == name {
			return LeftAnalogUp + Input(i), true
		}
	}

	return 0, false
}

// Binding is what a single input emits.
type Binding struct {
	Key       KeyCode
	Modifiers []KeyCode
	Repeat    bool

	// Hotkey variant, used when the input is pressed while the hotkey is held.
	HotkeyKey       KeyCode
	HotkeyModifiers []KeyCode
}

// Bindings holds one Binding per input.
type Bindings [InputCount]Binding
