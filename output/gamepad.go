package output

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/bendahl/uinput"
	"github.com/dasdy/padkeys/model"
)

const (
	DefaultGamepadName = "Microsoft X-Box 360 pad"
	UinputPath         = "/dev/uinput"

	xbox360Vendor  = 0x045e
	xbox360Product = 0x028e
)

// The xpad driver reports X as BTN_X (north) and Y as BTN_Y (west).
var padButtons = map[model.Button]int{
	model.A:     uinput.ButtonSouth,
	model.B:     uinput.ButtonEast,
	model.X:     uinput.ButtonNorth,
	model.Y:     uinput.ButtonWest,
	model.L1:    uinput.ButtonBumperLeft,
	model.R1:    uinput.ButtonBumperRight,
	model.L2:    uinput.ButtonTriggerLeft,
	model.R2:    uinput.ButtonTriggerRight,
	model.L3:    uinput.ButtonThumbLeft,
	model.R3:    uinput.ButtonThumbRight,
	model.Start: uinput.ButtonStart,
	model.Back:  uinput.ButtonSelect,
	model.Guide: uinput.ButtonMode,
	model.Up:    uinput.ButtonDpadUp,
	model.Down:  uinput.ButtonDpadDown,
	model.Left:  uinput.ButtonDpadLeft,
	model.Right: uinput.ButtonDpadRight,
}

// Gamepad is a uinput gamepad that presents itself as an Xbox 360 pad.
type Gamepad struct {
	pad  uinput.Gamepad
	lock sync.Mutex
	axes [model.AxisCount]int
}

func NewGamepad(name string) (*Gamepad, error) {
	if name == "" {
		name = DefaultGamepadName
	}

	pad, err := uinput.CreateGamepad(UinputPath, []byte(name), xbox360Vendor, xbox360Product)
	if err != nil {
		return nil, fmt.Errorf("could not create uinput gamepad %q: %w", name, err)
	}

	slog.Info("Created virtual gamepad", "name", name)

	return &Gamepad{pad: pad}, nil
}

func (g *Gamepad) Button(b model.Button, pressed bool) error {
	code, ok := padButtons[b]
	if !ok {
		return nil
	}

	g.lock.Lock()
	defer g.lock.Unlock()

	var err error
	if pressed {
		err = g.pad.ButtonDown(code)
	} else {
		err = g.pad.ButtonUp(code)
	}

	if err != nil {
		return fmt.Errorf("could not set gamepad button %s: %w", b, err)
	}

	return nil
}

// Axis moves a stick. Trigger axes are reported as buttons by the caller and ignored here.
func (g *Gamepad) Axis(a model.Axis, value int) error {
	g.lock.Lock()
	defer g.lock.Unlock()

	var err error

	switch a {
	case model.LeftX, model.LeftY:
		g.axes[a] = value
		err = g.pad.LeftStickMove(StickValue(g.axes[model.LeftX]), StickValue(g.axes[model.LeftY]))
	case model.RightX, model.RightY:
		g.axes[a] = value
		err = g.pad.RightStickMove(StickValue(g.axes[model.RightX]), StickValue(g.axes[model.RightY]))
	default:
		return nil
	}

	if err != nil {
		return fmt.Errorf("could not move gamepad axis %s: %w", a, err)
	}

	return nil
}

func (g *Gamepad) Close() error {
	if err := g.pad.Close(); err != nil {
		return fmt.Errorf("could not close virtual gamepad: %w", err)
	}

	return nil
}

// StickValue converts a raw sample to the [-1, 1] range uinput expects.
func StickValue(raw int) float32 {
	v := float32(raw) / model.AxisMax
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
