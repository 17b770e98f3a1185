package output

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
)

const (
	DefaultKeyboardName = "padkeys virtual keyboard"

	keyboardVendor  = 0x1234
	keyboardProduct = 0x5678
)

// EventWriter is the part of an evdev device the keyboard writes to.
type EventWriter interface {
	WriteOne(ev *evdev.InputEvent) error
	Close() error
}

// Keyboard is a uinput keyboard with two mouse buttons and relative motion.
type Keyboard struct {
	dev  EventWriter
	lock sync.Mutex
}

// NewKeyboard creates the uinput device. It needs write access to /dev/uinput.
func NewKeyboard(name string) (*Keyboard, error) {
	if name == "" {
		name = DefaultKeyboardName
	}

	keys := make([]evdev.EvCode, 0, 258)
	for c := range 256 {
		keys = append(keys, evdev.EvCode(c))
	}

	keys = append(keys, evdev.EvCode(evdev.BTN_LEFT), evdev.EvCode(evdev.BTN_RIGHT))

	dev, err := evdev.CreateDevice(name, evdev.InputID{
		BusType: evdev.BUS_USB,
		Vendor:  keyboardVendor,
		Product: keyboardProduct,
		Version: 1,
	}, map[evdev.EvType][]evdev.EvCode{
		evdev.EvType(evdev.EV_KEY): keys,
		evdev.EvType(evdev.EV_REL): {evdev.EvCode(evdev.REL_X), evdev.EvCode(evdev.REL_Y)},
	})
	if err != nil {
		return nil, fmt.Errorf("could not create uinput keyboard %q: %w", name, err)
	}

	slog.Info("Created virtual keyboard", "name", name)

	return NewKeyboardWith(dev), nil
}

// NewKeyboardWith wraps an already opened device.
func NewKeyboardWith(dev EventWriter) *Keyboard {
	return &Keyboard{dev: dev}
}

func (k *Keyboard) Key(code model.KeyCode, pressed bool, mods ...model.KeyCode) error {
	if code == model.NoKey {
		return nil
	}

	k.lock.Lock()
	defer k.lock.Unlock()

	if pressed {
		for _, m := range mods {
			if err := k.keyLocked(m, true); err != nil {
				return err
			}
		}

		return k.keyLocked(code, true)
	}

	if err := k.keyLocked(code, false); err != nil {
		return err
	}

	for i := len(mods) - 1; i >= 0; i-- {
		if err := k.keyLocked(mods[i], false); err != nil {
			return err
		}
	}

	return nil
}

func (k *Keyboard) Move(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}

	k.lock.Lock()
	defer k.lock.Unlock()

	if dx != 0 {
		if err := k.writeLocked(evdev.EV_REL, evdev.REL_X, int32(dx)); err != nil {
			return err
		}
	}

	if dy != 0 {
		if err := k.writeLocked(evdev.EV_REL, evdev.REL_Y, int32(dy)); err != nil {
			return err
		}
	}

	return k.syncLocked()
}

func (k *Keyboard) Close() error {
	k.lock.Lock()
	defer k.lock.Unlock()

	if err := k.dev.Close(); err != nil {
		return fmt.Errorf("could not close virtual keyboard: %w", err)
	}

	return nil
}

func (k *Keyboard) keyLocked(code model.KeyCode, pressed bool) error {
	if code == model.NoKey {
		return nil
	}

	var value int32
	if pressed {
		value = 1
	}

	if err := k.writeLocked(evdev.EV_KEY, evdev.EvCode(code), value); err != nil {
		return err
	}

	return k.syncLocked()
}

func (k *Keyboard) syncLocked() error {
	return k.writeLocked(evdev.EV_SYN, evdev.SYN_REPORT, 0)
}

func (k *Keyboard) writeLocked(typ evdev.EvType, code evdev.EvCode, value int32) error {
	err := k.dev.WriteOne(&evdev.InputEvent{Type: typ, Code: code, Value: value})
	if err != nil {
		return fmt.Errorf("could not write event type=%d code=%d: %w", typ, code, err)
	}

	return nil
}
