// Package config loads .gptk mapping files.
//
// A .gptk file is a list of "key = value" lines. A key may appear several times
// and every line is applied in order, so "a = x" followed by "a = add_ctrl"
// binds ctrl+x to A.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dasdy/padkeys/deadzone"
	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
)

const DefaultPath = "/emuelec/configs/gptokeyb/default.gptk"

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrUnknownKeyName = errors.New("unknown key name")
	ErrBadValue       = errors.New("bad value")
	ErrMalformedLine  = errors.New("malformed line")
)

type Config struct {
	Bindings model.Bindings

	DeadzoneMode deadzone.Mode
	// Deadzone is the stick threshold in raw units.
	Deadzone         int
	DeadzoneScale    int
	DeadzoneX        int
	DeadzoneY        int
	DeadzoneTriggers int

	DPadMouse       bool
	LeftStickMouse  bool
	RightStickMouse bool
	DPadMouseStep   int
	MouseSlow       model.ButtonState
	MouseSlowScale  int
	MouseScale      int
	MouseDelay      time.Duration

	RepeatDelay    time.Duration
	RepeatInterval time.Duration
	HotkeyDelay    time.Duration
}

const (
	defaultDeadzone       = 15000
	defaultTriggers       = 3000
	defaultScale          = 512
	defaultDPadMouseStep  = 5
	defaultMouseSlowScale = 50
	defaultMouseDelay     = 16 * time.Millisecond
	defaultRepeatDelay    = 500 * time.Millisecond
	defaultRepeatInterval = 60 * time.Millisecond
	defaultHotkeyDelay    = 16 * time.Millisecond
)

func key(c evdev.EvCode) model.KeyCode {
	return model.KeyCode(c)
}

func Default() *Config {
	c := &Config{
		DeadzoneMode:     deadzone.Default,
		Deadzone:         defaultDeadzone,
		DeadzoneScale:    defaultScale,
		DeadzoneX:        defaultDeadzone,
		DeadzoneY:        defaultDeadzone,
		DeadzoneTriggers: defaultTriggers,
		DPadMouseStep:    defaultDPadMouseStep,
		MouseSlowScale:   defaultMouseSlowScale,
		MouseScale:       defaultScale,
		MouseDelay:       defaultMouseDelay,
		RepeatDelay:      defaultRepeatDelay,
		RepeatInterval:   defaultRepeatInterval,
		HotkeyDelay:      defaultHotkeyDelay,
	}

	plain := map[model.Input]model.KeyCode{
		model.ButtonInput(model.Back):  key(evdev.KEY_ESC),
		model.ButtonInput(model.Start): key(evdev.KEY_ENTER),
		model.ButtonInput(model.Guide): key(evdev.KEY_ENTER),
		model.ButtonInput(model.L3):    key(evdev.BTN_LEFT),
		model.ButtonInput(model.R3):    key(evdev.BTN_RIGHT),
		model.ButtonInput(model.Up):    key(evdev.KEY_UP),
		model.ButtonInput(model.Down):  key(evdev.KEY_DOWN),
		model.ButtonInput(model.Left):  key(evdev.KEY_LEFT),
		model.ButtonInput(model.Right): key(evdev.KEY_RIGHT),
		model.LeftAnalogUp:             key(evdev.KEY_W),
		model.LeftAnalogDown:           key(evdev.KEY_S),
		model.LeftAnalogLeft:           key(evdev.KEY_A),
		model.LeftAnalogRight:          key(evdev.KEY_D),
		model.RightAnalogUp:            key(evdev.KEY_END),
		model.RightAnalogDown:          key(evdev.KEY_HOME),
		model.RightAnalogLeft:          key(evdev.KEY_LEFT),
		model.RightAnalogRight:         key(evdev.KEY_RIGHT),
	}

	for in, k := range plain {
		c.Bindings[in].Key = k
	}

	variants := map[model.Button][2]model.KeyCode{
		model.A:  {key(evdev.KEY_X), key(evdev.KEY_ENTER)},
		model.B:  {key(evdev.KEY_Z), key(evdev.KEY_ESC)},
		model.X:  {key(evdev.KEY_C), key(evdev.KEY_C)},
		model.Y:  {key(evdev.KEY_A), key(evdev.KEY_A)},
		model.L1: {key(evdev.KEY_RIGHTSHIFT), key(evdev.KEY_ESC)},
		model.L2: {key(evdev.KEY_HOME), key(evdev.KEY_HOME)},
		model.R1: {key(evdev.KEY_LEFTSHIFT), key(evdev.KEY_ENTER)},
		model.R2: {key(evdev.KEY_END), key(evdev.KEY_END)},
	}

	for b, k := range variants {
		in := model.ButtonInput(b)
		c.Bindings[in].Key = k[0]
		c.Bindings[in].HotkeyKey = k[1]
	}

	return c
}

// Load reads path on top of the defaults. A missing file only logs a warning.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file not found, using defaults", "path", path)

		return Default(), nil
	}

	if err != nil {
		return nil, fmt.Errorf("could not open config %s: %w", path, err)
	}
	defer f.Close()

	slog.Info("Using config file", "path", path)

	return Parse(f)
}

// Parse reads a .gptk file on top of the defaults. Lines that cannot be applied
// are logged and skipped.
func Parse(r io.Reader) (*Config, error) {
	c := Default()

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		name, value, ok, err := splitLine(scanner.Text())
		if err != nil {
			slog.Warn("Skipping config line", "line", lineNo, "text", scanner.Text(), "error", err)

			continue
		}

		if !ok {
			continue
		}

		if err := c.Apply(name, value); err != nil {
			if errors.Is(err, ErrUnknownSetting) {
				slog.Debug("Ignoring config line", "line", lineNo, "key", name)
			} else {
				slog.Warn("Skipping config line", "line", lineNo, "key", name, "value", value, "error", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	c.finish()

	return c, nil
}

// splitLine returns the key and the first token of the value. ok is false for
// blank lines and comments.
func splitLine(line string) (string, string, bool, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false, nil
	}

	name, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false, ErrMalformedLine
	}

	name = strings.TrimSpace(name)

	fields := strings.Fields(value)
	if name == "" || len(fields) == 0 {
		return "", "", false, ErrMalformedLine
	}

	return name, fields[0], true, nil
}

// Apply sets one key. The config is left unchanged on error, except that an
// unknown key name unbinds the input.
func (c *Config) Apply(name, value string) error {
	if in, hotkey, ok := parseBindingName(name); ok {
		return c.applyBinding(in, hotkey, value)
	}

	switch name {
	case "deadzone_mode":
		m, ok := deadzone.ParseMode(value)
		c.DeadzoneMode = m

		if !ok {
			return fmt.Errorf("%w: deadzone mode %q", ErrBadValue, value)
		}

		return nil
	case "deadzone":
		return setBounded(&c.Deadzone, value, 0, model.AxisMax)
	case "deadzone_scale":
		return setBounded(&c.DeadzoneScale, value, 1, math.MaxInt)
	case "deadzone_x":
		return setBounded(&c.DeadzoneX, value, 0, model.AxisMax)
	case "deadzone_y":
		return setBounded(&c.DeadzoneY, value, 0, model.AxisMax)
	case "deadzone_triggers":
		return setBounded(&c.DeadzoneTriggers, value, 0, model.AxisMax)
	case "dpad_mouse_step":
		return setBounded(&c.DPadMouseStep, value, 0, math.MaxInt)
	case "mouse_slow_scale":
		return setInt(&c.MouseSlowScale, value)
	case "mouse_scale":
		return setBounded(&c.MouseScale, value, 1, math.MaxInt)
	case "mouse_delay", "deadzone_delay":
		return setMillis(&c.MouseDelay, value)
	case "repeat_delay":
		return setMillis(&c.RepeatDelay, value)
	case "repeat_interval":
		return setMillis(&c.RepeatInterval, value)
	case "hotkey_delay":
		return setMillis(&c.HotkeyDelay, value)
	}

	return fmt.Errorf("%w: %s", ErrUnknownSetting, name)
}

func parseBindingName(name string) (model.Input, bool, bool) {
	if base, found := strings.CutSuffix(name, "_hk"); found {
		in, ok := model.ParseInput(base)
		if !ok || !in.HasHotkeyVariant() {
			return 0, false, false
		}

		return in, true, true
	}

	in, ok := model.ParseInput(name)

	return in, false, ok
}

var modifierValues = map[string]model.KeyCode{
	"add_alt":   keymap.LeftAlt,
	"add_ctrl":  keymap.LeftCtrl,
	"add_shift": keymap.LeftShift,
}

// mouseMovement maps the inputs accepting mouse_movement_up to the flag they set.
func (c *Config) mouseMovement(in model.Input) (*bool, bool) {
	switch in {
	case model.ButtonInput(model.Up):
		return &c.DPadMouse, true
	case model.LeftAnalogUp:
		return &c.LeftStickMouse, true
	case model.RightAnalogUp:
		return &c.RightStickMouse, true
	default:
		return nil, false
	}
}

func (c *Config) applyBinding(in model.Input, hotkey bool, value string) error {
	b := &c.Bindings[in]

	if mod, ok := modifierValues[value]; ok {
		if hotkey {
			b.HotkeyModifiers = addModifier(b.HotkeyModifiers, mod)
		} else {
			b.Modifiers = addModifier(b.Modifiers, mod)
		}

		return nil
	}

	switch value {
	case "repeat":
		if hotkey {
			return fmt.Errorf("%w: hotkey bindings do not repeat", ErrBadValue)
		}

		b.Repeat = true

		return nil
	case "mouse_slow":
		btn, _ := in.Button()
		if hotkey || !in.HasHotkeyVariant() {
			return fmt.Errorf("%w: mouse_slow is not available on %s", ErrBadValue, in)
		}

		b.Key = model.NoKey
		c.MouseSlow |= btn.Mask()

		return nil
	case "mouse_movement_up":
		flag, ok := c.mouseMovement(in)
		if hotkey || !ok {
			return fmt.Errorf("%w: mouse_movement_up is not available on %s", ErrBadValue, in)
		}

		*flag = true

		return nil
	}

	code, ok := keymap.Lookup(value)

	if hotkey {
		b.HotkeyKey = code
	} else {
		b.Key = code
	}

	if !ok {
		return fmt.Errorf("%w: %q, %s is unbound", ErrUnknownKeyName, value, in)
	}

	return nil
}

func addModifier(mods []model.KeyCode, mod model.KeyCode) []model.KeyCode {
	for _, m := range mods {
		if m == mod {
			return mods
		}
	}

	return append(mods, mod)
}

func setInt(dst *int, value string) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%w: %q is not a number", ErrBadValue, value)
	}

	*dst = v

	return nil
}

// setBounded rejects values outside [lo, hi] and leaves dst untouched.
func setBounded(dst *int, value string, lo, hi int) error {
	var v int
	if err := setInt(&v, value); err != nil {
		return err
	}

	if v < lo || v > hi {
		return fmt.Errorf("%w: %d outside [%d, %d]", ErrBadValue, v, lo, hi)
	}

	*dst = v

	return nil
}

func setMillis(dst *time.Duration, value string) error {
	var ms int
	if err := setInt(&ms, value); err != nil {
		return err
	}

	if ms < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrBadValue, ms)
	}

	*dst = time.Duration(ms) * time.Millisecond

	return nil
}

// finish applies the rules that depend on more than one line.
func (c *Config) finish() {
	if c.DPadMouse {
		for _, b := range []model.Button{model.Up, model.Down, model.Left, model.Right} {
			c.Bindings[model.ButtonInput(b)] = model.Binding{}
		}
	}

	c.MouseSlowScale = min(max(c.MouseSlowScale, 1), 100)

	if c.DeadzoneScale == 0 {
		c.DeadzoneScale = defaultScale
	}

	if c.MouseScale == 0 {
		c.MouseScale = defaultScale
	}

	if c.MouseDelay == 0 {
		c.MouseDelay = defaultMouseDelay
	}

	if c.RepeatInterval == 0 {
		c.RepeatInterval = defaultRepeatInterval
	}
}

// DeadzoneEngine builds the stick shaping for pointer emulation.
func (c *Config) DeadzoneEngine() deadzone.Engine {
	return deadzone.Engine{
		Mode:       c.DeadzoneMode,
		Deadzone:   c.Deadzone,
		DeadzoneX:  c.DeadzoneX,
		DeadzoneY:  c.DeadzoneY,
		Scale:      c.DeadzoneScale,
		MouseScale: c.MouseScale,
	}
}
