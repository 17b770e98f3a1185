package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dasdy/padkeys/config"
	"github.com/dasdy/padkeys/deadzone"
	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, text string) *config.Config {
	t.Helper()

	c, err := config.Parse(strings.NewReader(text))
	require.NoError(t, err)

	return c
}

func binding(c *config.Config, b model.Button) model.Binding {
	return c.Bindings[model.ButtonInput(b)]
}

func TestDefaults(t *testing.T) {
	c := config.Default()

	assert.Equal(t, model.KeyCode(evdev.KEY_X), binding(c, model.A).Key)
	assert.Equal(t, keymap.Enter, binding(c, model.A).HotkeyKey)
	assert.Equal(t, model.KeyCode(evdev.KEY_ESC), binding(c, model.Back).Key)
	assert.Equal(t, keymap.MouseLeft, binding(c, model.L3).Key)
	assert.Equal(t, model.KeyCode(evdev.KEY_W), c.Bindings[model.LeftAnalogUp].Key)
	assert.Equal(t, model.KeyCode(evdev.KEY_END), c.Bindings[model.RightAnalogUp].Key)

	assert.Equal(t, 15000, c.Deadzone)
	assert.Equal(t, 3000, c.DeadzoneTriggers)
	assert.Equal(t, 50, c.MouseSlowScale)
	assert.Equal(t, 16*time.Millisecond, c.MouseDelay)
	assert.Equal(t, 500*time.Millisecond, c.RepeatDelay)
	assert.Equal(t, 60*time.Millisecond, c.RepeatInterval)
	assert.Equal(t, deadzone.Default, c.DeadzoneMode)
	assert.False(t, c.DPadMouse)
}

func TestBindings(t *testing.T) {
	c := parse(t, `
# comment
a = enter
a = add_ctrl
a = add_shift
a = add_ctrl
b_hk = f5
b_hk = add_alt
y = space
y = repeat
left_analog_left = left
`)

	a := binding(c, model.A)
	assert.Equal(t, keymap.Enter, a.Key)
	assert.Equal(t, []model.KeyCode{keymap.LeftCtrl, keymap.LeftShift}, a.Modifiers)
	assert.False(t, a.Repeat)

	b := binding(c, model.B)
	assert.Equal(t, model.KeyCode(evdev.KEY_Z), b.Key)
	assert.Equal(t, model.KeyCode(evdev.KEY_F5), b.HotkeyKey)
	assert.Equal(t, []model.KeyCode{keymap.LeftAlt}, b.HotkeyModifiers)
	assert.Empty(t, b.Modifiers)

	assert.Equal(t, keymap.Space, binding(c, model.Y).Key)
	assert.True(t, binding(c, model.Y).Repeat)

	assert.Equal(t, model.KeyCode(evdev.KEY_LEFT), c.Bindings[model.LeftAnalogLeft].Key)
}

func TestSettings(t *testing.T) {
	c := parse(t, `
deadzone_mode = scaled_radial
deadzone_scale = 7
deadzone = 2000
deadzone_triggers = 100
dpad_mouse_step = 9
mouse_scale = 8192
repeat_delay = 250
repeat_interval = 40
deadzone_delay = 8
hotkey_delay = 20
`)

	assert.Equal(t, deadzone.ScaledRadial, c.DeadzoneMode)
	assert.Equal(t, 7, c.DeadzoneScale)
	assert.Equal(t, 2000, c.Deadzone)
	assert.Equal(t, 100, c.DeadzoneTriggers)
	assert.Equal(t, 9, c.DPadMouseStep)
	assert.Equal(t, 8192, c.MouseScale)
	assert.Equal(t, 250*time.Millisecond, c.RepeatDelay)
	assert.Equal(t, 40*time.Millisecond, c.RepeatInterval)
	assert.Equal(t, 8*time.Millisecond, c.MouseDelay)
	assert.Equal(t, 20*time.Millisecond, c.HotkeyDelay)

	e := c.DeadzoneEngine()
	assert.Equal(t, deadzone.ScaledRadial, e.Mode)
	assert.Equal(t, 7, e.Scale)
	assert.Equal(t, 2000, e.Deadzone)
}

func TestMouseSlow(t *testing.T) {
	c := parse(t, `
l2 = mouse_slow
up = mouse_slow
`)

	assert.Equal(t, model.NoKey, binding(c, model.L2).Key)
	assert.Equal(t, model.L2.Mask(), c.MouseSlow)
	assert.Equal(t, model.KeyCode(evdev.KEY_UP), binding(c, model.Up).Key)
}

func TestMouseMovement(t *testing.T) {
	testCases := []struct {
		name  string
		line  string
		check func(*config.Config) bool
	}{
		{"dpad", "up = mouse_movement_up", func(c *config.Config) bool { return c.DPadMouse }},
		{"left stick", "left_analog_up = mouse_movement_up", func(c *config.Config) bool { return c.LeftStickMouse }},
		{"right stick", "right_analog_up = mouse_movement_up", func(c *config.Config) bool { return c.RightStickMouse }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.True(t, tc.check(parse(t, tc.line)))
		})
	}

	t.Run("dpad mouse clears the dpad keys", func(t *testing.T) {
		c := parse(t, "up = mouse_movement_up\nleft = space\nleft = repeat\n")

		for _, b := range []model.Button{model.Up, model.Down, model.Left, model.Right} {
			assert.Equal(t, model.Binding{}, binding(c, b), b.String())
		}
	})

	t.Run("other inputs are rejected", func(t *testing.T) {
		c := parse(t, "down = mouse_movement_up")

		assert.False(t, c.DPadMouse)
	})
}

func TestSkippedLines(t *testing.T) {
	c := parse(t, `
garbage without equals
= enter
a =
mouse_scale = lots
repeat_interval = -5
b_hk = repeat
start_hk = enter
nonsense = 12
x = space
deadzone = -100
deadzone_triggers = -1
deadzone_x = 40000
deadzone_scale = 0
dpad_mouse_step = -2
`)

	assert.Equal(t, 512, c.MouseScale)
	assert.Equal(t, 60*time.Millisecond, c.RepeatInterval)
	assert.False(t, binding(c, model.B).Repeat)
	assert.Equal(t, model.NoKey, binding(c, model.Start).HotkeyKey)
	assert.Equal(t, model.KeyCode(evdev.KEY_X), binding(c, model.A).Key)
	assert.Equal(t, keymap.Space, binding(c, model.X).Key)
	assert.Equal(t, 15000, c.Deadzone)
	assert.Equal(t, 3000, c.DeadzoneTriggers)
	assert.Equal(t, 15000, c.DeadzoneX)
	assert.Equal(t, 512, c.DeadzoneScale)
	assert.Equal(t, 5, c.DPadMouseStep)
}

func TestUnknownKeyNameUnbinds(t *testing.T) {
	c := config.Default()

	err := c.Apply("a", "no_such_key")

	require.ErrorIs(t, err, config.ErrUnknownKeyName)
	assert.Equal(t, model.NoKey, binding(c, model.A).Key)
}

func TestApplyErrors(t *testing.T) {
	testCases := []struct {
		name, key, value string
		err              error
	}{
		{"unknown setting", "volume", "3", config.ErrUnknownSetting},
		{"hotkey on a stick", "left_analog_up_hk", "a", config.ErrUnknownSetting},
		{"bad number", "deadzone", "x", config.ErrBadValue},
		{"bad mode", "deadzone_mode", "round", config.ErrBadValue},
		{"mouse slow on dpad", "left", "mouse_slow", config.ErrBadValue},
		{"negative deadzone", "deadzone", "-1", config.ErrBadValue},
		{"deadzone past full scale", "deadzone_y", "32769", config.ErrBadValue},
		{"negative trigger deadzone", "deadzone_triggers", "-1", config.ErrBadValue},
		{"zero mouse scale", "mouse_scale", "0", config.ErrBadValue},
		{"negative dpad step", "dpad_mouse_step", "-1", config.ErrBadValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, config.Default().Apply(tc.key, tc.value), tc.err)
		})
	}
}

func TestBoundsAccepted(t *testing.T) {
	c := parse(t, "deadzone = 0\ndeadzone_y = 32768\ndpad_mouse_step = 0")

	assert.Equal(t, 0, c.Deadzone)
	assert.Equal(t, model.AxisMax, c.DeadzoneY)
	assert.Equal(t, 0, c.DPadMouseStep)
}

func TestFixups(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		slow     int
		scale    int
		interval time.Duration
	}{
		{"slow scale capped", "mouse_slow_scale = 250", 100, 512, 60 * time.Millisecond},
		{"slow scale at least one", "mouse_slow_scale = 0", 1, 512, 60 * time.Millisecond},
		{"negative slow scale", "mouse_slow_scale = -3", 1, 512, 60 * time.Millisecond},
		{"zero scale restored", "mouse_scale = 0", 50, 512, 60 * time.Millisecond},
		{"zero interval restored", "repeat_interval = 0", 50, 512, 60 * time.Millisecond},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := parse(t, tc.text)

			assert.Equal(t, tc.slow, c.MouseSlowScale)
			assert.Equal(t, tc.scale, c.MouseScale)
			assert.Equal(t, tc.interval, c.RepeatInterval)
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("missing file uses defaults", func(t *testing.T) {
		c, err := config.Load(filepath.Join(t.TempDir(), "none.gptk"))

		require.NoError(t, err)
		assert.Equal(t, config.Default(), c)
	})

	t.Run("reads the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "game.gptk")
		require.NoError(t, os.WriteFile(path, []byte("start = space\n"), 0o600))

		c, err := config.Load(path)

		require.NoError(t, err)
		assert.Equal(t, keymap.Space, binding(c, model.Start).Key)
	})
}
