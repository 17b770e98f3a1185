package keymap

import (
	"slices"
	"strings"

	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
)

// names maps the key names accepted in .gptk files to evdev codes.
var names = map[string]model.KeyCode{
	"up":    code(evdev.KEY_UP),
	"down":  code(evdev.KEY_DOWN),
	"left":  code(evdev.KEY_LEFT),
	"right": code(evdev.KEY_RIGHT),

	"mouse_left":  code(evdev.BTN_LEFT),
	"mouse_right": code(evdev.BTN_RIGHT),
	"space":       code(evdev.KEY_SPACE),
	"esc":         code(evdev.KEY_ESC),
	"end":         code(evdev.KEY_END),
	"home":        code(evdev.KEY_HOME),
	"shift":       code(evdev.KEY_LEFTSHIFT),
	"leftshift":   code(evdev.KEY_LEFTSHIFT),
	"rightshift":  code(evdev.KEY_RIGHTSHIFT),
	"ctrl":        code(evdev.KEY_LEFTCTRL),
	"leftctrl":    code(evdev.KEY_LEFTCTRL),
	"rightctrl":   code(evdev.KEY_RIGHTCTRL),
	"alt":         code(evdev.KEY_LEFTALT),
	"leftalt":     code(evdev.KEY_LEFTALT),
	"rightalt":    code(evdev.KEY_RIGHTALT),
	"backspace":   code(evdev.KEY_BACKSPACE),
	"enter":       code(evdev.KEY_ENTER),
	"pageup":      code(evdev.KEY_PAGEUP),
	"pagedown":    code(evdev.KEY_PAGEDOWN),
	"insert":      code(evdev.KEY_INSERT),
	"delete":      code(evdev.KEY_DELETE),
	"capslock":    code(evdev.KEY_CAPSLOCK),
	"tab":         code(evdev.KEY_TAB),
	"pause":       code(evdev.KEY_PAUSE),
	"menu":        code(evdev.KEY_MENU),

	"f1":  code(evdev.KEY_F1),
	"f2":  code(evdev.KEY_F2),
	"f3":  code(evdev.KEY_F3),
	"f4":  code(evdev.KEY_F4),
	"f5":  code(evdev.KEY_F5),
	"f6":  code(evdev.KEY_F6),
	"f7":  code(evdev.KEY_F7),
	"f8":  code(evdev.KEY_F8),
	"f9":  code(evdev.KEY_F9),
	"f10": code(evdev.KEY_F10),
}

func init() {
	// Every printable character also works as a key name, shifted ones
	// resolve to the key that produces them.
	for r, c := range chars {
		if _, ok := names[string(r)]; !ok {
			names[string(r)] = c.Code
		}
	}
}

// Lookup resolves a key name. Unknown names resolve to NoKey and false.
func Lookup(name string) (model.KeyCode, bool) {
	if name == "" {
		return model.NoKey, false
	}

	code, ok := names[name]
	if !ok {
		code, ok = names[strings.ToLower(name)]
	}

	return code, ok
}

// Names lists every key name Lookup accepts, sorted.
func Names() []string {
	result := make([]string, 0, len(names))
	for n := range names {
		result = append(result, n)
	}

	slices.Sort(result)

	return result
}

// Common codes used by the dispatcher and the text entry mode.
const (
	Enter      = model.KeyCode(evdev.KEY_ENTER)
	Backspace  = model.KeyCode(evdev.KEY_BACKSPACE)
	Space      = model.KeyCode(evdev.KEY_SPACE)
	LeftShift  = model.KeyCode(evdev.KEY_LEFTSHIFT)
	LeftCtrl   = model.KeyCode(evdev.KEY_LEFTCTRL)
	LeftAlt    = model.KeyCode(evdev.KEY_LEFTALT)
	F4         = model.KeyCode(evdev.KEY_F4)
	Up         = model.KeyCode(evdev.KEY_UP)
	Down       = model.KeyCode(evdev.KEY_DOWN)
	MouseLeft  = model.KeyCode(evdev.BTN_LEFT)
	MouseRight = model.KeyCode(evdev.BTN_RIGHT)
)

func code(c evdev.EvCode) model.KeyCode {
	return model.KeyCode(c)
}
