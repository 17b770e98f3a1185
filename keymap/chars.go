package keymap

import (
	"github.com/dasdy/padkeys/model"
	evdev "github.com/holoplot/go-evdev"
)

// Stroke is the key and shift state that types a character on a US layout.
type Stroke struct {
	Code  model.KeyCode
	Shift bool
}

var chars = buildChars()

// pairs lists, per key, the character it types and the one it types with shift.
var pairs = []struct {
	code            model.KeyCode
	normal, shifted rune
}{
	{code(evdev.KEY_1), '1', '!'}, {code(evdev.KEY_2), '2', '@'},
	{code(evdev.KEY_3), '3', '#'}, {code(evdev.KEY_4), '4', '$'},
	{code(evdev.KEY_5), '5', '%'}, {code(evdev.KEY_6), '6', '^'},
	{code(evdev.KEY_7), '7', '&'}, {code(evdev.KEY_8), '8', '*'},
	{code(evdev.KEY_9), '9', '('}, {code(evdev.KEY_0), '0', ')'},

	{code(evdev.KEY_MINUS), '-', '_'},
	{code(evdev.KEY_EQUAL), '=', '+'},
	{code(evdev.KEY_LEFTBRACE), '[', '{'},
	{code(evdev.KEY_RIGHTBRACE), ']', '}'},
	{code(evdev.KEY_SEMICOLON), ';', ':'},
	{code(evdev.KEY_APOSTROPHE), '\'', '"'},
	{code(evdev.KEY_GRAVE), '`', '~'},
	{code(evdev.KEY_BACKSLASH), '\\', '|'},
	{code(evdev.KEY_COMMA), ',', '<'},
	{code(evdev.KEY_DOT), '.', '>'},
	{code(evdev.KEY_SLASH), '/', '?'},
}

var letters = [26]model.KeyCode{
	code(evdev.KEY_A), code(evdev.KEY_B), code(evdev.KEY_C), code(evdev.KEY_D), code(evdev.KEY_E), code(evdev.KEY_F),
	code(evdev.KEY_G), code(evdev.KEY_H), code(evdev.KEY_I), code(evdev.KEY_J), code(evdev.KEY_K), code(evdev.KEY_L),
	code(evdev.KEY_M), code(evdev.KEY_N), code(evdev.KEY_O), code(evdev.KEY_P), code(evdev.KEY_Q), code(evdev.KEY_R),
	code(evdev.KEY_S), code(evdev.KEY_T), code(evdev.KEY_U), code(evdev.KEY_V), code(evdev.KEY_W), code(evdev.KEY_X),
	code(evdev.KEY_Y), code(evdev.KEY_Z),
}

func buildChars() map[rune]Stroke {
	result := map[rune]Stroke{' ': {Code: code(evdev.KEY_SPACE)}}

	for i, c := range letters {
		result[rune('a'+i)] = Stroke{Code: c}
		result[rune('A'+i)] = Stroke{Code: c, Shift: true}
	}

	for _, p := range pairs {
		result[p.normal] = Stroke{Code: p.code}
		result[p.shifted] = Stroke{Code: p.code, Shift: true}
	}

	return result
}

// Char returns the keystroke that types r.
func Char(r rune) (Stroke, bool) {
	s, ok := chars[r]

	return s, ok
}
