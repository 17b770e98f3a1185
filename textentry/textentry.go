// Package textentry implements on-screen text input driven by the d-pad.
//
// The host only ever shows committed characters plus the one being composed:
// every change deletes the in-progress character with a backspace and types the
// new one.
package textentry

import (
	"context"
	"log/slog"
	"time"

	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
)

const (
	// MaxChars is how many characters fit before the text is confirmed.
	MaxChars = 20
	// Jump is how far the shoulder buttons scroll.
	Jump = 13
)

// Repeater is the part of repeat.Scheduler text entry drives.
type Repeater interface {
	StartAfter(key model.KeyCode, first time.Duration) bool
	StopKey(key model.KeyCode)
	Stop()
}

type Options struct {
	Charset        Charset
	NoAutoCapitals bool
	// ExtraBackspace deletes spaces twice on cancel, for hosts that double them.
	ExtraBackspace bool
	// Cancel lists the buttons that discard the text. Back and L3 always do.
	Cancel model.ButtonState

	RepeatInterval time.Duration
	Pause          time.Duration
	Sleep          func(time.Duration)
}

type Machine struct {
	opts   Options
	typist *output.Typist
	rep    Repeater
	ctx    context.Context

	active bool
	cursor int
	slots  [MaxChars]int
}

// New builds an inactive machine. ctx only carries log attributes.
func New(ctx context.Context, opts Options, sink output.Sink, rep Repeater) *Machine {
	if len(opts.Charset) == 0 {
		opts.Charset = Basic
	}

	if opts.Pause == 0 {
		opts.Pause = output.DefaultPause
	}

	opts.Cancel |= model.Back.Mask() | model.L3.Mask()

	m := &Machine{
		opts:   opts,
		typist: &output.Typist{Sink: sink, Pause: opts.Pause, Sleep: opts.Sleep},
		rep:    rep,
		ctx:    logging.WithPackage(ctx, "textentry"),
	}
	m.reset()

	return m
}

func (m *Machine) Active() bool {
	return m.active
}

// Cursor is the index of the character being composed.
func (m *Machine) Cursor() int {
	return m.cursor
}

// Current is the charset index of the character being composed.
func (m *Machine) Current() int {
	return m.slots[m.cursor]
}

// Text is what the host shows, the in-progress character included.
func (m *Machine) Text() string {
	if !m.active {
		return ""
	}

	runes := make([]rune, 0, m.cursor+1)
	for i := 0; i <= m.cursor; i++ {
		runes = append(runes, m.opts.Charset[m.slots[i]])
	}

	return string(runes)
}

// Activate starts a new text and types its first character.
func (m *Machine) Activate() {
	m.rep.Stop()
	m.reset()
	m.active = true

	slog.InfoContext(m.ctx, "Text entry active", "chars", m.opts.Charset.Len())
	m.add()
}

func (m *Machine) HandleButton(ev model.ButtonEvent) {
	if !m.active {
		return
	}

	if !ev.Pressed {
		switch ev.Button {
		case model.Up, model.L1:
			m.rep.StopKey(keymap.Up)
		case model.Down, model.R1:
			m.rep.StopKey(keymap.Down)
		}

		return
	}

	switch {
	case ev.Button == model.Up:
		m.prev(1)
		m.rep.StartAfter(keymap.Up, m.opts.RepeatInterval)
	case ev.Button == model.Down:
		m.next(1)
		m.rep.StartAfter(keymap.Down, m.opts.RepeatInterval)
	case ev.Button == model.L1:
		m.rep.StopKey(keymap.Up)
		m.prev(Jump)
	case ev.Button == model.R1:
		m.rep.StopKey(keymap.Down)
		m.next(Jump)
	case ev.Button == model.Left:
		m.back()
	case ev.Button == model.Right:
		m.advance()
	case ev.Button == model.A, ev.Button == model.Start:
		m.confirm()
	case m.opts.Cancel.Has(ev.Button):
		m.cancel()
	}
}

// HandleRepeat scrolls for an accepted repeat tick of the up or down key.
func (m *Machine) HandleRepeat(key model.KeyCode) {
	if !m.active {
		return
	}

	switch key {
	case keymap.Up:
		m.prev(1)
	case keymap.Down:
		m.next(1)
	}
}

func (m *Machine) reset() {
	m.cursor = 0

	for i := range m.slots {
		m.slots[i] = lowerStart
	}

	if !m.opts.NoAutoCapitals {
		m.slots[0] = 0
	}
}

func (m *Machine) next(step int) {
	m.scroll(step, 1)
}

func (m *Machine) prev(step int) {
	m.scroll(-step, -1)
}

// scroll moves the current slot by delta, stepping once more in dir when the
// first character would be a space.
func (m *Machine) scroll(delta, dir int) {
	m.remove()

	set := m.opts.Charset
	k := set.wrap(m.slots[m.cursor] + delta)

	if m.cursor == 0 && set.IsSpace(k) {
		k = set.wrap(k + dir)
	}

	m.slots[m.cursor] = k
	m.add()
}

func (m *Machine) back() {
	m.remove()

	if m.cursor > 0 {
		m.cursor--

		return
	}

	m.reset()
	m.add()
}

func (m *Machine) advance() {
	capital := m.opts.Charset.IsSpace(m.slots[m.cursor]) && !m.opts.NoAutoCapitals

	m.cursor++
	if m.cursor >= MaxChars {
		m.cursor = MaxChars - 1
		m.confirm()

		return
	}

	if capital {
		m.slots[m.cursor] = 0
	}

	m.add()
}

func (m *Machine) confirm() {
	m.tap(keymap.Enter, false)
	slog.InfoContext(m.ctx, "Text entry confirmed", "text", m.Text())
	m.deactivate()
}

func (m *Machine) cancel() {
	for i := 0; i <= m.cursor; i++ {
		m.remove()

		if m.opts.ExtraBackspace && m.opts.Charset.IsSpace(m.slots[i]) {
			m.remove()
		}
	}

	slog.InfoContext(m.ctx, "Text entry cancelled")
	m.deactivate()
}

func (m *Machine) deactivate() {
	m.rep.Stop()
	m.reset()
	m.active = false
}

func (m *Machine) add() {
	r := m.opts.Charset[m.slots[m.cursor]]

	stroke, ok := keymap.Char(r)
	if !ok {
		slog.WarnContext(m.ctx, "No key for character", "char", string(r))

		return
	}

	m.tap(stroke.Code, stroke.Shift)
}

func (m *Machine) remove() {
	m.tap(keymap.Backspace, false)
}

func (m *Machine) tap(code model.KeyCode, shift bool) {
	if err := m.typist.Tap(code, shift); err != nil {
		slog.ErrorContext(m.ctx, "Could not type key", "key", code, "error", err)
	}
}
