// Package dispatch turns controller events into key strokes and pointer motion.
//
// A Dispatcher owns all press bookkeeping: the per-input state, the hotkey and
// start modifiers and the analog latches. It is not safe for concurrent use; the
// engine loop is its only caller.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"github.com/dasdy/padkeys/deadzone"
	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
)

// Repeater is the part of repeat.Scheduler the dispatcher drives.
type Repeater interface {
	Start(key model.KeyCode) bool
	StopKey(key model.KeyCode)
	Stop()
}

// Action is something the dispatcher asks its owner to do.
type Action int

const (
	None Action = iota
	Kill
	StartTextEntry
	TypePreset
)

func (a Action) String() string {
	switch a {
	case Kill:
		return "kill"
	case StartTextEntry:
		return "start_text_entry"
	case TypePreset:
		return "type_preset"
	default:
		return "none"
	}
}

const DefaultReplayDelay = 16 * time.Millisecond

type Options struct {
	Bindings model.Bindings
	// Hotkeys lists the buttons that act as the hotkey.
	Hotkeys model.ButtonState

	Kill      bool
	TextEntry bool
	Preset    bool

	DPadMouse       bool
	LeftStickMouse  bool
	RightStickMouse bool
	DPadMouseStep   int
	// MouseSlow lists the buttons that slow the pointer down while held.
	MouseSlow      model.ButtonState
	MouseSlowScale int

	// StickDeadzone is the raw value a stick has to pass to count as a direction.
	StickDeadzone   int
	TriggerDeadzone int
	Deadzone        deadzone.Engine

	// ReplayDelay separates the press and release of a replayed modifier key.
	ReplayDelay time.Duration
	Sleep       func(time.Duration)
}

// startCombos reports whether Start is held back waiting for a combo.
func (o Options) startCombos() bool {
	return o.Kill || o.TextEntry || o.Preset
}

type inputState struct {
	pressed  bool
	asHotkey bool
	// suppressed inputs completed a combo; their release emits nothing.
	suppressed bool
}

func (s inputState) down() bool {
	return s.pressed || s.asHotkey || s.suppressed
}

// modifierState tracks a button held back until it is known whether it forms
// a combo or gets replayed as its own key on release.
type modifierState struct {
	held   bool
	owner  model.DeviceID
	button model.Button
	combo  bool
	// armed is cleared once a start combo fired, so holding start fires it once.
	armed bool
}

func (m *modifierState) press(b model.Button, dev model.DeviceID) {
	*m = modifierState{held: true, owner: dev, button: b, armed: true}
}

func (m *modifierState) heldBy(dev model.DeviceID) bool {
	return m.held && m.owner == dev
}

type Dispatcher struct {
	opts   Options
	sink   output.Sink
	rep    Repeater
	typist *output.Typist
	ctx    context.Context

	buttons   model.ButtonState
	inputs    [model.InputCount]inputState
	hotkey    modifierState
	start     modifierState
	axes      [model.AxisCount]int
	suspended bool

	mouseX, mouseY int
}

// New builds a dispatcher. ctx only carries log attributes.
func New(ctx context.Context, opts Options, sink output.Sink, rep Repeater) *Dispatcher {
	if opts.ReplayDelay == 0 {
		opts.ReplayDelay = DefaultReplayDelay
	}

	if opts.MouseSlowScale <= 0 {
		opts.MouseSlowScale = 1
	}

	return &Dispatcher{
		opts:   opts,
		sink:   sink,
		rep:    rep,
		typist: &output.Typist{Sink: sink, Pause: opts.ReplayDelay, Sleep: opts.Sleep},
		ctx:    logging.WithPackage(ctx, "dispatch"),
	}
}

func (d *Dispatcher) Buttons() model.ButtonState {
	return d.buttons
}

// Suspend stops stick directions from emitting keys, used while text entry owns the pad.
// Modifiers held at that point are released without replaying their key.
func (d *Dispatcher) Suspend(on bool) {
	d.suspended = on

	if on {
		d.hotkey.combo = d.hotkey.combo || d.hotkey.held
		d.start.combo = d.start.combo || d.start.held
	}
}

// RemoveDevice forgets the modifiers held by a controller that went away.
func (d *Dispatcher) RemoveDevice(dev model.DeviceID) {
	for _, m := range []*modifierState{&d.hotkey, &d.start} {
		if m.heldBy(dev) {
			slog.InfoContext(d.ctx, "Dropping modifier of removed controller", "button", m.button, "device", dev)
			d.buttons.Set(m.button, false)
			*m = modifierState{}
		}
	}
}

func (d *Dispatcher) HandleButton(ev model.ButtonEvent) Action {
	if ev.Button >= model.ButtonCount {
		return None
	}

	d.buttons.Set(ev.Button, ev.Pressed)

	if d.opts.Hotkeys.Has(ev.Button) && d.handleModifier(&d.hotkey, ev) {
		return d.checkKill()
	}

	if ev.Button == model.Start && d.opts.startCombos() && d.handleModifier(&d.start, ev) {
		return d.checkKill()
	}

	if ev.Pressed {
		if action, ok := d.startCombo(ev); ok {
			return action
		}
	}

	d.transition(model.ButtonInput(ev.Button), ev.Pressed, ev.Device)

	return None
}

// handleModifier updates m and reports whether the event was consumed by it.
func (d *Dispatcher) handleModifier(m *modifierState, ev model.ButtonEvent) bool {
	in := model.ButtonInput(ev.Button)

	if ev.Pressed {
		if m.held || d.inputs[in].down() {
			return false
		}

		m.press(ev.Button, ev.Device)
		slog.DebugContext(d.ctx, "Modifier held", "button", ev.Button, "device", ev.Device)

		return true
	}

	if !m.held || m.button != ev.Button || m.owner != ev.Device {
		return false
	}

	combo := m.combo
	*m = modifierState{}

	if combo {
		slog.DebugContext(d.ctx, "Modifier released after combo", "button", ev.Button)

		return true
	}

	b := d.opts.Bindings[in]
	slog.DebugContext(d.ctx, "Replaying modifier key", "button", ev.Button, "key", b.Key)

	if err := d.typist.Press(b.Key, b.Modifiers...); err != nil {
		slog.ErrorContext(d.ctx, "Could not replay key", "button", ev.Button, "error", err)
	}

	return true
}

func (d *Dispatcher) checkKill() Action {
	if !d.opts.Kill || !d.hotkey.held || !d.start.held || d.hotkey.owner != d.start.owner {
		return None
	}

	d.hotkey.combo = true
	d.start.combo = true

	slog.InfoContext(d.ctx, "Kill combo pressed", "device", d.hotkey.owner)

	return Kill
}

// startCombo handles start + d-pad presses from the device holding start.
func (d *Dispatcher) startCombo(ev model.ButtonEvent) (Action, bool) {
	if !d.start.armed || !d.start.heldBy(ev.Device) {
		return None, false
	}

	var action Action

	switch {
	case ev.Button == model.Down && d.opts.TextEntry:
		action = StartTextEntry
	case ev.Button == model.Left && d.opts.Preset:
		action = TypePreset
	case ev.Button == model.Right && d.opts.Preset:
		if err := d.typist.Press(keymap.Enter); err != nil {
			slog.ErrorContext(d.ctx, "Could not send enter", "error", err)
		}
	default:
		return None, false
	}

	d.start.combo = true
	d.start.armed = false
	d.inputs[model.ButtonInput(ev.Button)].suppressed = true

	slog.InfoContext(d.ctx, "Start combo pressed", "button", ev.Button, "action", action)

	return action, true
}

func (d *Dispatcher) transition(in model.Input, pressed bool, dev model.DeviceID) {
	st := &d.inputs[in]
	b := &d.opts.Bindings[in]

	if pressed {
		if st.down() {
			return
		}

		if in.HasHotkeyVariant() && d.hotkey.heldBy(dev) {
			st.asHotkey = true
			d.hotkey.combo = true
			d.emit(in, b.HotkeyKey, true, b.HotkeyModifiers)

			return
		}

		st.pressed = true
		d.emit(in, b.Key, true, b.Modifiers)

		if b.Repeat {
			d.rep.Start(b.Key)
		}

		return
	}

	switch {
	case st.suppressed:
		st.suppressed = false
	case st.asHotkey:
		st.asHotkey = false
		d.emit(in, b.HotkeyKey, false, b.HotkeyModifiers)
	case st.pressed:
		st.pressed = false
		d.emit(in, b.Key, false, b.Modifiers)
		d.rep.StopKey(b.Key)
	}
}

func (d *Dispatcher) emit(in model.Input, key model.KeyCode, pressed bool, mods []model.KeyCode) {
	if key == model.NoKey {
		return
	}

	slog.DebugContext(d.ctx, "Key", "input", in, "key", key, "pressed", pressed)

	if err := d.sink.Key(key, pressed, mods...); err != nil {
		slog.ErrorContext(d.ctx, "Could not emit key", "input", in, "key", key, "error", err)
	}
}

// HandleRepeat re-emits key for an accepted repeat tick.
func (d *Dispatcher) HandleRepeat(key model.KeyCode) {
	for _, pressed := range []bool{false, true} {
		if err := d.sink.Key(key, pressed); err != nil {
			slog.ErrorContext(d.ctx, "Could not repeat key", "key", key, "error", err)

			return
		}
	}
}

type stickDirections struct {
	x, y                  model.Axis
	up, down, left, right model.Input
}

var (
	leftStick = stickDirections{
		x: model.LeftX, y: model.LeftY,
		up: model.LeftAnalogUp, down: model.LeftAnalogDown,
		left: model.LeftAnalogLeft, right: model.LeftAnalogRight,
	}
	rightStick = stickDirections{
		x: model.RightX, y: model.RightY,
		up: model.RightAnalogUp, down: model.RightAnalogDown,
		left: model.RightAnalogLeft, right: model.RightAnalogRight,
	}
)

func (d *Dispatcher) HandleAxis(ev model.AxisEvent) {
	if ev.Axis >= model.AxisCount {
		return
	}

	d.axes[ev.Axis] = ev.Value

	switch ev.Axis {
	case model.LeftX, model.LeftY:
		d.stick(leftStick, d.opts.LeftStickMouse, ev.Device)
	case model.RightX, model.RightY:
		d.stick(rightStick, d.opts.RightStickMouse, ev.Device)
	case model.TriggerLeft:
		d.trigger(model.L2, ev)
	case model.TriggerRight:
		d.trigger(model.R2, ev)
	}
}

func (d *Dispatcher) stick(s stickDirections, mouse bool, dev model.DeviceID) {
	x, y := d.axes[s.x], d.axes[s.y]

	if mouse {
		d.mouseX, d.mouseY = d.opts.Deadzone.Apply(x, y)

		return
	}

	if d.suspended {
		return
	}

	dz := d.opts.StickDeadzone
	d.level(s.up, y < -dz, dev)
	d.level(s.down, y > dz, dev)
	d.level(s.left, x < -dz, dev)
	d.level(s.right, x > dz, dev)
}

func (d *Dispatcher) trigger(b model.Button, ev model.AxisEvent) {
	active := ev.Value > d.opts.TriggerDeadzone
	if active == d.buttons.Has(b) {
		return
	}

	d.buttons.Set(b, active)
	d.level(model.ButtonInput(b), active, ev.Device)
}

// level turns a level signal into one press and one release per crossing.
func (d *Dispatcher) level(in model.Input, active bool, dev model.DeviceID) {
	if active == d.inputs[in].down() {
		return
	}

	d.transition(in, active, dev)
}

// PointerDelta is the pointer motion for one frame.
func (d *Dispatcher) PointerDelta() (int, int) {
	x, y := d.mouseX, d.mouseY

	if d.opts.DPadMouse {
		step := d.opts.DPadMouseStep
		if d.buttons.Has(model.Left) {
			x -= step
		}

		if d.buttons.Has(model.Right) {
			x += step
		}

		if d.buttons.Has(model.Up) {
			y -= step
		}

		if d.buttons.Has(model.Down) {
			y += step
		}
	}

	if d.buttons.Any(d.opts.MouseSlow) {
		factor := 100 / float64(d.opts.MouseSlowScale)
		x = int(float64(x) / factor)
		y = int(float64(y) / factor)
	}

	return x, y
}

// PointerActive reports whether frames should be emitted at all.
func (d *Dispatcher) PointerActive() bool {
	return d.mouseX != 0 || d.mouseY != 0 || (d.opts.DPadMouse && d.buttons.Any(model.DPad))
}

// ReleaseAll releases every key still held, used on shutdown.
func (d *Dispatcher) ReleaseAll() {
	d.rep.Stop()

	for i := range d.inputs {
		st := &d.inputs[i]
		b := &d.opts.Bindings[i]

		switch {
		case st.asHotkey:
			d.emit(model.Input(i), b.HotkeyKey, false, b.HotkeyModifiers)
		case st.pressed:
			d.emit(model.Input(i), b.Key, false, b.Modifiers)
		}

		*st = inputState{}
	}

	d.hotkey = modifierState{}
	d.start = modifierState{}
	d.buttons = model.NoButtons
}
