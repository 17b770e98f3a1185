// Package gamepad forwards controller input to an emulated Xbox 360 pad.
package gamepad

import (
	"context"
	"log/slog"

	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
)

type Options struct {
	// Hotkeys lists the buttons that together with start close the application.
	Hotkeys         model.ButtonState
	Kill            bool
	TriggerDeadzone int
}

type held struct {
	down  bool
	owner model.DeviceID
}

type Passthrough struct {
	opts Options
	pad  output.Pad
	ctx  context.Context

	hotkey held
	start  held
	// triggers remembers which trigger buttons are down.
	triggers model.ButtonState
}

// New builds a passthrough. ctx only carries log attributes.
func New(ctx context.Context, opts Options, pad output.Pad) *Passthrough {
	return &Passthrough{
		opts: opts,
		pad:  pad,
		ctx:  logging.WithPackage(ctx, "gamepad"),
	}
}

// HandleButton forwards the button and reports whether the kill combo fired.
func (p *Passthrough) HandleButton(ev model.ButtonEvent) bool {
	if err := p.pad.Button(ev.Button, ev.Pressed); err != nil {
		slog.ErrorContext(p.ctx, "Could not forward button", "button", ev.Button, "error", err)
	}

	if p.opts.Hotkeys.Has(ev.Button) {
		track(&p.hotkey, ev)
	}

	if ev.Button == model.Start {
		track(&p.start, ev)
	}

	if p.opts.Kill && p.hotkey.down && p.start.down && p.hotkey.owner == p.start.owner {
		slog.InfoContext(p.ctx, "Kill combo pressed", "device", ev.Device)

		return true
	}

	return false
}

func track(h *held, ev model.ButtonEvent) {
	switch {
	case ev.Pressed:
		*h = held{down: true, owner: ev.Device}
	case h.owner == ev.Device:
		*h = held{}
	}
}

func (p *Passthrough) HandleAxis(ev model.AxisEvent) {
	switch ev.Axis {
	case model.TriggerLeft:
		p.trigger(model.L2, ev.Value)
	case model.TriggerRight:
		p.trigger(model.R2, ev.Value)
	default:
		if err := p.pad.Axis(ev.Axis, ev.Value); err != nil {
			slog.ErrorContext(p.ctx, "Could not forward axis", "axis", ev.Axis, "error", err)
		}
	}
}

func (p *Passthrough) trigger(b model.Button, value int) {
	active := value > p.opts.TriggerDeadzone
	if active == p.triggers.Has(b) {
		return
	}

	p.triggers.Set(b, active)

	if err := p.pad.Button(b, active); err != nil {
		slog.ErrorContext(p.ctx, "Could not forward trigger", "button", b, "error", err)
	}
}
