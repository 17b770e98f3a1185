// Package engine runs the event loop that owns every piece of input state.
//
// Only the goroutine calling Run touches the dispatcher, the text entry machine
// and the repeat scheduler. Timers and the controller source talk to it through
// channels.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/padkeys/dispatch"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
	"github.com/dasdy/padkeys/repeat"
	"github.com/dasdy/padkeys/textentry"
)

const DefaultFrame = 16 * time.Millisecond

// Source delivers controller events. The channel is closed when the source stops.
type Source interface {
	Events() <-chan model.Event
	Close() error
}

type Killer interface {
	Kill(ctx context.Context) error
}

type Parts struct {
	Source     Source
	Sink       output.Sink
	Dispatcher *dispatch.Dispatcher
	Repeat     *repeat.Scheduler
	// TextEntry is nil when interactive text entry is off.
	TextEntry *textentry.Machine
	// Killer is nil when kill mode is off.
	Killer Killer
	// Preset is typed on start+left.
	Preset string
	// Frame is the pointer motion cadence.
	Frame  time.Duration
	Typist *output.Typist
}

type Engine struct {
	parts Parts
	ctx   context.Context

	ticker *time.Ticker
}

// New builds an engine. ctx only carries log attributes.
func New(ctx context.Context, parts Parts) *Engine {
	if parts.Frame <= 0 {
		parts.Frame = DefaultFrame
	}

	if parts.Typist == nil {
		parts.Typist = output.NewTypist(parts.Sink, output.DefaultPause)
	}

	return &Engine{
		parts: parts,
		ctx:   logging.WithPackage(ctx, "engine"),
	}
}

// Run processes events until ctx is done, the source stops, a quit event
// arrives or the kill combo fires. Every held key is released on the way out.
func (e *Engine) Run(ctx context.Context) error {
	slog.InfoContext(e.ctx, "Engine started")

	defer e.shutdown()

	events := e.parts.Source.Events()
	ticks := e.parts.Repeat.Ticks()

	for {
		e.syncTicker()

		select {
		case <-ctx.Done():
			slog.InfoContext(e.ctx, "Engine stopped", "reason", ctx.Err())

			return nil
		case ev, ok := <-events:
			if !ok {
				slog.InfoContext(e.ctx, "Controller source closed, bailing out")

				return nil
			}

			stop, err := e.handle(ctx, ev)
			if stop {
				return err
			}
		case tick := <-ticks:
			e.repeat(tick)
		case <-e.frames():
			e.frame()
		}
	}
}

func (e *Engine) handle(ctx context.Context, ev model.Event) (bool, error) {
	switch ev := ev.(type) {
	case model.ButtonEvent:
		return e.button(ctx, ev)
	case model.AxisEvent:
		e.parts.Dispatcher.HandleAxis(ev)
	case model.DeviceEvent:
		slog.InfoContext(e.ctx, "Controller changed", "device", ev.Device, "added", ev.Added, "name", ev.Name)

		if !ev.Added {
			e.parts.Dispatcher.RemoveDevice(ev.Device)
		}
	case model.QuitEvent:
		slog.InfoContext(e.ctx, "Quit requested")

		return true, nil
	}

	return false, nil
}

func (e *Engine) button(ctx context.Context, ev model.ButtonEvent) (bool, error) {
	if text := e.parts.TextEntry; text != nil && text.Active() {
		text.HandleButton(ev)

		if !ev.Pressed {
			e.parts.Dispatcher.HandleButton(ev)
		}

		if !text.Active() {
			e.parts.Dispatcher.Suspend(false)
		}

		return false, nil
	}

	action := e.parts.Dispatcher.HandleButton(ev)

	switch action {
	case dispatch.Kill:
		return true, e.kill(ctx)
	case dispatch.StartTextEntry:
		if e.parts.TextEntry != nil {
			e.parts.Dispatcher.Suspend(true)
			e.parts.TextEntry.Activate()
		}
	case dispatch.TypePreset:
		slog.InfoContext(e.ctx, "Typing preset", "length", len(e.parts.Preset))

		if err := e.parts.Typist.Type(e.parts.Preset); err != nil {
			slog.ErrorContext(e.ctx, "Could not type preset", "error", err)
		}
	case dispatch.None:
	}

	return false, nil
}

func (e *Engine) kill(ctx context.Context) error {
	e.parts.Repeat.Stop()

	if e.parts.Killer == nil {
		return nil
	}

	if err := e.parts.Killer.Kill(ctx); err != nil {
		return fmt.Errorf("kill failed: %w", err)
	}

	return nil
}

func (e *Engine) repeat(tick repeat.Tick) {
	if !e.parts.Repeat.Accept(tick) {
		return
	}

	if text := e.parts.TextEntry; text != nil && text.Active() {
		text.HandleRepeat(tick.Key)

		return
	}

	e.parts.Dispatcher.HandleRepeat(tick.Key)
}

func (e *Engine) frame() {
	dx, dy := e.parts.Dispatcher.PointerDelta()
	if dx == 0 && dy == 0 {
		return
	}

	if err := e.parts.Sink.Move(dx, dy); err != nil {
		slog.ErrorContext(e.ctx, "Could not move pointer", "error", err)
	}
}

// syncTicker runs the frame ticker only while the pointer is moving.
func (e *Engine) syncTicker() {
	active := e.parts.Dispatcher.PointerActive()

	switch {
	case active && e.ticker == nil:
		e.ticker = time.NewTicker(e.parts.Frame)
	case !active && e.ticker != nil:
		e.ticker.Stop()
		e.ticker = nil
	}
}

func (e *Engine) frames() <-chan time.Time {
	if e.ticker == nil {
		return nil
	}

	return e.ticker.C
}

func (e *Engine) shutdown() {
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}

	e.parts.Repeat.Stop()
	e.parts.Dispatcher.ReleaseAll()

	slog.InfoContext(e.ctx, "Engine shut down")
}
