package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dasdy/padkeys/gamepad"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
)

// Passthrough drives an emulated gamepad instead of a keyboard.
type Passthrough struct {
	source Source
	pad    *gamepad.Passthrough
	killer Killer
	ctx    context.Context
}

func NewPassthrough(ctx context.Context, source Source, pad *gamepad.Passthrough, killer Killer) *Passthrough {
	return &Passthrough{
		source: source,
		pad:    pad,
		killer: killer,
		ctx:    logging.WithPackage(ctx, "engine"),
	}
}

func (p *Passthrough) Run(ctx context.Context) error {
	slog.InfoContext(p.ctx, "Gamepad passthrough started")

	events := p.source.Events()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(p.ctx, "Gamepad passthrough stopped", "reason", ctx.Err())

			return nil
		case ev, ok := <-events:
			if !ok {
				slog.InfoContext(p.ctx, "Controller source closed, bailing out")

				return nil
			}

			switch ev := ev.(type) {
			case model.ButtonEvent:
				if p.pad.HandleButton(ev) && p.killer != nil {
					if err := p.killer.Kill(ctx); err != nil {
						return fmt.Errorf("kill failed: %w", err)
					}

					return nil
				}
			case model.AxisEvent:
				p.pad.HandleAxis(ev)
			case model.QuitEvent:
				return nil
			}
		}
	}
}
