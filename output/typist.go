package output

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/model"
)

// DefaultPause is how long a synthesized key stays down.
const DefaultPause = 16 * time.Millisecond

// Typist emits complete key strokes with a pause between the edges, for hosts
// that drop press and release pairs written back to back.
type Typist struct {
	Sink  Sink
	Pause time.Duration
	// Sleep defaults to time.Sleep.
	Sleep func(time.Duration)
}

func NewTypist(sink Sink, pause time.Duration) *Typist {
	return &Typist{Sink: sink, Pause: pause}
}

// Press emits a press, waits, then emits the release.
func (t *Typist) Press(code model.KeyCode, mods ...model.KeyCode) error {
	if err := t.Sink.Key(code, true, mods...); err != nil {
		return err
	}

	t.wait()

	return t.Sink.Key(code, false, mods...)
}

// Tap types one character stroke, holding shift around it when needed.
func (t *Typist) Tap(code model.KeyCode, shift bool) error {
	if shift {
		if err := t.Sink.Key(keymap.LeftShift, true); err != nil {
			return err
		}
	}

	if err := t.Sink.Key(code, true); err != nil {
		return err
	}

	t.wait()

	if err := t.Sink.Key(code, false); err != nil {
		return err
	}

	t.wait()

	if shift {
		return t.Sink.Key(keymap.LeftShift, false)
	}

	return nil
}

// Type taps every character of text. Characters without a key are skipped.
func (t *Typist) Type(text string) error {
	for _, r := range text {
		stroke, ok := keymap.Char(r)
		if !ok {
			slog.Warn("No key produces character, skipping", "char", string(r))

			continue
		}

		if err := t.Tap(stroke.Code, stroke.Shift); err != nil {
			return fmt.Errorf("could not type %q: %w", r, err)
		}
	}

	return nil
}

func (t *Typist) wait() {
	if t.Pause <= 0 {
		return
	}

	if t.Sleep != nil {
		t.Sleep(t.Pause)

		return
	}

	time.Sleep(t.Pause)
}
