package output

import (
	"fmt"
	"sync"

	"github.com/dasdy/padkeys/model"
)

// KeyEvent is a single key edge as the host sees it.
type KeyEvent struct {
	Code    model.KeyCode
	Pressed bool
}

func (e KeyEvent) String() string {
	if e.Pressed {
		return fmt.Sprintf("+%d", e.Code)
	}

	return fmt.Sprintf("-%d", e.Code)
}

func Press(code model.KeyCode) KeyEvent {
	return KeyEvent{Code: code, Pressed: true}
}

func Release(code model.KeyCode) KeyEvent {
	return KeyEvent{Code: code}
}

type Motion struct {
	DX, DY int
}

// Recorder is a Sink that remembers what it was sent, in the order a Keyboard
// would write it.
type Recorder struct {
	lock   sync.Mutex
	keys   []KeyEvent
	moves  []Motion
	closed bool
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Key(code model.KeyCode, pressed bool, mods ...model.KeyCode) error {
	if code == model.NoKey {
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	if pressed {
		for _, m := range mods {
			r.keys = append(r.keys, Press(m))
		}

		r.keys = append(r.keys, Press(code))

		return nil
	}

	r.keys = append(r.keys, Release(code))
	for i := len(mods) - 1; i >= 0; i-- {
		r.keys = append(r.keys, Release(mods[i]))
	}

	return nil
}

func (r *Recorder) Move(dx, dy int) error {
	if dx == 0 && dy == 0 {
		return nil
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.moves = append(r.moves, Motion{DX: dx, DY: dy})

	return nil
}

func (r *Recorder) Close() error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.closed = true

	return nil
}

func (r *Recorder) Keys() []KeyEvent {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]KeyEvent(nil), r.keys...)
}

func (r *Recorder) Moves() []Motion {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]Motion(nil), r.moves...)
}

func (r *Recorder) Closed() bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	return r.closed
}

func (r *Recorder) Reset() {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.keys = nil
	r.moves = nil
}

type PadButton struct {
	Button  model.Button
	Pressed bool
}

type PadAxis struct {
	Axis  model.Axis
	Value int
}

// PadRecorder is a Pad that remembers what it was sent.
type PadRecorder struct {
	lock    sync.Mutex
	buttons []PadButton
	axes    []PadAxis
}

func NewPadRecorder() *PadRecorder {
	return &PadRecorder{}
}

func (r *PadRecorder) Button(b model.Button, pressed bool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.buttons = append(r.buttons, PadButton{Button: b, Pressed: pressed})

	return nil
}

func (r *PadRecorder) Axis(a model.Axis, value int) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.axes = append(r.axes, PadAxis{Axis: a, Value: value})

	return nil
}

func (r *PadRecorder) Close() error {
	return nil
}

func (r *PadRecorder) Buttons() []PadButton {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]PadButton(nil), r.buttons...)
}

func (r *PadRecorder) Axes() []PadAxis {
	r.lock.Lock()
	defer r.lock.Unlock()

	return append([]PadAxis(nil), r.axes...)
}
