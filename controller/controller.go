// Package controller reads game controllers through SDL2 and delivers their
// input as model events.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/model"
	"github.com/veandco/go-sdl2/sdl"
)

// MappingsEnv names the SDL controller database loaded on start.
const MappingsEnv = "SDL_GAMECONTROLLERCONFIG_FILE"

type Options struct {
	// MappingsFile is an extra gamecontrollerdb.txt. Empty means $SDL_GAMECONTROLLERCONFIG_FILE.
	MappingsFile string
	// PollTimeout bounds how long the reader blocks before checking for Close.
	PollTimeout time.Duration
}

type Source struct {
	opts   Options
	ctx    context.Context
	events chan model.Event
	done   chan struct{}

	devices map[model.DeviceID]*sdl.GameController
	lock    sync.RWMutex

	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Open initialises SDL on a dedicated OS thread and starts reading events.
// Initialisation errors are returned before any event is read.
func Open(ctx context.Context, opts Options) (*Source, error) {
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 100 * time.Millisecond
	}

	if opts.MappingsFile == "" {
		opts.MappingsFile = os.Getenv(MappingsEnv)
	}

	s := &Source{
		opts:    opts,
		ctx:     logging.WithPackage(ctx, "controller"),
		events:  make(chan model.Event, 64),
		done:    make(chan struct{}),
		devices: make(map[model.DeviceID]*sdl.GameController),
	}

	started := make(chan error, 1)

	s.wg.Add(1)

	go s.loop(started)

	if err := <-started; err != nil {
		s.wg.Wait()

		return nil, err
	}

	return s, nil
}

func (s *Source) Events() <-chan model.Event {
	return s.events
}

// Close stops the reader, closes every controller and shuts SDL down.
func (s *Source) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()

	return nil
}

func (s *Source) loop(started chan<- error) {
	defer s.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := sdl.Init(sdl.INIT_GAMECONTROLLER); err != nil {
		started <- fmt.Errorf("could not initialise SDL: %w", err)

		return
	}

	defer sdl.Quit()
	defer close(s.events)
	defer s.closeAll()

	s.loadMappings()

	started <- nil

	slog.InfoContext(s.ctx, "Controller loop started")
	defer slog.InfoContext(s.ctx, "Controller loop ended")

	timeout := int(s.opts.PollTimeout / time.Millisecond)

	for {
		select {
		case <-s.done:
			return
		default:
		}

		ev := sdl.WaitEventTimeout(timeout)
		if ev == nil {
			continue
		}

		out, ok := s.handle(ev)
		if !ok {
			continue
		}

		select {
		case s.events <- out:
		case <-s.done:
			return
		}
	}
}

func (s *Source) loadMappings() {
	path := s.opts.MappingsFile
	if path == "" {
		return
	}

	n := sdl.GameControllerAddMappingsFromFile(path)
	if n < 0 {
		slog.WarnContext(s.ctx, "Could not load controller mappings", "path", path, "error", sdl.GetError())

		return
	}

	slog.InfoContext(s.ctx, "Loaded controller mappings", "path", path, "count", n)
}

func (s *Source) handle(ev sdl.Event) (model.Event, bool) {
	if dev, ok := ev.(*sdl.ControllerDeviceEvent); ok {
		switch dev.Type {
		case uint32(sdl.CONTROLLERDEVICEADDED):
			return s.AddDevice(int(dev.Which))
		case uint32(sdl.CONTROLLERDEVICEREMOVED):
			return s.CloseDevice(model.DeviceID(dev.Which))
		default:
			return nil, false
		}
	}

	return Translate(ev)
}

// AddDevice opens the controller at SDL device index. The returned event
// carries its instance id, which later events use.
func (s *Source) AddDevice(index int) (model.Event, bool) {
	pad := sdl.GameControllerOpen(index)
	if pad == nil {
		slog.ErrorContext(s.ctx, "Could not open controller", "index", index, "error", sdl.GetError())

		return nil, false
	}

	id := model.DeviceID(pad.Joystick().InstanceID())

	s.lock.Lock()
	defer s.lock.Unlock()

	if _, exists := s.devices[id]; exists {
		slog.DebugContext(s.ctx, "Controller already open, skipping", "device", id)

		return nil, false
	}

	s.devices[id] = pad
	name := pad.Name()

	slog.InfoContext(s.ctx, "Controller added", "device", id, "name", name)

	return model.DeviceEvent{Device: id, Added: true, Name: name}, true
}

func (s *Source) CloseDevice(id model.DeviceID) (model.Event, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	pad, exists := s.devices[id]
	if !exists {
		slog.InfoContext(s.ctx, "Controller not found in list", "device", id)

		return nil, false
	}

	pad.Close()
	delete(s.devices, id)

	slog.InfoContext(s.ctx, "Controller removed", "device", id)

	return model.DeviceEvent{Device: id}, true
}

func (s *Source) closeAll() {
	s.lock.Lock()
	defer s.lock.Unlock()

	for id, pad := range s.devices {
		pad.Close()
		delete(s.devices, id)
	}
}

var buttons = map[uint8]model.Button{
	uint8(sdl.CONTROLLER_BUTTON_A):             model.A,
	uint8(sdl.CONTROLLER_BUTTON_B):             model.B,
	uint8(sdl.CONTROLLER_BUTTON_X):             model.X,
	uint8(sdl.CONTROLLER_BUTTON_Y):             model.Y,
	uint8(sdl.CONTROLLER_BUTTON_BACK):          model.Back,
	uint8(sdl.CONTROLLER_BUTTON_GUIDE):         model.Guide,
	uint8(sdl.CONTROLLER_BUTTON_START):         model.Start,
	uint8(sdl.CONTROLLER_BUTTON_LEFTSTICK):     model.L3,
	uint8(sdl.CONTROLLER_BUTTON_RIGHTSTICK):    model.R3,
	uint8(sdl.CONTROLLER_BUTTON_LEFTSHOULDER):  model.L1,
	uint8(sdl.CONTROLLER_BUTTON_RIGHTSHOULDER): model.R1,
	uint8(sdl.CONTROLLER_BUTTON_DPAD_UP):       model.Up,
	uint8(sdl.CONTROLLER_BUTTON_DPAD_DOWN):     model.Down,
	uint8(sdl.CONTROLLER_BUTTON_DPAD_LEFT):     model.Left,
	uint8(sdl.CONTROLLER_BUTTON_DPAD_RIGHT):    model.Right,
}

var axes = map[uint8]model.Axis{
	uint8(sdl.CONTROLLER_AXIS_LEFTX):        model.LeftX,
	uint8(sdl.CONTROLLER_AXIS_LEFTY):        model.LeftY,
	uint8(sdl.CONTROLLER_AXIS_RIGHTX):       model.RightX,
	uint8(sdl.CONTROLLER_AXIS_RIGHTY):       model.RightY,
	uint8(sdl.CONTROLLER_AXIS_TRIGGERLEFT):  model.TriggerLeft,
	uint8(sdl.CONTROLLER_AXIS_TRIGGERRIGHT): model.TriggerRight,
}

// Translate converts the stateless SDL events. Buttons and axes SDL has no
// logical name for are dropped.
func Translate(ev sdl.Event) (model.Event, bool) {
	switch e := ev.(type) {
	case *sdl.ControllerButtonEvent:
		b, ok := buttons[e.Button]
		if !ok {
			return nil, false
		}

		return model.ButtonEvent{
			Device:  model.DeviceID(e.Which),
			Button:  b,
			Pressed: e.State == uint8(sdl.PRESSED),
		}, true
	case *sdl.ControllerAxisEvent:
		a, ok := axes[e.Axis]
		if !ok {
			return nil, false
		}

		return model.AxisEvent{
			Device: model.DeviceID(e.Which),
			Axis:   a,
			Value:  int(e.Value),
		}, true
	case *sdl.QuitEvent:
		return model.QuitEvent{}, true
	default:
		return nil, false
	}
}
