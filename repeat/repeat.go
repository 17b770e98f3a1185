// Package repeat schedules synthetic key repeats.
//
// Only one key repeats at a time. Timers never touch caller state: each firing is
// delivered as a Tick on a channel and the consumer checks it with Accept, so a
// tick that raced with Stop is dropped instead of emitting a stale key.
package repeat

import (
	"log/slog"
	"sync"
	"time"

	"github.com/dasdy/padkeys/model"
)

type Timer interface {
	Stop() bool
}

// Clock abstracts time.AfterFunc so tests can drive the scheduler by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

var RealClock Clock = realClock{}

type Tick struct {
	Key model.KeyCode
	gen uint64
}

type Scheduler struct {
	clock    Clock
	delay    time.Duration
	interval time.Duration
	ticks    chan Tick
	done     chan struct{}

	lock   sync.Mutex
	key    model.KeyCode
	gen    uint64
	active bool
	timer  Timer
	closed bool
}

func New(clock Clock, delay, interval time.Duration) *Scheduler {
	if clock == nil {
		clock = RealClock
	}

	return &Scheduler{
		clock:    clock,
		delay:    delay,
		interval: interval,
		ticks:    make(chan Tick, 1),
		done:     make(chan struct{}),
	}
}

// Ticks delivers repeat ticks. Pass every received tick through Accept.
func (s *Scheduler) Ticks() <-chan Tick {
	return s.ticks
}

// Start begins repeating key after the initial delay. Starting the key that is
// already repeating does nothing; any other active repeat is cancelled first.
func (s *Scheduler) Start(key model.KeyCode) bool {
	return s.StartAfter(key, s.delay)
}

// StartAfter is Start with an explicit first delay.
func (s *Scheduler) StartAfter(key model.KeyCode, first time.Duration) bool {
	if key == model.NoKey {
		return false
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed || (s.active && s.key == key) {
		return false
	}

	s.cancelLocked()

	s.gen++
	s.key = key
	s.active = true
	s.armLocked(s.gen, first)

	slog.Debug("repeat started", "key", key, "delay", first)

	return true
}

// Stop cancels the active repeat, if any.
func (s *Scheduler) Stop() {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.cancelLocked()
}

// StopKey cancels the active repeat only when key is the one repeating.
func (s *Scheduler) StopKey(key model.KeyCode) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.active && s.key == key {
		s.cancelLocked()
	}
}

// Active returns the repeating key.
func (s *Scheduler) Active() (model.KeyCode, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.key, s.active
}

// Accept reports whether tick belongs to the repeat that is active now.
func (s *Scheduler) Accept(tick Tick) bool {
	s.lock.Lock()
	defer s.lock.Unlock()

	return s.active && tick.gen == s.gen && tick.Key == s.key
}

// Close stops the scheduler for good. Pending timers drop their ticks.
func (s *Scheduler) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.closed {
		return
	}

	s.cancelLocked()
	s.closed = true
	close(s.done)
}

func (s *Scheduler) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}

	if s.active {
		slog.Debug("repeat stopped", "key", s.key)
	}

	s.active = false
	s.key = model.NoKey
}

func (s *Scheduler) armLocked(gen uint64, d time.Duration) {
	s.timer = s.clock.AfterFunc(d, func() { s.fire(gen) })
}

func (s *Scheduler) fire(gen uint64) {
	s.lock.Lock()
	if !s.active || gen != s.gen {
		s.lock.Unlock()

		return
	}

	tick := Tick{Key: s.key, gen: gen}
	s.armLocked(gen, s.interval)
	s.lock.Unlock()

	select {
	case s.ticks <- tick:
	case <-s.done:
	}
}
