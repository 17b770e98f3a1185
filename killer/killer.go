// Package killer closes the application the controller is driving.
package killer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/dasdy/padkeys/keymap"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/output"
)

const (
	DefaultGrace    = 3 * time.Second
	altF4Pause      = 15 * time.Millisecond
	splashCommand   = "show_splash.sh"
	exultAppName    = "exult"
	forceKillSignal = "-9"
)

var ErrNoApp = errors.New("no application to kill")

// Runner runs an external command. A nil error means it exited with status 0.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

type Options struct {
	App  string
	Sudo bool
	// PCKill sends alt+f4 before killing.
	PCKill bool
	// Grace is how long the application gets before it is killed with -9.
	Grace time.Duration
	Sleep func(time.Duration)
}

// ExtraBackspace reports whether the application doubles typed spaces.
func (o Options) ExtraBackspace() bool {
	return o.Sudo && o.App == exultAppName
}

type Killer struct {
	opts   Options
	typist *output.Typist
	runner Runner
	ctx    context.Context
}

// New builds a killer. sink may be nil when PCKill is off.
func New(ctx context.Context, opts Options, sink output.Sink, runner Runner) *Killer {
	if opts.Grace == 0 {
		opts.Grace = DefaultGrace
	}

	if opts.Sleep == nil {
		opts.Sleep = time.Sleep
	}

	if runner == nil {
		runner = ExecRunner{}
	}

	return &Killer{
		opts:   opts,
		typist: &output.Typist{Sink: sink, Pause: altF4Pause, Sleep: opts.Sleep},
		runner: runner,
		ctx:    logging.WithPackage(ctx, "killer"),
	}
}

// Kill asks the application to close, waits for the grace period and kills it
// for good if it is still running.
func (k *Killer) Kill(ctx context.Context) error {
	if k.opts.PCKill && k.typist.Sink != nil {
		if err := k.typist.Press(keymap.F4, keymap.LeftAlt); err != nil {
			slog.ErrorContext(k.ctx, "Could not send alt+f4", "error", err)
		}
	}

	if k.opts.App == "" {
		return ErrNoApp
	}

	slog.InfoContext(k.ctx, "Killing", "app", k.opts.App, "sudo", k.opts.Sudo)

	if err := k.run(ctx, "killall", k.opts.App); err != nil {
		slog.WarnContext(k.ctx, "killall failed", "app", k.opts.App, "error", err)
	}

	if !k.opts.Sudo {
		if err := k.runner.Run(ctx, splashCommand, "exit"); err != nil {
			slog.DebugContext(k.ctx, "Could not run splash command", "error", err)
		}
	}

	k.opts.Sleep(k.opts.Grace)

	if err := k.runner.Run(ctx, "pgrep", k.opts.App); err != nil {
		return nil
	}

	slog.WarnContext(k.ctx, "Forcefully killing", "app", k.opts.App)

	if err := k.run(ctx, "killall", forceKillSignal, k.opts.App); err != nil {
		return fmt.Errorf("could not kill %s: %w", k.opts.App, err)
	}

	return nil
}

func (k *Killer) run(ctx context.Context, name string, args ...string) error {
	if k.opts.Sudo {
		return k.runner.Run(ctx, "sudo", append([]string{name}, args...)...)
	}

	return k.runner.Run(ctx, name, args...)
}
