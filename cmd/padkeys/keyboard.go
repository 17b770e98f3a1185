package padkeys

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasdy/padkeys/config"
	"github.com/dasdy/padkeys/controller"
	"github.com/dasdy/padkeys/dispatch"
	"github.com/dasdy/padkeys/engine"
	"github.com/dasdy/padkeys/model"
	"github.com/dasdy/padkeys/output"
	"github.com/dasdy/padkeys/repeat"
	"github.com/dasdy/padkeys/textentry"
	"github.com/spf13/cobra"
)

// keyboardCmd represents the keyboard command.
var keyboardCmd = &cobra.Command{
	Use:   "keyboard",
	Short: "Map the controller to a virtual keyboard and mouse",
	Long: `Reads the .gptk mapping file and turns controller input into key strokes
and pointer motion. Hotkey+start closes the application given with --kill,
start+down opens text entry when --textinput is set.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, session := sessionContext(cmd)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.InfoContext(ctx, "Starting keyboard mode", "session", session, "config", gptkPath)

		cfg, err := config.Load(gptkPath)
		if err != nil {
			return err
		}

		kb, err := output.NewKeyboard(output.DefaultKeyboardName)
		if err != nil {
			return err
		}
		defer kb.Close()

		source, err := controller.Open(ctx, controller.Options{MappingsFile: mappingsFile})
		if err != nil {
			return fmt.Errorf("could not open controllers: %w", err)
		}
		defer source.Close()

		sched := repeat.New(nil, cfg.RepeatDelay, cfg.RepeatInterval)
		defer sched.Close()

		hotkeys := dispatch.ResolveHotkeys(hotkey, emuelec)
		kill := newKiller(ctx, kb)

		d := dispatch.New(ctx, dispatch.Options{
			Bindings:        cfg.Bindings,
			Hotkeys:         hotkeys,
			Kill:            kill != nil,
			TextEntry:       textInput,
			Preset:          preset != "",
			DPadMouse:       cfg.DPadMouse,
			LeftStickMouse:  cfg.LeftStickMouse,
			RightStickMouse: cfg.RightStickMouse,
			DPadMouseStep:   cfg.DPadMouseStep,
			MouseSlow:       cfg.MouseSlow,
			MouseSlowScale:  cfg.MouseSlowScale,
			StickDeadzone:   cfg.Deadzone,
			TriggerDeadzone: cfg.DeadzoneTriggers,
			Deadzone:        cfg.DeadzoneEngine(),
			ReplayDelay:     cfg.HotkeyDelay,
		}, kb, sched)

		var text *textentry.Machine

		if textInput {
			text = textentry.New(ctx, textEntryOptions(cfg, hotkeys), kb, sched)
		}

		e := engine.New(ctx, engine.Parts{
			Source:     source,
			Sink:       kb,
			Dispatcher: d,
			Repeat:     sched,
			TextEntry:  text,
			Killer:     kill,
			Preset:     preset,
			Frame:      cfg.MouseDelay,
			Typist:     output.NewTypist(kb, output.DefaultPause),
		})

		return e.Run(ctx)
	},
}

// textEntryOptions types at output.DefaultPause; hotkey_delay only tunes the replay.
func textEntryOptions(cfg *config.Config, hotkeys model.ButtonState) textentry.Options {
	charset := textentry.Basic
	if extraSymbols {
		charset = textentry.Extended
	}

	return textentry.Options{
		Charset:        charset,
		NoAutoCapitals: noAutoCapitals,
		ExtraBackspace: killOptions().ExtraBackspace(),
		Cancel:         hotkeys,
		RepeatInterval: cfg.RepeatInterval,
		Pause:          output.DefaultPause,
	}
}

var (
	gptkPath       string
	textInput      bool
	preset         string
	noAutoCapitals bool
	extraSymbols   bool
)

func init() {
	rootCmd.AddCommand(keyboardCmd)

	keyboardCmd.Flags().StringVarP(
		&gptkPath,
		"config",
		"c",
		config.DefaultPath,
		"Mapping file in .gptk format")

	keyboardCmd.Flags().BoolVar(&textInput,
		"textinput",
		false,
		"Enable interactive text entry on start+down")

	keyboardCmd.Flags().StringVar(&preset,
		"preset",
		"",
		"Text typed on start+left")

	keyboardCmd.Flags().BoolVar(&noAutoCapitals,
		"no-auto-capitals",
		false,
		"Do not capitalise the first letter and letters after a space in text entry")

	keyboardCmd.Flags().BoolVar(&extraSymbols,
		"extra-symbols",
		false,
		"Offer the extended character set in text entry")
}
