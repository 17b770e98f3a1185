package padkeys

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasdy/padkeys/controller"
	"github.com/dasdy/padkeys/dispatch"
	"github.com/dasdy/padkeys/engine"
	"github.com/dasdy/padkeys/gamepad"
	"github.com/dasdy/padkeys/output"
	"github.com/spf13/cobra"
)

// xboxCmd represents the xbox360 command.
var xboxCmd = &cobra.Command{
	Use:   "xbox360",
	Short: "Present the controller as an Xbox 360 pad",
	Long: `Forwards buttons and sticks to a virtual Xbox 360 pad, for applications
that only know that layout. Triggers are reported as buttons.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, session := sessionContext(cmd)
		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		slog.InfoContext(ctx, "Starting Xbox 360 mode", "session", session)

		pad, err := output.NewGamepad(output.DefaultGamepadName)
		if err != nil {
			return err
		}
		defer pad.Close()

		var sink output.Sink

		if pcKill {
			kb, err := output.NewKeyboard(output.DefaultKeyboardName)
			if err != nil {
				return err
			}
			defer kb.Close()

			sink = kb
		}

		source, err := controller.Open(ctx, controller.Options{MappingsFile: mappingsFile})
		if err != nil {
			return fmt.Errorf("could not open controllers: %w", err)
		}
		defer source.Close()

		kill := newKiller(ctx, sink)

		p := gamepad.New(ctx, gamepad.Options{
			Hotkeys:         dispatch.ResolveHotkeys(hotkey, emuelec),
			Kill:            kill != nil,
			TriggerDeadzone: triggerDeadzone,
		}, pad)

		return engine.NewPassthrough(ctx, source, p, kill).Run(ctx)
	},
}

var triggerDeadzone int

func init() {
	rootCmd.AddCommand(xboxCmd)

	xboxCmd.Flags().IntVar(&triggerDeadzone,
		"trigger-deadzone",
		3000,
		"Raw trigger value above which a trigger counts as pressed")
}
