package padkeys

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/dasdy/padkeys/controller"
	"github.com/dasdy/padkeys/engine"
	"github.com/dasdy/padkeys/killer"
	"github.com/dasdy/padkeys/logging"
	"github.com/dasdy/padkeys/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gitlab.com/greyxor/slogor"
)

var (
	settingsFile string
	verbose      bool

	hotkey       string
	emuelec      bool
	killApp      string
	sudoKillApp  string
	pcKill       bool
	mappingsFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "padkeys",
	Short: "Drive keyboard-only applications with a game controller",
	Long: `Padkeys reads game controllers through SDL and injects keyboard, mouse or
Xbox 360 gamepad events through uinput, following a .gptk mapping file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		bindFlags(cmd, args)
		setupLogging(verbose)
	},
	SilenceUsage: true,
}

// env lists the variables the launch scripts of handheld distributions set,
// keyed by the config name of the flag they feed.
var env = map[string]string{
	"hotkey":         "HOTKEY",
	"emuelec":        "EMUELEC",
	"pckill":         "PCKILLMODE",
	"preset":         "TEXTINPUTPRESET",
	"textinput":      "TEXTINPUTINTERACTIVE",
	"noautocapitals": "TEXTINPUTNOAUTOCAPITALS",
	"extrasymbols":   "TEXTINPUTADDEXTRASYMBOLS",
	"mappings":       controller.MappingsEnv,
}

// presence lists the variables that count as set whatever their value is.
var presence = map[string]bool{
	"emuelec": true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.ExecuteContext(context.Background())
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.padkeys.toml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "If provided, debug output will be shown")
	flags.StringVar(&hotkey, "hotkey", "", "Button used as the hotkey (default guide and back)")
	flags.BoolVar(&emuelec, "emuelec", false, "Never use back as the hotkey")
	flags.StringVarP(&killApp, "kill", "k", "", "Close this application on hotkey+start")
	flags.StringVar(&sudoKillApp, "sudokill", "", "Like --kill, running killall through sudo")
	flags.BoolVar(&pcKill, "pc-kill", false, "Send alt+f4 before killing the application")
	flags.StringVar(&mappingsFile, "mappings", "", "Extra SDL game controller mappings file")
}

func initConfig() {
	if settingsFile != "" {
		viper.SetConfigFile(settingsFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".padkeys")
	}

	viper.SetEnvPrefix("padkeys")
	viper.AutomaticEnv()

	for key, name := range env {
		cobra.CheckErr(viper.BindEnv(key, name))
	}

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			slog.Error("Error reading settings file", "error", err)
			os.Exit(1)
		}
	}
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Since viper does case-insensitive comparisons, we only need to remove the hyphens.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if f.Changed || !viper.IsSet(configName) {
			return
		}

		val := fmt.Sprintf("%v", viper.Get(configName))
		if f.Value.Type() == "bool" {
			val = fmt.Sprintf("%t", envBool(configName, val))
		}

		if err := cmd.Flags().Set(f.Name, val); err != nil {
			slog.Error("Error setting flag", "flag", f.Name, "error", err)
			panic(err)
		}

		slog.Debug("Flag set to config value", "flag", f.Name, "value", val)
	})
}

// envBool reads the Y/N convention of the launch scripts next to the usual forms.
func envBool(configName, val string) bool {
	if presence[configName] {
		return val != ""
	}

	switch strings.ToLower(strings.TrimSpace(val)) {
	case "y", "yes", "true", "1":
		return true
	default:
		return false
	}
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(slog.New(logging.ContextHandler{
		Handler: slogor.NewHandler(os.Stderr,
			slogor.SetLevel(level),
			slogor.SetTimeFormat(time.DateTime),
			slogor.ShowSource()),
	}))
}

// killOptions resolves --kill and --sudokill. --sudokill wins when both are set.
func killOptions() killer.Options {
	opts := killer.Options{App: killApp, PCKill: pcKill}

	if sudoKillApp != "" {
		opts.App = sudoKillApp
		opts.Sudo = true
	}

	return opts
}

// newKiller returns nil unless kill mode is on.
func newKiller(ctx context.Context, sink output.Sink) engine.Killer {
	opts := killOptions()
	if opts.App == "" {
		return nil
	}

	slog.InfoContext(ctx, "Kill mode on", "app", opts.App, "sudo", opts.Sudo, "pc_kill", opts.PCKill)

	return killer.New(ctx, opts, sink, nil)
}

func sessionContext(cmd *cobra.Command) (context.Context, string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	return logging.SessionCtx(ctx)
}
