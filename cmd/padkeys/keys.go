package padkeys

import (
	"fmt"
	"strings"

	"github.com/dasdy/padkeys/keymap"
	"github.com/spf13/cobra"
)

// keysCmd represents the keys command.
var keysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List the key names accepted in .gptk files",
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(keymap.Names(), "\n"))

		return err
	},
}

func init() {
	rootCmd.AddCommand(keysCmd)
}
