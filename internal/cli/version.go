package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}
