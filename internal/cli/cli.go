// Package cli provides the command-line interface for skills-hub.
package cli

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/pkg/version"
)

var rootCmd = &cobra.Command{
	Use:   "skillshub",
	Short: "Manage AI assistant skills in one place",
	Long: `Manage AI assistant skills in one place.

skillshub keeps one canonical copy of every skill under ~/.skillshub/skills,
installs skills from local directories or git repositories, and links or
copies them into each tool's skills directory (Claude Code, Cursor, Codex,
OpenCode, Windsurf and more).

Configuration is read from ~/.skillshub/config.yaml and SKILLSHUB_*
environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(candidatesCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(unsyncCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(toolsCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the CLI with fang enhancements.
func Execute(ctx context.Context) error {
	return fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithCommit(version.Commit),
	)
}
