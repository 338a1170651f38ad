package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

var syncMode string

var syncCmd = &cobra.Command{
	Use:   "sync <skill> <tool>",
	Short: "Make a skill available to a tool",
	Long: `Link or copy a managed skill into a tool's skills directory.

Links are used by default; tools that do not follow symlinks always get a
copy. Run 'skillshub tools' for the list of tool keys.

Examples:
  skillshub sync review claude
  skillshub sync review cursor --mode copy`,
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

var unsyncCmd = &cobra.Command{
	Use:   "unsync <skill> <tool>",
	Short: "Remove a skill from a tool",
	Long:  `Remove a skill's link or copy from a tool. The central copy is kept.`,
	Args:  cobra.ExactArgs(2),
	RunE:  runUnsync,
}

func init() {
	syncCmd.Flags().StringVar(&syncMode, "mode", models.ModeLink, "Sync mode: link or copy")
}

func runSync(cmd *cobra.Command, args []string) error {
	if syncMode != models.ModeLink && syncMode != models.ModeCopy {
		return fmt.Errorf("invalid mode %q: use link or copy", syncMode)
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	skill, err := a.resolveSkill(args[0])
	if err != nil {
		return err
	}
	target, err := a.installer.SyncToTool(ctx, skill.ID, args[1], syncMode)
	if err != nil {
		return fmt.Errorf("sync %s to %s: %w", skill.Name, args[1], err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s (%s)\n",
		successStyle.Render("Synced"), nameStyle.Render(skill.Name), target.TargetPath, target.Mode)
	return nil
}

func runUnsync(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	skill, err := a.resolveSkill(args[0])
	if err != nil {
		return err
	}
	if err := a.installer.UnsyncFromTool(ctx, skill.ID, args[1]); err != nil {
		return fmt.Errorf("unsync %s from %s: %w", skill.Name, args[1], err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s from %s\n",
		successStyle.Render("Removed"), nameStyle.Render(skill.Name), args[1])
	return nil
}
