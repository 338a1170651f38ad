package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var removeForce bool

var removeCmd = &cobra.Command{
	Use:     "remove <skill>",
	Aliases: []string{"rm"},
	Short:   "Remove a skill (alias: rm)",
	Long: `Remove a skill from every tool, delete its central copy and forget it.

Examples:
  skillshub remove review
  skillshub rm review --force`,
	Args: cobra.ExactArgs(1),
	RunE: runRemove,
}

func init() {
	removeCmd.Flags().BoolVarP(&removeForce, "force", "f", false, "Skip confirmation prompt")
}

func runRemove(cmd *cobra.Command, args []string) error {
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

	out := cmd.OutOrStdout()
	if !removeForce {
		_, _ = fmt.Fprintf(out, "Remove %s and all of its tool targets? [y/N] ", skill.Name)
		answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if resp := strings.ToLower(strings.TrimSpace(answer)); resp != "y" && resp != "yes" {
			_, _ = fmt.Fprintln(out, "Cancelled.")
			return nil
		}
	}

	if err := a.installer.DeleteSkill(ctx, skill.ID); err != nil {
		_, _ = fmt.Fprintf(out, "%s %v\n", warnStyle.Render("warning:"), err)
		return fmt.Errorf("remove %s: %w", skill.Name, err)
	}
	_, _ = fmt.Fprintf(out, "%s %s\n", successStyle.Render("Removed"), nameStyle.Render(skill.Name))
	return nil
}
