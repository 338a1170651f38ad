package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/detect"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Show supported tools and whether they are installed",
	Args:  cobra.NoArgs,
	RunE:  runTools,
}

func runTools(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	statuses := detect.DetectAll(a.home)
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "%s (%d installed)\n", headerStyle.Render("TOOLS"), len(detect.Installed(statuses)))
	_, _ = fmt.Fprintln(out, divider)
	for _, s := range statuses {
		mark := mutedStyle.Render("·")
		if s.Installed {
			mark = successStyle.Render("✓")
		}
		_, _ = fmt.Fprintf(out, "  %s %-14s %-20s %s\n", mark, s.Platform, s.Name, mutedStyle.Render(s.SkillsDir))
		if s.Installed {
			_, _ = fmt.Fprintf(out, "      %d skills", s.SkillsCount)
			if s.CommandPath != "" {
				_, _ = fmt.Fprintf(out, ", command %s", s.CommandPath)
			}
			_, _ = fmt.Fprintln(out)
		}
	}
	return nil
}
