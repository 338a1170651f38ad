package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/installer"
)

var candidatesCmd = &cobra.Command{
	Use:   "candidates <repository|path>",
	Short: "List the skills a repository or directory offers",
	Long: `List installable skills found at the repository root or under
skills/, skills/.curated/, skills/.experimental/ and skills/.system/.

Install one with 'skillshub install <repository|path> --subpath <subpath>'.`,
	Args: cobra.ExactArgs(1),
	RunE: runCandidates,
}

func runCandidates(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ref := args[0]
	var candidates []installer.Candidate
	if isLocalPath(ref) {
		candidates, err = a.installer.ListLocalSkills(ref)
	} else {
		candidates, err = a.installer.ListGitSkills(ctx, ref)
	}
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(candidates) == 0 {
		_, _ = fmt.Fprintln(out, "No skills found.")
		return nil
	}

	_, _ = fmt.Fprintf(out, "%s (%d)\n", headerStyle.Render("CANDIDATES"), len(candidates))
	_, _ = fmt.Fprintln(out, divider)
	for _, c := range candidates {
		line := fmt.Sprintf("  %-30s %s", nameStyle.Render(c.Name), mutedStyle.Render(c.Subpath))
		if !c.Valid {
			line += "  " + warnStyle.Render("("+c.Reason+")")
		}
		_, _ = fmt.Fprintln(out, line)
		if c.Description != "" {
			_, _ = fmt.Fprintf(out, "      %s\n", c.Description)
		}
	}
	return nil
}
