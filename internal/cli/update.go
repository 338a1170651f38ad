package cli

import (
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
)

var updateAll bool

var updateCmd = &cobra.Command{
	Use:   "update [skill]",
	Short: "Refresh skills from their sources",
	Long: `Refresh a skill from the local directory or repository it was installed
from. Copies held by tools are refreshed too; linked tools see the new
content immediately.

Examples:
  skillshub update review
  skillshub update --all`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUpdate,
}

func init() {
	updateCmd.Flags().BoolVar(&updateAll, "all", false, "Update every managed skill")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if !updateAll && len(args) == 0 {
		return errors.New("name a skill or pass --all")
	}

	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	var ids []string
	if updateAll {
		skills, err := a.db.ListSkills()
		if err != nil {
			return fmt.Errorf("list skills: %w", err)
		}
		for _, s := range skills {
			ids = append(ids, s.ID)
		}
	} else {
		skill, err := a.resolveSkill(args[0])
		if err != nil {
			return err
		}
		ids = []string{skill.ID}
	}

	out := cmd.OutOrStdout()
	var failed *multierror.Error
	for _, id := range ids {
		res, err := a.installer.Update(ctx, id)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%s %s: %v\n", errorStyle.Render("✗"), shortID(id), err)
			failed = multierror.Append(failed, err)
			continue
		}

		_, _ = fmt.Fprintf(out, "%s %s", successStyle.Render("✓"), nameStyle.Render(res.Name))
		if change := res.VersionChange(); change != "" {
			_, _ = fmt.Fprintf(out, " %s", change)
		}
		if res.SourceRevision != "" {
			_, _ = fmt.Fprintf(out, " %s", mutedStyle.Render(shortID(res.SourceRevision)))
		}
		_, _ = fmt.Fprintln(out)
		for _, tool := range res.UpdatedTargets {
			_, _ = fmt.Fprintf(out, "    refreshed %s copy\n", tool)
		}
		if res.TargetErrors != nil {
			_, _ = fmt.Fprintf(out, "    %s %v\n", warnStyle.Render("target errors:"), res.TargetErrors)
		}
	}
	return failed.ErrorOrNil()
}
