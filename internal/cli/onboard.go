package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/discovery"
	"github.com/starjokerZYJ/skills-hub/internal/hash"
)

var importAs string

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Find skills your tools already have",
	Long: `Scan every installed tool's skills directory for skills the hub does not
manage yet. Skills with the same name are grouped; a group whose copies
differ in content is marked as a conflict.

Import one with 'skillshub import <tool> <name>'.`,
	Args: cobra.NoArgs,
	RunE: runOnboard,
}

var importCmd = &cobra.Command{
	Use:   "import <tool> <name>",
	Short: "Bring a discovered skill under management",
	Long: `Copy a skill found by 'skillshub onboard' into the central repository.
The tool's copy stays where it is and is refreshed by later updates.

Examples:
  skillshub import claude review
  skillshub import cursor review --as review-cursor`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	importCmd.Flags().StringVar(&importAs, "as", "", "Name for the managed skill (defaults to the discovered name)")
}

func (a *app) buildPlan(cmd *cobra.Command) (*discovery.Plan, error) {
	ex, err := discovery.LoadExclusions(a.db)
	if err != nil {
		return nil, err
	}
	scanner := discovery.NewScannerService(a.installer.CentralDir())
	return scanner.BuildPlan(cmd.Context(), a.home, a.installer.Platforms(), ex)
}

func runOnboard(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	plan, err := a.buildPlan(cmd)
	if err != nil {
		return fmt.Errorf("scan tools: %w", err)
	}

	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Scanned %d tools, found %d unmanaged skills.\n", plan.TotalToolsScanned, plan.TotalSkillsFound)
	if len(plan.Groups) == 0 {
		return nil
	}

	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, headerStyle.Render("DISCOVERED"))
	_, _ = fmt.Fprintln(out, divider)
	for _, g := range plan.Groups {
		label := nameStyle.Render(g.Name)
		if g.HasConflict {
			label += " " + warnStyle.Render("(conflict)")
		}
		_, _ = fmt.Fprintf(out, "  %s\n", label)
		for _, v := range g.Variants {
			line := fmt.Sprintf("    %-12s %s", v.Tool, v.Path)
			if v.IsLink {
				line += " → " + v.LinkTarget
			}
			if g.HasConflict && v.Fingerprint != "" {
				line += " " + mutedStyle.Render(hash.Short(v.Fingerprint))
			}
			_, _ = fmt.Fprintln(out, line)
		}
	}
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	tool, name := args[0], args[1]
	plan, err := a.buildPlan(cmd)
	if err != nil {
		return fmt.Errorf("scan tools: %w", err)
	}
	variant, ok := discovery.FindVariant(plan, tool, name)
	if !ok {
		return fmt.Errorf("no unmanaged skill %q found for %s", name, tool)
	}

	ingest := discovery.NewIngestionService(a.installer, a.db, a.nowMillis)
	res, err := ingest.ImportExisting(ctx, variant, importAs)
	if err != nil {
		return fmt.Errorf("import %s: %w", name, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s from %s\n",
		successStyle.Render("Imported"), nameStyle.Render(res.Name), variant.Path)
	return nil
}
