package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/models"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List managed skills",
	Long: `List every skill in the central repository with its source, version
and the tools it is synced to.`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	skills, err := a.db.ListSkills()
	if err != nil {
		return fmt.Errorf("list skills: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(skills) == 0 {
		_, _ = fmt.Fprintln(out, "No skills installed.")
		_, _ = fmt.Fprintln(out, "\nUse 'skillshub install <repository|path>' to add one.")
		return nil
	}

	targets, err := a.db.ListAllSkillTargets()
	if err != nil {
		return fmt.Errorf("list targets: %w", err)
	}
	toolsBySkill := make(map[string][]string)
	for _, t := range targets {
		label := t.Tool
		if t.IsCopy() {
			label += " (copy)"
		}
		if t.Status == models.StatusError {
			label += " !"
		}
		toolsBySkill[t.SkillID] = append(toolsBySkill[t.SkillID], label)
	}

	_, _ = fmt.Fprintf(out, "%s (%d)\n", headerStyle.Render("SKILLS"), len(skills))
	_, _ = fmt.Fprintln(out, divider)
	for _, s := range skills {
		name := s.Name
		if v := s.Version(); v != "" {
			name += "@" + v
		}
		_, _ = fmt.Fprintf(out, "  %s %s\n", nameStyle.Render(name), mutedStyle.Render(shortID(s.ID)))
		_, _ = fmt.Fprintf(out, "    source:  %s %s\n", s.SourceType, models.Deref(s.SourceRef))
		if s.Metadata != nil && s.Metadata.Description != "" {
			_, _ = fmt.Fprintf(out, "    about:   %s\n", s.Metadata.Description)
		}
		tools := toolsBySkill[s.ID]
		sort.Strings(tools)
		if len(tools) == 0 {
			tools = []string{"-"}
		}
		_, _ = fmt.Fprintf(out, "    tools:   %s\n", strings.Join(tools, ", "))
		_, _ = fmt.Fprintf(out, "    updated: %s\n", formatTimeSince(time.UnixMilli(s.UpdatedAt)))
		_, _ = fmt.Fprintln(out)
	}
	return nil
}

// formatTimeSince formats a duration since a time in a human-readable way.
func formatTimeSince(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	case diff < 24*time.Hour:
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	case diff < 7*24*time.Hour:
		days := int(diff.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	default:
		return t.Format("2006-01-02")
	}
}
