package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/config"
	"github.com/starjokerZYJ/skills-hub/internal/github"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search GitHub for skill repositories",
	Long: `Search GitHub repositories, most starred first. Set SKILLSHUB_GITHUB_TOKEN
(or GITHUB_TOKEN) for a higher rate limit.

Example:
  skillshub search "claude skills"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", github.DefaultLimit, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	client, err := github.NewClient(github.Options{Token: cfg.GitHubToken})
	if err != nil {
		return err
	}

	query := strings.Join(args, " ")
	repos, err := client.SearchRepositories(cmd.Context(), query, searchLimit)
	if err != nil {
		return fmt.Errorf("search %q: %w", query, err)
	}

	out := cmd.OutOrStdout()
	if len(repos) == 0 {
		_, _ = fmt.Fprintf(out, "No repositories found for %q\n", query)
		return nil
	}
	for _, r := range repos {
		_, _ = fmt.Fprintf(out, "%s %s\n", nameStyle.Render(r.FullName), mutedStyle.Render(fmt.Sprintf("★ %d", r.Stars)))
		if r.Description != "" {
			_, _ = fmt.Fprintf(out, "    %s\n", r.Description)
		}
		_, _ = fmt.Fprintf(out, "    %s\n", r.HTMLURL)
	}
	return nil
}
