package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/starjokerZYJ/skills-hub/internal/config"
	"github.com/starjokerZYJ/skills-hub/internal/models"
)

var cacheCleanupDays int

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage cached repository clones",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached clone",
	Args:  cobra.NoArgs,
	RunE:  runCacheClear,
}

var cacheCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete clones that have not been fetched recently",
	Args:  cobra.NoArgs,
	RunE:  runCacheCleanup,
}

var cacheTTLCmd = &cobra.Command{
	Use:   "ttl [seconds]",
	Short: "Show or set how long a cached clone is reused",
	Long: `Show or set how long a cached clone is reused before it is fetched again.
Zero means every install and update fetches.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCacheTTL,
}

func init() {
	cacheCleanupCmd.Flags().IntVar(&cacheCleanupDays, "days", 0, "Age in days (defaults to the configured cleanup age)")
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheCleanupCmd)
	cacheCmd.AddCommand(cacheTTLCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	removed, err := a.cache.ClearAll()
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d cached clones\n", successStyle.Render("Removed"), removed)
	return nil
}

func runCacheCleanup(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	days := cacheCleanupDays
	if days <= 0 {
		days = config.GitCacheCleanupDays(a.cfg, a.db)
	}
	if days <= 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cache cleanup is disabled; pass --days to run it anyway.")
		return nil
	}

	removed, err := a.cache.CleanupOlderThan(time.Duration(days) * 24 * time.Hour)
	if err != nil {
		return fmt.Errorf("clean up cache: %w", err)
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d clones older than %d days\n", successStyle.Render("Removed"), removed, days)
	return nil
}

func runCacheTTL(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if len(args) == 0 {
		_, _ = fmt.Fprintf(out, "%d\n", config.GitCacheTTLSecs(a.cfg, a.db))
		return nil
	}

	secs, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || secs < 0 {
		return fmt.Errorf("invalid ttl %q: want a non-negative number of seconds", args[0])
	}
	if err := a.db.SetSetting(models.SettingGitCacheTTLSecs, strconv.FormatInt(secs, 10)); err != nil {
		return fmt.Errorf("save ttl: %w", err)
	}
	_, _ = fmt.Fprintf(out, "%s cache TTL to %ds\n", successStyle.Render("Set"), secs)
	return nil
}
