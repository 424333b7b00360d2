package app

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/config"
	"github.com/blackwell-systems/gitmetrics/internal/output"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the daily-stats cache",
}

var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cache location and row counts",
	RunE:  runCacheStatus,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear [repo]",
	Short: "Delete cached statistics (for one repository, or all)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheStatus(cmd *cobra.Command, args []string) error {
	_, db, _, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := db.CachedRowCount()
	if err != nil {
		return err
	}

	if flagJSON {
		return printJSON(map[string]any{"path": config.DBPath(), "cached_days": rows})
	}
	fmt.Println("Database:", output.StyleMuted.Render(config.DBPath()))
	fmt.Println("Cached day rows:", output.FormatCount(float64(rows)))
	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	if len(args) == 1 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			abs = args[0]
		}
		if err := src.ClearRepoCache(abs); err != nil {
			return err
		}
		fmt.Printf("Cleared cached statistics for %s\n", filepath.Base(abs))
		return nil
	}

	if err := src.ClearCache(); err != nil {
		return err
	}
	fmt.Println("Cleared all cached statistics")
	return nil
}
