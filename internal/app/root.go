// Package app contains the Cobra command tree for gitmetrics.
package app

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/config"
	"github.com/blackwell-systems/gitmetrics/internal/gitstats"
	"github.com/blackwell-systems/gitmetrics/internal/output"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

var appVersion = "dev"

// SetVersion sets the application version (called from main with ldflags value).
func SetVersion(v string) {
	appVersion = v
	rootCmd.Version = v
}

var (
	flagNoColor bool
	flagJSON    bool
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "gitmetrics",
	Short: "Code-contribution statistics across your git repositories",
	Long: `gitmetrics computes historical contribution statistics (lines added
and removed, commits, projects created) across all git repositories found
under the configured scan paths, filtered by author and per-project-type
file rules. Daily results are cached so immutable history is queried once.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("gitmetrics", appVersion)
		fmt.Println()
		fmt.Println("Use a subcommand:")
		fmt.Println("  stats     Aggregate line/commit statistics over a date range")
		fmt.Println("  repos     List repositories, top by net lines, or by commits")
		fmt.Println("  types     Inspect and assign project types")
		fmt.Println("  analyze   Explain which files a repository's filters exclude")
		fmt.Println("  cache     Inspect or clear the daily-stats cache")
		return nil
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path (default: ~/.config/gitmetrics/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
}

// openEngine loads configuration, opens the cache database, and wires the
// statistics source. The caller owns the returned DB handle.
func openEngine() (*config.Config, *store.DB, *gitstats.Source, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	if flagNoColor || !cfg.Output.Color || !output.StdoutIsTerminal() {
		output.SetNoColor(true)
	}

	// Per-repository git warnings are noise in normal runs.
	if !flagVerbose {
		log.SetOutput(io.Discard)
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening cache database: %w", err)
	}

	return cfg, db, gitstats.NewSource(cfg, db), nil
}

// withProgress installs a terminal progress line on the source and returns
// its cleanup func. JSON mode and non-terminal output stay quiet.
func withProgress(src *gitstats.Source) func() {
	enabled := !flagJSON && output.StdoutIsTerminal()
	p := output.NewProgress(os.Stderr, enabled)
	src.SetProgress(p.Update)
	return p.Done
}
