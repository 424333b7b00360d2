package app

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/gitstats"
	"github.com/blackwell-systems/gitmetrics/internal/output"
	"github.com/blackwell-systems/gitmetrics/internal/periods"
)

var (
	statsFlagStat  string
	statsFlagSince string
	statsFlagUntil string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Aggregate line/commit statistics over a date range",
	Long: `Stats sums one statistic (added, removed, net, commits, or created)
across every discovered repository. With --since/--until it prints the sum
for that inclusive range; without bounds it prints the full period table
(last 7 days, this month, averages, trend).`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFlagStat, "stat", "net", "Statistic: added, removed, net, commits, created")
	statsCmd.Flags().StringVar(&statsFlagSince, "since", "", "First day to include (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsFlagUntil, "until", "", "Last day to include (YYYY-MM-DD)")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	sum, label, err := sumFuncFor(src, statsFlagStat)
	if err != nil {
		return err
	}

	done := withProgress(src)
	defer done()

	start, err := parseDayFlag(statsFlagSince)
	if err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}
	end, err := parseDayFlag(statsFlagUntil)
	if err != nil {
		return fmt.Errorf("invalid --until: %w", err)
	}

	// Bounded query: one number.
	if start != nil || end != nil {
		value, err := sum(start, end)
		if err != nil {
			return err
		}
		done()
		if flagJSON {
			return printJSON(map[string]any{"stat": statsFlagStat, "value": value})
		}
		fmt.Printf("%s: %s\n", label, output.StyleBold.Render(output.FormatCount(value)))
		return nil
	}

	// No bounds: the full period table.
	stats, err := periods.Calculate(periods.SumFunc(sum))
	if err != nil {
		return err
	}
	done()

	if flagJSON {
		return printJSON(stats)
	}
	printPeriodTable(label, stats)
	return nil
}

// sumFuncFor resolves the --stat flag into a sum function and its display
// label. "created" is a separate counter, not a StatKind.
func sumFuncFor(src *gitstats.Source, stat string) (gitstats.SumFunc, string, error) {
	if stat == "created" {
		return src.CreatedSumFunc(), "Projects created", nil
	}
	kind, err := gitstats.ParseStatKind(stat)
	if err != nil {
		return nil, "", err
	}
	labels := map[gitstats.StatKind]string{
		gitstats.Added:   "Lines added",
		gitstats.Removed: "Lines removed",
		gitstats.Net:     "Net lines",
		gitstats.Commits: "Commits",
	}
	return src.SumFor(kind), labels[kind], nil
}

func printPeriodTable(label string, stats *periods.TimeStats) {
	fmt.Println(output.Section(label))

	t := output.NewTable("Period", "Value")
	t.AddRow("Last 7 days", output.FormatCount(stats.Last7Days))
	t.AddRow("Last 31 days", output.FormatCount(stats.Last31Days))
	t.AddRow("This week", output.FormatCount(stats.ThisWeek))
	t.AddRow("This month", output.FormatCount(stats.ThisMonth))
	t.AddRow("Last month", output.FormatCount(stats.LastMonth))
	t.AddRow("Last 12 months", output.FormatCount(stats.Last12Months))
	t.AddRow("Total", output.FormatCount(stats.Total))
	t.AddRow("Avg/day (last 30 days)", fmt.Sprintf("%.1f", stats.AvgPerDayLast30Days))
	t.AddRow("Avg/day (this year)", fmt.Sprintf("%.1f", stats.AvgPerDayThisYear))
	t.AddRow("Avg/day (last year)", fmt.Sprintf("%.1f", stats.AvgPerDayLastYear))
	if stats.TrendVsPrevious30Days != nil {
		t.AddRow("vs previous 30 days", fmt.Sprintf("%+.1f%%", *stats.TrendVsPrevious30Days))
	}
	fmt.Print(t.Render())
}

func parseDayFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(gitlog.DayFormat, value, time.Local)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
