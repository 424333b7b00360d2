package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <repo>",
	Short: "Explain which files a repository's filters exclude",
	Long: `Analyze walks every git-tracked file in the repository and reports,
per exclusion rule, how many files (or directories) it filters out and a
few examples. Useful when a repository's counts look wrong.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	abs, err := filepath.Abs(args[0])
	if err != nil {
		abs = args[0]
	}

	report, err := src.AnalyzeExclusions(abs)
	if err != nil {
		return fmt.Errorf("analyzing %s: %w", filepath.Base(abs), err)
	}

	if flagJSON {
		return printJSON(report)
	}

	fmt.Println(output.Section(fmt.Sprintf("Exclusion analysis: %s", filepath.Base(abs))))
	fmt.Println(" Project type:", output.StyleBold.Render(report.ProjectType))
	fmt.Println(" Tracked files:", output.FormatCount(float64(report.TotalTracked)))
	fmt.Println()

	printBucket("Excluded directories", report.ByDir)
	printBucket("Excluded by extension", report.ByExtension)
	printBucket("Excluded by filename", report.ByFilename)
	printBucket("Outside inclusion patterns", report.ByIncludeMiss)
	printBucket("Included", report.Included)
	return nil
}

func printBucket(label string, b gitlog.Bucket) {
	fmt.Printf(" %s: %d\n", output.StyleHeader.Render(label), b.Count)
	if len(b.Examples) > 0 {
		fmt.Printf("   %s\n", output.StyleMuted.Render(strings.Join(b.Examples, "\n   ")))
	}
}
