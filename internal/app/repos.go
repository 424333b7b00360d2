package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/gitlog"
	"github.com/blackwell-systems/gitmetrics/internal/output"
)

var (
	reposFlagTop     int
	reposFlagCommits bool
	reposFlagCreated bool
	reposFlagSince   string
	reposFlagUntil   string
)

var reposCmd = &cobra.Command{
	Use:   "repos",
	Short: "List repositories, top by net lines, or by commits",
	Long: `Repos lists every discovered repository with its stored project type.
With --top it ranks repositories by net lines changed in the range; with
--commits it shows per-repository commit counts; with --created it lists
repositories whose first commit falls in the range.`,
	RunE: runRepos,
}

func init() {
	reposCmd.Flags().IntVar(&reposFlagTop, "top", 0, "Show the top N repositories by net lines")
	reposCmd.Flags().BoolVar(&reposFlagCommits, "commits", false, "Show commit counts per repository")
	reposCmd.Flags().BoolVar(&reposFlagCreated, "created", false, "Show repositories created in the range")
	reposCmd.Flags().StringVar(&reposFlagSince, "since", "", "First day to include (YYYY-MM-DD)")
	reposCmd.Flags().StringVar(&reposFlagUntil, "until", "", "Last day to include (YYYY-MM-DD)")

	rootCmd.AddCommand(reposCmd)
}

func runRepos(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	start, err := parseDayFlag(reposFlagSince)
	if err != nil {
		return fmt.Errorf("invalid --since: %w", err)
	}
	end, err := parseDayFlag(reposFlagUntil)
	if err != nil {
		return fmt.Errorf("invalid --until: %w", err)
	}

	done := withProgress(src)
	defer done()

	switch {
	case reposFlagTop > 0:
		top, err := src.TopRepos(start, end, reposFlagTop)
		if err != nil {
			return err
		}
		done()
		if flagJSON {
			return printJSON(top)
		}
		t := output.NewTable("Repository", "Net lines")
		for _, rv := range top {
			t.AddRow(rv.Repo.Name, output.FormatSigned(rv.Value))
		}
		fmt.Print(t.Render())
		return nil

	case reposFlagCommits:
		counts, err := src.CommitsByRepo(start, end)
		if err != nil {
			return err
		}
		done()
		if flagJSON {
			return printJSON(counts)
		}
		t := output.NewTable("Repository", "Commits")
		for _, rv := range counts {
			t.AddRow(rv.Repo.Name, output.FormatCount(float64(rv.Value)))
		}
		fmt.Print(t.Render())
		return nil

	case reposFlagCreated:
		created := src.ProjectsCreatedInPeriod(start, end)
		done()
		if flagJSON {
			return printJSON(created)
		}
		t := output.NewTable("Repository", "First commit")
		for _, rd := range created {
			t.AddRow(rd.Repo.Name, rd.Day.Format(gitlog.DayFormat))
		}
		fmt.Print(t.Render())
		return nil
	}

	// Plain listing with stored types.
	done()
	repos := src.Repos()
	if flagJSON {
		return printJSON(repos)
	}

	t := output.NewTable("Repository", "Type", "Source", "Path")
	for _, repo := range repos {
		typeName, typeSource, ok, err := src.ProjectType(repo.Path)
		if err != nil {
			return err
		}
		if !ok {
			typeName = output.StyleMuted.Render("-")
			typeSource = ""
		}
		t.AddRow(repo.Name, typeName, typeSource, output.StyleMuted.Render(repo.Path))
	}
	fmt.Print(t.Render())
	fmt.Printf("\n%d repositories\n", len(repos))
	return nil
}
