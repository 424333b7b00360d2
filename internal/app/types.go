package app

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/gitmetrics/internal/output"
	"github.com/blackwell-systems/gitmetrics/internal/project"
	"github.com/blackwell-systems/gitmetrics/internal/store"
)

var typesFlagAssumeGeneric bool

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "Inspect and assign project types",
	Long: `Types manages the per-repository project type, which selects the
file-inclusion rules applied when counting lines. Changing a repository's
type clears its cached statistics, since every historical day's counts may
change under the new rules.`,
}

var typesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored project type assignments",
	RunE:  runTypesList,
}

var typesDetectCmd = &cobra.Command{
	Use:   "detect [repo...]",
	Short: "Auto-detect project types (all repositories when none given)",
	RunE:  runTypesDetect,
}

var typesSetCmd = &cobra.Command{
	Use:   "set <repo> <type>",
	Short: "Manually assign a project type",
	Args:  cobra.ExactArgs(2),
	RunE:  runTypesSet,
}

func init() {
	typesDetectCmd.Flags().BoolVar(&typesFlagAssumeGeneric, "assume-generic", false,
		"Store 'generic' for repositories that match no profile")

	typesCmd.AddCommand(typesListCmd)
	typesCmd.AddCommand(typesDetectCmd)
	typesCmd.AddCommand(typesSetCmd)
	rootCmd.AddCommand(typesCmd)
}

func runTypesList(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	types, err := src.AllProjectTypes()
	if err != nil {
		return err
	}
	if flagJSON {
		return printJSON(types)
	}

	t := output.NewTable("Repository", "Type", "Source", "Detected at")
	for _, rt := range types {
		t.AddRow(filepath.Base(rt.RepoPath), rt.ProjectType, rt.TypeSource, output.StyleMuted.Render(rt.DetectedAt))
	}
	fmt.Print(t.Render())
	fmt.Printf("\nAvailable types: %s\n", strings.Join(project.Names(), ", "))
	return nil
}

func runTypesDetect(cmd *cobra.Command, args []string) error {
	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	paths := args
	if len(paths) == 0 {
		for _, repo := range src.Repos() {
			paths = append(paths, repo.Path)
		}
	}

	for _, repoPath := range paths {
		abs, err := filepath.Abs(repoPath)
		if err != nil {
			abs = repoPath
		}
		name := filepath.Base(abs)

		detected, outcome, err := src.DetectAndStoreType(abs)
		if err != nil {
			return err
		}

		switch outcome {
		case project.Detected:
			fmt.Printf("%s: %s\n", name, output.StyleSuccess.Render(detected))
		case project.Ambiguous:
			matches := src.MatchingTypes(abs)
			fmt.Printf("%s: %s (matches: %s); choose one with 'gitmetrics types set'\n",
				name, output.StyleWarning.Render("ambiguous"), strings.Join(matches, ", "))
		case project.Unknown:
			if typesFlagAssumeGeneric {
				if err := src.SetProjectType(abs, project.Generic, store.SourceAuto); err != nil {
					return err
				}
				fmt.Printf("%s: %s\n", name, project.Generic)
			} else {
				fmt.Printf("%s: %s; assign one with 'gitmetrics types set'\n",
					name, output.StyleMuted.Render("unknown"))
			}
		}
	}
	return nil
}

func runTypesSet(cmd *cobra.Command, args []string) error {
	repoPath, typeName := args[0], args[1]

	valid := false
	for _, name := range project.Names() {
		if name == typeName {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown project type %q (available: %s)", typeName, strings.Join(project.Names(), ", "))
	}

	_, db, src, err := openEngine()
	if err != nil {
		return err
	}
	defer db.Close()

	abs, err := filepath.Abs(repoPath)
	if err != nil {
		abs = repoPath
	}

	if err := src.SetProjectType(abs, typeName, store.SourceUser); err != nil {
		return err
	}
	fmt.Printf("%s: %s (cache cleared)\n", filepath.Base(abs), typeName)
	return nil
}
