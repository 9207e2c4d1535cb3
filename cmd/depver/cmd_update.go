package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/report"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/ui"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/updater"
)

func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Rewrite internal dependency versions",
		Long: `Rewrite every dependency on a sibling package of the same scope.

Strategies:
  workspace  pin to the workspace protocol marker (default "workspace:*")
  explicit   pin to the version given with --version

Only published packages (publishConfig.access "public") are rewritten unless
--include-private is set.`,
		Example: `  depver update -w . -s workspace
  depver update -w . -s explicit -v v2.0.0 --dry-run`,
		RunE: runUpdate,
	}
	names := make([]string, 0, len(rewrite.StrategyNames))
	for _, n := range rewrite.StrategyNames {
		names = append(names, string(n))
	}
	cmd.Flags().StringP("strategy", "s", "", "Rewrite strategy: "+strings.Join(names, "|"))
	cmd.Flags().StringP("version", "v", "", "Version for the explicit strategy (leading v is stripped)")
	cmd.Flags().BoolP("dry-run", "d", false, "Print the rewritten manifests without writing them")
	cmd.Flags().Bool("include-private", false, "Also rewrite packages that are not published publicly")
	cmd.Flags().StringSlice("only", nil, "Only consider these package directories")
	cmd.Flags().StringSlice("skip", nil, "Skip these package directories")
	cmd.Flags().String("report", "", "Write a YAML report of the applied changes to this file")
	return cmd
}

func runUpdate(cmd *cobra.Command, _ []string) error {
	strategy, _ := cmd.Flags().GetString("strategy")
	ver, _ := cmd.Flags().GetString("version")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	only, _ := cmd.Flags().GetStringSlice("only")
	skip, _ := cmd.Flags().GetStringSlice("skip")
	reportPath, _ := cmd.Flags().GetString("report")

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	if reportPath != "" && dryRun {
		return issue.Configf("parse flags", "--report cannot be combined with --dry-run")
	}
	s, err := rewrite.ParseStrategy(strategy, ver)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	res, err := updater.Run(cmd.Context(), updater.Options{
		Root:     env.root,
		Strategy: s,
		DryRun:   dryRun,
		Config:   *env.cfg,
		Only:     only,
		Skip:     skip,
		Logger:   env.logger,
		Progress: out,
	})
	if err != nil {
		return err
	}

	if dryRun {
		for _, o := range res.Outputs {
			_, _ = fmt.Fprintln(out, ui.PathStyle.Render("# "+res.Workspace.Rel(o.Path)), ui.WarningStyle.Render("(dry run)"))
			_, _ = fmt.Fprint(out, string(o.Content))
		}
		return nil
	}

	tbl := ui.NewTable(out, "PACKAGE", "DEPENDENCY", "FROM", "TO")
	for _, r := range res.Rewritten {
		for _, c := range r.Changes {
			if !c.Noop() {
				tbl.Row(r.Name, c.Dependency, c.From, c.To)
			}
		}
	}
	if tbl.Len() == 0 {
		_, _ = fmt.Fprintln(out, "All internal dependencies are up to date.")
	} else if err := tbl.Flush(); err != nil {
		return err
	}

	if reportPath != "" {
		f := report.Build(report.Info{
			ToolVersion: version,
			Workspace:   env.root,
			Strategy:    s.Name,
			Target:      res.Engine.Target(),
			GeneratedAt: time.Now(),
		}, res.Rewritten, res.Outputs)
		if err := report.Save(reportPath, f); err != nil {
			return issue.NewErrorContext(issue.KindPersist).
				WithOperation("write report").
				WithResource(reportPath).
				WithSuggestion("Manifests were already updated; re-run with a writable --report path").
				Wrap(err).
				BuildError()
		}
		env.logger.Info("report written", "path", reportPath, "changes", f.Changes())
	}
	return nil
}
