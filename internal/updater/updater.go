// Package updater runs the whole dependency rewrite: scan the workspace,
// select packages with internal dependencies, rewrite them, persist.
package updater

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/config"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/graph"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/logging"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/persist"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

// Options configures a run.
type Options struct {
	Root     string
	Strategy rewrite.Strategy
	DryRun   bool
	Config   config.Config
	Only     []string
	Skip     []string
	Logger   *log.Logger
	Progress io.Writer
}

// Result summarizes a run.
type Result struct {
	Workspace *workspace.Context
	Engine    *rewrite.Engine
	Scanned   []workspace.Package
	Selected  []graph.Package
	Rewritten []rewrite.Result
	Outputs   []persist.Output
}

// Run executes the pipeline. The root and strategy are validated before any
// manifest is read.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.OrDiscard(opts.Logger)

	ws, err := workspace.Open(opts.Root, workspace.Options{
		PackagesDir:  opts.Config.PackagesDir,
		ManifestFile: opts.Config.ManifestFile,
	})
	if err != nil {
		return nil, err
	}
	engine, err := rewrite.NewEngine(opts.Strategy,
		rewrite.WithMarker(opts.Config.WorkspaceMarker),
		rewrite.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	res := &Result{Workspace: ws, Engine: engine}

	logger.Info("scanning packages", "dir", ws.PackagesDir)
	res.Scanned, err = ws.Scan()
	if err != nil {
		return res, err
	}
	logger.Info("packages found", "count", len(res.Scanned))

	scope := opts.Config.Scope
	if scope == "" {
		scope = graph.DefaultScope
	}
	res.Selected = graph.Build(res.Scanned, graph.Options{
		Scope:         scope,
		RequirePublic: !opts.Config.IncludePrivate,
		Only:          opts.Only,
		Skip:          opts.Skip,
	})
	logger.Info("packages selected", "count", len(res.Selected), "require_public", !opts.Config.IncludePrivate)
	for _, p := range res.Selected {
		logger.Debug("selected package", "package", p.Name, "dependencies", p.DependencyMap())
	}

	logger.Info("applying strategy", "strategy", engine.Strategy().Name, "target", engine.Target())
	if opts.DryRun {
		logger.Warn("dry run, no files will be modified")
	}

	res.Rewritten, err = engine.RewriteAll(res.Selected)
	if err != nil {
		return res, err
	}

	p := persist.New(opts.DryRun, persist.WithLogger(logger), persist.WithProgress(opts.Progress))
	res.Outputs, err = p.Persist(ctx, res.Rewritten)
	if err != nil {
		return res, err
	}

	logger.Info("done", "written", res.Written())
	return res, nil
}

// Written returns the number of manifests written to disk.
func (r *Result) Written() int {
	n := 0
	for _, o := range r.Outputs {
		if o.Written {
			n++
		}
	}
	return n
}
