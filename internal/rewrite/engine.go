// Package rewrite computes new version specifiers for internal dependencies.
//
// The engine never modifies its input: each rewritten package carries a new
// manifest next to the scanned one, plus the list of changes between them.
package rewrite

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/mod/semver"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/graph"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/logging"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/manifest"
)

// Change records one rewritten dependency.
type Change struct {
	Dependency string
	From       string
	To         string
}

// Noop reports whether the dependency already had the target version.
func (c Change) Noop() bool {
	return c.From == c.To
}

// Result is a package after rewriting.
type Result struct {
	graph.Package
	Rewritten *manifest.Manifest
	Changes   []Change
}

// Modified reports whether any dependency value actually changed.
func (r Result) Modified() bool {
	for _, c := range r.Changes {
		if !c.Noop() {
			return true
		}
	}
	return false
}

// Option configures an Engine.
type Option func(*Engine)

// WithMarker sets the specifier used by the workspace strategy.
func WithMarker(marker string) Option {
	return func(e *Engine) {
		if marker != "" {
			e.marker = marker
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logging.OrDiscard(l)
	}
}

// Engine applies one strategy to every selected package.
type Engine struct {
	strategy Strategy
	marker   string
	logger   *log.Logger
}

// NewEngine validates the strategy up front so an invalid run fails before any
// package is touched.
func NewEngine(s Strategy, opts ...Option) (*Engine, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{strategy: s, marker: DefaultMarker, logger: logging.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	if !strings.HasPrefix(e.marker, "workspace:") {
		return nil, issue.Configf("validate workspace marker", "marker %q must start with \"workspace:\"", e.marker)
	}
	if s.Name == StrategyExplicit && !semver.IsValid("v"+s.Version) {
		e.logger.Warn("explicit version is not a semantic version, using it as given", "version", s.Version)
	}
	return e, nil
}

// Target returns the specifier every qualifying dependency is set to.
func (e *Engine) Target() string {
	if e.strategy.Name == StrategyWorkspace {
		return e.marker
	}
	return e.strategy.Version
}

// Strategy returns the engine's strategy.
func (e *Engine) Strategy() Strategy {
	return e.strategy
}

// Rewrite sets every qualifying dependency of p to the target specifier.
func (e *Engine) Rewrite(p graph.Package) (Result, error) {
	target := e.Target()
	res := Result{Package: p, Rewritten: p.Manifest}

	for _, d := range p.Dependencies {
		e.logger.Info("will update dependency",
			"package", p.Name, "dependency", d.Name, "from", d.Version, "to", target)

		m, err := res.Rewritten.WithDependencyVersion(d.Name, target)
		if err != nil {
			return Result{}, fmt.Errorf("rewriting %s: %w", p.Name, err)
		}
		res.Rewritten = m
		res.Changes = append(res.Changes, Change{Dependency: d.Name, From: d.Version, To: target})
	}
	return res, nil
}

// RewriteAll rewrites pkgs in order.
func (e *Engine) RewriteAll(pkgs []graph.Package) ([]Result, error) {
	results := make([]Result, 0, len(pkgs))
	for _, p := range pkgs {
		r, err := e.Rewrite(p)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}
