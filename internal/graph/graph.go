// Package graph narrows scanned packages down to the dependencies that point at
// sibling packages of the same workspace.
//
// A dependency qualifies when its name carries the workspace scope prefix and
// some scanned package publishes under that name. A same-scope dependency that
// no scanned package provides is an ordinary registry dependency and is left
// out.
package graph

import (
	"strings"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/manifest"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

// DefaultScope is the organization scope shared by internal packages.
const DefaultScope = "@maany_shr/"

// Options controls package selection.
type Options struct {
	Scope string
	// RequirePublic keeps only packages with publishConfig.access "public"
	// and at least one qualifying dependency. Without it every package is
	// returned, annotated with a possibly empty dependency list.
	RequirePublic bool
	// Only and Skip filter the result by package directory name.
	Only []string
	Skip []string
}

// Package is a scanned package annotated with its qualifying dependencies.
type Package struct {
	workspace.Package
	Dependencies []manifest.Dependency // declaration order
}

// DependencyMap returns the qualifying dependencies keyed by name.
func (p Package) DependencyMap() map[string]string {
	m := make(map[string]string, len(p.Dependencies))
	for _, d := range p.Dependencies {
		m[d.Name] = d.Version
	}
	return m
}

// PublicNames returns the manifest names of pkgs that carry scope.
func PublicNames(pkgs []workspace.Package, scope string) map[string]bool {
	names := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		if name := p.PublicName(); strings.HasPrefix(name, scope) {
			names[name] = true
		}
	}
	return names
}

// Build returns the packages selected by opts, in scan order.
func Build(pkgs []workspace.Package, opts Options) []Package {
	scope := opts.Scope
	if scope == "" {
		scope = DefaultScope
	}
	internal := PublicNames(pkgs, scope)
	onlySet := toSet(opts.Only)
	skipSet := toSet(opts.Skip)

	var result []Package
	for _, p := range pkgs {
		if len(onlySet) > 0 && !onlySet[p.Name] {
			continue
		}
		if skipSet[p.Name] {
			continue
		}

		deps := qualifying(p.Manifest.Dependencies, scope, internal)
		if opts.RequirePublic && (len(deps) == 0 || !p.Manifest.IsPublic()) {
			continue
		}
		result = append(result, Package{Package: p, Dependencies: deps})
	}
	return result
}

func qualifying(deps []manifest.Dependency, scope string, internal map[string]bool) []manifest.Dependency {
	var out []manifest.Dependency
	for _, d := range deps {
		if strings.HasPrefix(d.Name, scope) && internal[d.Name] {
			out = append(out, d)
		}
	}
	return out
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}
