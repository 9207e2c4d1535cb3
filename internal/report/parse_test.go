package report

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/graph"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/persist"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

func result(name, path string, changes ...rewrite.Change) rewrite.Result {
	return rewrite.Result{
		Package: graph.Package{Package: workspace.Package{Name: name, Path: path}},
		Changes: changes,
	}
}

func TestParse_valid(t *testing.T) {
	data := []byte(`
version: 1
generated_at: "2026-02-15T12:34:56Z"
tool_version: "0.1.0"
workspace: /repo
strategy: explicit
target: 2.0.0
packages:
  auth:
    manifest: packages/auth/package.json
    dependencies:
      "@maany_shr/core":
        from: ^1.0.0
        to: 2.0.0
`)
	f, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Version != 1 || f.Strategy != "explicit" || f.Target != "2.0.0" {
		t.Errorf("unexpected header: %+v", f)
	}
	auth := f.Packages["auth"]
	if auth == nil {
		t.Fatal("auth package not found")
	}
	if c := auth.Dependencies["@maany_shr/core"]; c.From != "^1.0.0" || c.To != "2.0.0" {
		t.Errorf("change = %+v", c)
	}
	if f.Changes() != 1 {
		t.Errorf("Changes() = %d, want 1", f.Changes())
	}
}

func TestParse_invalid(t *testing.T) {
	if _, err := Parse([]byte("packages: [unclosed")); err == nil {
		t.Error("expected error")
	}
}

func TestBuild(t *testing.T) {
	root := "/repo"
	results := []rewrite.Result{
		result("a", "/repo/packages/a/package.json",
			rewrite.Change{Dependency: "@maany_shr/b", From: "^1.0.0", To: "2.0.0"},
			rewrite.Change{Dependency: "@maany_shr/c", From: "2.0.0", To: "2.0.0"}),
		result("noop", "/repo/packages/noop/package.json",
			rewrite.Change{Dependency: "@maany_shr/b", From: "2.0.0", To: "2.0.0"}),
		result("dry", "/repo/packages/dry/package.json",
			rewrite.Change{Dependency: "@maany_shr/b", From: "^1.0.0", To: "2.0.0"}),
		result("b", "/repo/packages/b/package.json"),
	}
	outputs := []persist.Output{
		{Package: "a", Written: true},
		{Package: "noop", Written: true},
		{Package: "dry", Written: false},
	}
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	f := Build(Info{ToolVersion: "dev", Workspace: root, Strategy: rewrite.StrategyExplicit, Target: "2.0.0", GeneratedAt: at}, results, outputs)

	if f.GeneratedAt != "2026-03-01T10:00:00Z" {
		t.Errorf("generated_at = %q", f.GeneratedAt)
	}
	if len(f.Packages) != 1 {
		t.Fatalf("packages = %v, want only a", f.Packages)
	}
	a := f.Packages["a"]
	if a.Manifest != "packages/a/package.json" {
		t.Errorf("manifest = %q", a.Manifest)
	}
	if len(a.Dependencies) != 1 || a.Dependencies["@maany_shr/b"].To != "2.0.0" {
		t.Errorf("dependencies = %+v", a.Dependencies)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "depver-report.yaml")

	f := &File{
		Version:     Version,
		GeneratedAt: "2026-01-01T00:00:00Z",
		ToolVersion: "dev",
		Workspace:   dir,
		Strategy:    "workspace",
		Target:      "workspace:*",
		Packages: map[string]*Package{
			"svc": {
				Manifest:     "packages/svc/package.json",
				Dependencies: map[string]Change{"@maany_shr/core": {From: "^1.0.0", To: "workspace:*"}},
			},
		},
	}

	if err := Save(path, f); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal("file should exist after save")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Target != "workspace:*" {
		t.Errorf("target = %q", loaded.Target)
	}
	if got := loaded.Packages["svc"].Dependencies["@maany_shr/core"].To; got != "workspace:*" {
		t.Errorf("to = %q, want %q", got, "workspace:*")
	}
}
