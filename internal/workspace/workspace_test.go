package workspace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/testutil"
)

func TestResolveRoot(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	if err := os.WriteFile(file, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		root string
		err  bool
	}{
		{"directory", dir, false},
		{"empty", "", true},
		{"missing", filepath.Join(dir, "nope"), true},
		{"file", file, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveRoot(tt.root)
			if (err != nil) != tt.err {
				t.Fatalf("ResolveRoot(%q) error = %v, wantErr %v", tt.root, err, tt.err)
			}
			if err != nil {
				if k := issue.KindOf(err); k != issue.KindConfig {
					t.Errorf("kind = %v, want configuration error", k)
				}
				return
			}
			if !filepath.IsAbs(got) {
				t.Errorf("ResolveRoot() = %q, want absolute path", got)
			}
		})
	}
}

func TestScan(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"b": testutil.ManifestB,
		"a": testutil.ManifestA,
	})
	// Not packages: a loose file, a directory without a manifest, and a
	// directory whose manifest path is itself a directory.
	if err := os.WriteFile(filepath.Join(root, "packages", "README.md"), []byte("# pkgs"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "packages", "empty"), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(root, "packages", "odd", "package.json"), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}

	ctx, err := Open(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	pkgs, err := ctx.Scan()
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}

	if len(pkgs) != 2 {
		t.Fatalf("got %d packages, want 2", len(pkgs))
	}
	if pkgs[0].Name != "a" || pkgs[1].Name != "b" {
		t.Errorf("packages = %s, %s; want a, b", pkgs[0].Name, pkgs[1].Name)
	}
	if pkgs[0].PublicName() != "@maany_shr/a" {
		t.Errorf("PublicName() = %q", pkgs[0].PublicName())
	}
	if pkgs[0].Path != ctx.ManifestPath("a") {
		t.Errorf("Path = %q, want %q", pkgs[0].Path, ctx.ManifestPath("a"))
	}
	if ctx.Rel(pkgs[0].Path) != filepath.Join("packages", "a", "package.json") {
		t.Errorf("Rel() = %q", ctx.Rel(pkgs[0].Path))
	}
}

func TestScan_symlinkedPackage(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{"a": testutil.ManifestA})
	target := t.TempDir()
	if err := os.WriteFile(filepath.Join(target, "package.json"), []byte(testutil.ManifestB), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, filepath.Join(root, "packages", "b")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	ctx, err := Open(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	pkgs, err := ctx.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgs) != 2 {
		t.Errorf("got %d packages, want 2 (symlinked dir should be followed)", len(pkgs))
	}
}

func TestScan_invalidManifest(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"a":   testutil.ManifestA,
		"bad": `{"name": "@maany_shr/bad",`,
	})
	ctx, err := Open(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	_, err = ctx.Scan()
	if err == nil {
		t.Fatal("Scan() should fail on malformed manifest")
	}
	if k := issue.KindOf(err); k != issue.KindIO {
		t.Errorf("kind = %v, want I/O error", k)
	}
}

func TestScan_missingPackagesDir(t *testing.T) {
	ctx, err := Open(t.TempDir(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ctx.Scan(); err == nil {
		t.Fatal("Scan() should fail without a packages directory")
	}
}

func TestOpen_customLayout(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "libs", "core")
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "manifest.json"), []byte(`{"name": "@maany_shr/core"}`), 0600); err != nil {
		t.Fatal(err)
	}

	ctx, err := Open(root, Options{PackagesDir: "libs", ManifestFile: "manifest.json"})
	if err != nil {
		t.Fatal(err)
	}
	pkgs, err := ctx.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(pkgs) != 1 || pkgs[0].Name != "core" {
		t.Errorf("unexpected packages: %+v", pkgs)
	}
}
