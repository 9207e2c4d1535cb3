package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteWorkspace creates a workspace in a temp directory with one package per
// entry of manifests, keyed by directory name. Returns the workspace root.
func WriteWorkspace(t *testing.T, manifests map[string]string) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "packages"), 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	for dir, content := range manifests {
		WritePackage(t, root, dir, content)
	}
	return root
}

// WritePackage writes packages/<dir>/package.json under root.
func WritePackage(t *testing.T, root, dir, content string) string {
	t.Helper()
	pkgDir := filepath.Join(root, "packages", dir)
	if err := os.MkdirAll(pkgDir, 0755); err != nil { //nolint:gosec // test dir
		t.Fatal(err)
	}
	path := filepath.Join(pkgDir, "package.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil { //nolint:gosec // test file
		t.Fatal(err)
	}
	return path
}

// ReadPackage returns the content of packages/<dir>/package.json under root.
func ReadPackage(t *testing.T, root, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(root, "packages", dir, "package.json")) //nolint:gosec // test file
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

// Fixture manifests shared by package tests: "a" depends on the sibling "b",
// on a same-scope package that is not in the workspace, and on react.
const (
	ManifestA = `{
  "name": "@maany_shr/a",
  "version": "1.0.0",
  "dependencies": {
    "@maany_shr/b": "^1.0.0",
    "@maany_shr/external": "^3.1.0",
    "react": "^18.2.0"
  },
  "publishConfig": {
    "access": "public"
  }
}
`
	ManifestB = `{
  "name": "@maany_shr/b",
  "version": "1.0.0",
  "dependencies": {
    "zod": "^3.22.0"
  },
  "publishConfig": {
    "access": "public"
  }
}
`
	// ManifestPrivate depends on "b" but is not published.
	ManifestPrivate = `{
  "name": "@maany_shr/internal-tools",
  "private": true,
  "dependencies": {
    "@maany_shr/b": "^1.0.0"
  }
}
`
)
