package workspace

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/manifest"
)

// Default layout of a workspace.
const (
	DefaultPackagesDir  = "packages"
	DefaultManifestFile = "package.json"
)

// Options selects where packages and their manifests live.
type Options struct {
	PackagesDir  string
	ManifestFile string
}

// Context holds the resolved paths of a workspace.
type Context struct {
	Root         string
	PackagesDir  string
	ManifestFile string
}

// Package is one scanned package directory.
type Package struct {
	Name     string // directory name under the packages dir
	Path     string // absolute manifest path
	Manifest *manifest.Manifest
}

// PublicName returns the manifest's "name" field.
func (p Package) PublicName() string {
	return p.Manifest.Name
}

// ResolveRoot returns root as an absolute path, failing with a configuration
// error when it does not exist or is not a directory.
func ResolveRoot(root string) (string, error) {
	if root == "" {
		return "", issue.NewErrorContext(issue.KindConfig).
			WithOperation("resolve workspace root").
			WithSuggestion("Pass --workspace-root <dir>").
			Wrap(errors.New("a workspace root directory is required")).
			BuildError()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", issue.NewErrorContext(issue.KindConfig).
			WithOperation("resolve workspace root").
			WithResource(root).
			Wrap(err).
			BuildError()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", issue.NewErrorContext(issue.KindConfig).
			WithOperation("resolve workspace root").
			WithResource(root).
			WithSuggestion("Check that the path exists").
			Wrap(err).
			BuildError()
	}
	if !info.IsDir() {
		return "", issue.NewErrorContext(issue.KindConfig).
			WithOperation("resolve workspace root").
			WithResource(root).
			Wrap(errors.New("not a directory")).
			BuildError()
	}
	return abs, nil
}

// Open validates root and returns the workspace context.
func Open(root string, opts Options) (*Context, error) {
	abs, err := ResolveRoot(root)
	if err != nil {
		return nil, err
	}
	if opts.PackagesDir == "" {
		opts.PackagesDir = DefaultPackagesDir
	}
	if opts.ManifestFile == "" {
		opts.ManifestFile = DefaultManifestFile
	}
	return &Context{
		Root:         abs,
		PackagesDir:  filepath.Join(abs, opts.PackagesDir),
		ManifestFile: opts.ManifestFile,
	}, nil
}

// ManifestPath returns the manifest path of the package in directory dir.
func (c *Context) ManifestPath(dir string) string {
	return filepath.Join(c.PackagesDir, dir, c.ManifestFile)
}

// Rel returns path relative to the workspace root, for display.
func (c *Context) Rel(path string) string {
	rel, err := filepath.Rel(c.Root, path)
	if err != nil {
		return path
	}
	return rel
}

// Scan parses the manifest of every package directory, sorted by directory
// name. Entries that are not directories, and directories without a manifest,
// are not packages and are skipped.
func (c *Context) Scan() ([]Package, error) {
	entries, err := os.ReadDir(c.PackagesDir)
	if err != nil {
		return nil, issue.NewErrorContext(issue.KindIO).
			WithOperation("scan workspace").
			WithResource(c.PackagesDir).
			WithSuggestion("Check that the workspace root contains a packages directory").
			Wrap(err).
			BuildError()
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var pkgs []Package
	for _, e := range entries {
		pkg, ok, err := c.scanEntry(e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			pkgs = append(pkgs, pkg)
		}
	}
	return pkgs, nil
}

func (c *Context) scanEntry(name string) (Package, bool, error) {
	dir := filepath.Join(c.PackagesDir, name)
	// Stat rather than DirEntry.IsDir so symlinked packages are followed.
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Package{}, false, nil
		}
		return Package{}, false, ioError("stat package directory", dir, err)
	}
	if !info.IsDir() {
		return Package{}, false, nil
	}

	path := c.ManifestPath(name)
	info, err = os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Package{}, false, nil
		}
		return Package{}, false, ioError("stat manifest", path, err)
	}
	if info.IsDir() {
		return Package{}, false, nil
	}

	m, err := manifest.Load(path)
	if err != nil {
		return Package{}, false, ioError("load manifest", path, err)
	}
	return Package{Name: name, Path: path, Manifest: m}, true, nil
}

func ioError(op, path string, err error) error {
	return issue.NewErrorContext(issue.KindIO).
		WithOperation(op).
		WithResource(path).
		Wrap(err).
		BuildError()
}
