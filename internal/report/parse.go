package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/persist"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
)

// Info describes the run a report is built for.
type Info struct {
	ToolVersion string
	Workspace   string
	Strategy    rewrite.StrategyName
	Target      string
	GeneratedAt time.Time
}

// Build collects the effective changes of every written manifest. Packages
// whose dependencies already had the target value are left out.
func Build(info Info, results []rewrite.Result, outputs []persist.Output) *File {
	written := make(map[string]bool, len(outputs))
	for _, o := range outputs {
		if o.Written {
			written[o.Package] = true
		}
	}

	f := &File{
		Version:     Version,
		GeneratedAt: info.GeneratedAt.Format(time.RFC3339),
		ToolVersion: info.ToolVersion,
		Workspace:   info.Workspace,
		Strategy:    string(info.Strategy),
		Target:      info.Target,
		Packages:    map[string]*Package{},
	}
	for _, r := range results {
		if !written[r.Name] || !r.Modified() {
			continue
		}
		p := &Package{Manifest: relPath(info.Workspace, r.Path), Dependencies: map[string]Change{}}
		for _, c := range r.Changes {
			if c.Noop() {
				continue
			}
			p.Dependencies[c.Dependency] = Change{From: c.From, To: c.To}
		}
		f.Packages[r.Name] = p
	}
	return f
}

func relPath(root, path string) string {
	if root == "" {
		return path
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

// Load reads a report file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided report path
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	return Parse(data)
}

// Parse parses report content.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing report YAML: %w", err)
	}
	return &f, nil
}

// Save writes the report to disk.
func Save(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := persist.WriteFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
