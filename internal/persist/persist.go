// Package persist writes rewritten manifests back to disk, or renders them
// without writing in dry-run mode. It is the only part of the pipeline that
// touches the filesystem after the scan.
package persist

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/logging"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/manifest"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/ui"
)

// Output is the serialized manifest of one persisted package.
type Output struct {
	Package string
	Path    string
	Content []byte
	Written bool // false in dry-run mode
}

// Option configures a Persister.
type Option func(*Persister)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Persister) { p.logger = logging.OrDiscard(l) }
}

// WithProgress prints one numbered line per written manifest to w.
func WithProgress(w io.Writer) Option {
	return func(p *Persister) { p.progress = w }
}

// Persister serializes rewrite results.
type Persister struct {
	dryRun   bool
	logger   *log.Logger
	progress io.Writer
}

// New creates a Persister. With dryRun set nothing is written.
func New(dryRun bool, opts ...Option) *Persister {
	p := &Persister{dryRun: dryRun, logger: logging.Discard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Selected returns the results that get persisted: packages with at least one
// qualifying dependency. Every other manifest keeps its original bytes.
func Selected(results []rewrite.Result) []rewrite.Result {
	var out []rewrite.Result
	for _, r := range results {
		if len(r.Changes) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// Persist serializes every selected result and, unless in dry-run mode,
// replaces its manifest file. Writes are not transactional across packages:
// on failure the error lists the manifests already written.
func (p *Persister) Persist(ctx context.Context, results []rewrite.Result) ([]Output, error) {
	selected := Selected(results)
	progress := ui.NewProgress(p.progress, len(selected))

	outputs := make([]Output, 0, len(selected))
	var written []string
	for _, r := range selected {
		content, err := manifest.Marshal(r.Rewritten)
		if err != nil {
			return outputs, persistError(r, written, err)
		}
		out := Output{Package: r.Name, Path: r.Path, Content: content}

		if p.dryRun {
			p.logger.Info("dry run, manifest not written", "package", r.Name, "path", r.Path)
			p.logger.Debug("dry run content", "package", r.Name, "content", string(content))
			outputs = append(outputs, out)
			continue
		}

		if err := ctx.Err(); err != nil {
			return outputs, persistError(r, written, fmt.Errorf("run interrupted: %w", err))
		}
		if err := WriteFileAtomic(r.Path, content); err != nil {
			return outputs, persistError(r, written, err)
		}
		out.Written = true
		written = append(written, r.Name)
		outputs = append(outputs, out)
		progress.Done("wrote %s", r.Path)
		p.logger.Debug("manifest written", "package", r.Name, "path", r.Path, "bytes", len(content))
	}

	if !p.dryRun && len(written) > 0 {
		p.logger.Info("dependencies updated", "packages", len(written))
	}
	return outputs, nil
}

func persistError(r rewrite.Result, written []string, err error) error {
	b := issue.NewErrorContext(issue.KindPersist).
		WithOperation("write manifest of package " + r.Name).
		WithResource(r.Path).
		Wrap(err)
	if len(written) > 0 {
		b.WithSuggestion(fmt.Sprintf("Already updated and left in place: %v", written))
	} else {
		b.WithSuggestion("No manifest was modified")
	}
	b.WithSuggestion("Fix the cause and re-run; rewriting is idempotent")
	return b.BuildError()
}

// WriteFileAtomic replaces path with data through a temporary file in the same
// directory, keeping the original permissions.
func WriteFileAtomic(path string, data []byte) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing manifest: %w", err)
	}
	renamed = true
	return nil
}
