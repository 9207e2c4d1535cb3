package report

// Version is the current report format version.
const Version = 1

// File represents an update report.
type File struct {
	Version     int                 `yaml:"version"`
	GeneratedAt string              `yaml:"generated_at"`
	ToolVersion string              `yaml:"tool_version"`
	Workspace   string              `yaml:"workspace"`
	Strategy    string              `yaml:"strategy"`
	Target      string              `yaml:"target"`
	Packages    map[string]*Package `yaml:"packages"`
}

// Package records the rewritten dependencies of a single package.
type Package struct {
	Manifest     string            `yaml:"manifest"`
	Dependencies map[string]Change `yaml:"dependencies"`
}

// Change is one dependency specifier before and after the run.
type Change struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// Changes returns the total number of recorded dependency changes.
func (f *File) Changes() int {
	n := 0
	for _, p := range f.Packages {
		n += len(p.Dependencies)
	}
	return n
}
