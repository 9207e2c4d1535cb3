package manifest

// AccessPublic is the publishConfig.access value of packages published to the registry.
const AccessPublic = "public"

// Dependency is one entry of the "dependencies" object.
type Dependency struct {
	Name    string
	Version string
}

// PublishConfig mirrors the "publishConfig" object. Only access is read.
type PublishConfig struct {
	Access string
}

// Manifest represents a parsed package.json.
//
// The raw document is kept alongside the decoded fields so that everything this
// tool does not understand (scripts, exports, field order, number literals) is
// written back exactly as it was read. A Manifest is never modified after Parse;
// WithDependencyVersion returns a new value.
type Manifest struct {
	Name          string
	Dependencies  []Dependency   // declaration order
	PublishConfig *PublishConfig // nil when absent
	raw           []byte
}

// Access returns publishConfig.access, or "" when publishConfig is not set.
func (m *Manifest) Access() string {
	if m.PublishConfig == nil {
		return ""
	}
	return m.PublishConfig.Access
}

// IsPublic reports whether the package is published with public access.
func (m *Manifest) IsPublic() bool {
	return m.Access() == AccessPublic
}

// Dependency returns the declared version for the named dependency.
func (m *Manifest) Dependency(name string) (string, bool) {
	for _, d := range m.Dependencies {
		if d.Name == name {
			return d.Version, true
		}
	}
	return "", false
}

// Raw returns a copy of the underlying document.
func (m *Manifest) Raw() []byte {
	out := make([]byte, len(m.raw))
	copy(out, m.raw)
	return out
}
