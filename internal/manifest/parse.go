package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/buger/jsonparser"
)

// Load reads and parses a package.json file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the workspace scan
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data)
}

// Parse parses package.json content.
func Parse(data []byte) (*Manifest, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing manifest JSON: %w", err)
	}
	if len(probe) == 0 || probe[0] != '{' {
		return nil, errors.New("manifest: document must be a JSON object")
	}

	m := &Manifest{raw: bytes.Clone(data)}

	name, err := jsonparser.GetString(data, "name")
	switch {
	case err == nil:
		m.Name = name
	case errors.Is(err, jsonparser.KeyPathNotFoundError):
	default:
		return nil, fmt.Errorf("manifest: name must be a string: %w", err)
	}

	deps, err := parseDependencies(data)
	if err != nil {
		return nil, err
	}
	m.Dependencies = deps
	m.PublishConfig = parsePublishConfig(data)

	return m, nil
}

func parseDependencies(data []byte) ([]Dependency, error) {
	value, typ, _, err := jsonparser.Get(data, "dependencies")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || typ == jsonparser.Null {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("manifest: reading dependencies: %w", err)
	}
	if typ != jsonparser.Object {
		return nil, fmt.Errorf("manifest: dependencies must be an object, got %s", typ)
	}

	var deps []Dependency
	err = jsonparser.ObjectEach(value, func(key, v []byte, vt jsonparser.ValueType, _ int) error {
		version := string(v)
		if vt == jsonparser.String {
			s, perr := jsonparser.ParseString(v)
			if perr != nil {
				return fmt.Errorf("dependency %q: %w", key, perr)
			}
			version = s
		}
		deps = append(deps, Dependency{Name: string(key), Version: version})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("manifest: reading dependencies: %w", err)
	}
	return deps, nil
}

// parsePublishConfig returns nil unless publishConfig is an object. A missing or
// non-string access is read as "".
func parsePublishConfig(data []byte) *PublishConfig {
	value, typ, _, err := jsonparser.Get(data, "publishConfig")
	if err != nil || typ != jsonparser.Object {
		return nil
	}
	access, err := jsonparser.GetString(value, "access")
	if err != nil {
		access = ""
	}
	return &PublishConfig{Access: access}
}

// WithDependencyVersion returns a copy of m whose dependency name is set to
// version. Every other byte of the document is preserved.
func (m *Manifest) WithDependencyVersion(name, version string) (*Manifest, error) {
	if _, ok := m.Dependency(name); !ok {
		return nil, fmt.Errorf("manifest %s: no dependency %q", m.Name, name)
	}
	encoded, err := encodeString(version)
	if err != nil {
		return nil, err
	}
	raw, err := jsonparser.Set(m.Raw(), encoded, "dependencies", name)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: setting dependency %q: %w", m.Name, name, err)
	}

	deps := make([]Dependency, len(m.Dependencies))
	for i, d := range m.Dependencies {
		if d.Name == name {
			d.Version = version
		}
		deps[i] = d
	}

	out := &Manifest{
		Name:         m.Name,
		Dependencies: deps,
		raw:          raw,
	}
	if m.PublishConfig != nil {
		pc := *m.PublishConfig
		out.PublishConfig = &pc
	}
	return out, nil
}

// Marshal renders the manifest with two-space indentation and a trailing
// newline. Key order and literal values are kept as read.
func Marshal(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(m.raw), "", "  "); err != nil {
		return nil, fmt.Errorf("formatting manifest: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// encodeString quotes s as a JSON string without HTML escaping, so that ranges
// like ">=1.0.0" stay readable.
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("encoding version %q: %w", s, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
