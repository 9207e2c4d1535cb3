package rewrite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
)

// StrategyName selects how internal dependency versions are rewritten.
type StrategyName string

const (
	// StrategyWorkspace points dependencies at the sibling package on disk.
	StrategyWorkspace StrategyName = "workspace"
	// StrategyExplicit pins dependencies to a published version.
	StrategyExplicit StrategyName = "explicit"
)

// DefaultMarker is the workspace-protocol version specifier.
const DefaultMarker = "workspace:*"

// StrategyNames lists the valid strategy names.
var StrategyNames = []StrategyName{StrategyWorkspace, StrategyExplicit}

// Strategy is a strategy name plus, for explicit, the target version.
type Strategy struct {
	Name    StrategyName
	Version string
}

// ParseStrategy parses a strategy name and normalizes version.
func ParseStrategy(name, version string) (Strategy, error) {
	s := Strategy{Name: StrategyName(strings.TrimSpace(name)), Version: NormalizeVersion(version)}
	if err := s.Validate(); err != nil {
		return Strategy{}, err
	}
	return s, nil
}

// Validate checks the strategy before any rewriting begins.
func (s Strategy) Validate() error {
	switch s.Name {
	case StrategyWorkspace:
		return nil
	case StrategyExplicit:
		if s.Version == "" {
			return issue.NewErrorContext(issue.KindConfig).
				WithOperation("validate strategy").
				WithResource(string(s.Name)).
				WithSuggestion("Pass --version <version>, e.g. --version 1.2.3").
				Wrap(errors.New("strategy explicit requires a version")).
				BuildError()
		}
		return nil
	default:
		return issue.NewErrorContext(issue.KindConfig).
			WithOperation("validate strategy").
			WithResource(string(s.Name)).
			Wrap(fmt.Errorf("unknown strategy %q (must be %s)", s.Name, joinNames())).
			BuildError()
	}
}

func (s Strategy) String() string {
	if s.Name == StrategyExplicit {
		return fmt.Sprintf("%s (%s)", s.Name, s.Version)
	}
	return string(s.Name)
}

// NormalizeVersion trims surrounding whitespace and a single leading "v", so
// "v1.2.3" and "1.2.3 " both become "1.2.3".
func NormalizeVersion(raw string) string {
	v := strings.TrimSpace(raw)
	v = strings.TrimPrefix(v, "v")
	return strings.TrimSpace(v)
}

func joinNames() string {
	names := make([]string, len(StrategyNames))
	for i, n := range StrategyNames {
		names[i] = string(n)
	}
	return strings.Join(names, " or ")
}
