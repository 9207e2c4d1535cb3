// Package config resolves the settings of a run from defaults, an optional
// depver.yaml at the workspace root, DEPVER_* environment variables and
// command-line flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/graph"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/rewrite"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

const (
	// FileName is the config file name looked up in the workspace root, without extension.
	FileName = "depver"
	// EnvPrefix prefixes environment overrides, e.g. DEPVER_SCOPE.
	EnvPrefix = "DEPVER"
)

// Setting keys. Flags bound by Load use the same names with dashes.
const (
	KeyScope           = "scope"
	KeyPackagesDir     = "packages_dir"
	KeyManifestFile    = "manifest_file"
	KeyWorkspaceMarker = "workspace_marker"
	KeyIncludePrivate  = "include_private"
)

// Config holds the resolved settings.
type Config struct {
	Scope           string `mapstructure:"scope"`
	PackagesDir     string `mapstructure:"packages_dir"`
	ManifestFile    string `mapstructure:"manifest_file"`
	WorkspaceMarker string `mapstructure:"workspace_marker"`
	IncludePrivate  bool   `mapstructure:"include_private"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Scope:           graph.DefaultScope,
		PackagesDir:     workspace.DefaultPackagesDir,
		ManifestFile:    workspace.DefaultManifestFile,
		WorkspaceMarker: rewrite.DefaultMarker,
	}
}

// LoadOptions selects the sources Load reads.
type LoadOptions struct {
	// Root is the workspace root searched for depver.yaml.
	Root string
	// File, when set, is read instead of <Root>/depver.yaml and must exist.
	File string
	// Flags are bound to the matching keys; only flags set by the user
	// override other sources.
	Flags *pflag.FlagSet
}

// Load resolves and validates the settings.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault(KeyScope, defaults.Scope)
	v.SetDefault(KeyPackagesDir, defaults.PackagesDir)
	v.SetDefault(KeyManifestFile, defaults.ManifestFile)
	v.SetDefault(KeyWorkspaceMarker, defaults.WorkspaceMarker)
	v.SetDefault(KeyIncludePrivate, defaults.IncludePrivate)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if err := readFile(v, opts); err != nil {
		return nil, err
	}
	if err := bindFlags(v, opts.Flags); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, issue.NewErrorContext(issue.KindConfig).
			WithOperation("decode configuration").
			Wrap(err).
			BuildError()
	}
	if err := Validate(&cfg); err != nil {
		return nil, issue.NewErrorContext(issue.KindConfig).
			WithOperation("validate configuration").
			WithResource(v.ConfigFileUsed()).
			Wrap(err).
			BuildError()
	}
	return &cfg, nil
}

func readFile(v *viper.Viper, opts LoadOptions) error {
	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		if opts.Root == "" {
			return nil
		}
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(opts.Root)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File == "" && errors.As(err, &notFound) {
			return nil
		}
		return issue.NewErrorContext(issue.KindConfig).
			WithOperation("load configuration").
			WithResource(opts.File).
			WithSuggestion("Check that the file exists and contains valid YAML").
			Wrap(err).
			BuildError()
	}
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for _, key := range []string{KeyScope, KeyPackagesDir, KeyManifestFile, KeyWorkspaceMarker, KeyIncludePrivate} {
		f := flags.Lookup(strings.ReplaceAll(key, "_", "-"))
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag --%s: %w", f.Name, err)
		}
	}
	return nil
}

// Validate checks the settings for errors.
func Validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Scope) == "" {
		return fmt.Errorf("%s must not be empty", KeyScope)
	}
	if cfg.ManifestFile == "" || filepath.Base(cfg.ManifestFile) != cfg.ManifestFile {
		return fmt.Errorf("%s must be a plain file name: %q", KeyManifestFile, cfg.ManifestFile)
	}
	if cfg.PackagesDir == "" {
		return fmt.Errorf("%s must not be empty", KeyPackagesDir)
	}
	if err := validatePath(cfg.PackagesDir, KeyPackagesDir); err != nil {
		return err
	}
	if !strings.HasPrefix(cfg.WorkspaceMarker, "workspace:") {
		return fmt.Errorf("%s must start with \"workspace:\": %q", KeyWorkspaceMarker, cfg.WorkspaceMarker)
	}
	return nil
}

// validatePath ensures a path is relative and does not escape the workspace.
func validatePath(p, label string) error {
	if filepath.IsAbs(p) {
		return fmt.Errorf("%s: absolute path is not allowed: %s", label, p)
	}
	cleaned := filepath.Clean(p)
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%s: path must not escape workspace (contains ..): %s", label, p)
	}
	return nil
}
