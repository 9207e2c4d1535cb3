package main

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/issue"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/testutil"
)

// runCLI runs the command line as main does and returns stdout and stderr.
func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout bytes.Buffer
	stderr, err := runCLIWithOutput(t, &stdout, args...)
	return stdout.String(), stderr, err
}

// runCLIWithOutput is runCLI with a caller-provided stdout.
func runCLIWithOutput(t *testing.T, stdout io.Writer, args ...string) (string, error) {
	t.Helper()
	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := execute(t.Context(), root)
	return stderr.String(), err
}

func setupWorkspace(t *testing.T) string {
	t.Helper()
	return testutil.WriteWorkspace(t, map[string]string{
		"a":     testutil.ManifestA,
		"b":     testutil.ManifestB,
		"tools": testutil.ManifestPrivate,
	})
}

func TestRoot_missingWorkspaceRoot(t *testing.T) {
	_, _, err := runCLI(t, "update", "-s", "workspace")
	if err == nil {
		t.Fatal("expected error without --workspace-root")
	}
	if code := issue.ExitCode(err); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestRoot_exitCodes(t *testing.T) {
	ws := setupWorkspace(t)
	broken := setupWorkspace(t)
	testutil.WritePackage(t, broken, "zz", "{not json")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing root", []string{"-w", filepath.Join(ws, "nope"), "list"}, 2},
		{"unknown strategy", []string{"-w", ws, "update", "-s", "latest"}, 2},
		{"explicit without version", []string{"-w", ws, "update", "-s", "explicit"}, 2},
		{"invalid manifest", []string{"-w", broken, "update", "-s", "workspace"}, 3},
		{"ok", []string{"-w", ws, "list"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCLI(t, tt.args...)
			if code := issue.ExitCode(err); code != tt.want {
				t.Errorf("exit code = %d, want %d (err: %v)", code, tt.want, err)
			}
		})
	}
}

func TestRoot_errorOutput(t *testing.T) {
	ws := setupWorkspace(t)

	_, stderr, err := runCLI(t, "-w", ws, "update", "-s", "explicit")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "Pass --version") {
		t.Errorf("suggestion missing from error output:\n%s", stderr)
	}
	if strings.Contains(stderr, "Error chain") {
		t.Errorf("error chain shown without --verbose:\n%s", stderr)
	}

	_, stderr, err = runCLI(t, "-w", ws, "--verbose", "update", "-s", "explicit")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(stderr, "Error chain") {
		t.Errorf("verbose run should print the error chain, got:\n%s", stderr)
	}
}

func TestRoot_configFile(t *testing.T) {
	ws := setupWorkspace(t)
	cfg := filepath.Join(t.TempDir(), "depver.yaml")
	writeFile(t, cfg, "include_private: true\n")

	if _, _, err := runCLI(t, "-w", ws, "--config", cfg, "update", "-s", "explicit", "-v", "2.0.0"); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ReadPackage(t, ws, "tools"); !strings.Contains(got, `"@maany_shr/b": "2.0.0"`) {
		t.Errorf("include_private from config file not applied:\n%s", got)
	}
}
