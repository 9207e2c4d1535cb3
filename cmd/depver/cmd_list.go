package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/graph"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/ui"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List workspace packages and their internal dependencies",
		RunE:  runList,
	}
	cmd.Flags().Bool("include-private", false, "Select packages that are not published publicly")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

type packageInfo struct {
	Package      string            `json:"package"`
	Name         string            `json:"name,omitempty"`
	Manifest     string            `json:"manifest"`
	Access       string            `json:"access,omitempty"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
	Selected     bool              `json:"selected"`
}

func runList(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	env, err := setup(cmd)
	if err != nil {
		return err
	}
	ws, err := workspace.Open(env.root, workspace.Options{
		PackagesDir:  env.cfg.PackagesDir,
		ManifestFile: env.cfg.ManifestFile,
	})
	if err != nil {
		return err
	}
	pkgs, err := ws.Scan()
	if err != nil {
		return err
	}

	deps := map[string]graph.Package{}
	for _, p := range graph.Build(pkgs, graph.Options{Scope: env.cfg.Scope}) {
		deps[p.Name] = p
	}
	selected := map[string]bool{}
	for _, p := range graph.Build(pkgs, graph.Options{Scope: env.cfg.Scope, RequirePublic: !env.cfg.IncludePrivate}) {
		selected[p.Name] = true
	}

	infos := make([]packageInfo, 0, len(pkgs))
	for _, p := range pkgs {
		infos = append(infos, packageInfo{
			Package:      p.Name,
			Name:         p.PublicName(),
			Manifest:     ws.Rel(p.Path),
			Access:       p.Manifest.Access(),
			Dependencies: deps[p.Name].DependencyMap(),
			Selected:     selected[p.Name],
		})
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	tbl := ui.NewTable(out, "PACKAGE", "NAME", "ACCESS", "INTERNAL DEPS", "SELECTED")
	for _, info := range infos {
		names := make([]string, 0, len(info.Dependencies))
		for _, d := range deps[info.Package].Dependencies {
			names = append(names, d.Name)
		}
		tbl.Row(info.Package, info.Name, info.Access, strings.Join(names, ","), info.Selected)
	}
	return tbl.Flush()
}
