package main

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/config"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/logging"
	"github.com/dream-aim-deliver/dad-e-class-monorepo/internal/workspace"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "depver",
		Short: "Rewrite internal dependency versions across a package workspace",
		Long: `depver finds the packages of a monorepo that depend on sibling packages
of the same scope and pins those dependencies to the workspace protocol
or to an explicit release version.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringP("workspace-root", "w", "", "Workspace root containing the packages directory (required)")
	cmd.PersistentFlags().String("config", "", "Config file (default is <workspace-root>/depver.yaml)")
	cmd.PersistentFlags().String("scope", config.Default().Scope, "Scope prefix of internal package names")
	cmd.PersistentFlags().Bool("verbose", false, "Enable debug logging and detailed errors")

	cmd.AddCommand(
		newUpdateCmd(),
		newListCmd(),
	)

	return cmd
}

// runEnv is what every command needs before touching the workspace.
type runEnv struct {
	root   string
	cfg    *config.Config
	logger *log.Logger
}

// setup resolves the workspace root, logger and configuration from flags.
func setup(cmd *cobra.Command) (*runEnv, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	env := &runEnv{logger: logging.New(cmd.ErrOrStderr(), verbose)}

	rootFlag, _ := cmd.Flags().GetString("workspace-root")
	root, err := workspace.ResolveRoot(rootFlag)
	if err != nil {
		return env, err
	}
	env.root = root

	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.LoadOptions{Root: root, File: cfgFile, Flags: cmd.Flags()})
	if err != nil {
		return env, err
	}
	env.cfg = cfg
	env.logger.Debug("configuration loaded", "config", *cfg)
	return env, nil
}
