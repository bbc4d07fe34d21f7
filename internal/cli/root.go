package cli

import (
	"github.com/adaptmax-labs/adaptmax/internal/branding"
	"github.com/adaptmax-labs/adaptmax/internal/config"
	"github.com/adaptmax-labs/adaptmax/internal/version"
	"github.com/spf13/cobra"
)

var build version.Info

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` creates new projects from declarative templates. A template lists
folders and files; ` + branding.CLIName() + ` creates them, shows the resulting tree, and can
initialize a git repository and a .env file from .env.example.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

// Execute runs the root command with build info injected via ldflags.
func Execute(v, commit, date string) error {
	build = version.Info{Version: v, Commit: commit, Date: date}
	return rootCmd.Execute()
}
