package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/adaptmax-labs/adaptmax/internal/bootstrap"
	"github.com/adaptmax-labs/adaptmax/internal/branding"
	"github.com/adaptmax-labs/adaptmax/internal/config"
	"github.com/adaptmax-labs/adaptmax/internal/envfile"
	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"github.com/adaptmax-labs/adaptmax/internal/logging"
	"github.com/adaptmax-labs/adaptmax/internal/vcs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
)

var (
	initTemplate string
	initNoGit    bool
	initDryRun   bool
)

func init() {
	initCmd.Flags().StringVarP(&initTemplate, "template", "t", bootstrap.DefaultTemplate, "Template to create the project from")
	initCmd.Flags().BoolVar(&initNoGit, "no-git", false, "Do not initialize a git repository")
	initCmd.Flags().BoolVar(&initDryRun, "dry-run", false, "Show the tree that would be created without writing anything")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new project from a template",
	Long: `Create a new project directory <name> from a template.

The directory must not exist. Every folder declared by the template is created
with an empty .keep file inside; every file is written with its literal content.
Afterwards a git repository is initialized (unless --no-git or git_init=false)
and, when the template provides .env.example, it is copied to .env.`,
	Example: fmt.Sprintf("  %[1]s init demo\n  %[1]s init api --template node-api --no-git", branding.CLIName()),
	Args:    cobra.ExactArgs(1),
	RunE:    runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	name := args[0]
	parent, base, err := bootstrap.SplitTarget(name)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if !initDryRun {
		logger = logging.Init(config.Get(config.KeyLogFile), cmd.ErrOrStderr())
	}

	repo := vcs.GitInitializer{Branch: config.Get(config.KeyGitBranch)}
	b := &bootstrap.Bootstrapper{
		FS:     osfs.New(parent),
		Root:   parent,
		Loader: newCatalog(),
		Repo:   repo,
		Logger: logger,
	}

	report, err := b.Run(bootstrap.Options{
		Name:         base,
		Template:     initTemplate,
		SkipRepoInit: initNoGit || !config.GetBool(config.KeyGitInit),
		DryRun:       initDryRun,
	})
	if err != nil {
		return err
	}

	printReport(cmd.OutOrStdout(), cmd.ErrOrStderr(), name, repo.BranchName(), report, logger)
	return nil
}

func printReport(out, errOut io.Writer, name, branch string, report *bootstrap.Report, logger *slog.Logger) {
	if report.Tree != nil {
		_ = report.Tree.Write(out)
	}
	if report.TreeErr != nil {
		fmt.Fprintf(errOut, "Warning: the tree above may be incomplete.\n%s\n", errors.Format(report.TreeErr))
	}

	res := report.Result
	if report.DryRun {
		fmt.Fprintf(out, "\nDry run: %q would be created from template %q (%d folders, %d files). Nothing was written.\n",
			name, report.Template, len(res.Folders), len(res.Files))
		return
	}

	fmt.Fprintf(out, "\nProject %q created from template %q (%d folders, %d files).\n",
		name, report.Template, len(res.Folders), len(res.Files))

	switch {
	case report.RepoErr != nil:
		fmt.Fprintf(errOut, "Warning: git repository was not initialized.\n%s\n", errors.Format(report.RepoErr))
	case report.RepoInitialized:
		fmt.Fprintf(out, "Initialized git repository on branch %s.\n", branch)
	case report.RepoExisted:
		fmt.Fprintln(out, "Template already provides a git repository; skipped initialization.")
	}

	switch {
	case report.EnvErr != nil:
		fmt.Fprintf(errOut, "Warning: %s was not created.\n%s\n", envfile.Name, errors.Format(report.EnvErr))
	case report.Env != nil && report.Env.Seeded:
		fmt.Fprintf(out, "Created %s from %s (%d keys).\n", envfile.Name, envfile.ExampleName, len(report.Env.Entries))
	case report.Env != nil && report.Env.Existed:
		fmt.Fprintf(out, "Template already provides %s; left it unchanged.\n", envfile.Name)
	}

	if len(report.Warnings()) > 0 {
		logger.Warn("Project created with warnings", "name", name, "warnings", len(report.Warnings()))
	}
}
