package bootstrap

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/adaptmax-labs/adaptmax/internal/envfile"
	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"github.com/adaptmax-labs/adaptmax/internal/scaffold"
	"github.com/adaptmax-labs/adaptmax/internal/templates"
	"github.com/adaptmax-labs/adaptmax/internal/tree"
	"github.com/adaptmax-labs/adaptmax/internal/vcs"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
)

// DefaultTemplate is used when Options.Template is empty.
const DefaultTemplate = "basic"

// Loader resolves a template name to a validated structure.
type Loader interface {
	Load(name string) (*templates.Structure, error)
}

// Options select what a run creates.
type Options struct {
	Name         string // target directory, relative to the Bootstrapper's FS
	Template     string // template name; DefaultTemplate when empty
	SkipRepoInit bool   // do not initialize a repository
	DryRun       bool   // materialize in memory only; no post-steps
}

// Report is the outcome of a run. Fields for steps that did not run are zero.
type Report struct {
	Name        string
	Template    string
	DryRun      bool
	State       State
	Transitions []State

	Result *scaffold.Result

	Tree    *tree.Node
	TreeErr error

	RepoInitialized bool
	RepoExisted     bool // a repository was already present; Init was not called
	RepoErr         error

	Env    *envfile.SeedResult
	EnvErr error
}

func (r *Report) enter(s State) {
	r.State = s
	r.Transitions = append(r.Transitions, s)
}

// Warnings returns the non-fatal errors of the run.
func (r *Report) Warnings() []error {
	var warnings []error
	for _, err := range []error{r.TreeErr, r.RepoErr, r.EnvErr} {
		if err != nil {
			warnings = append(warnings, err)
		}
	}
	return warnings
}

// Bootstrapper runs project creation against a filesystem.
type Bootstrapper struct {
	// FS is the filesystem the project is created in.
	FS billy.Filesystem
	// Root is the absolute OS path FS is rooted at; the repository
	// initializer receives Root joined with the target name.
	Root string

	Loader Loader
	// Repo initializes the repository. A nil Repo skips the step.
	Repo vcs.RepoInitializer
	// Recorder receives materialization events. When nil, events go to Logger.
	Recorder scaffold.Recorder
	// Logger receives step outcomes. When nil, slog.Default() is used.
	Logger *slog.Logger
}

// Run creates the project described by opts. The returned Report is never
// nil. A non-nil error is fatal and leaves the Report in StateAborted; a
// materialization failure may leave a partially populated target.
func (b *Bootstrapper) Run(opts Options) (*Report, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Template == "" {
		opts.Template = DefaultTemplate
	}

	report := &Report{Name: opts.Name, Template: opts.Template, DryRun: opts.DryRun}
	report.enter(StateStart)

	abort := func(err error) (*Report, error) {
		report.enter(StateAborted)
		logger.Error("Project creation aborted", "name", opts.Name, "template", opts.Template, "error", err)
		return report, err
	}

	target := filepath.Clean(opts.Name)
	if opts.Name == "" || target == "." {
		return abort(fmt.Errorf("project name is required"))
	}

	if err := checkTarget(b.FS, target); err != nil {
		return abort(err)
	}
	report.enter(StateTargetChecked)

	s, err := b.Loader.Load(opts.Template)
	if err != nil {
		return abort(err)
	}
	report.enter(StateTemplateLoaded)

	fsys := b.FS
	if opts.DryRun {
		fsys = memfs.New()
	}

	recorder := b.Recorder
	if recorder == nil {
		recorder = scaffold.LogRecorder(logger)
	}
	if opts.DryRun {
		recorder = nil
	}

	report.Result, err = scaffold.New(fsys, recorder).Materialize(target, s)
	if err != nil {
		return abort(err)
	}
	report.enter(StateMaterialized)

	report.Tree, report.TreeErr = tree.Render(fsys, target)
	if report.TreeErr != nil {
		logger.Warn("Rendering project tree failed", "path", target, "error", report.TreeErr)
	}

	if opts.DryRun {
		report.enter(StateDone)
		return report, nil
	}

	if !opts.SkipRepoInit && b.Repo != nil {
		b.initRepo(report, target, logger)
	}
	b.seedEnv(report, target, logger)

	report.enter(StateDone)
	logger.Info("Project created", "name", opts.Name, "template", opts.Template)
	return report, nil
}

func (b *Bootstrapper) initRepo(report *Report, target string, logger *slog.Logger) {
	meta := b.FS.Join(target, vcs.MetadataDir)
	if _, err := b.FS.Lstat(meta); err == nil {
		report.RepoExisted = true
		return
	} else if !stderrors.Is(err, os.ErrNotExist) {
		report.RepoErr = errors.New(errors.RepoInitFailed).WithPath(meta).Wrap(err)
		logger.Warn("Repository initialization failed", "path", meta, "error", err)
		return
	}

	path := target
	if !filepath.IsAbs(path) {
		path = filepath.Join(b.Root, target)
	}
	if err := b.Repo.Init(path); err != nil {
		report.RepoErr = errors.New(errors.RepoInitFailed).WithPath(path).Wrap(err)
		logger.Warn("Repository initialization failed", "path", path, "error", err)
		return
	}
	report.RepoInitialized = true
	report.enter(StateRepoInitialized)
	logger.Info("Initialized repository", "path", path)
}

func (b *Bootstrapper) seedEnv(report *Report, target string, logger *slog.Logger) {
	env, err := envfile.Seed(b.FS, target)
	report.Env = env
	if err != nil {
		report.EnvErr = errors.New(errors.EnvSeedFailed).WithPath(env.Path).Wrap(err)
		logger.Warn("Seeding env file failed", "path", env.Path, "error", err)
		return
	}
	if env.Seeded {
		report.enter(StateEnvSeeded)
		logger.Info("Seeded env file", "path", env.Path, "keys", len(env.Entries))
	}
}

// checkTarget refuses any existing entry at target, before anything is
// written.
func checkTarget(fsys billy.Filesystem, target string) error {
	_, err := fsys.Lstat(target)
	if err == nil {
		return errors.New(errors.TargetAlreadyExists).
			WithPath(target).
			WithSuggestion("Choose a different project name or remove the existing path")
	}
	if !stderrors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking target %s: %w", target, err)
	}
	return nil
}

// SplitTarget resolves name against the working directory and returns the
// absolute parent directory and the final path element. A Bootstrapper
// rooted at parent creates the project as base.
func SplitTarget(name string) (parent, base string, err error) {
	if name == "" {
		return "", "", fmt.Errorf("project name is required")
	}
	abs, err := filepath.Abs(name)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", name, err)
	}
	return filepath.Dir(abs), filepath.Base(abs), nil
}
