package bootstrap

import (
	"bytes"
	stderrors "errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/adaptmax-labs/adaptmax/internal/envfile"
	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"github.com/adaptmax-labs/adaptmax/internal/templates"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicYAML = `folders:
  - src
  - tests
files:
  README.md: "# Hello\n"
`

const envYAML = `folders:
  - routes
files:
  .env.example: "PORT=3000\nAPI_KEY=\n"
  server.js: "console.log('up')\n"
`

const gitYAML = `folders:
  - .git
files: {}
`

func testCatalog() *templates.Catalog {
	return templates.NewCatalog(templates.Source{Name: "test", FS: fstest.MapFS{
		"basic.yaml":  {Data: []byte(basicYAML)},
		"env.yaml":    {Data: []byte(envYAML)},
		"git.yaml":    {Data: []byte(gitYAML)},
		"broken.yaml": {Data: []byte("folders: [src]\n")},
	}})
}

type fakeRepo struct {
	fs    billy.Filesystem
	root  string
	calls []string
	err   error
}

func (r *fakeRepo) Init(path string) error {
	r.calls = append(r.calls, path)
	if r.err != nil {
		return r.err
	}
	rel, err := filepath.Rel(r.root, path)
	if err != nil {
		return err
	}
	return r.fs.MkdirAll(r.fs.Join(rel, ".git"), 0755)
}

func newBootstrapper(fsys billy.Filesystem) (*Bootstrapper, *fakeRepo) {
	repo := &fakeRepo{fs: fsys, root: "/work"}
	return &Bootstrapper{
		FS:     fsys,
		Root:   "/work",
		Loader: testCatalog(),
		Repo:   repo,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, repo
}

func readFile(t *testing.T, fsys billy.Filesystem, name string) string {
	t.Helper()
	f, err := fsys.Open(name)
	require.NoError(t, err)
	defer f.Close()
	data, err := io.ReadAll(f)
	require.NoError(t, err)
	return string(data)
}

func TestRun_Basic(t *testing.T) {
	fsys := memfs.New()
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "demo", Template: "basic"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.True(t, report.State.Terminal())
	assert.Equal(t, []State{
		StateStart, StateTargetChecked, StateTemplateLoaded, StateMaterialized, StateRepoInitialized, StateDone,
	}, report.Transitions)

	assert.Equal(t, "# Hello\n", readFile(t, fsys, filepath.Join("demo", "README.md")))
	for _, marker := range []string{"src/.keep", "tests/.keep"} {
		_, err := fsys.Stat(filepath.Join("demo", filepath.FromSlash(marker)))
		assert.NoError(t, err, marker)
	}

	require.NotNil(t, report.Tree)
	assert.NoError(t, report.TreeErr)
	want := "demo/\n" +
		"├── README.md\n" +
		"├── src/\n" +
		"│   └── .keep\n" +
		"└── tests/\n" +
		"    └── .keep\n"
	assert.Equal(t, want, report.Tree.String())

	assert.Equal(t, []string{filepath.Join("/work", "demo")}, repo.calls)
	assert.True(t, report.RepoInitialized)
	assert.Empty(t, report.Warnings())

	require.NotNil(t, report.Env)
	assert.False(t, report.Env.Seeded)
	_, err = fsys.Stat(filepath.Join("demo", envfile.Name))
	assert.True(t, os.IsNotExist(err))
}

func TestRun_DefaultTemplate(t *testing.T) {
	b, _ := newBootstrapper(memfs.New())

	report, err := b.Run(Options{Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, DefaultTemplate, report.Template)
	assert.Equal(t, []string{"README.md"}, report.Result.Files)
}

// writeCountingFS counts every mutating call.
type writeCountingFS struct {
	billy.Filesystem
	writes int
}

func (w *writeCountingFS) Create(name string) (billy.File, error) {
	w.writes++
	return w.Filesystem.Create(name)
}

func (w *writeCountingFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE|os.O_APPEND|os.O_TRUNC) != 0 {
		w.writes++
	}
	return w.Filesystem.OpenFile(name, flag, perm)
}

func (w *writeCountingFS) MkdirAll(name string, perm os.FileMode) error {
	w.writes++
	return w.Filesystem.MkdirAll(name, perm)
}

func (w *writeCountingFS) Rename(from, to string) error {
	w.writes++
	return w.Filesystem.Rename(from, to)
}

func (w *writeCountingFS) Remove(name string) error {
	w.writes++
	return w.Filesystem.Remove(name)
}

func TestRun_TargetExistsPerformsNoWrites(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, fsys billy.Filesystem)
	}{
		{"empty directory", func(t *testing.T, fsys billy.Filesystem) {
			require.NoError(t, fsys.MkdirAll("demo", 0755))
		}},
		{"populated directory", func(t *testing.T, fsys billy.Filesystem) {
			require.NoError(t, util.WriteFile(fsys, filepath.Join("demo", "notes.txt"), []byte("mine"), 0644))
		}},
		{"file", func(t *testing.T, fsys billy.Filesystem) {
			require.NoError(t, util.WriteFile(fsys, "demo", []byte("mine"), 0644))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := memfs.New()
			tt.setup(t, inner)

			fsys := &writeCountingFS{Filesystem: inner}
			b, repo := newBootstrapper(fsys)

			report, err := b.Run(Options{Name: "demo", Template: "env"})
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, errors.TargetAlreadyExists))
			assert.Equal(t, 3, errors.ExitCode(err))

			assert.Zero(t, fsys.writes)
			assert.Empty(t, repo.calls)
			assert.Equal(t, []State{StateStart, StateAborted}, report.Transitions)
			assert.Nil(t, report.Result)
		})
	}
}

func TestRun_TemplateErrorsAbortBeforeWriting(t *testing.T) {
	tests := []struct {
		template string
		kind     errors.Kind
	}{
		{"missing", errors.TemplateNotFound},
		{"../basic", errors.TemplateNotFound},
		{"broken", errors.TemplateMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.template, func(t *testing.T) {
			fsys := &writeCountingFS{Filesystem: memfs.New()}
			b, _ := newBootstrapper(fsys)

			report, err := b.Run(Options{Name: "demo", Template: tt.template})
			require.Error(t, err)
			assert.True(t, errors.IsKind(err, tt.kind), "got %v", err)
			assert.Zero(t, fsys.writes)
			assert.Equal(t, []State{StateStart, StateTargetChecked, StateAborted}, report.Transitions)
		})
	}
}

func TestRun_SeedsEnv(t *testing.T) {
	fsys := memfs.New()
	b, _ := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "api", Template: "env"})
	require.NoError(t, err)

	assert.Equal(t, "PORT=3000\nAPI_KEY=\n", readFile(t, fsys, filepath.Join("api", envfile.Name)))
	require.NotNil(t, report.Env)
	assert.True(t, report.Env.Seeded)
	assert.Len(t, report.Env.Entries, 2)
	assert.Equal(t, []State{
		StateStart, StateTargetChecked, StateTemplateLoaded, StateMaterialized,
		StateRepoInitialized, StateEnvSeeded, StateDone,
	}, report.Transitions)

	// Rendered before post-steps: neither .git nor .env appear.
	assert.NotContains(t, report.Tree.String(), ".git")
	assert.NotContains(t, report.Tree.String(), ".env\n")
	assert.Contains(t, report.Tree.String(), ".env.example")
}

func TestRun_RepoFailureIsNotFatal(t *testing.T) {
	fsys := memfs.New()
	b, repo := newBootstrapper(fsys)
	repo.err = stderrors.New("disk full")

	report, err := b.Run(Options{Name: "api", Template: "env"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.False(t, report.RepoInitialized)
	assert.True(t, errors.IsKind(report.RepoErr, errors.RepoInitFailed))
	assert.NotContains(t, report.Transitions, StateRepoInitialized)

	// The env step still runs.
	assert.True(t, report.Env.Seeded)
	require.Len(t, report.Warnings(), 1)
}

func TestRun_ExistingRepoSkipsInit(t *testing.T) {
	fsys := memfs.New()
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "demo", Template: "git"})
	require.NoError(t, err)

	assert.Empty(t, repo.calls)
	assert.True(t, report.RepoExisted)
	assert.False(t, report.RepoInitialized)
}

func TestRun_SkipRepoInit(t *testing.T) {
	fsys := memfs.New()
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "demo", Template: "basic", SkipRepoInit: true})
	require.NoError(t, err)
	assert.Empty(t, repo.calls)
	assert.Equal(t, []State{StateStart, StateTargetChecked, StateTemplateLoaded, StateMaterialized, StateDone}, report.Transitions)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	fsys := &writeCountingFS{Filesystem: memfs.New()}
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "api", Template: "env", DryRun: true})
	require.NoError(t, err)

	assert.Zero(t, fsys.writes)
	assert.Empty(t, repo.calls)
	assert.Nil(t, report.Env)
	assert.Equal(t, StateDone, report.State)
	assert.Contains(t, report.Tree.String(), "server.js")
	assert.Equal(t, []string{"routes/.keep"}, report.Result.Markers)
}

// faultFS fails OpenFile or ReadDir for one specific path.
type faultFS struct {
	billy.Filesystem
	failOpen    string
	failReadDir string
}

var errInjected = stderrors.New("injected failure")

func (f *faultFS) OpenFile(name string, flag int, perm os.FileMode) (billy.File, error) {
	if name == f.failOpen {
		return nil, errInjected
	}
	return f.Filesystem.OpenFile(name, flag, perm)
}

func (f *faultFS) ReadDir(name string) ([]os.FileInfo, error) {
	if name == f.failReadDir {
		return nil, errInjected
	}
	return f.Filesystem.ReadDir(name)
}

func TestRun_MaterializeFailureAborts(t *testing.T) {
	fsys := &faultFS{Filesystem: memfs.New(), failOpen: filepath.Join("demo", "README.md")}
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "demo", Template: "basic"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.FileCreationFailed))
	assert.ErrorIs(t, err, errInjected)
	assert.Equal(t, StateAborted, report.State)
	assert.True(t, report.State.Terminal())
	assert.Empty(t, repo.calls)
	assert.Nil(t, report.Tree)
	assert.Equal(t, []string{"src", "tests"}, report.Result.Folders)
}

func TestRun_ConflictingTemplateWritesNothing(t *testing.T) {
	fsys := memfs.New()
	b, repo := newBootstrapper(fsys)
	b.Loader = templates.NewCatalog(templates.Source{Name: "test", FS: fstest.MapFS{
		"clash.yaml": {Data: []byte("folders: [assets]\nfiles:\n  assets/x.txt: x\n  assets: y\n")},
	}})

	report, err := b.Run(Options{Name: "demo", Template: "clash"})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.TemplateMalformed))
	assert.Equal(t, StateAborted, report.State)
	assert.NotContains(t, report.Transitions, StateTemplateLoaded)
	assert.Empty(t, repo.calls)

	_, statErr := fsys.Stat("demo")
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_TreeFailureIsNotFatal(t *testing.T) {
	fsys := &faultFS{Filesystem: memfs.New(), failReadDir: filepath.Join("demo", "src")}
	b, repo := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "demo", Template: "basic"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, errors.TreeReadFailed, errors.KindOf(report.TreeErr))
	assert.ErrorIs(t, report.TreeErr, errInjected)

	// The partial tree is kept and the post-steps still run.
	require.NotNil(t, report.Tree)
	assert.Contains(t, report.Tree.String(), "src/ (unreadable)")
	assert.Contains(t, report.Tree.String(), "README.md")
	assert.Len(t, repo.calls, 1)
	assert.Contains(t, report.Transitions, StateRepoInitialized)
	assert.Equal(t, []error{report.TreeErr}, report.Warnings())
}

func TestRun_EnvSeedFailureIsNotFatal(t *testing.T) {
	fsys := &faultFS{Filesystem: memfs.New(), failOpen: filepath.Join("api", envfile.Name)}
	b, _ := newBootstrapper(fsys)

	report, err := b.Run(Options{Name: "api", Template: "env"})
	require.NoError(t, err)

	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, errors.EnvSeedFailed, errors.KindOf(report.EnvErr))
	assert.ErrorIs(t, report.EnvErr, errInjected)
	assert.NotContains(t, report.Transitions, StateEnvSeeded)
	assert.True(t, report.RepoInitialized)
	require.NotNil(t, report.Env)
	assert.False(t, report.Env.Seeded)
	assert.Equal(t, []error{report.EnvErr}, report.Warnings())

	_, statErr := fsys.Stat(filepath.Join("api", envfile.Name))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRun_ExampleDirectoryIsNotSeeded(t *testing.T) {
	fsys := memfs.New()
	b, _ := newBootstrapper(fsys)
	b.Loader = templates.NewCatalog(templates.Source{Name: "test", FS: fstest.MapFS{
		"dir.yaml": {Data: []byte("folders: [.env.example]\nfiles: {}\n")},
	}})

	report, err := b.Run(Options{Name: "demo", Template: "dir"})
	require.NoError(t, err)
	assert.NoError(t, report.EnvErr)
	assert.Empty(t, report.Warnings())
	assert.False(t, report.Env.Seeded)
}

func TestRun_EmptyName(t *testing.T) {
	b, _ := newBootstrapper(memfs.New())
	report, err := b.Run(Options{Name: ""})
	require.Error(t, err)
	assert.Equal(t, StateAborted, report.State)
}

func TestRun_LogsEvents(t *testing.T) {
	var buf bytes.Buffer
	b, _ := newBootstrapper(memfs.New())
	b.Logger = slog.New(slog.NewTextHandler(&buf, nil))

	_, err := b.Run(Options{Name: "demo", Template: "basic", SkipRepoInit: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="Created folder" path=demo/src`)
	assert.Contains(t, out, `msg="Created marker" path=demo/tests/.keep`)
	assert.Contains(t, out, `msg="Created file" path=demo/README.md bytes=8`)
	assert.Contains(t, out, `msg="Project created" name=demo template=basic`)
}

func TestSplitTarget(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	parent, base, err := SplitTarget("demo")
	require.NoError(t, err)
	assert.Equal(t, cwd, parent)
	assert.Equal(t, "demo", base)

	parent, base, err = SplitTarget(filepath.Join("nested", "app"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cwd, "nested"), parent)
	assert.Equal(t, "app", base)

	_, _, err = SplitTarget("")
	assert.Error(t, err)
}
