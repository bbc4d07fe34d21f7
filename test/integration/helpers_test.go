//go:build integration

package integration_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adaptmax-labs/adaptmax/internal/bootstrap"
	"github.com/adaptmax-labs/adaptmax/internal/templates"
	"github.com/adaptmax-labs/adaptmax/internal/vcs"
	"github.com/go-git/go-billy/v5/osfs"
)

// newBootstrapper returns a Bootstrapper creating projects under a fresh temp
// directory, backed by the real filesystem, git and the given template dirs.
func newBootstrapper(t *testing.T, templateDir string) (*bootstrap.Bootstrapper, string) {
	t.Helper()
	root := t.TempDir()

	return &bootstrap.Bootstrapper{
		FS:     osfs.New(root),
		Root:   root,
		Loader: templates.NewCatalog(templates.DefaultSources(templateDir)...),
		Repo:   vcs.GitInitializer{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, root
}

// writeTemplate writes a template document into dir.
func writeTemplate(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name+".yaml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// listTree returns every path below root, slash-separated, directories
// suffixed with "/". Entries under .git are skipped.
func listTree(t *testing.T, root string) []string {
	t.Helper()
	var paths []string
	err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, _ := filepath.Rel(root, p)
		rel = filepath.ToSlash(rel)
		if rel == ".git" {
			return filepath.SkipDir
		}
		if d.IsDir() {
			rel += "/"
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		t.Fatalf("walking %s: %v", root, err)
	}
	return paths
}

func assertFileContent(t *testing.T, path, want string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading %s: %v", path, err)
	}
	if string(data) != want {
		t.Errorf("%s = %q, want %q", path, data, want)
	}
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected directory %s: %v", path, err)
	}
	if !info.IsDir() {
		t.Fatalf("expected %s to be a directory", path)
	}
}

func assertNotExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		t.Errorf("expected %s to not exist (err=%v)", path, err)
	}
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n")
}
