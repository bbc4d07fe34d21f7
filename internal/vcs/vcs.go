package vcs

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// MetadataDir is the repository metadata directory inside a work tree.
const MetadataDir = ".git"

// DefaultBranch is the branch HEAD points at in a new repository.
const DefaultBranch = "main"

// RepoInitializer creates an empty repository at a path.
type RepoInitializer interface {
	Init(path string) error
}

// GitInitializer initializes git repositories in-process, without requiring a
// git binary on PATH.
type GitInitializer struct {
	// Branch overrides DefaultBranch when set.
	Branch string
}

// BranchName returns the branch HEAD will point at after Init.
func (g GitInitializer) BranchName() string {
	if g.Branch == "" {
		return DefaultBranch
	}
	return g.Branch
}

// Init creates a non-bare repository with path as its work tree.
func (g GitInitializer) Init(path string) error {
	branch := g.BranchName()

	_, err := git.PlainInitWithOptions(path, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
	})
	if err != nil {
		return fmt.Errorf("initializing git repository at %s: %w", path, err)
	}
	return nil
}
