package templates

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// File is a single file declared by a template.
type File struct {
	Path    string // cleaned, slash-separated, relative to the project root
	Content string // written verbatim
}

// Structure is the validated in-memory form of a template. It is immutable:
// accessors return copies.
type Structure struct {
	folders []string
	files   []File
}

// document is the on-disk shape of a template.
type document struct {
	Folders []string          `yaml:"folders"`
	Files   map[string]string `yaml:"files"`
}

// NewStructure validates folders and files and returns the Structure. Every
// path must be relative and stay inside the project root once cleaned.
func NewStructure(folders []string, files map[string]string) (*Structure, error) {
	s := &Structure{
		folders: make([]string, 0, len(folders)),
		files:   make([]File, 0, len(files)),
	}

	var problems []string
	for i, f := range folders {
		clean, err := cleanPath(f)
		if err != nil {
			problems = append(problems, fmt.Sprintf("folders[%d] %q: %v", i, f, err))
			continue
		}
		s.folders = append(s.folders, clean)
	}

	seen := make(map[string]string, len(files))
	for p, content := range files {
		clean, err := cleanPath(p)
		if err != nil {
			problems = append(problems, fmt.Sprintf("files %q: %v", p, err))
			continue
		}
		if other, dup := seen[clean]; dup {
			problems = append(problems, fmt.Sprintf("files %q: same path as %q", p, other))
			continue
		}
		seen[clean] = p
		s.files = append(s.files, File{Path: clean, Content: content})
	}

	problems = append(problems, conflicts(s.folders, s.files)...)

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("invalid paths: %s", strings.Join(problems, "; "))
	}

	sort.Slice(s.files, func(i, j int) bool { return s.files[i].Path < s.files[j].Path })
	return s, nil
}

// Folders returns the declared folders in document order.
func (s *Structure) Folders() []string {
	out := make([]string, len(s.folders))
	copy(out, s.folders)
	return out
}

// Files returns the declared files sorted by path.
func (s *Structure) Files() []File {
	out := make([]File, len(s.files))
	copy(out, s.files)
	return out
}

// Len returns the number of declared folders and files.
func (s *Structure) Len() int {
	return len(s.folders) + len(s.files)
}

// conflicts reports files whose path is also needed as a directory: a declared
// folder, or a parent of a folder or another file.
func conflicts(folders []string, files []File) []string {
	dirs := make(map[string]string)
	need := func(dir, owner string) {
		for ; dir != "."; dir = path.Dir(dir) {
			if _, ok := dirs[dir]; ok {
				return
			}
			dirs[dir] = owner
		}
	}
	for _, f := range folders {
		need(f, f)
	}
	for _, f := range files {
		need(path.Dir(f.Path), f.Path)
	}

	var problems []string
	for _, f := range files {
		owner, ok := dirs[f.Path]
		if !ok {
			continue
		}
		if owner == f.Path {
			problems = append(problems, fmt.Sprintf("files %q: also declared as a folder", f.Path))
		} else {
			problems = append(problems, fmt.Sprintf("files %q: must be a directory to hold %q", f.Path, owner))
		}
	}
	return problems
}

// cleanPath normalizes a declared path and rejects anything that is empty,
// absolute, or resolves outside the project root.
func cleanPath(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", fmt.Errorf("path is empty")
	}
	// Backslashes count as separators on every platform.
	slashed := strings.ReplaceAll(filepath.ToSlash(p), `\`, "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(p) || filepath.VolumeName(p) != "" {
		return "", fmt.Errorf("path must be relative")
	}
	clean := path.Clean(slashed)
	if clean == "." {
		return "", fmt.Errorf("path refers to the project root")
	}
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("path escapes the project root")
	}
	return clean, nil
}
