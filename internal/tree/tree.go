package tree

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"github.com/go-git/go-billy/v5"
)

// Node is one entry of a rendered directory.
type Node struct {
	Name     string
	Dir      bool
	Children []*Node

	// Unreadable is set on a directory whose entries could not be listed.
	Unreadable bool
}

// Render lists the directory at root recursively. Entries are sorted by name
// at every level and there is no depth limit.
//
// A directory that cannot be read yields a TreeReadFailed error. When the
// failure is below root, the rest of the tree is still rendered and returned
// along with the first error; the failing directory is marked Unreadable.
func Render(fsys billy.Filesystem, root string) (*Node, error) {
	info, err := fsys.Stat(root)
	if err != nil {
		return nil, readFailed(root, err)
	}

	node := &Node{Name: filepath.Base(root), Dir: info.IsDir()}
	if !node.Dir {
		return node, nil
	}

	var first error
	if err := build(fsys, root, node, &first); err != nil {
		return nil, err
	}
	return node, first
}

func build(fsys billy.Filesystem, dir string, node *Node, first *error) error {
	entries, err := fsys.ReadDir(dir)
	if err != nil {
		return readFailed(dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		child := &Node{Name: entry.Name(), Dir: entry.IsDir()}
		node.Children = append(node.Children, child)
		if !child.Dir {
			continue
		}
		if err := build(fsys, fsys.Join(dir, entry.Name()), child, first); err != nil {
			child.Unreadable = true
			if *first == nil {
				*first = err
			}
		}
	}
	return nil
}

func readFailed(p string, err error) error {
	return errors.New(errors.TreeReadFailed).WithPath(p).Wrap(err)
}

// Write prints the tree with box-drawing characters. Directories carry a
// trailing slash.
func (n *Node) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, n.label()); err != nil {
		return err
	}
	return writeChildren(w, n.Children, "")
}

func writeChildren(w io.Writer, children []*Node, prefix string) error {
	for i, child := range children {
		last := i == len(children)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		if _, err := fmt.Fprintf(w, "%s%s%s\n", prefix, connector, child.label()); err != nil {
			return err
		}
		if err := writeChildren(w, child.Children, childPrefix); err != nil {
			return err
		}
	}
	return nil
}

// String returns the text produced by Write.
func (n *Node) String() string {
	var b strings.Builder
	_ = n.Write(&b)
	return b.String()
}

// Count returns the number of directories and files below n.
func (n *Node) Count() (dirs, files int) {
	for _, child := range n.Children {
		if child.Dir {
			dirs++
			d, f := child.Count()
			dirs += d
			files += f
		} else {
			files++
		}
	}
	return dirs, files
}

func (n *Node) label() string {
	switch {
	case n.Unreadable:
		return n.Name + "/ (unreadable)"
	case n.Dir:
		return n.Name + "/"
	default:
		return n.Name
	}
}
