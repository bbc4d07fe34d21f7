package envfile

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/adaptmax-labs/adaptmax/internal/platform"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

const (
	// ExampleName is the committed template for local settings.
	ExampleName = ".env.example"
	// Name is the local, uncommitted settings file.
	Name = ".env"

	// Perm restricts .env to its owner since it usually holds secrets.
	Perm os.FileMode = 0600
)

// Entry is a single KEY=VALUE pair.
type Entry struct {
	Key   string
	Value string
}

// SeedResult describes what Seed did.
type SeedResult struct {
	Path    string  // path of .env on the filesystem
	Seeded  bool    // .env was written
	Existed bool    // .env was already present and left untouched
	Entries []Entry // entries parsed from the seeded content
}

// Seed copies dir/.env.example to dir/.env byte for byte and restricts the
// copy to Perm. Without a .env.example, or when it is a directory, nothing
// happens and no error is returned. An existing .env is never overwritten.
func Seed(fsys billy.Filesystem, dir string) (*SeedResult, error) {
	example := fsys.Join(dir, ExampleName)
	target := fsys.Join(dir, Name)
	result := &SeedResult{Path: target}

	info, err := fsys.Stat(example)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return result, nil
		}
		return result, fmt.Errorf("checking %s: %w", example, err)
	}
	if info.IsDir() {
		return result, nil
	}

	data, err := readFile(fsys, example)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", example, err)
	}

	if _, err := fsys.Lstat(target); err == nil {
		result.Existed = true
		return result, nil
	} else if !stderrors.Is(err, os.ErrNotExist) {
		return result, fmt.Errorf("checking %s: %w", target, err)
	}

	if err := util.WriteFile(fsys, target, data, Perm); err != nil {
		return result, fmt.Errorf("writing %s: %w", target, err)
	}
	if err := platform.Chmod(fsys, target, Perm); err != nil {
		return result, fmt.Errorf("restricting permissions on %s: %w", target, err)
	}
	result.Seeded = true

	// The copy is already in place; unparseable lines only reduce the count.
	result.Entries, _ = Parse(bytes.NewReader(data))
	return result, nil
}

// Parse reads KEY=VALUE entries. Blank lines, lines starting with # and lines
// without '=' are skipped. An optional "export " prefix is ignored.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		line = bytes.TrimPrefix(line, []byte("export "))
		key, value, found := bytes.Cut(line, []byte("="))
		if !found {
			continue
		}
		key = bytes.TrimSpace(key)
		if len(key) == 0 {
			continue
		}
		entries = append(entries, Entry{
			Key:   string(key),
			Value: string(bytes.TrimSpace(value)),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading env entries: %w", err)
	}
	return entries, nil
}

// ParseFile reads the entries of the env file at name.
func ParseFile(fsys billy.Filesystem, name string) ([]Entry, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("opening env file %s: %w", name, err)
	}
	defer f.Close()
	return Parse(f)
}

func readFile(fsys billy.Filesystem, name string) ([]byte, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
