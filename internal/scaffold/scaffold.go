package scaffold

import (
	stderrors "errors"
	"fmt"
	"os"
	"path"

	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"github.com/adaptmax-labs/adaptmax/internal/templates"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// MarkerName is the empty placeholder created inside every declared folder.
const MarkerName = ".keep"

const (
	dirPerm  os.FileMode = 0755
	filePerm os.FileMode = 0644
)

// Result holds the outcome of a materialization. Paths are relative to
// BasePath and slash-separated.
type Result struct {
	BasePath string
	Folders  []string
	Markers  []string
	Files    []string
}

// Materializer creates template structures on a filesystem.
type Materializer struct {
	fs       billy.Filesystem
	recorder Recorder
}

// New returns a Materializer writing to fsys. A nil recorder discards events.
func New(fsys billy.Filesystem, recorder Recorder) *Materializer {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Materializer{fs: fsys, recorder: recorder}
}

// Materialize creates s under basePath. basePath must not exist, or must be an
// empty directory.
//
// Folders are created in declared order, each with a marker file; files are
// written in path order. The first failure aborts the run. There is no
// rollback: on error the returned Result lists what was created before the
// failure and the directory is left partially populated.
func (m *Materializer) Materialize(basePath string, s *templates.Structure) (*Result, error) {
	if err := m.checkTarget(basePath); err != nil {
		return nil, err
	}

	result := &Result{BasePath: basePath}

	if err := m.fs.MkdirAll(basePath, dirPerm); err != nil {
		return result, errors.New(errors.FolderCreationFailed).WithPath(basePath).Wrap(err)
	}

	for _, folder := range s.Folders() {
		dir := m.fs.Join(basePath, folder)
		if err := m.fs.MkdirAll(dir, dirPerm); err != nil {
			return result, errors.New(errors.FolderCreationFailed).WithPath(dir).Wrap(err)
		}
		result.Folders = append(result.Folders, folder)
		m.recorder.Record(Event{Kind: EventFolder, Path: dir})

		marker := m.fs.Join(dir, MarkerName)
		if err := util.WriteFile(m.fs, marker, nil, filePerm); err != nil {
			return result, errors.New(errors.FolderCreationFailed).
				WithPath(dir).
				WithDetailf("creating %s marker", MarkerName).
				Wrap(err)
		}
		result.Markers = append(result.Markers, path.Join(folder, MarkerName))
		m.recorder.Record(Event{Kind: EventMarker, Path: marker})
	}

	for _, f := range s.Files() {
		full := m.fs.Join(basePath, f.Path)
		if parent := path.Dir(f.Path); parent != "." {
			if err := m.fs.MkdirAll(m.fs.Join(basePath, parent), dirPerm); err != nil {
				return result, errors.New(errors.FileCreationFailed).
					WithPath(full).
					WithDetailf("creating parent directory %s", parent).
					Wrap(err)
			}
		}
		if err := util.WriteFile(m.fs, full, []byte(f.Content), filePerm); err != nil {
			return result, errors.New(errors.FileCreationFailed).WithPath(full).Wrap(err)
		}
		result.Files = append(result.Files, f.Path)
		m.recorder.Record(Event{Kind: EventFile, Path: full, Size: len(f.Content)})
	}

	return result, nil
}

// checkTarget refuses a basePath that is a file or a non-empty directory.
func (m *Materializer) checkTarget(basePath string) error {
	info, err := m.fs.Stat(basePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("checking target %s: %w", basePath, err)
	}

	if !info.IsDir() {
		return errors.New(errors.TargetAlreadyExists).
			WithPath(basePath).
			WithDetail("a file with that name exists").
			WithSuggestion("Choose a different project name")
	}

	entries, err := m.fs.ReadDir(basePath)
	if err != nil {
		return fmt.Errorf("reading target %s: %w", basePath, err)
	}
	if len(entries) > 0 {
		return errors.New(errors.TargetAlreadyExists).
			WithPath(basePath).
			WithDetail("directory is not empty").
			WithSuggestion("Choose a different project name or remove the existing directory")
	}
	return nil
}
