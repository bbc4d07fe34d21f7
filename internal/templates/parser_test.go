package templates

import (
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/adaptmax-labs/adaptmax/internal/errors"
)

const testdataDir = "testdata"

func testPath(name string) string {
	return filepath.Join(testdataDir, name)
}

func TestParseFile_Basic(t *testing.T) {
	s, err := ParseFile(testPath("valid-basic.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if got, want := s.Folders(), []string{"src", "tests"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want %v", got, want)
	}
	files := s.Files()
	if len(files) != 1 {
		t.Fatalf("Files() len = %d, want 1", len(files))
	}
	if files[0].Path != "README.md" || files[0].Content != "# Hello\n" {
		t.Errorf("Files()[0] = %+v, want README.md with %q", files[0], "# Hello\n")
	}
}

func TestParseFile_NestedPathsAreCleaned(t *testing.T) {
	s, err := ParseFile(testPath("valid-nested.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if got, want := s.Folders(), []string{"src/handlers", "docs"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Folders() = %v, want %v", got, want)
	}

	var paths []string
	for _, f := range s.Files() {
		paths = append(paths, f.Path)
	}
	want := []string{".env.example", "config/app.yaml", "src/main.go"}
	if !reflect.DeepEqual(paths, want) {
		t.Errorf("file paths = %v, want %v (sorted)", paths, want)
	}
	if s.Files()[0].Content != "PORT=8080\nAPI_KEY=\n" {
		t.Errorf(".env.example content = %q", s.Files()[0].Content)
	}
}

func TestParseFile_Empty(t *testing.T) {
	s, err := ParseFile(testPath("valid-empty.yaml"))
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d, want 0", s.Len())
	}
}

func TestParseFile_Malformed(t *testing.T) {
	tests := []struct {
		file string
		desc string
	}{
		{"invalid-missing-files.yaml", "files key missing"},
		{"invalid-missing-folders.yaml", "folders key missing"},
		{"invalid-extra-key.yaml", "unsupported top-level key"},
		{"invalid-non-string-content.yaml", "file content is a number"},
		{"invalid-nested-content.yaml", "file content is a mapping"},
		{"invalid-non-string-folder.yaml", "folder entry is a list"},
		{"invalid-non-string-key.yaml", "file path key is an integer"},
		{"invalid-traversal.yaml", "folder escapes the project root"},
		{"invalid-absolute.yaml", "absolute file path"},
		{"invalid-syntax.yaml", "YAML syntax error"},
		{"invalid-files-list.yaml", "files is a list"},
		{"invalid-file-over-folder.yaml", "file path is also a folder"},
		{"invalid-file-under-file.yaml", "file nested under another file"},
	}

	for _, tt := range tests {
		t.Run(tt.file, func(t *testing.T) {
			_, err := ParseFile(testPath(tt.file))
			if err == nil {
				t.Fatalf("expected error for %s (%s), got nil", tt.file, tt.desc)
			}
			if kind := errors.KindOf(err); kind != errors.TemplateMalformed {
				t.Errorf("KindOf = %s, want %s (err: %v)", kind, errors.TemplateMalformed, err)
			}
		})
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	_, err := Parse("empty", nil)
	if !errors.IsKind(err, errors.TemplateMalformed) {
		t.Fatalf("Parse(empty) error = %v, want TemplateMalformed", err)
	}
}

func TestParse_IssueNamesTheOffendingPath(t *testing.T) {
	_, err := Parse("bad", []byte("folders: []\nfiles:\n  VERSION: 3\n"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	e, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T", err)
	}
	if e.Path != "bad" {
		t.Errorf("Path = %q, want %q", e.Path, "bad")
	}
	if want := "/files/VERSION"; !strings.Contains(e.Detail, want) {
		t.Errorf("Detail = %q, want it to mention %q", e.Detail, want)
	}
}

func TestParseFile_NotFound(t *testing.T) {
	_, err := ParseFile(testPath("nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected error for nonexistent file, got nil")
	}
}
