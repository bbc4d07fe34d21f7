package templates

import (
	"bytes"
	"fmt"
	"os"

	"github.com/adaptmax-labs/adaptmax/internal/errors"
	"go.yaml.in/yaml/v3"
)

// Parse validates a template document and returns its Structure. name is used
// in error messages only. Any failure is a TemplateMalformed error.
func Parse(name string, data []byte) (*Structure, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, malformed(name, err)
	}
	if !result.Valid {
		return nil, errors.New(errors.TemplateMalformed).
			WithPath(name).
			WithDetail(result.Summary()).
			WithSuggestion("A template needs exactly two keys: folders (list of paths) and files (map of path to text)")
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, malformed(name, fmt.Errorf("decoding template: %w", err))
	}

	s, err := NewStructure(doc.Folders, doc.Files)
	if err != nil {
		return nil, malformed(name, err).
			WithSuggestion("Template paths must be relative and stay inside the project directory")
	}
	return s, nil
}

// ParseFile reads a template document from disk and parses it.
func ParseFile(path string) (*Structure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return Parse(path, data)
}

func malformed(name string, err error) *errors.Error {
	return errors.New(errors.TemplateMalformed).WithPath(name).Wrap(err)
}
