package templates

import (
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/adaptmax-labs/adaptmax/internal/errors"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// InstallDirName is the template directory looked up next to the executable.
const InstallDirName = "templates"

// extensions are the document suffixes tried, in order, for a template name.
var extensions = []string{".yaml", ".yml"}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// Source is a named location holding template documents at its top level.
type Source struct {
	Name string
	FS   fs.FS
}

// Definition is a template document found in a source.
type Definition struct {
	Name   string // template name, e.g. "basic"
	Source string // source it was found in
	File   string // document file name within the source

	fsys fs.FS
}

// Location returns "<source>:<file>" for display.
func (d *Definition) Location() string {
	return d.Source + ":" + d.File
}

// Catalog resolves template names against an ordered list of sources.
// Earlier sources take priority.
type Catalog struct {
	sources []Source
}

// NewCatalog returns a catalog over the given sources. Sources with a nil FS
// are ignored.
func NewCatalog(sources ...Source) *Catalog {
	c := &Catalog{}
	for _, s := range sources {
		if s.FS != nil {
			c.sources = append(c.sources, s)
		}
	}
	return c
}

// Builtin returns the templates compiled into the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "builtin")
	if err != nil {
		panic(fmt.Sprintf("builtin templates: %v", err))
	}
	return sub
}

// InstallDir returns the templates directory next to the running executable,
// if one exists.
func InstallDir() (string, bool) {
	exe, err := os.Executable()
	if err != nil {
		return "", false
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Join(filepath.Dir(exe), InstallDirName)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return dir, true
}

// DefaultSources returns the standard lookup order: the user-configured
// directory (when set), the installation's templates directory, then the
// builtin templates.
func DefaultSources(overrideDir string) []Source {
	var sources []Source
	if overrideDir != "" {
		sources = append(sources, Source{Name: "templates_dir", FS: os.DirFS(overrideDir)})
	}
	if dir, ok := InstallDir(); ok {
		sources = append(sources, Source{Name: "install", FS: os.DirFS(dir)})
	}
	sources = append(sources, Source{Name: "builtin", FS: Builtin()})
	return sources
}

// Resolve finds the document for name. A name with no document in any source
// is a TemplateNotFound error.
func (c *Catalog) Resolve(name string) (*Definition, error) {
	if !namePattern.MatchString(name) {
		return nil, errors.New(errors.TemplateNotFound).
			WithPath(name).
			WithDetail("template names may only contain letters, digits, '.', '_' and '-'").
			WithSuggestion(c.availableHint())
	}

	for _, src := range c.sources {
		for _, ext := range extensions {
			file := name + ext
			info, err := fs.Stat(src.FS, file)
			if err != nil {
				if stderrors.Is(err, fs.ErrNotExist) {
					continue
				}
				return nil, fmt.Errorf("checking template %s in %s: %w", file, src.Name, err)
			}
			if info.IsDir() {
				continue
			}
			return &Definition{Name: name, Source: src.Name, File: file, fsys: src.FS}, nil
		}
	}

	return nil, errors.New(errors.TemplateNotFound).
		WithPath(name).
		WithSuggestion(c.availableHint())
}

// Load resolves name and parses its document into a Structure.
func (c *Catalog) Load(name string) (*Structure, error) {
	def, err := c.Resolve(name)
	if err != nil {
		return nil, err
	}
	return def.Load()
}

// Load reads and parses the definition's document.
func (d *Definition) Load() (*Structure, error) {
	data, err := fs.ReadFile(d.fsys, d.File)
	if err != nil {
		return nil, malformed(d.Name, fmt.Errorf("reading %s: %w", d.Location(), err))
	}
	s, err := Parse(d.Name, data)
	if err != nil {
		if e, ok := errors.As(err); ok {
			e.Path = fmt.Sprintf("%s (%s)", d.Name, d.Location())
		}
		return nil, err
	}
	return s, nil
}

// List returns every template visible through the catalog, sorted by name.
// When several sources define the same name, the earliest source wins.
func (c *Catalog) List() ([]Definition, error) {
	seen := make(map[string]bool)
	var defs []Definition

	for _, src := range c.sources {
		entries, err := fs.ReadDir(src.FS, ".")
		if err != nil {
			if stderrors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("listing templates in %s: %w", src.Name, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			name, ok := templateName(entry.Name())
			if !ok || seen[name] {
				continue
			}
			seen[name] = true
			defs = append(defs, Definition{Name: name, Source: src.Name, File: entry.Name(), fsys: src.FS})
		}
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs, nil
}

// Names returns the names of all visible templates. Listing errors yield an
// empty result.
func (c *Catalog) Names() []string {
	defs, err := c.List()
	if err != nil {
		return nil
	}
	names := make([]string, len(defs))
	for i, d := range defs {
		names[i] = d.Name
	}
	return names
}

func (c *Catalog) availableHint() string {
	names := c.Names()
	if len(names) == 0 {
		return "No templates are available; set templates_dir to a directory of <name>.yaml files"
	}
	return "Available templates: " + strings.Join(names, ", ")
}

// templateName strips a known extension from a document file name.
func templateName(file string) (string, bool) {
	for _, ext := range extensions {
		if strings.HasSuffix(file, ext) {
			name := strings.TrimSuffix(file, ext)
			if namePattern.MatchString(name) {
				return name, true
			}
		}
	}
	return "", false
}
