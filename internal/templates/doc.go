// Package templates loads project templates. A template is a YAML document with
// exactly two keys, folders (a list of relative directory paths) and files (a
// mapping of relative file path to literal content). Templates are resolved by
// name from an ordered Catalog of sources; each document is validated against
// an embedded JSON Schema and its paths are checked before a Structure is
// handed to the materializer.
package templates
