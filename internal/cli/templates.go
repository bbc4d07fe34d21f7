package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/adaptmax-labs/adaptmax/internal/config"
	"github.com/adaptmax-labs/adaptmax/internal/scaffold"
	"github.com/adaptmax-labs/adaptmax/internal/templates"
	"github.com/adaptmax-labs/adaptmax/internal/tree"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/spf13/cobra"
)

var templatesListJSON bool

func init() {
	templatesListCmd.Flags().BoolVar(&templatesListJSON, "json", false, "Output in JSON format")
	templatesCmd.AddCommand(templatesListCmd)
	templatesCmd.AddCommand(templatesShowCmd)
	templatesCmd.AddCommand(templatesValidateCmd)
	rootCmd.AddCommand(templatesCmd)
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Discover and check project templates",
	Long: `Templates are looked up, in order, in the templates_dir setting, the templates/
directory next to the executable, and the templates built into the binary.
The first location that defines a name wins.`,
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplatesList,
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Validate a template and preview the tree it creates",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := newCatalog().Resolve(args[0])
		if err != nil {
			return err
		}
		s, err := def.Load()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Template %s (%s)\n\n", def.Name, def.Location())
		return previewStructure(cmd, def.Name, s)
	},
}

var templatesValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a template document on disk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := templates.ParseFile(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d folders, %d files.\n", args[0], len(s.Folders()), len(s.Files()))
		return nil
	},
}

// templateEntry is a template for display.
type templateEntry struct {
	Name   string `json:"name"`
	Source string `json:"source"`
	File   string `json:"file"`
}

func newCatalog() *templates.Catalog {
	return templates.NewCatalog(templates.DefaultSources(config.Get(config.KeyTemplatesDir))...)
}

func runTemplatesList(cmd *cobra.Command, args []string) error {
	defs, err := newCatalog().List()
	if err != nil {
		return err
	}

	if len(defs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No templates available.")
		return nil
	}

	entries := make([]templateEntry, len(defs))
	for i, d := range defs {
		entries[i] = templateEntry{Name: d.Name, Source: d.Source, File: d.File}
	}

	if templatesListJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE\tFILE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Source, e.File)
	}
	return w.Flush()
}

// previewStructure materializes s in memory and prints the resulting tree.
func previewStructure(cmd *cobra.Command, name string, s *templates.Structure) error {
	fsys := memfs.New()
	if _, err := scaffold.New(fsys, nil).Materialize(name, s); err != nil {
		return err
	}
	node, err := tree.Render(fsys, name)
	if err != nil {
		return err
	}
	return node.Write(cmd.OutOrStdout())
}
