package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dualstore/internal/schema"
)

// ModelSummary describes one validated model for command output.
type ModelSummary struct {
	Name       string     `json:"name"`
	Attributes []string   `json:"attributes"`
	Indexes    [][]string `json:"indexes"`
}

// ValidationResult holds catalog validation output.
type ValidationResult struct {
	Valid  bool           `json:"valid"`
	Models []ModelSummary `json:"models,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <catalog.cue>",
		Short: "Validate a catalog file",
		Long: `Validate a CUE catalog file without opening a store.

Checks the file against the catalog schema and runs the semantic rules:
unique model names, index attributes declared on their model, implicit
identifier handling.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	catalog, err := schema.LoadCatalog(path)
	if err != nil {
		if formatter.Format == "json" {
			_ = formatter.Success(ValidationResult{Valid: false, Error: err.Error()})
		} else {
			fmt.Fprintf(formatter.Writer, "✗ catalog invalid\n\n  %v\n", err)
		}
		return NewExitError(ExitFailure, fmt.Sprintf("catalog validation failed: %v", err))
	}

	summaries := summarize(catalog)
	formatter.VerboseLog("catalog %s: %d model(s)", path, len(summaries))

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Models: summaries})
	}

	fmt.Fprintf(formatter.Writer, "✓ catalog valid: %d model(s)\n", len(summaries))
	for _, m := range summaries {
		fmt.Fprintf(formatter.Writer, "  %s: attributes=%v indexes=%v\n", m.Name, m.Attributes, m.Indexes)
	}
	return nil
}

func summarize(catalog *schema.Catalog) []ModelSummary {
	names := catalog.ModelNames()
	summaries := make([]ModelSummary, 0, len(names))
	for _, name := range names {
		m, _ := catalog.Model(name)
		indexes := [][]string{}
		for _, ix := range catalog.Indexes(name) {
			indexes = append(indexes, ix.Attributes)
		}
		summaries = append(summaries, ModelSummary{
			Name:       m.Name,
			Attributes: m.Attributes,
			Indexes:    indexes,
		})
	}
	return summaries
}
