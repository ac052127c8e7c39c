package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// DeleteResult holds delete command output.
type DeleteResult struct {
	Model   string `json:"model"`
	Deleted bool   `json:"deleted"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &storeOptions{}
	var all bool

	cmd := &cobra.Command{
		Use:   "delete <model> [term...]",
		Short: "Delete records of a model",
		Long: `Delete every record matching the given terms.

Terms use the same comparison syntax as query. Deleting without terms
empties the model; that requires --all as a guard against accidents.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(rootOpts, opts, args[0], args[1:], all, cmd)
		},
	}

	addStoreFlags(cmd, opts)
	cmd.Flags().BoolVar(&all, "all", false, "allow deleting every record of the model")

	return cmd
}

func runDelete(rootOpts *RootOptions, opts *storeOptions, model string, termArgs []string, all bool, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	q, err := ParseTerms(termArgs)
	if err != nil {
		_ = formatter.Error("E_QUERY", err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse query", err)
	}
	if q.IsEmpty() && !all {
		err := fmt.Errorf("no terms given: pass --all to empty the model")
		_ = formatter.Error("E_QUERY", err.Error(), nil)
		return WrapExitError(ExitCommandError, "delete", err)
	}

	d, _, err := openDatabase(opts)
	if err != nil {
		_ = formatter.Error("E_OPEN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer d.Close()

	if err := d.DeleteBy(cmd.Context(), model, q); err != nil {
		_ = formatter.Error("E_DELETE", err.Error(), nil)
		return WrapExitError(ExitFailure, "delete failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(DeleteResult{Model: model, Deleted: true})
	}
	fmt.Fprintf(formatter.Writer, "deleted matching records from %s\n", model)
	return nil
}
