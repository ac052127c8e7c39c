package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/dualstore/internal/query"
	"github.com/roach88/dualstore/internal/schema"
)

// QueryResult holds query command output.
type QueryResult struct {
	Model   string          `json:"model"`
	Count   int             `json:"count"`
	Records []schema.Record `json:"records"`
}

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &storeOptions{}
	var orderBy string
	var desc bool

	cmd := &cobra.Command{
		Use:   "query <model> [term...]",
		Short: "Query records of a model",
		Long: `Query a model with attribute terms and an optional ordering.

Terms use comparison syntax: title=alpha, stars>=3, stars<10. Multiple
operators on one attribute form an interval (stars>=1 stars<5). No terms
selects every record.`,
		Example: `  dualstore query note --catalog catalog.cue 'stars>=3' --order-by stars --desc`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, opts, args[0], args[1:], orderBy, desc, cmd)
		},
	}

	addStoreFlags(cmd, opts)
	cmd.Flags().StringVar(&orderBy, "order-by", "", "attribute to order results by")
	cmd.Flags().BoolVar(&desc, "desc", false, "order descending (requires --order-by)")

	return cmd
}

func runQuery(rootOpts *RootOptions, opts *storeOptions, model string, termArgs []string, orderBy string, desc bool, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	if desc && orderBy == "" {
		err := fmt.Errorf("--desc requires --order-by")
		_ = formatter.Error("E_QUERY", err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse query", err)
	}

	q, err := ParseTerms(termArgs)
	if err != nil {
		_ = formatter.Error("E_QUERY", err.Error(), nil)
		return WrapExitError(ExitCommandError, "parse query", err)
	}

	var order *query.OrderBy
	if orderBy != "" {
		order = &query.OrderBy{Attr: orderBy, Descending: desc}
	}

	d, _, err := openDatabase(opts)
	if err != nil {
		_ = formatter.Error("E_OPEN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer d.Close()

	records, err := d.FindBy(cmd.Context(), model, q, order)
	if err != nil {
		_ = formatter.Error("E_FIND", err.Error(), nil)
		return WrapExitError(ExitFailure, "query failed", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(QueryResult{Model: model, Count: len(records), Records: records})
	}

	fmt.Fprintf(formatter.Writer, "%d record(s)\n", len(records))
	for _, rec := range records {
		// Compact JSON per record: keys come out sorted, so output is
		// stable across runs.
		line, err := json.Marshal(rec)
		if err != nil {
			return WrapExitError(ExitFailure, "encode record", err)
		}
		fmt.Fprintf(formatter.Writer, "%s\n", line)
	}
	return nil
}
