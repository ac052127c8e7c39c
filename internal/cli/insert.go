package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/dualstore/internal/schema"
)

// InsertResult holds insert command output.
type InsertResult struct {
	Model    string `json:"model"`
	Inserted int    `json:"inserted"`
}

// NewInsertCommand creates the insert command.
func NewInsertCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &storeOptions{}
	var file string

	cmd := &cobra.Command{
		Use:   "insert <model>",
		Short: "Insert records into a model",
		Long: `Insert records from a YAML (or JSON) file into a model.

The file holds a list of records, each a mapping of attribute to value.
Records without an id get one assigned. Existing ids are overwritten
(insert is an upsert).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInsert(rootOpts, opts, args[0], file, cmd)
		},
	}

	addStoreFlags(cmd, opts)
	cmd.Flags().StringVarP(&file, "file", "f", "", "records file, a YAML/JSON list of records (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runInsert(rootOpts *RootOptions, opts *storeOptions, model, file string, cmd *cobra.Command) error {
	formatter := newFormatter(rootOpts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	records, err := loadRecords(file)
	if err != nil {
		_ = formatter.Error("E_RECORDS", err.Error(), nil)
		return WrapExitError(ExitCommandError, "load records", err)
	}
	formatter.VerboseLog("loaded %d record(s) from %s", len(records), file)

	d, _, err := openDatabase(opts)
	if err != nil {
		_ = formatter.Error("E_OPEN", err.Error(), nil)
		return WrapExitError(ExitCommandError, "open store", err)
	}
	defer d.Close()

	// One call per record keeps insertion order deterministic, so later
	// unordered queries list records in file order.
	ctx := cmd.Context()
	for i, rec := range records {
		if err := d.Insert(ctx, model, rec); err != nil {
			_ = formatter.Error("E_INSERT", err.Error(), nil)
			return WrapExitError(ExitFailure, fmt.Sprintf("insert record %d", i), err)
		}
	}

	if formatter.Format == "json" {
		return formatter.Success(InsertResult{Model: model, Inserted: len(records)})
	}
	fmt.Fprintf(formatter.Writer, "inserted %d record(s) into %s\n", len(records), model)
	return nil
}

func loadRecords(path string) ([]schema.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read records file: %w", err)
	}

	var raw []map[string]any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse records file: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("records file %s holds no records", path)
	}

	records := make([]schema.Record, len(raw))
	for i, m := range raw {
		records[i] = schema.Record(m)
	}
	return records, nil
}
