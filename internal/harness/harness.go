// Package harness runs conformance scenarios against both storage
// engines. Every scenario executes twice, once on the relational engine
// (in-memory SQLite) and once on the sorted-index engine, and the two
// traces must be identical: any divergence between the engines fails the
// scenario regardless of its explicit expectations.
//
// Records without an identifier get one from a deterministic sequence,
// so traces and golden files are stable across runs.
package harness

import (
	"context"
	"fmt"
	"reflect"

	"github.com/roach88/dualstore/internal/db"
	"github.com/roach88/dualstore/internal/schema"
	"github.com/roach88/dualstore/internal/testutil"
)

// TraceEvent records one executed step and its observable outcome.
type TraceEvent struct {
	Op      string           `json:"op"`
	Model   string           `json:"model"`
	Count   int              `json:"count"`
	Records []map[string]any `json:"records,omitempty"`
}

// Result is the outcome of running one scenario on both engines.
type Result struct {
	// Pass is true when every expectation held and the engines agreed.
	Pass bool

	// Errors lists expectation and divergence failures. Infrastructure
	// failures (unreadable catalog, engine open errors) surface as errors
	// from Run instead.
	Errors []string

	// Trace is the relational engine's trace, the reference both engines
	// were held to.
	Trace []TraceEvent
}

// Run executes the scenario against both engines and compares them.
//
// Each engine gets a fresh store: in-memory SQLite for the relational
// engine, so scenarios leave nothing on disk. Insert steps write records
// one call at a time, keeping insertion order deterministic on both
// sides.
func Run(scenario *Scenario) (*Result, error) {
	catalog, err := schema.LoadCatalog(scenario.Catalog)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	steps, err := prepareSteps(scenario)
	if err != nil {
		return nil, err
	}

	cfg := db.Config{Name: scenario.Name, Version: scenario.Version}

	rel, err := db.Open(cfg, catalog, db.Options{Engine: db.EngineRelational, Path: ":memory:"})
	if err != nil {
		return nil, fmt.Errorf("open relational engine: %w", err)
	}
	defer rel.Close()

	idx, err := db.Open(cfg, catalog, db.Options{Engine: db.EngineIndexed})
	if err != nil {
		return nil, fmt.Errorf("open index engine: %w", err)
	}
	defer idx.Close()

	result := &Result{}

	relTrace, err := execute(rel, "relational", steps, result)
	if err != nil {
		return nil, err
	}
	idxTrace, err := execute(idx, "indexed", steps, result)
	if err != nil {
		return nil, err
	}

	for i := range relTrace {
		if !reflect.DeepEqual(relTrace[i], idxTrace[i]) {
			result.Errors = append(result.Errors,
				fmt.Sprintf("step %d (%s %s): engines disagree: relational=%v indexed=%v",
					i, relTrace[i].Op, relTrace[i].Model, relTrace[i], idxTrace[i]))
		}
	}

	result.Trace = relTrace
	result.Pass = len(result.Errors) == 0
	return result, nil
}

// prepareSteps resolves missing record identifiers once, up front, so
// both engines insert byte-identical records.
func prepareSteps(scenario *Scenario) ([]Step, error) {
	ids := testutil.NewIDSequence(scenario.Name)

	steps := make([]Step, len(scenario.Steps))
	for i, step := range scenario.Steps {
		steps[i] = step
		if step.Insert == nil {
			continue
		}
		ins := *step.Insert
		ins.Records = make([]map[string]any, len(step.Insert.Records))
		for j, rec := range step.Insert.Records {
			prepared := make(map[string]any, len(rec)+1)
			for k, v := range rec {
				prepared[k] = v
			}
			if _, ok := prepared[schema.IDAttribute]; !ok {
				prepared[schema.IDAttribute] = ids.Next()
			}
			ins.Records[j] = prepared
		}
		steps[i].Insert = &ins
	}
	return steps, nil
}

// execute runs every step on one engine and returns its trace. Failed
// expectations append to result.Errors tagged with the engine name.
func execute(d db.DB, engine string, steps []Step, result *Result) ([]TraceEvent, error) {
	ctx := context.Background()

	trace := make([]TraceEvent, 0, len(steps))
	for i, step := range steps {
		event, err := executeStep(ctx, d, step)
		if err != nil {
			return nil, fmt.Errorf("%s engine, step %d: %w", engine, i, err)
		}

		if expect := stepExpect(step); expect != nil {
			for _, msg := range checkExpect(expect, event) {
				result.Errors = append(result.Errors,
					fmt.Sprintf("%s engine, step %d: %s", engine, i, msg))
			}
		}
		trace = append(trace, event)
	}
	return trace, nil
}

func executeStep(ctx context.Context, d db.DB, step Step) (TraceEvent, error) {
	switch {
	case step.Insert != nil:
		for _, rec := range step.Insert.Records {
			if err := d.Insert(ctx, step.Insert.Model, schema.Record(rec)); err != nil {
				return TraceEvent{}, err
			}
		}
		return TraceEvent{Op: "insert", Model: step.Insert.Model, Count: len(step.Insert.Records)}, nil

	case step.Find != nil:
		records, err := d.FindBy(ctx, step.Find.Model, toQuery(step.Find.Query), toOrder(step.Find.Order))
		if err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{
			Op:      "find",
			Model:   step.Find.Model,
			Count:   len(records),
			Records: snapshotRecords(records),
		}, nil

	case step.FindOne != nil:
		rec, err := d.FindOneBy(ctx, step.FindOne.Model, toQuery(step.FindOne.Query), toOrder(step.FindOne.Order))
		if err != nil {
			return TraceEvent{}, err
		}
		event := TraceEvent{Op: "findOne", Model: step.FindOne.Model}
		if rec != nil {
			event.Count = 1
			event.Records = snapshotRecords([]schema.Record{rec})
		}
		return event, nil

	case step.Delete != nil:
		if err := d.DeleteBy(ctx, step.Delete.Model, toQuery(step.Delete.Query)); err != nil {
			return TraceEvent{}, err
		}
		return TraceEvent{Op: "delete", Model: step.Delete.Model}, nil
	}

	return TraceEvent{}, fmt.Errorf("empty step")
}

func stepExpect(step Step) *Expect {
	switch {
	case step.Find != nil:
		return step.Find.Expect
	case step.FindOne != nil:
		return step.FindOne.Expect
	}
	return nil
}

func checkExpect(expect *Expect, event TraceEvent) []string {
	var errs []string
	if expect.Count != nil && event.Count != *expect.Count {
		errs = append(errs, fmt.Sprintf("expected count %d, got %d", *expect.Count, event.Count))
	}
	if expect.IDs != nil {
		got := make([]string, len(event.Records))
		for i, rec := range event.Records {
			got[i], _ = rec[schema.IDAttribute].(string)
		}
		if !reflect.DeepEqual(expect.IDs, got) {
			errs = append(errs, fmt.Sprintf("expected ids %v, got %v", expect.IDs, got))
		}
	}
	return errs
}

// snapshotRecords converts results into plain maps for trace comparison
// and golden serialization. The facade already normalizes record shape
// across engines, so this is a straight copy.
func snapshotRecords(records []schema.Record) []map[string]any {
	out := make([]map[string]any, len(records))
	for i, rec := range records {
		m := make(map[string]any, len(rec))
		for k, v := range rec {
			m[k] = v
		}
		out[i] = m
	}
	return out
}
