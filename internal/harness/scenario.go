package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/dualstore/internal/query"
)

// Scenario defines one conformance scenario: a catalog, a schema version,
// and an ordered list of steps executed against both storage engines.
type Scenario struct {
	// Name uniquely identifies the scenario. It is also the golden file
	// name when the scenario runs under RunWithGolden.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Catalog is the path to the CUE catalog file. Relative paths are
	// resolved against the scenario file's directory by LoadScenario.
	Catalog string `yaml:"catalog"`

	// Version is the schema version both engines are opened with.
	Version int `yaml:"version"`

	// Steps are executed sequentially, in order, on each engine.
	Steps []Step `yaml:"steps"`
}

// Step is one scenario action. Exactly one of the fields must be set.
type Step struct {
	Insert  *InsertStep `yaml:"insert,omitempty"`
	Find    *FindStep   `yaml:"find,omitempty"`
	FindOne *FindStep   `yaml:"findOne,omitempty"`
	Delete  *DeleteStep `yaml:"delete,omitempty"`
}

// InsertStep writes records to a model. Records are inserted one call at
// a time so insertion order, the ordering tiebreaker in both engines, is
// deterministic.
type InsertStep struct {
	Model   string           `yaml:"model"`
	Records []map[string]any `yaml:"records"`
}

// FindStep queries a model and optionally checks the result.
type FindStep struct {
	Model  string     `yaml:"model"`
	Query  []TermSpec `yaml:"query,omitempty"`
	Order  *OrderSpec `yaml:"order,omitempty"`
	Expect *Expect    `yaml:"expect,omitempty"`
}

// DeleteStep removes matching records. An empty query empties the model.
type DeleteStep struct {
	Model string     `yaml:"model"`
	Query []TermSpec `yaml:"query,omitempty"`
}

// TermSpec is one query term in YAML form: equals for scalar equality,
// or any subset of the four range operators.
type TermSpec struct {
	Attr               string `yaml:"attr"`
	Equals             any    `yaml:"equals,omitempty"`
	GreaterThan        any    `yaml:"greaterThan,omitempty"`
	GreaterThanOrEqual any    `yaml:"greaterThanOrEqual,omitempty"`
	LessThan           any    `yaml:"lessThan,omitempty"`
	LessThanOrEqual    any    `yaml:"lessThanOrEqual,omitempty"`
}

// OrderSpec is the single-attribute ordering directive in YAML form.
type OrderSpec struct {
	Attr       string `yaml:"attr"`
	Descending bool   `yaml:"descending,omitempty"`
}

// Expect checks a find result: total count, and/or the exact identifier
// sequence.
type Expect struct {
	Count *int     `yaml:"count,omitempty"`
	IDs   []string `yaml:"ids,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly, and the catalog path is resolved
// relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}

	if scenario.Catalog != "" && !filepath.IsAbs(scenario.Catalog) {
		scenario.Catalog = filepath.Join(filepath.Dir(path), scenario.Catalog)
	}

	if err := scenario.validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func (s *Scenario) validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Catalog == "" {
		return fmt.Errorf("catalog is required")
	}
	if _, err := os.Stat(s.Catalog); os.IsNotExist(err) {
		return fmt.Errorf("catalog file not found: %s", s.Catalog)
	}
	if s.Version <= 0 {
		return fmt.Errorf("version must be a positive integer")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := step.validate(); err != nil {
			return fmt.Errorf("steps[%d]: %w", i, err)
		}
	}
	return nil
}

func (st *Step) validate() error {
	set := 0
	if st.Insert != nil {
		set++
		if st.Insert.Model == "" {
			return fmt.Errorf("insert: model is required")
		}
		if len(st.Insert.Records) == 0 {
			return fmt.Errorf("insert: records is required and must be non-empty")
		}
	}
	if st.Find != nil {
		set++
		if err := validateFind("find", st.Find); err != nil {
			return err
		}
	}
	if st.FindOne != nil {
		set++
		if err := validateFind("findOne", st.FindOne); err != nil {
			return err
		}
	}
	if st.Delete != nil {
		set++
		if st.Delete.Model == "" {
			return fmt.Errorf("delete: model is required")
		}
		if err := validateTerms(st.Delete.Query); err != nil {
			return fmt.Errorf("delete: %w", err)
		}
	}

	if set == 0 {
		return fmt.Errorf("step must set one of insert, find, findOne, delete")
	}
	if set > 1 {
		return fmt.Errorf("step must set exactly one of insert, find, findOne, delete")
	}
	return nil
}

func validateFind(op string, f *FindStep) error {
	if f.Model == "" {
		return fmt.Errorf("%s: model is required", op)
	}
	if err := validateTerms(f.Query); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if f.Order != nil && f.Order.Attr == "" {
		return fmt.Errorf("%s: order.attr is required", op)
	}
	return nil
}

func validateTerms(terms []TermSpec) error {
	for i, t := range terms {
		if t.Attr == "" {
			return fmt.Errorf("query[%d]: attr is required", i)
		}
		hasRange := t.GreaterThan != nil || t.GreaterThanOrEqual != nil ||
			t.LessThan != nil || t.LessThanOrEqual != nil
		if t.Equals != nil && hasRange {
			return fmt.Errorf("query[%d]: equals and range operators are mutually exclusive", i)
		}
		if t.Equals == nil && !hasRange {
			return fmt.Errorf("query[%d]: at least one operator is required", i)
		}
	}
	return nil
}

// toQuery converts the YAML term specs into the query model.
func toQuery(terms []TermSpec) query.Query {
	if len(terms) == 0 {
		return nil
	}
	q := make(query.Query, 0, len(terms))
	for _, t := range terms {
		if t.Equals != nil {
			q = append(q, query.Eq(t.Attr, t.Equals))
			continue
		}
		q = append(q, query.Within(t.Attr, query.Range{
			GreaterThan:        t.GreaterThan,
			GreaterThanOrEqual: t.GreaterThanOrEqual,
			LessThan:           t.LessThan,
			LessThanOrEqual:    t.LessThanOrEqual,
		}))
	}
	return q
}

// toOrder converts the YAML order spec into the query model.
func toOrder(o *OrderSpec) *query.OrderBy {
	if o == nil {
		return nil
	}
	return &query.OrderBy{Attr: o.Attr, Descending: o.Descending}
}
