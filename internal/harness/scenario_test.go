package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/dualstore/internal/query"
)

func writeScenarioFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()

	// Scenario files resolve the catalog relative to themselves.
	catalog := `models: [{name: "note", attributes: ["id", "title"]}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "catalog.cue"), []byte(catalog), 0o644))

	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenarioFile(t, `
name: sample
description: round trip
catalog: catalog.cue
version: 1
steps:
  - insert:
      model: note
      records:
        - { id: n1, title: alpha }
  - find:
      model: note
      query:
        - attr: id
          equals: n1
      expect:
        ids: [n1]
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "sample", scenario.Name)
	assert.True(t, filepath.IsAbs(scenario.Catalog))
	require.Len(t, scenario.Steps, 2)
	require.NotNil(t, scenario.Steps[1].Find)
	assert.Equal(t, []string{"n1"}, scenario.Steps[1].Find.Expect.IDs)
}

func TestLoadScenario_RejectsUnknownFields(t *testing.T) {
	path := writeScenarioFile(t, `
name: sample
catalog: catalog.cue
version: 1
step:
  - insert:
      model: note
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field step not found")
}

func TestLoadScenario_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name: "missing name",
			content: `
catalog: catalog.cue
version: 1
steps:
  - delete: { model: note }
`,
			wantErr: "name is required",
		},
		{
			name: "missing catalog",
			content: `
name: s
version: 1
steps:
  - delete: { model: note }
`,
			wantErr: "catalog is required",
		},
		{
			name: "non-positive version",
			content: `
name: s
catalog: catalog.cue
version: 0
steps:
  - delete: { model: note }
`,
			wantErr: "version must be a positive integer",
		},
		{
			name: "no steps",
			content: `
name: s
catalog: catalog.cue
version: 1
steps: []
`,
			wantErr: "steps list is required",
		},
		{
			name: "empty step",
			content: `
name: s
catalog: catalog.cue
version: 1
steps:
  - {}
`,
			wantErr: "step must set one of",
		},
		{
			name: "two operations in one step",
			content: `
name: s
catalog: catalog.cue
version: 1
steps:
  - insert:
      model: note
      records: [{ id: n1 }]
    delete:
      model: note
`,
			wantErr: "exactly one",
		},
		{
			name: "term mixes equals and range",
			content: `
name: s
catalog: catalog.cue
version: 1
steps:
  - find:
      model: note
      query:
        - attr: title
          equals: a
          lessThan: b
`,
			wantErr: "mutually exclusive",
		},
		{
			name: "term without operator",
			content: `
name: s
catalog: catalog.cue
version: 1
steps:
  - find:
      model: note
      query:
        - attr: title
`,
			wantErr: "at least one operator",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenarioFile(t, tc.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestToQuery(t *testing.T) {
	q := toQuery([]TermSpec{
		{Attr: "title", Equals: "a"},
		{Attr: "stars", GreaterThan: 1, LessThanOrEqual: 5},
	})

	require.Len(t, q, 2)
	assert.Equal(t, query.Eq("title", "a"), q[0])
	require.NotNil(t, q[1].Range)
	assert.Equal(t, 1, q[1].Range.GreaterThan)
	assert.Equal(t, 5, q[1].Range.LessThanOrEqual)
	assert.Nil(t, q[1].Range.GreaterThanOrEqual)
	assert.Nil(t, q[1].Range.LessThan)

	assert.Nil(t, toQuery(nil))
}

func TestToOrder(t *testing.T) {
	assert.Nil(t, toOrder(nil))
	assert.Equal(t, query.OrderDesc("stars"), toOrder(&OrderSpec{Attr: "stars", Descending: true}))
}
