package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadTestScenario(t *testing.T, name string) *Scenario {
	t.Helper()
	scenario, err := LoadScenario(filepath.Join("testdata", "scenarios", name))
	require.NoError(t, err)
	return scenario
}

func TestRun_CRUDScenario(t *testing.T) {
	RunWithGolden(t, loadTestScenario(t, "crud.yaml"))
}

func TestRun_RangeOrderScenario(t *testing.T) {
	RunWithGolden(t, loadTestScenario(t, "range-order.yaml"))
}

func TestRun_PassOnMatchingExpectations(t *testing.T) {
	result, err := Run(loadTestScenario(t, "crud.yaml"))
	require.NoError(t, err)
	assert.True(t, result.Pass)
	assert.Empty(t, result.Errors)
	assert.Len(t, result.Trace, 4)
}

func TestRun_FailedExpectationReported(t *testing.T) {
	two := 2
	scenario := &Scenario{
		Name:    "bad-expect",
		Catalog: filepath.Join("testdata", "catalog.cue"),
		Version: 1,
		Steps: []Step{
			{Insert: &InsertStep{Model: "note", Records: []map[string]any{
				{"id": "n1", "title": "a", "stars": 1},
			}}},
			{Find: &FindStep{Model: "note", Expect: &Expect{Count: &two}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	// One failure per engine: both returned a single record.
	assert.Len(t, result.Errors, 2)
}

func TestRun_AssignsDeterministicIdentifiers(t *testing.T) {
	scenario := &Scenario{
		Name:    "autoids",
		Catalog: filepath.Join("testdata", "catalog.cue"),
		Version: 1,
		Steps: []Step{
			{Insert: &InsertStep{Model: "note", Records: []map[string]any{
				{"title": "a", "stars": 1},
				{"title": "b", "stars": 2},
			}}},
			{Find: &FindStep{Model: "note", Expect: &Expect{
				IDs: []string{"autoids-0001", "autoids-0002"},
			}}},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_UnknownModelIsInfrastructureFailure(t *testing.T) {
	scenario := &Scenario{
		Name:    "ghost",
		Catalog: filepath.Join("testdata", "catalog.cue"),
		Version: 1,
		Steps: []Step{
			{Insert: &InsertStep{Model: "ghost", Records: []map[string]any{{"id": "x"}}}},
		},
	}

	_, err := Run(scenario)
	require.Error(t, err)
}
