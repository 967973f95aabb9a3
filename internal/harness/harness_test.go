package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/updatesynth/internal/ir"
)

func TestRun_RecordsArtifacts(t *testing.T) {
	scenario, err := ParseScenario([]byte(minimalScenario))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)
	require.True(t, result.Pass, result.Errors)

	require.Len(t, result.Updaters, 2)
	require.Len(t, result.Artifacts, 2)
	assert.Equal(t, BuildID, result.Artifacts[0].BuildID)
	assert.Equal(t, ir.CategoryProp, result.Artifacts[0].Category)
	assert.Equal(t, int64(2), result.Artifacts[0].Seq, "build takes seq 1")
	assert.Equal(t, `propUpdater($$props, [update_a], [["x", [0]]], true)`, result.Artifacts[0].Code)
}

func TestRun_FailedAssertions(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: wrong
description: "Every assertion here is false"
component:
  name: W
  statements:
    - key: a
  variables:
    - key: "prop,x"
      deps: ["prop,a"]
  body: [update_a]
assertions:
  - type: no_op
    category: prop
  - type: code
    category: prop
    code: "nope"
  - type: universe
    category: prop
    updaters: [update_z]
  - type: key_deps
    category: prop
    key: missing
  - type: order
    order: [update_z]
  - type: error
    code: E202
  - type: warning
    category: prop
    text: anything
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 7)
	assert.Contains(t, result.Errors[0], "Assertion failed: no_op")
	assert.Contains(t, result.Errors[1], "Actual: propUpdater(")
	assert.Contains(t, result.Errors[3], "not tracked")
	assert.Contains(t, result.Errors[5], "synthesis succeeded")
}

func TestRun_SynthesisErrorFailsUpdaterAssertions(t *testing.T) {
	scenario, err := ParseScenario([]byte(`
name: broken
description: "Updater assertions cannot hold when synthesis fails"
component:
  name: B
  statements:
    - key: a
  variables:
    - key: "prop,x"
      deps: ["local,ghost"]
assertions:
  - type: error
    code: E201
  - type: no_op
    category: state
`))
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, "E201", result.ErrorCode)
	assert.Empty(t, result.Artifacts)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "successful synthesis")
}

func TestRun_InvalidTables(t *testing.T) {
	scenario := &Scenario{
		Name:      "bad",
		Component: ComponentDef{Name: "B", Statements: []StatementDef{{Key: "a"}, {Key: "a"}}},
	}

	_, err := Run(scenario)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario bad")
}

func TestEvaluateAssertions_UnknownType(t *testing.T) {
	errs := EvaluateAssertions(NewResult(), []Assertion{{Type: "bogus"}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], `unknown assertion type "bogus"`)
}
