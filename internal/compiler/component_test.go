package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/updatesynth/internal/ir"
)

func compileCUE(t *testing.T, src, path string) (*ir.Component, error) {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return CompileComponent(v.LookupPath(cue.ParsePath(path)))
}

func TestCompileComponentBasic(t *testing.T) {
	comp, err := compileCUE(t, `
		component: Counter: {
			needs_prop_transaction: true
			statements: [
				{key: "a", deps: ["prop,x"]},
				{key: "b", deps: ["local,l1"], updater: "recomputeB"},
			]
			variables: [
				{key: "local,l1", deps: ["state,b"]},
				{key: "prop,x_dep", deps: ["local,l1"]},
			]
			body: ["update_a", "recomputeB"]
			finally: ["update_c"]
		}
	`, "component.Counter")
	require.NoError(t, err)

	assert.Equal(t, "Counter", comp.Name)
	assert.True(t, comp.NeedsPropTransaction)

	require.Equal(t, 2, comp.Statements.Len())
	a, ok := comp.Statements.Get("a")
	require.True(t, ok)
	assert.Equal(t, []ir.Descriptor{ir.Prop("x")}, a.Deps)
	b, _ := comp.Statements.Get("b")
	assert.Equal(t, "recomputeB", b.Updater)

	entries := comp.Variables.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, ir.LocalKey("l1"), entries[0].Key)
	assert.Equal(t, []ir.Descriptor{ir.State("b")}, entries[0].Deps)
	assert.Equal(t, "prop,x_dep", entries[1].Key.String())

	require.Len(t, comp.Body, 2)
	name, ok := ir.CalleeName(comp.Body[1])
	require.True(t, ok)
	assert.Equal(t, "recomputeB", name)
	require.Len(t, comp.Finally, 1)
}

func TestCompileComponentMinimal(t *testing.T) {
	comp, err := compileCUE(t, `
		component: Empty: {
			statements: []
		}
	`, "component.Empty")
	require.NoError(t, err)

	assert.Equal(t, 0, comp.Statements.Len())
	assert.Equal(t, 0, comp.Variables.Len())
	assert.Empty(t, comp.Body)
	assert.False(t, comp.NeedsPropTransaction)
}

func TestCompileComponentMissingStatements(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			body: []
		}
	`, "component.Bad")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "statements", compileErr.Field)
	assert.Contains(t, compileErr.Message, "required")
}

func TestCompileComponentMissingKey(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{deps: []}]
		}
	`, "component.Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statements[0].key")
}

func TestCompileComponentDuplicateStatement(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{key: "a"}, {key: "a"}]
		}
	`, "component.Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate statement key")
}

func TestCompileComponentBadVariableKey(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{key: "a"}]
			variables: [{key: "global,x", deps: []}]
		}
	`, "component.Bad")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "variables[0].key", compileErr.Field)
	assert.Contains(t, compileErr.Message, "invalid category")
}

func TestCompileComponentDuplicateVariable(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{key: "a"}]
			variables: [
				{key: "prop,x", deps: ["prop,a"]},
				{key: "prop,x", deps: []},
			]
		}
	`, "component.Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate variable key "prop,x"`)
}

func TestCompileComponentBadDescriptor(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{key: "a", deps: ["nocomma"]}]
		}
	`, "component.Bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "statements[0].deps[0]")
}

func TestCompileComponentWrongType(t *testing.T) {
	_, err := compileCUE(t, `
		component: Bad: {
			statements: [{key: "a"}]
			body: [1]
		}
	`, "component.Bad")
	require.Error(t, err)
}

func TestCompileComponentThenSynthesize(t *testing.T) {
	comp, err := compileCUE(t, `
		component: Counter: {
			statements: [
				{key: "a", deps: ["prop,x"]},
				{key: "b", deps: ["local,l1"]},
			]
			variables: [
				{key: "local,l1", deps: ["state,b"]},
				{key: "prop,x_dep", deps: ["local,l1"]},
			]
			body: ["update_a", "update_b"]
		}
	`, "component.Counter")
	require.NoError(t, err)

	u, err := Synthesize(testContext(comp), ir.CategoryProp)
	require.NoError(t, err)
	assert.Equal(t, `propUpdater($$props, [update_b], [["x_dep", [0]]], true)`, u.Code(false))
}
