package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/updatesynth/internal/ir"
)

// componentFixture builds a component from statement keys, variable rows
// in "<category>,<name>" form, and body/finally updater names.
type componentFixture struct {
	statements []ir.Statement
	variables  [][2]any // {key string, deps []string}
	body       []string
	finally    []string
	tx         bool
}

func (f componentFixture) build(t *testing.T) *ir.Component {
	t.Helper()

	stmts, err := ir.NewStatementTable(f.statements...)
	require.NoError(t, err)

	vars := ir.NewVariableTable()
	for _, row := range f.variables {
		key, err := ir.ParseKey(row[0].(string))
		require.NoError(t, err)
		var deps []ir.Descriptor
		for _, raw := range row[1].([]string) {
			d, err := ir.ParseDescriptor(raw)
			require.NoError(t, err)
			deps = append(deps, d)
		}
		vars.Set(key, deps...)
	}

	return &ir.Component{
		Name:                 "Test",
		Statements:           stmts,
		Variables:            vars,
		Body:                 calls(f.body...),
		Finally:              calls(f.finally...),
		NeedsPropTransaction: f.tx,
	}
}

func calls(names ...string) []ir.Stmt {
	stmts := make([]ir.Stmt, len(names))
	for i, n := range names {
		stmts[i] = ir.Call(n)
	}
	return stmts
}

func testContext(comp *ir.Component) *Context {
	ctx := NewContext(comp)
	ctx.Logger = DiscardLogger()
	return ctx
}
