package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// synthesizeCounter builds prop and state updaters for a small component.
// propDep picks which statement the prop key depends on, so callers can
// produce a changed updater.
func synthesizeCounter(t *testing.T, propDep string) []*compiler.Updater {
	t.Helper()

	stmts, err := ir.NewStatementTable(
		ir.Statement{Key: "a"},
		ir.Statement{Key: "b"},
	)
	if err != nil {
		t.Fatalf("NewStatementTable() failed: %v", err)
	}
	vars := ir.NewVariableTable()
	vars.Set(ir.Key{Category: ir.CategoryProp, Name: "count"}, ir.Prop(propDep))

	comp := &ir.Component{
		Name:       "Counter",
		Statements: stmts,
		Variables:  vars,
		Body:       []ir.Stmt{ir.Call("update_a"), ir.Call("update_b")},
	}
	ctx := compiler.NewContext(comp)
	ctx.Logger = compiler.DiscardLogger()

	updaters, err := compiler.SynthesizeAll(ctx)
	if err != nil {
		t.Fatalf("SynthesizeAll() failed: %v", err)
	}
	return updaters
}

// createTestBuild writes a build row so artifacts can reference it.
func createTestBuild(t *testing.T, s *Store, id string, seq int64) {
	t.Helper()
	if err := s.WriteBuild(t.Context(), Build{ID: id, SourceDir: "specs", Seq: seq}); err != nil {
		t.Fatalf("WriteBuild() failed: %v", err)
	}
}
