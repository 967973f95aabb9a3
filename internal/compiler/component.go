package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/updatesynth/internal/ir"
)

// CompileComponent parses a CUE value into component tables.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the component struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`component: Counter: { ... }`)
//	comp, err := CompileComponent(v.LookupPath(cue.ParsePath("component.Counter")))
//
// Shape:
//
//	needs_prop_transaction?: bool
//	statements: [...{key: string, deps?: [...string], updater?: string}]
//	variables?: [...{key: string, deps: [...string]}]
//	body?: [...string]     // updater identifiers called in order
//	finally?: [...string]  // epilogue calls
//
// Keys and descriptors use the "<category>,<name>" form.
func CompileComponent(v cue.Value) (*ir.Component, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	comp := &ir.Component{}

	// Component name comes from the struct label
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		comp.Name = labels[len(labels)-1].String()
	}

	var err error
	comp.Statements, err = parseStatements(v)
	if err != nil {
		return nil, err
	}

	comp.Variables, err = parseVariables(v)
	if err != nil {
		return nil, err
	}

	comp.Body, err = parseCalls(v, "body")
	if err != nil {
		return nil, err
	}

	comp.Finally, err = parseCalls(v, "finally")
	if err != nil {
		return nil, err
	}

	txVal := v.LookupPath(cue.ParsePath("needs_prop_transaction"))
	if txVal.Exists() {
		tx, err := txVal.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
		comp.NeedsPropTransaction = tx
	}

	return comp, nil
}

// parseStatements extracts the ordered statement table (required).
func parseStatements(v cue.Value) (*ir.StatementTable, error) {
	stmtsVal := v.LookupPath(cue.ParsePath("statements"))
	if !stmtsVal.Exists() {
		return nil, &CompileError{
			Field:   "statements",
			Message: "statements are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := stmtsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	table, _ := ir.NewStatementTable()
	for i := 0; iter.Next(); i++ {
		sv := iter.Value()
		field := fmt.Sprintf("statements[%d]", i)

		key, err := requiredString(sv, "key", field)
		if err != nil {
			return nil, err
		}

		stmt := ir.Statement{Key: key}

		stmt.Deps, err = parseDescriptors(sv.LookupPath(cue.ParsePath("deps")), field+".deps")
		if err != nil {
			return nil, err
		}

		// Updater is optional, pins the generated identifier
		updaterVal := sv.LookupPath(cue.ParsePath("updater"))
		if updaterVal.Exists() {
			stmt.Updater, err = updaterVal.String()
			if err != nil {
				return nil, formatCUEError(err)
			}
		}

		if err := table.Add(stmt); err != nil {
			return nil, &CompileError{Field: field + ".key", Message: err.Error(), Pos: sv.Pos()}
		}
	}

	return table, nil
}

// parseVariables extracts the ordered variable table (optional).
func parseVariables(v cue.Value) (*ir.VariableTable, error) {
	vars := ir.NewVariableTable()

	varsVal := v.LookupPath(cue.ParsePath("variables"))
	if !varsVal.Exists() {
		return vars, nil
	}

	iter, err := varsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	for i := 0; iter.Next(); i++ {
		ev := iter.Value()
		field := fmt.Sprintf("variables[%d]", i)

		raw, err := requiredString(ev, "key", field)
		if err != nil {
			return nil, err
		}
		key, err := ir.ParseKey(raw)
		if err != nil {
			return nil, &CompileError{Field: field + ".key", Message: err.Error(), Pos: ev.Pos()}
		}
		if _, dup := vars.Get(key); dup {
			return nil, &CompileError{
				Field:   field + ".key",
				Message: fmt.Sprintf("duplicate variable key %q", raw),
				Pos:     ev.Pos(),
			}
		}

		deps, err := parseDescriptors(ev.LookupPath(cue.ParsePath("deps")), field+".deps")
		if err != nil {
			return nil, err
		}
		vars.Set(key, deps...)
	}

	return vars, nil
}

// parseDescriptors parses a list of "<kind>,<key>" strings. A missing list
// yields no descriptors.
func parseDescriptors(v cue.Value, field string) ([]ir.Descriptor, error) {
	if !v.Exists() {
		return nil, nil
	}

	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var deps []ir.Descriptor
	for i := 0; iter.Next(); i++ {
		raw, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		dep, err := ir.ParseDescriptor(raw)
		if err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: err.Error(),
				Pos:     iter.Value().Pos(),
			}
		}
		deps = append(deps, dep)
	}

	return deps, nil
}

// parseCalls turns a list of identifiers into updater call statements.
func parseCalls(v cue.Value, field string) ([]ir.Stmt, error) {
	listVal := v.LookupPath(cue.ParsePath(field))
	if !listVal.Exists() {
		return nil, nil
	}

	iter, err := listVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var stmts []ir.Stmt
	for iter.Next() {
		name, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		stmts = append(stmts, ir.Call(name))
	}

	return stmts, nil
}

func requiredString(v cue.Value, name, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   field + "." + name,
			Message: name + " must be non-empty",
			Pos:     fv.Pos(),
		}
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
