package compiler

import (
	"fmt"

	"github.com/roach88/updatesynth/internal/ir"
)

// Updater is the synthesized dispatcher for one category.
type Updater struct {
	Component string      `json:"component"`
	Category  ir.Category `json:"category"`

	// Expr is either a no-op ArrowFunc or the dispatcher CallExpr:
	//
	//	dispatcher(prev, [ids...], [[key, [indices...]], ...], shallowEqual[, transaction])
	Expr ir.Expr `json:"-"`

	// Universe carries the data Expr was built from.
	Universe *Universe `json:"universe"`

	// Warnings lists non-fatal findings, such as updaters invoked in
	// neither the body nor the epilogue.
	Warnings []string `json:"warnings,omitempty"`

	// annotations maps each index literal to the updater it denotes.
	annotations map[ir.Node]string
}

// IsNoOp reports whether the category tracks nothing.
func (u *Updater) IsNoOp() bool {
	_, ok := u.Expr.(*ir.ArrowFunc)
	return ok
}

// Code renders Expr. With annotate, every index is followed by a comment
// naming its updater.
func (u *Updater) Code(annotate bool) string {
	p := &ir.Printer{}
	if annotate {
		p.Trailing = u.annotations
	}
	return p.Print(u.Expr)
}

// Hash returns the content-addressed identity of this updater.
func (u *Updater) Hash() (string, error) {
	return ir.ArtifactHash(u.Component, u.Category, u.Expr)
}

// Synthesize produces the updater for cat (prop or state).
//
// It is a pure function of ctx: no runtime side effects, and identical
// inputs yield structurally identical output.
func Synthesize(ctx *Context, cat ir.Category) (*Updater, error) {
	if ctx == nil || ctx.Component == nil {
		return nil, &SynthError{Code: ErrCodeMissingComponent, Message: "no component to synthesize"}
	}
	if !cat.IsTerminal() {
		return nil, &SynthError{
			Code:    ErrCodeInvalidCategory,
			Message: fmt.Sprintf("category must be prop or state, got %q", cat),
		}
	}

	comp := ctx.Component
	log := ctx.logger().With("component", comp.Name, "category", string(cat))

	names, err := NameStatements(comp.Statements, ctx.namer())
	if err != nil {
		return nil, err
	}
	log.Debug("statements named", "count", names.Len())

	order := CanonicalOrder(names.Updaters(), comp.Body, comp.Finally)
	log.Debug("canonical order", "order", order)

	universe, err := BuildUniverse(comp.Variables, names, order, cat)
	if err != nil {
		return nil, err
	}
	log.Debug("dependency universe", "keys", len(universe.Keys), "updaters", universe.Updaters)

	u := &Updater{
		Component:   comp.Name,
		Category:    cat,
		Universe:    universe,
		annotations: make(map[ir.Node]string),
	}
	for _, name := range UnorderedUpdaters(names.Updaters(), comp.Body, comp.Finally) {
		u.Warnings = append(u.Warnings, fmt.Sprintf("updater %s is invoked in neither body nor finally; its order is a tie-break", name))
	}

	if universe.Empty() {
		u.Expr = &ir.ArrowFunc{}
		log.Debug("no tracked keys, emitting no-op")
		return u, nil
	}

	u.Expr = u.dispatcherCall(ctx.Options.withDefaults(), comp.NeedsPropTransaction)
	return u, nil
}

// SynthesizeAll produces the prop updater followed by the state updater.
func SynthesizeAll(ctx *Context) ([]*Updater, error) {
	var out []*Updater
	for _, cat := range []ir.Category{ir.CategoryProp, ir.CategoryState} {
		u, err := Synthesize(ctx, cat)
		if err != nil {
			return nil, fmt.Errorf("%s updater: %w", cat, err)
		}
		out = append(out, u)
	}
	return out, nil
}

// dispatcherCall builds the call expression. The index arrays and the
// universe array come from the same Universe, so they always agree.
func (u *Updater) dispatcherCall(opts Options, needsTransaction bool) *ir.CallExpr {
	prev := opts.PropsVar
	if u.Category == ir.CategoryState {
		prev = opts.StateVar
	}

	ids := &ir.ArrayExpr{Elems: make([]ir.Expr, len(u.Universe.Updaters))}
	for i, name := range u.Universe.Updaters {
		ids.Elems[i] = &ir.Ident{Name: name}
	}

	mapping := &ir.ArrayExpr{Elems: make([]ir.Expr, len(u.Universe.Keys))}
	for i, kd := range u.Universe.Keys {
		indices := &ir.ArrayExpr{Elems: make([]ir.Expr, len(kd.Indices))}
		for j, idx := range kd.Indices {
			lit := &ir.NumLit{Value: idx}
			u.annotations[lit] = kd.Names[j]
			indices.Elems[j] = lit
		}
		mapping.Elems[i] = &ir.ArrayExpr{Elems: []ir.Expr{&ir.StringLit{Value: kd.Key}, indices}}
	}

	args := []ir.Expr{
		&ir.Ident{Name: prev},
		ids,
		mapping,
		&ir.BoolLit{Value: u.Category == ir.CategoryProp}, // shallowEqual
	}
	if needsTransaction {
		args = append(args, &ir.Ident{Name: opts.TransactionVar})
	}

	return &ir.CallExpr{Callee: &ir.Ident{Name: opts.Dispatcher}, Args: args}
}
