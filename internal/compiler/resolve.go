package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/updatesynth/internal/ir"
)

// Resolve flattens deps into terminal (prop/state) descriptors.
//
// A local descriptor with key K is replaced by the resolution of the
// variable-table entry "local,K"; terminal descriptors pass through
// unchanged. Order is preserved and duplicates are kept.
//
// A local key absent from the table fails with E201. A local reached again
// while it is still being expanded fails with E202 naming the cycle; the
// same local reached along two separate paths is not a cycle.
func Resolve(vars *ir.VariableTable, deps []ir.Descriptor) ([]ir.Descriptor, error) {
	r := &resolver{vars: vars, onPath: make(map[string]bool)}
	return r.resolve(deps, nil)
}

type resolver struct {
	vars   *ir.VariableTable
	onPath map[string]bool
}

func (r *resolver) resolve(deps []ir.Descriptor, path []string) ([]ir.Descriptor, error) {
	var out []ir.Descriptor

	for _, dep := range deps {
		switch {
		case dep.Kind.IsTerminal():
			out = append(out, dep)
			continue
		case dep.Kind != ir.CategoryLocal:
			return nil, &SynthError{
				Code:    ErrCodeInvalidCategory,
				Message: fmt.Sprintf("descriptor kind %q is not local, prop or state", dep.Kind),
				Key:     dep.Key,
			}
		}

		if r.onPath[dep.Key] {
			start := slices.Index(path, dep.Key)
			cycle := append(slices.Clone(path[start:]), dep.Key)
			return nil, newCycleError(cycle)
		}

		next, ok := r.vars.Get(ir.LocalKey(dep.Key))
		if !ok {
			return nil, newMissingReferenceError(dep.Key)
		}

		r.onPath[dep.Key] = true
		resolved, err := r.resolve(next, append(slices.Clip(path), dep.Key))
		delete(r.onPath, dep.Key)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved...)
	}

	return out, nil
}
