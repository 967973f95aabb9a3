package compiler

import (
	"cmp"
	"slices"

	"github.com/roach88/updatesynth/internal/ir"
)

// CanonicalOrder sorts updater identifiers into the order they execute at
// runtime.
//
// Position is the index of the first expression statement in body calling
// the identifier, falling back to the epilogue. The comparator:
//   - both in body: body position ascending
//   - only one in body: that one first
//   - neither in body: epilogue position ascending, absent counting as -1
//
// Equal positions only arise for identifiers missing from both sequences.
// Those keep their statement-table order (the sort is stable). Well-formed
// input never produces them since every updater is invoked somewhere; see
// UnorderedUpdaters.
func CanonicalOrder(updaters []string, body, epilogue []ir.Stmt) []string {
	mainPos := calleePositions(body)
	finPos := calleePositions(epilogue)

	position := func(name string, table map[string]int) int {
		if p, ok := table[name]; ok {
			return p
		}
		return -1
	}

	sorted := slices.Clone(updaters)
	slices.SortStableFunc(sorted, func(a, b string) int {
		ma, mb := position(a, mainPos), position(b, mainPos)
		switch {
		case ma >= 0 && mb >= 0:
			return cmp.Compare(ma, mb)
		case ma >= 0:
			return -1
		case mb >= 0:
			return 1
		}
		return cmp.Compare(position(a, finPos), position(b, finPos))
	})

	return sorted
}

// UnorderedUpdaters returns the identifiers invoked in neither sequence,
// in input order. Their relative canonical order is a tie-break, not a
// property of the source.
func UnorderedUpdaters(updaters []string, body, epilogue []ir.Stmt) []string {
	mainPos := calleePositions(body)
	finPos := calleePositions(epilogue)

	var out []string
	for _, name := range updaters {
		_, inMain := mainPos[name]
		_, inFin := finPos[name]
		if !inMain && !inFin {
			out = append(out, name)
		}
	}
	return out
}

// calleePositions records the first index at which each identifier is
// called as an expression statement.
func calleePositions(stmts []ir.Stmt) map[string]int {
	pos := make(map[string]int, len(stmts))
	for i, s := range stmts {
		name, ok := ir.CalleeName(s)
		if !ok {
			continue
		}
		if _, seen := pos[name]; !seen {
			pos[name] = i
		}
	}
	return pos
}
