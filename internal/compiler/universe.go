package compiler

import (
	"fmt"
	"slices"

	"github.com/roach88/updatesynth/internal/ir"
)

// KeyDeps lists the universe indices a single external key invalidates.
type KeyDeps struct {
	// Key is the prop or state name.
	Key string `json:"key"`

	// Indices point into Universe.Updaters, in resolution order.
	Indices []int `json:"indices"`

	// Names parallels Indices with the updater identifiers, for debugging.
	Names []string `json:"names"`
}

// Universe is the dependency universe of one category: the canonically
// ordered updaters referenced by at least one of its keys, plus the per-key
// index mapping into that list.
type Universe struct {
	Category ir.Category `json:"category"`
	Updaters []string    `json:"updaters"`
	Keys     []KeyDeps   `json:"keys"`
}

// Empty reports whether the category tracks no external keys at all.
func (u *Universe) Empty() bool {
	return len(u.Keys) == 0
}

// BuildUniverse computes the dependency universe of cat.
//
// Entries are the variable-table rows whose key category is cat, in table
// order. Each entry is resolved, mapped to updater identifiers and
// deduplicated keeping first occurrence. The universe is order filtered to
// the identifiers used by any entry.
func BuildUniverse(vars *ir.VariableTable, names *StatementNames, order []string, cat ir.Category) (*Universe, error) {
	if !cat.IsTerminal() {
		return nil, &SynthError{
			Code:    ErrCodeInvalidCategory,
			Message: fmt.Sprintf("cannot build a universe for category %q", cat),
		}
	}

	entries := vars.EntriesFor(cat)
	perKey := make([][]string, len(entries))
	used := make(map[string]bool)

	for i, entry := range entries {
		updaters, err := uniqueUpdaters(vars, names, entry.Deps)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", entry.Key, err)
		}
		perKey[i] = updaters
		for _, name := range updaters {
			used[name] = true
		}
	}

	u := &Universe{Category: cat, Updaters: []string{}}
	index := make(map[string]int, len(used))
	for _, name := range order {
		if used[name] {
			index[name] = len(u.Updaters)
			u.Updaters = append(u.Updaters, name)
		}
	}

	for i, entry := range entries {
		kd := KeyDeps{
			Key:     entry.Key.Name,
			Indices: make([]int, len(perKey[i])),
			Names:   slices.Clone(perKey[i]),
		}
		for j, name := range perKey[i] {
			idx, ok := index[name]
			if !ok {
				// order did not come from the same StatementNames
				return nil, &SynthError{
					Code:    ErrCodeUnknownStatement,
					Message: fmt.Sprintf("updater %q missing from canonical order", name),
					Key:     entry.Key.String(),
				}
			}
			kd.Indices[j] = idx
		}
		u.Keys = append(u.Keys, kd)
	}

	return u, nil
}

// uniqueUpdaters resolves deps and maps them to updater identifiers,
// dropping repeats.
func uniqueUpdaters(vars *ir.VariableTable, names *StatementNames, deps []ir.Descriptor) ([]string, error) {
	resolved, err := Resolve(vars, deps)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(resolved))
	seen := make(map[string]bool, len(resolved))
	for _, dep := range resolved {
		name, ok := names.Name(dep.Key)
		if !ok {
			return nil, &SynthError{
				Code:    ErrCodeUnknownStatement,
				Message: fmt.Sprintf("descriptor %s names no statement", dep),
				Key:     dep.Key,
			}
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}
