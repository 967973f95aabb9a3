package compiler

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/roach88/updatesynth/internal/ir"
)

// Namer maps a statement to the identifier of its generated updater.
// Naming conventions belong to the caller; the compiler only needs one
// identifier per statement.
type Namer func(ir.Statement) (string, error)

// DefaultNamer uses Statement.Updater when set and otherwise derives
// "update_<key>" with every non-identifier rune replaced by '_'.
func DefaultNamer(s ir.Statement) (string, error) {
	if s.Updater != "" {
		return s.Updater, nil
	}
	if s.Key == "" {
		return "", fmt.Errorf("statement key is empty")
	}
	var b strings.Builder
	b.WriteString("update_")
	for _, r := range s.Key {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String(), nil
}

// StatementNames maps statement keys to updater identifiers.
type StatementNames struct {
	updaters []string // statement-table order
	byKey    map[string]string
}

// Name returns the updater identifier for a statement key.
func (n *StatementNames) Name(key string) (string, bool) {
	name, ok := n.byKey[key]
	return name, ok
}

// Updaters returns every identifier in statement-table order.
func (n *StatementNames) Updaters() []string {
	return n.updaters
}

// Len returns the number of named statements.
func (n *StatementNames) Len() int {
	return len(n.updaters)
}

// NameStatements invokes namer once per statement.
//
// Namer failures propagate as E200 wrapping the original error. Two
// statements mapping to the same identifier fail with E205, since the
// canonical order could no longer tell them apart.
func NameStatements(stmts *ir.StatementTable, namer Namer) (*StatementNames, error) {
	names := &StatementNames{
		updaters: make([]string, 0, stmts.Len()),
		byKey:    make(map[string]string, stmts.Len()),
	}
	owner := make(map[string]string, stmts.Len())

	for _, s := range stmts.All() {
		name, err := namer(s)
		if err != nil {
			return nil, &SynthError{
				Code:    ErrCodeNamerFailed,
				Message: "naming statement updater",
				Key:     s.Key,
				Err:     err,
			}
		}
		if prev, dup := owner[name]; dup {
			return nil, &SynthError{
				Code:    ErrCodeDuplicateUpdater,
				Message: fmt.Sprintf("statements %q and %q both map to updater %q", prev, s.Key, name),
				Key:     s.Key,
			}
		}
		owner[name] = s.Key
		names.byKey[s.Key] = name
		names.updaters = append(names.updaters, name)
	}

	return names, nil
}
