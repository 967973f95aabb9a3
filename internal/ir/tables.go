package ir

import "fmt"

// Statement is one computed unit of a component.
//
// Deps records what the analysis phase saw the statement read; synthesis
// itself only uses Key. Updater optionally pins the generated identifier.
type Statement struct {
	Key     string       `json:"key"`
	Deps    []Descriptor `json:"deps,omitempty"`
	Updater string       `json:"updater,omitempty"`
}

// StatementTable holds a component's statements in declaration order.
type StatementTable struct {
	order []Statement
	index map[string]int
}

// NewStatementTable builds a table from statements, rejecting duplicate keys.
func NewStatementTable(stmts ...Statement) (*StatementTable, error) {
	t := &StatementTable{index: make(map[string]int, len(stmts))}
	for _, s := range stmts {
		if err := t.Add(s); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Add appends a statement.
func (t *StatementTable) Add(s Statement) error {
	if t.index == nil {
		t.index = make(map[string]int)
	}
	if _, dup := t.index[s.Key]; dup {
		return fmt.Errorf("duplicate statement key %q", s.Key)
	}
	t.index[s.Key] = len(t.order)
	t.order = append(t.order, s)
	return nil
}

// Get returns the statement with the given key.
func (t *StatementTable) Get(key string) (Statement, bool) {
	if t == nil {
		return Statement{}, false
	}
	i, ok := t.index[key]
	if !ok {
		return Statement{}, false
	}
	return t.order[i], true
}

// All returns the statements in declaration order.
// The returned slice must not be modified.
func (t *StatementTable) All() []Statement {
	if t == nil {
		return nil
	}
	return t.order
}

// Len returns the number of statements.
func (t *StatementTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// VariableEntry is one variable-table row.
type VariableEntry struct {
	Key  Key          `json:"key"`
	Deps []Descriptor `json:"deps"`
}

// VariableTable maps keys to ordered descriptor lists, preserving insertion order.
type VariableTable struct {
	entries []VariableEntry
	index   map[Key]int
}

// NewVariableTable creates an empty table.
func NewVariableTable() *VariableTable {
	return &VariableTable{index: make(map[Key]int)}
}

// Set stores deps under key. Re-setting a key replaces its deps in place and
// keeps its original position.
func (t *VariableTable) Set(key Key, deps ...Descriptor) {
	if t.index == nil {
		t.index = make(map[Key]int)
	}
	if i, ok := t.index[key]; ok {
		t.entries[i].Deps = deps
		return
	}
	t.index[key] = len(t.entries)
	t.entries = append(t.entries, VariableEntry{Key: key, Deps: deps})
}

// Get returns the deps stored under key.
func (t *VariableTable) Get(key Key) ([]Descriptor, bool) {
	if t == nil {
		return nil, false
	}
	i, ok := t.index[key]
	if !ok {
		return nil, false
	}
	return t.entries[i].Deps, true
}

// Entries returns all rows in insertion order.
// The returned slice must not be modified.
func (t *VariableTable) Entries() []VariableEntry {
	if t == nil {
		return nil
	}
	return t.entries
}

// EntriesFor returns the rows whose key category is cat, in insertion order.
func (t *VariableTable) EntriesFor(cat Category) []VariableEntry {
	var out []VariableEntry
	for _, e := range t.Entries() {
		if e.Key.Category == cat {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of rows.
func (t *VariableTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Component bundles everything synthesis needs for one compilation unit.
type Component struct {
	Name                 string          `json:"name"`
	Statements           *StatementTable `json:"-"`
	Variables            *VariableTable  `json:"-"`
	Body                 []Stmt          `json:"-"`
	Finally              []Stmt          `json:"-"`
	NeedsPropTransaction bool            `json:"needs_prop_transaction"`
}
