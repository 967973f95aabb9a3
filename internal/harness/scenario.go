package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
)

// Scenario is one synthesis conformance case.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	Component ComponentDef `yaml:"component"`

	// Options overrides emitted identifiers. Empty fields keep defaults.
	Options *OptionsDef `yaml:"options,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// ComponentDef is the YAML form of a component's tables.
type ComponentDef struct {
	Name                 string         `yaml:"name"`
	NeedsPropTransaction bool           `yaml:"needs_prop_transaction,omitempty"`
	Statements           []StatementDef `yaml:"statements"`
	Variables            []VariableDef  `yaml:"variables,omitempty"`

	// Body and Finally list the updater identifiers called, in order.
	Body    []string `yaml:"body,omitempty"`
	Finally []string `yaml:"finally,omitempty"`
}

// StatementDef is one statement-table row.
type StatementDef struct {
	Key     string   `yaml:"key"`
	Deps    []string `yaml:"deps,omitempty"`
	Updater string   `yaml:"updater,omitempty"`
}

// VariableDef is one variable-table row.
type VariableDef struct {
	Key  string   `yaml:"key"`
	Deps []string `yaml:"deps"`
}

// OptionsDef mirrors compiler.Options.
type OptionsDef struct {
	Dispatcher     string `yaml:"dispatcher,omitempty"`
	PropsVar       string `yaml:"props_var,omitempty"`
	StateVar       string `yaml:"state_var,omitempty"`
	TransactionVar string `yaml:"transaction_var,omitempty"`
}

// Assertion checks one property of a synthesis result.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Category is "prop" or "state" (code, no_op, universe, key_deps, warning).
	Category string `yaml:"category,omitempty"`

	// Code is the expected rendered updater (code) or error code (error).
	Code string `yaml:"code,omitempty"`

	// Annotate compares against annotated rendering (code).
	Annotate bool `yaml:"annotate,omitempty"`

	// Key is the variable name without category (key_deps).
	Key string `yaml:"key,omitempty"`

	// Updaters is the expected identifier list (universe, key_deps).
	Updaters []string `yaml:"updaters,omitempty"`

	// Order is the expected canonical order (order).
	Order []string `yaml:"order,omitempty"`

	// Text must appear in a warning (warning).
	Text string `yaml:"text,omitempty"`
}

// Assertion type constants.
const (
	AssertCode     = "code"
	AssertNoOp     = "no_op"
	AssertUniverse = "universe"
	AssertKeyDeps  = "key_deps"
	AssertOrder    = "order"
	AssertError    = "error"
	AssertWarning  = "warning"
)

var assertionTypes = []string{
	AssertCode, AssertNoOp, AssertUniverse, AssertKeyDeps, AssertOrder, AssertError, AssertWarning,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Component.Name == "" {
		return fmt.Errorf("component.name is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, a := range s.Assertions {
		if !slices.Contains(assertionTypes, a.Type) {
			return fmt.Errorf("assertions[%d]: unknown type %q", i, a.Type)
		}
		switch a.Type {
		case AssertCode, AssertNoOp, AssertUniverse, AssertKeyDeps, AssertWarning:
			if _, err := terminalCategory(a.Category); err != nil {
				return fmt.Errorf("assertions[%d]: %w", i, err)
			}
		}
		if a.Type == AssertKeyDeps && a.Key == "" {
			return fmt.Errorf("assertions[%d]: key_deps requires key", i)
		}
		if a.Type == AssertError && a.Code == "" {
			return fmt.Errorf("assertions[%d]: error requires code", i)
		}
	}

	return nil
}

func terminalCategory(s string) (ir.Category, error) {
	cat, err := ir.ParseCategory(s)
	if err != nil {
		return "", err
	}
	if !cat.IsTerminal() {
		return "", fmt.Errorf("category must be prop or state, got %q", s)
	}
	return cat, nil
}

// Build converts the definition into component tables.
func (d ComponentDef) Build() (*ir.Component, error) {
	stmts, _ := ir.NewStatementTable()
	for i, sd := range d.Statements {
		deps, err := parseDescriptors(sd.Deps)
		if err != nil {
			return nil, fmt.Errorf("statements[%d]: %w", i, err)
		}
		if err := stmts.Add(ir.Statement{Key: sd.Key, Deps: deps, Updater: sd.Updater}); err != nil {
			return nil, fmt.Errorf("statements[%d]: %w", i, err)
		}
	}

	vars := ir.NewVariableTable()
	for i, vd := range d.Variables {
		key, err := ir.ParseKey(vd.Key)
		if err != nil {
			return nil, fmt.Errorf("variables[%d]: %w", i, err)
		}
		if _, dup := vars.Get(key); dup {
			return nil, fmt.Errorf("variables[%d]: duplicate variable key %q", i, vd.Key)
		}
		deps, err := parseDescriptors(vd.Deps)
		if err != nil {
			return nil, fmt.Errorf("variables[%d]: %w", i, err)
		}
		vars.Set(key, deps...)
	}

	return &ir.Component{
		Name:                 d.Name,
		Statements:           stmts,
		Variables:            vars,
		Body:                 calls(d.Body),
		Finally:              calls(d.Finally),
		NeedsPropTransaction: d.NeedsPropTransaction,
	}, nil
}

func parseDescriptors(raw []string) ([]ir.Descriptor, error) {
	var deps []ir.Descriptor
	for _, r := range raw {
		d, err := ir.ParseDescriptor(r)
		if err != nil {
			return nil, err
		}
		deps = append(deps, d)
	}
	return deps, nil
}

func calls(names []string) []ir.Stmt {
	stmts := make([]ir.Stmt, len(names))
	for i, n := range names {
		stmts[i] = ir.Call(n)
	}
	return stmts
}

// compilerOptions overlays the scenario's options on the defaults.
func (s *Scenario) compilerOptions() compiler.Options {
	opts := compiler.DefaultOptions()
	if s.Options == nil {
		return opts
	}
	if s.Options.Dispatcher != "" {
		opts.Dispatcher = s.Options.Dispatcher
	}
	if s.Options.PropsVar != "" {
		opts.PropsVar = s.Options.PropsVar
	}
	if s.Options.StateVar != "" {
		opts.StateVar = s.Options.StateVar
	}
	if s.Options.TransactionVar != "" {
		opts.TransactionVar = s.Options.TransactionVar
	}
	return opts
}
