package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/updatesynth/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrEmptyStatementKey = "E101" // statement key is empty
	ErrDuplicateUpdater  = "E102" // two statements share an updater identifier
	ErrMissingLocal      = "E103" // local descriptor names an absent variable
	ErrUnknownStatement  = "E104" // terminal descriptor names an unknown statement
	ErrInvalidDescriptor = "E105" // descriptor kind is not local, prop or state
	ErrLocalCycle        = "E106" // locals reference each other cyclically
	ErrUninvokedUpdater  = "E107" // updater invoked in neither body nor finally
	ErrUnknownInvocation = "E108" // body or finally calls an identifier no statement owns
	ErrNamerFailed       = "E109" // naming function failed for a statement
)

// ValidationError represents a component table validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidateComponent checks the preconditions synthesis relies on.
// Returns all errors found (does not fail-fast).
//
// Synthesis itself only rejects what it trips over; validation reports
// everything, including uninvoked updaters that synthesis merely warns about.
func ValidateComponent(comp *ir.Component, namer Namer) []ValidationError {
	if namer == nil {
		namer = DefaultNamer
	}
	var errs []ValidationError

	owners := make(map[string]string) // updater -> statement key
	var updaters []string

	for i, s := range comp.Statements.All() {
		field := fmt.Sprintf("statements[%d]", i)

		// E101: key is required
		if strings.TrimSpace(s.Key) == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".key",
				Message: "statement key is required and must be non-empty",
				Code:    ErrEmptyStatementKey,
			})
			continue
		}

		name, err := namer(s)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("naming statement %q: %v", s.Key, err),
				Code:    ErrNamerFailed,
			})
			continue
		}

		// E102: updater identifiers must be unique
		if prev, dup := owners[name]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".updater",
				Message: fmt.Sprintf("updater %q already used by statement %q", name, prev),
				Code:    ErrDuplicateUpdater,
			})
			continue
		}
		owners[name] = s.Key
		updaters = append(updaters, name)

		errs = append(errs, validateDescriptors(comp, field+".deps", s.Deps)...)
	}

	for i, entry := range comp.Variables.Entries() {
		field := fmt.Sprintf("variables[%d] (%s)", i, entry.Key)
		errs = append(errs, validateDescriptors(comp, field, entry.Deps)...)
	}

	// E106: cycles would make resolution fail
	for _, cycle := range AnalyzeLocalCycles(comp.Variables) {
		errs = append(errs, ValidationError{
			Field:   "variables",
			Message: cycle.Message,
			Code:    ErrLocalCycle,
		})
	}

	// E107: every updater must be invoked somewhere to have a defined order
	for _, name := range UnorderedUpdaters(updaters, comp.Body, comp.Finally) {
		errs = append(errs, ValidationError{
			Field:   "body",
			Message: fmt.Sprintf("updater %q (statement %q) is invoked in neither body nor finally", name, owners[name]),
			Code:    ErrUninvokedUpdater,
		})
	}

	// E108: sequences should only call known updaters
	errs = append(errs, validateInvocations("body", comp.Body, owners)...)
	errs = append(errs, validateInvocations("finally", comp.Finally, owners)...)

	return errs
}

// validateDescriptors checks that every descriptor has a usable kind and
// points at something that exists.
func validateDescriptors(comp *ir.Component, field string, deps []ir.Descriptor) []ValidationError {
	var errs []ValidationError

	for j, dep := range deps {
		path := fmt.Sprintf("%s[%d]", field, j)
		switch {
		case dep.Kind == ir.CategoryLocal:
			// E103: local must resolve
			if _, ok := comp.Variables.Get(ir.LocalKey(dep.Key)); !ok {
				errs = append(errs, ValidationError{
					Field:   path,
					Message: fmt.Sprintf("local %q has no variable-table entry", dep.Key),
					Code:    ErrMissingLocal,
				})
			}
		case dep.Kind.IsTerminal():
			// E104: terminal must name a statement
			if _, ok := comp.Statements.Get(dep.Key); !ok {
				errs = append(errs, ValidationError{
					Field:   path,
					Message: fmt.Sprintf("descriptor %s names no statement", dep),
					Code:    ErrUnknownStatement,
				})
			}
		default:
			// E105
			errs = append(errs, ValidationError{
				Field:   path,
				Message: fmt.Sprintf("invalid descriptor kind %q, must be \"local\", \"prop\", or \"state\"", dep.Kind),
				Code:    ErrInvalidDescriptor,
			})
		}
	}

	return errs
}

func validateInvocations(field string, stmts []ir.Stmt, owners map[string]string) []ValidationError {
	var errs []ValidationError
	for i, s := range stmts {
		name, ok := ir.CalleeName(s)
		if !ok {
			continue
		}
		if _, known := owners[name]; !known {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("%s[%d]", field, i),
				Message: fmt.Sprintf("call of %q matches no statement updater", name),
				Code:    ErrUnknownInvocation,
			})
		}
	}
	return errs
}
