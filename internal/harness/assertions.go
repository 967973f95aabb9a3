package harness

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/updatesynth/internal/ir"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, a := range assertions {
		var err error

		switch a.Type {
		case AssertError:
			err = assertError(result, a)
		case AssertOrder:
			err = assertOrder(result, a)
		case AssertCode, AssertNoOp, AssertUniverse, AssertKeyDeps, AssertWarning:
			if result.Err != nil {
				err = &AssertionError{Type: a.Type, Expected: "successful synthesis", Actual: result.Err.Error()}
				break
			}
			err = assertUpdater(result, a)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, a.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}

	return errors
}

func assertError(result *Result, a Assertion) error {
	if result.Err == nil {
		return &AssertionError{Type: AssertError, Expected: "error " + a.Code, Actual: "synthesis succeeded"}
	}
	if result.ErrorCode != a.Code {
		return &AssertionError{Type: AssertError, Expected: "error " + a.Code, Actual: result.Err.Error()}
	}
	return nil
}

func assertOrder(result *Result, a Assertion) error {
	if !slices.Equal(result.Order, a.Order) {
		return &AssertionError{
			Type:     AssertOrder,
			Expected: fmt.Sprintf("%v", a.Order),
			Actual:   fmt.Sprintf("%v", result.Order),
		}
	}
	return nil
}

// assertUpdater handles the assertions scoped to one category's updater.
func assertUpdater(result *Result, a Assertion) error {
	cat := ir.Category(a.Category)
	u := result.Updater(cat)
	if u == nil {
		return &AssertionError{Type: a.Type, Expected: a.Category + " updater", Actual: "none synthesized"}
	}

	switch a.Type {
	case AssertCode:
		if got := u.Code(a.Annotate); got != a.Code {
			return &AssertionError{Type: AssertCode, Expected: a.Code, Actual: got}
		}

	case AssertNoOp:
		if !u.IsNoOp() {
			return &AssertionError{Type: AssertNoOp, Expected: "no-op", Actual: u.Code(false)}
		}

	case AssertUniverse:
		if !slices.Equal(u.Universe.Updaters, a.Updaters) {
			return &AssertionError{
				Type:     AssertUniverse,
				Expected: fmt.Sprintf("%v", a.Updaters),
				Actual:   fmt.Sprintf("%v", u.Universe.Updaters),
			}
		}

	case AssertKeyDeps:
		for _, kd := range u.Universe.Keys {
			if kd.Key != a.Key {
				continue
			}
			if !slices.Equal(kd.Names, a.Updaters) {
				return &AssertionError{
					Type:     AssertKeyDeps,
					Expected: fmt.Sprintf("%s -> %v", a.Key, a.Updaters),
					Actual:   fmt.Sprintf("%s -> %v", a.Key, kd.Names),
				}
			}
			return nil
		}
		return &AssertionError{Type: AssertKeyDeps, Expected: "key " + a.Key, Actual: "not tracked"}

	case AssertWarning:
		for _, w := range u.Warnings {
			if strings.Contains(w, a.Text) {
				return nil
			}
		}
		return &AssertionError{
			Type:     AssertWarning,
			Expected: fmt.Sprintf("warning containing %q", a.Text),
			Actual:   fmt.Sprintf("%v", u.Warnings),
		}
	}

	return nil
}
