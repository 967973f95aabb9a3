package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// Synthesis error codes (E200-E299)
const (
	ErrCodeNamerFailed      = "E200" // external naming function failed
	ErrCodeMissingReference = "E201" // local descriptor names an absent variable
	ErrCodeCycle            = "E202" // local descriptors reference each other cyclically
	ErrCodeUnknownStatement = "E203" // terminal descriptor names an unknown statement
	ErrCodeInvalidCategory  = "E204" // category or descriptor kind is not usable here
	ErrCodeDuplicateUpdater = "E205" // two statements map to the same updater identifier
	ErrCodeMissingComponent = "E206" // context has no component tables
)

// SynthError is a failure of one synthesis call.
//
// Synthesis for a category either completes fully or fails with one of these;
// there is no partial output.
type SynthError struct {
	// Code identifies the error category.
	Code string

	// Message is a human-readable description.
	Message string

	// Key is the statement or variable key involved, if any.
	Key string

	// Path is the chain of local keys followed, for cycle errors.
	Path []string

	// Err is the underlying error (namer failures).
	Err error
}

// Error implements the error interface.
func (e *SynthError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if len(e.Path) > 0 {
		msg += " (" + strings.Join(e.Path, " → ") + ")"
	} else if e.Key != "" {
		msg += fmt.Sprintf(" (key=%s)", e.Key)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SynthError) Unwrap() error {
	return e.Err
}

// IsCycleError returns true if err is a local-reference cycle error.
// Uses errors.As to handle wrapped errors.
func IsCycleError(err error) bool {
	return hasCode(err, ErrCodeCycle)
}

// IsMissingReference returns true if err reports a local descriptor whose
// variable is absent from the table.
func IsMissingReference(err error) bool {
	return hasCode(err, ErrCodeMissingReference)
}

// ErrorCode returns the synthesis error code carried by err, or "".
func ErrorCode(err error) string {
	var se *SynthError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

func hasCode(err error, code string) bool {
	var se *SynthError
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

func newCycleError(path []string) *SynthError {
	return &SynthError{
		Code:    ErrCodeCycle,
		Message: "local dependency references itself",
		Key:     path[0],
		Path:    path,
	}
}

func newMissingReferenceError(name string) *SynthError {
	return &SynthError{
		Code:    ErrCodeMissingReference,
		Message: fmt.Sprintf("no variable-table entry for local %q", name),
		Key:     "local," + name,
	}
}
