package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
)

// LoadMode controls how errors are handled during component loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the components loaded from a directory.
type LoadResult struct {
	// Components are in label order as CUE reports them.
	Components []*ir.Component
	CUEValue   cue.Value // The raw CUE value for additional processing
	FileCount  int       // Number of CUE files found
}

// LoadError represents an error that occurred during component loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadComponents compiles every field of the top-level "component" struct
// in the CUE package at dir. LoadModeFailFast stops at the first broken
// component; LoadModeCollectAll compiles the rest and reports them all.
//
// A nil result means nothing could be read at all.
func LoadComponents(dir string, mode LoadMode) (*LoadResult, []error) {
	value, fileCount, failure := buildPackage(dir)
	if failure != nil {
		return nil, []error{failure}
	}
	result := &LoadResult{CUEValue: value, FileCount: fileCount}

	var errs []error
	components := value.LookupPath(cue.ParsePath("component"))
	if components.Exists() {
		iter, err := components.Fields()
		if err != nil {
			return result, []error{loadFailure(ErrCodeGeneric, "component must be a struct: %v", err)}
		}
		for iter.Next() {
			comp, err := compiler.CompileComponent(iter.Value())
			if err != nil {
				errs = append(errs, convertCompileError(err, "component."+iter.Label()))
				if mode == LoadModeFailFast {
					return result, errs
				}
				continue
			}
			result.Components = append(result.Components, comp)
		}
	}

	if len(result.Components) == 0 && len(errs) == 0 {
		errs = append(errs, loadFailure(ErrCodeNoComponents, "no components found in %s", dir))
	}
	return result, errs
}

// buildPackage evaluates the CUE package in dir.
func buildPackage(dir string) (cue.Value, int, *LoadError) {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		return cue.Value{}, 0, loadFailure(ErrCodeNotFound, "components directory not found: %s", dir)
	case err != nil:
		return cue.Value{}, 0, loadFailure(ErrCodeNotFound, "error accessing components directory: %v", err)
	case !info.IsDir():
		return cue.Value{}, 0, loadFailure(ErrCodeNotFound, "not a directory: %s", dir)
	}

	files, err := FindCUEFiles(dir)
	if err != nil {
		return cue.Value{}, 0, loadFailure(ErrCodeScanError, "error scanning directory: %v", err)
	}
	if len(files) == 0 {
		return cue.Value{}, 0, loadFailure(ErrCodeNoFiles, "no CUE files found in %s", dir)
	}

	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return cue.Value{}, 0, loadFailure(ErrCodeLoadFailed, "no CUE instances loaded")
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, 0, loadFailure(ErrCodeLoadFailed, "loading CUE files: %v", err)
	}

	value := cuecontext.New().BuildInstance(instances[0])
	if err := value.Err(); err != nil {
		return cue.Value{}, 0, loadFailure(ErrCodeBuildFailed, "building CUE value: %v", err)
	}
	return value, len(files), nil
}

func loadFailure(code, format string, args ...any) *LoadError {
	return &LoadError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// FindCUEFiles returns every .cue file under dir.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError keeps the CUE position of a compile failure.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s: %s", context, compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// CLI error codes, shared by every command. Synthesis (E2xx) and
// validation (E1xx) codes come from the compiler.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeNoComponents = "E008" // CUE package defines no components
	ErrCodeStoreFailed  = "E009" // Artifact store error

	// Component shape errors
	ErrCodeInvalidStatements = "E010" // statements missing or malformed
	ErrCodeInvalidVariables  = "E011" // variables malformed
	ErrCodeInvalidSequence   = "E012" // body or finally malformed
)

// MapFieldToErrorCode picks the CLI code for a CompileError field path.
func MapFieldToErrorCode(field string) string {
	switch {
	case strings.HasPrefix(field, "statements"):
		return ErrCodeInvalidStatements
	case strings.HasPrefix(field, "variables"):
		return ErrCodeInvalidVariables
	case field == "body", field == "finally":
		return ErrCodeInvalidSequence
	default:
		return ErrCodeGeneric
	}
}
