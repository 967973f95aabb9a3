package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/updatesynth/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid      bool                       `json:"valid"`
	Components int                        `json:"components"`
	Errors     []ComponentValidationError `json:"errors,omitempty"`
}

// ComponentValidationError attributes a validation error to its component.
type ComponentValidationError struct {
	Component string `json:"component,omitempty"`
	compiler.ValidationError
	Line int `json:"line,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <components-dir>",
		Short: "Check component tables without synthesizing",
		Long: `Check every component's tables and call sequences.

Reports all problems at once: empty or duplicate keys, locals with no
variable entry, descriptors naming unknown statements, local reference
cycles, and updaters invoked in neither body nor finally.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadComponents(dir, LoadModeCollectAll)

	// Nothing readable: missing directory, no files, broken package
	if loadResult == nil {
		return outputLoadError(formatter, loadErrors[0])
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	var all []ComponentValidationError

	// Components that failed to compile become errors too
	for _, err := range loadErrors {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			line := 0
			if loadErr.Pos.IsValid() {
				line = loadErr.Pos.Line()
			}
			all = append(all, ComponentValidationError{
				ValidationError: compiler.ValidationError{
					Field:   "load",
					Message: loadErr.Message,
					Code:    loadErr.Code,
				},
				Line: line,
			})
		}
	}

	for _, comp := range loadResult.Components {
		formatter.VerboseLog("Validating component: %s", comp.Name)
		for _, verr := range compiler.ValidateComponent(comp, compiler.DefaultNamer) {
			all = append(all, ComponentValidationError{Component: comp.Name, ValidationError: verr})
		}
	}

	if len(all) > 0 {
		return outputValidationErrors(formatter, len(loadResult.Components), all)
	}

	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Components: len(loadResult.Components)})
	}
	fmt.Fprintf(formatter.Writer, "✓ All %d component(s) valid\n", len(loadResult.Components))
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, components int, errs []ComponentValidationError) error {
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:      false,
				Components: components,
				Errors:     errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		switch {
		case err.Component != "":
			fmt.Fprintf(formatter.Writer, "%s\n", err.Component)
		case err.Line > 0:
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
