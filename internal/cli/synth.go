package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
	"github.com/roach88/updatesynth/internal/store"
)

// SynthOptions holds flags for the synth command.
type SynthOptions struct {
	*RootOptions

	Dispatcher     string
	PropsVar       string
	StateVar       string
	TransactionVar string

	Output     string // write rendered updaters to this file
	Database   string // record artifacts in this SQLite database
	NoAnnotate bool
	Component  string // synthesize only this component

	// IDs allows overriding the build ID generator (for testing).
	// If nil, defaults to store.UUIDv7Generator.
	IDs store.IDGenerator
}

// SynthResult is the JSON payload of a successful synth.
type SynthResult struct {
	Components []ComponentResult  `json:"components"`
	Build      *store.BuildResult `json:"build,omitempty"`
}

// ComponentResult holds both updaters of one component.
type ComponentResult struct {
	Name     string          `json:"name"`
	Updaters []UpdaterResult `json:"updaters"`
}

// UpdaterResult is one synthesized updater.
type UpdaterResult struct {
	Category  ir.Category        `json:"category"`
	Code      string             `json:"code"`
	Hash      string             `json:"hash"`
	NoOp      bool               `json:"no_op"`
	Canonical json.RawMessage    `json:"canonical"`
	Universe  *compiler.Universe `json:"universe"`
	Warnings  []string           `json:"warnings,omitempty"`
}

// NewSynthCommand creates the synth command.
func NewSynthCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SynthOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "synth <components-dir>",
		Short: "Synthesize prop and state updaters",
		Long: `Synthesize the prop and state updater calls for every component.

Each updater is a dispatcher call listing the statements a category can
invalidate, in execution order, and which of them each tracked key
re-runs. A category with nothing tracked yields a no-op function.

Example:
  updatesynth synth ./components
  updatesynth synth ./components --db ./artifacts.db --format json
  updatesynth synth ./components --dispatcher makeUpdater -o updaters.js`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(opts, args[0], cmd)
		},
	}

	defaults := compiler.DefaultOptions()
	cmd.Flags().StringVar(&opts.Dispatcher, "dispatcher", defaults.Dispatcher, "runtime updater factory to call")
	cmd.Flags().StringVar(&opts.PropsVar, "props-var", defaults.PropsVar, "previous props container")
	cmd.Flags().StringVar(&opts.StateVar, "state-var", defaults.StateVar, "previous state container")
	cmd.Flags().StringVar(&opts.TransactionVar, "transaction-var", defaults.TransactionVar, "prop transaction container")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write rendered updaters to file")
	cmd.Flags().StringVar(&opts.Database, "db", "", "record artifacts in SQLite database")
	cmd.Flags().BoolVar(&opts.NoAnnotate, "no-annotate", false, "omit index comments in text output")
	cmd.Flags().StringVar(&opts.Component, "component", "", "synthesize only the named component")

	return cmd
}

func runSynth(opts *SynthOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	loadResult, loadErrors := LoadComponents(dir, LoadModeFailFast)
	if len(loadErrors) > 0 {
		return outputLoadError(formatter, loadErrors[0])
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, dir)

	components := loadResult.Components
	if opts.Component != "" {
		components = filterComponents(components, opts.Component)
		if len(components) == 0 {
			return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("component %q not found in %s", opts.Component, dir))
		}
	}

	var (
		results  []ComponentResult
		updaters []*compiler.Updater
	)
	for _, comp := range components {
		ctx := compiler.NewContext(comp)
		ctx.Options = compiler.Options{
			Dispatcher:     opts.Dispatcher,
			PropsVar:       opts.PropsVar,
			StateVar:       opts.StateVar,
			TransactionVar: opts.TransactionVar,
		}
		ctx.Logger = logger

		synthesized, err := compiler.SynthesizeAll(ctx)
		if err != nil {
			return outputSynthError(formatter, comp.Name, err)
		}
		for _, u := range synthesized {
			for _, w := range u.Warnings {
				logger.Warn(w, "component", comp.Name, "category", string(u.Category))
			}
		}

		cr, err := newComponentResult(comp.Name, synthesized, !opts.NoAnnotate)
		if err != nil {
			return outputSynthError(formatter, comp.Name, err)
		}
		results = append(results, cr)
		updaters = append(updaters, synthesized...)
	}

	result := &SynthResult{Components: results}

	if opts.Database != "" {
		build, err := recordBuild(cmd, opts, dir, updaters)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStoreFailed, err.Error())
		}
		logger.Info("artifacts recorded", "build", build.Build.ID,
			"recorded", len(build.Recorded), "unchanged", len(build.Unchanged))
		result.Build = build
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(renderText(results)), 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		formatter.VerboseLog("Wrote %s", opts.Output)
	}

	if formatter.Format == "json" {
		return formatter.Success(result)
	}
	fmt.Fprint(formatter.Writer, renderText(results))
	return nil
}

// newLogger configures slog the way every command does: text to stderr,
// Debug when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

func filterComponents(comps []*ir.Component, name string) []*ir.Component {
	for _, c := range comps {
		if c.Name == name {
			return []*ir.Component{c}
		}
	}
	return nil
}

func newComponentResult(name string, updaters []*compiler.Updater, annotate bool) (ComponentResult, error) {
	cr := ComponentResult{Name: name}
	for _, u := range updaters {
		hash, err := u.Hash()
		if err != nil {
			return ComponentResult{}, err
		}
		canonical, err := ir.MarshalCanonical(u.Expr)
		if err != nil {
			return ComponentResult{}, err
		}
		cr.Updaters = append(cr.Updaters, UpdaterResult{
			Category:  u.Category,
			Code:      u.Code(annotate),
			Hash:      hash,
			NoOp:      u.IsNoOp(),
			Canonical: canonical,
			Universe:  u.Universe,
			Warnings:  u.Warnings,
		})
	}
	return cr, nil
}

// renderText lays out updaters as one labelled expression per line:
//
//	// Counter
//	prop: propUpdater($$props, [update_b], [["x", [0 /* update_b */]]], true)
//	state: () => {}
func renderText(results []ComponentResult) string {
	var b strings.Builder
	for i, cr := range results {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "// %s\n", cr.Name)
		for _, u := range cr.Updaters {
			fmt.Fprintf(&b, "%s: %s\n", u.Category, u.Code)
		}
	}
	return b.String()
}

func recordBuild(cmd *cobra.Command, opts *SynthOptions, dir string, updaters []*compiler.Updater) (*store.BuildResult, error) {
	st, err := store.Open(opts.Database)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	rec := &store.Recorder{Store: st, IDs: opts.IDs}
	return rec.Record(cmd.Context(), dir, updaters)
}

// outputLoadError reports a loader failure as a command error (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		message := loadErr.Message
		if loadErr.Pos.IsValid() {
			message = fmt.Sprintf("%s:%d: %s", loadErr.Pos.Filename(), loadErr.Pos.Line(), message)
		}
		return outputCommandError(formatter, loadErr.Code, message)
	}
	return outputCommandError(formatter, ErrCodeGeneric, err.Error())
}

func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputSynthError reports a synthesis failure (exit code 1). Cycle
// errors carry their path as details.
func outputSynthError(formatter *OutputFormatter, component string, err error) error {
	code := compiler.ErrorCode(err)
	if code == "" {
		code = ErrCodeGeneric
	}

	var details any
	var synthErr *compiler.SynthError
	if errors.As(err, &synthErr) && len(synthErr.Path) > 0 {
		details = map[string]any{"path": synthErr.Path}
	}

	message := fmt.Sprintf("component %s: %v", component, err)
	_ = formatter.Error(code, message, details)
	return WrapExitError(ExitFailure, "synthesis failed", err)
}
