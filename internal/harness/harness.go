package harness

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/store"
	"github.com/roach88/updatesynth/internal/testutil"
)

// BuildID is the fixed build identifier scenario artifacts are recorded under.
const BuildID = "scenario-build"

// Harness runs scenarios against a private artifact store.
type Harness struct {
	store  *store.Store
	clock  *testutil.DeterministicClock
	ids    *testutil.FixedIDGenerator
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// A synthesis failure is not a Run error: it is reported on the Result so
// error assertions can inspect it. Run fails only when the scenario itself
// cannot be turned into tables or the store is unusable.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	h := &Harness{
		store:  st,
		clock:  testutil.NewDeterministicClock(),
		ids:    testutil.NewFixedIDGenerator(BuildID),
		logger: compiler.DiscardLogger(), // Suppress logs in tests
	}
	return h.run(context.Background(), scenario)
}

func (h *Harness) run(ctx context.Context, scenario *Scenario) (*Result, error) {
	comp, err := scenario.Component.Build()
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	sctx := compiler.NewContext(comp)
	sctx.Options = scenario.compilerOptions()
	sctx.Logger = h.logger

	result := NewResult()

	names, err := compiler.NameStatements(comp.Statements, compiler.DefaultNamer)
	if err == nil {
		result.Order = compiler.CanonicalOrder(names.Updaters(), comp.Body, comp.Finally)
	}

	updaters, err := compiler.SynthesizeAll(sctx)
	if err != nil {
		result.Err = err
		result.ErrorCode = compiler.ErrorCode(err)
		h.logger.Info("synthesis failed", "scenario", scenario.Name, "code", result.ErrorCode)
	} else {
		result.Updaters = updaters

		rec := &store.Recorder{Store: h.store, IDs: h.ids, Clock: h.clock}
		built, err := rec.Record(ctx, scenario.Name, updaters)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.Artifacts = append(built.Recorded, built.Unchanged...)
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}

	return result, nil
}
