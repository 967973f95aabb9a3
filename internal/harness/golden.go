package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/updatesynth/internal/ir"
)

// Snapshot is the stable, golden-compared view of a scenario result.
type Snapshot struct {
	ScenarioName string
	Order        []string
	ErrorCode    string
	Updaters     []UpdaterSnapshot
}

// UpdaterSnapshot captures one rendered updater.
type UpdaterSnapshot struct {
	Category  string
	Code      string
	Annotated string
	NoOp      bool
	Warnings  []string
}

// NewSnapshot extracts the golden-compared fields of a result.
func NewSnapshot(name string, result *Result) Snapshot {
	s := Snapshot{ScenarioName: name, Order: result.Order, ErrorCode: result.ErrorCode}
	for _, u := range result.Updaters {
		s.Updaters = append(s.Updaters, UpdaterSnapshot{
			Category:  string(u.Category),
			Code:      u.Code(false),
			Annotated: u.Code(true),
			NoOp:      u.IsNoOp(),
			Warnings:  u.Warnings,
		})
	}
	return s
}

// toCanonicalMap converts a Snapshot to plain values for ir.MarshalCanonical.
func (s Snapshot) toCanonicalMap() map[string]any {
	updaters := make([]any, len(s.Updaters))
	for i, u := range s.Updaters {
		m := map[string]any{
			"category":  u.Category,
			"code":      u.Code,
			"annotated": u.Annotated,
			"no_op":     u.NoOp,
		}
		if len(u.Warnings) > 0 {
			m["warnings"] = u.Warnings
		}
		updaters[i] = m
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"order":         s.Order,
		"updaters":      updaters,
	}
	if s.ErrorCode != "" {
		result["error_code"] = s.ErrorCode
	}
	return result
}

// Marshal renders the snapshot as canonical JSON.
func (s Snapshot) Marshal() ([]byte, error) {
	return ir.MarshalCanonical(s.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	data, err := NewSnapshot(scenario.Name, result).Marshal()
	if err != nil {
		return nil, err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return result, nil
}
