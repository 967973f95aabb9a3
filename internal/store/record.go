package store

import (
	"context"
	"fmt"

	"github.com/roach88/updatesynth/internal/compiler"
)

// Sequencer stamps rows with increasing seq values.
// Both *Clock and testutil.DeterministicClock satisfy it.
type Sequencer interface {
	Next() int64
}

// Recorder writes one build and its updaters.
type Recorder struct {
	Store *Store

	// IDs defaults to UUIDv7Generator.
	IDs IDGenerator

	// Clock defaults to a Clock resumed from Store.LastSeq.
	Clock Sequencer
}

// BuildResult reports what a Record call stored.
type BuildResult struct {
	Build Build `json:"build"`

	// Recorded lists updaters stored for the first time.
	Recorded []Artifact `json:"recorded"`

	// Unchanged lists updaters whose identical artifact already existed.
	Unchanged []Artifact `json:"unchanged"`
}

// Record stores a build for sourceDir followed by one artifact per updater,
// in the order given.
func (r *Recorder) Record(ctx context.Context, sourceDir string, updaters []*compiler.Updater) (*BuildResult, error) {
	ids := r.IDs
	if ids == nil {
		ids = UUIDv7Generator{}
	}
	clock := r.Clock
	if clock == nil {
		last, err := r.Store.LastSeq(ctx)
		if err != nil {
			return nil, fmt.Errorf("record build: %w", err)
		}
		clock = NewClockAt(last)
	}

	res := &BuildResult{
		Build:     Build{ID: ids.Generate(), SourceDir: sourceDir, Seq: clock.Next()},
		Recorded:  []Artifact{},
		Unchanged: []Artifact{},
	}
	if err := r.Store.WriteBuild(ctx, res.Build); err != nil {
		return nil, fmt.Errorf("record build: %w", err)
	}

	for _, u := range updaters {
		a, err := NewArtifact(u, res.Build.ID, clock.Next())
		if err != nil {
			return nil, fmt.Errorf("record build: %w", err)
		}
		inserted, err := r.Store.WriteArtifact(ctx, a)
		if err != nil {
			return nil, fmt.Errorf("record build: %w", err)
		}
		if inserted {
			res.Recorded = append(res.Recorded, a)
		} else {
			res.Unchanged = append(res.Unchanged, a)
		}
	}

	return res, nil
}
