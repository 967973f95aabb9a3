package store

import (
	"context"
	"fmt"
)

// WriteBuild records a synth run. Duplicate IDs are silently ignored.
func (s *Store) WriteBuild(ctx context.Context, b Build) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO builds (id, source_dir, seq)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, b.ID, b.SourceDir, b.Seq)
	if err != nil {
		return fmt.Errorf("write build: %w", err)
	}
	return nil
}

// WriteArtifact inserts an artifact and reports whether a new row was
// created.
//
// Uses ON CONFLICT(component, category, hash) DO NOTHING: recording an
// updater identical to one already stored is a no-op, and the original
// row keeps its build ID and seq.
//
// Note: The build referenced by BuildID must exist (foreign key constraint).
func (s *Store) WriteArtifact(ctx context.Context, a Artifact) (inserted bool, err error) {
	if !a.Category.IsTerminal() {
		return false, fmt.Errorf("write artifact: invalid category %q", a.Category)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(build_id, component, category, hash, code, canonical, seq)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(component, category, hash) DO NOTHING
	`,
		a.BuildID,
		a.Component,
		string(a.Category),
		a.Hash,
		a.Code,
		a.Canonical,
		a.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("write artifact: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("write artifact: rows affected: %w", err)
	}
	return n > 0, nil
}
