package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/updatesynth/internal/ir"
)

// ReadArtifacts returns every artifact recorded for a component.
// Results are ordered deterministically: ORDER BY seq ASC, id ASC.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ReadArtifacts(ctx context.Context, component string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, build_id, component, category, hash, code, canonical, seq
		FROM artifacts
		WHERE component = ?
		ORDER BY seq ASC, id ASC
	`, component)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		a, err := scanArtifact(rows)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}

	return artifacts, nil
}

// ReadArtifactByHash retrieves the artifact with the given content hash.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadArtifactByHash(ctx context.Context, hash string) (Artifact, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, build_id, component, category, hash, code, canonical, seq
		FROM artifacts
		WHERE hash = ?
		ORDER BY seq ASC, id ASC
		LIMIT 1
	`, hash)

	return scanArtifact(row)
}

// ReadComponents lists every component with at least one artifact, by name.
func (s *Store) ReadComponents(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT component FROM artifacts ORDER BY component COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query components: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan component: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate components: %w", err)
	}
	return names, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanArtifact(r rowScanner) (Artifact, error) {
	var (
		a        Artifact
		category string
	)
	err := r.Scan(&a.ID, &a.BuildID, &a.Component, &category, &a.Hash, &a.Code, &a.Canonical, &a.Seq)
	if err == sql.ErrNoRows {
		return Artifact{}, err
	}
	if err != nil {
		return Artifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	a.Category = ir.Category(category)
	return a, nil
}
