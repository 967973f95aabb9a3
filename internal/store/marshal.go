package store

import (
	"fmt"

	"github.com/roach88/updatesynth/internal/compiler"
	"github.com/roach88/updatesynth/internal/ir"
)

// NewArtifact captures a synthesized updater as a storable row.
// Code is rendered without annotations so it matches Hash exactly.
func NewArtifact(u *compiler.Updater, buildID string, seq int64) (Artifact, error) {
	hash, err := u.Hash()
	if err != nil {
		return Artifact{}, fmt.Errorf("artifact for %s %s: %w", u.Component, u.Category, err)
	}

	canonical, err := marshalExpr(u.Expr)
	if err != nil {
		return Artifact{}, fmt.Errorf("artifact for %s %s: %w", u.Component, u.Category, err)
	}

	return Artifact{
		BuildID:   buildID,
		Component: u.Component,
		Category:  u.Category,
		Hash:      hash,
		Code:      u.Code(false),
		Canonical: canonical,
		Seq:       seq,
	}, nil
}

// marshalExpr converts an expression tree to canonical JSON TEXT for storage.
func marshalExpr(expr ir.Expr) (string, error) {
	data, err := ir.MarshalCanonical(expr)
	if err != nil {
		return "", fmt.Errorf("marshal expr: %w", err)
	}
	return string(data), nil
}
