package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefix for content-addressed artifacts.
// Version suffix enables future algorithm migration.
const DomainArtifact = "updatesynth/artifact/v1"

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ArtifactHash computes the content-addressed identity of one synthesized
// updater. Identical tables and sequences always produce the same hash.
func ArtifactHash(component string, cat Category, expr Expr) (string, error) {
	obj := map[string]any{
		"component": component,
		"category":  string(cat),
		"expr":      NodeValue(expr),
	}

	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ArtifactHash: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainArtifact, canonical), nil
}

// MustArtifactHash is like ArtifactHash but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustArtifactHash(component string, cat Category, expr Expr) string {
	h, err := ArtifactHash(component, cat, expr)
	if err != nil {
		panic(err)
	}
	return h
}
