package store

import "github.com/roach88/updatesynth/internal/ir"

// Build is one synth run over a source directory.
type Build struct {
	ID        string `json:"id"`
	SourceDir string `json:"source_dir"`
	Seq       int64  `json:"seq"`
}

// Artifact is one recorded updater.
type Artifact struct {
	ID        int64       `json:"id"`
	BuildID   string      `json:"build_id"`
	Component string      `json:"component"`
	Category  ir.Category `json:"category"`
	Hash      string      `json:"hash"`
	Code      string      `json:"code"`
	Canonical string      `json:"canonical"`
	Seq       int64       `json:"seq"`
}
