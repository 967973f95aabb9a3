// Package ir provides the intermediate representation consumed and produced
// by the updater synthesizer.
//
// Inputs are the component tables produced by an earlier dependency-analysis
// phase (statements, variables and the two statement sequences of the
// function being synthesized for). Output is a small expression tree that a
// later code-emission stage splices into the generated function body.
//
// This package contains type definitions, a debug printer and canonical
// serialization only. All other internal packages import ir; ir imports
// nothing internal.
//
// Key design constraints:
//   - Tables are ordered: iteration follows insertion order so synthesis is
//     deterministic across runs
//   - Composite "<category>,<name>" keys only exist at the input boundary;
//     everything past ParseKey uses the typed Key
//   - NO float types in canonical JSON - numeric literals are indices
package ir
