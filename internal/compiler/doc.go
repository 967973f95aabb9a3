// Package compiler synthesizes update dispatchers for components.
//
// Given a component's statement and variable tables plus the main and
// epilogue statement sequences of the function being generated, Synthesize
// emits a single expression telling the runtime which statement updaters
// must re-run when one prop (or one piece of state) changes.
//
// The pipeline runs one way:
//
//	NameStatements -> CanonicalOrder -> Resolve -> BuildUniverse -> Synthesize
//
// Every index in the emitted key mapping points into the dependency
// universe array emitted alongside it, never into the full canonical order.
//
// The package also compiles component tables from CUE (CompileComponent)
// and validates them ahead of synthesis (ValidateComponent,
// AnalyzeLocalCycles).
package compiler
