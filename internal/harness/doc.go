// Package harness runs updater synthesis against YAML scenarios.
//
// A scenario describes one component's tables and sequences, the
// identifiers to emit, and assertions over the synthesized updaters. Run
// synthesizes both categories, records them in a throwaway artifact store,
// and evaluates the assertions.
//
// # Scenario Format
//
//	name: shared_local
//	description: "Two props depend on one local"
//	component:
//	  name: Counter
//	  needs_prop_transaction: false
//	  statements:
//	    - key: a
//	      deps: ["prop,x"]
//	    - key: b
//	      deps: ["local,l1"]
//	      updater: recomputeB   # optional
//	  variables:
//	    - key: "local,l1"
//	      deps: ["state,b"]
//	    - key: "prop,x_dep"
//	      deps: ["local,l1"]
//	  body: [update_a, recomputeB]
//	  finally: []
//	options:                    # optional, defaults match the runtime
//	  dispatcher: propUpdater
//	assertions:
//	  - type: code
//	    category: prop
//	    code: 'propUpdater($$props, [recomputeB], [["x_dep", [0]]], true)'
//	  - type: no_op
//	    category: state
//
// # Assertion Types
//
//   - code: rendered updater equals code (annotated when annotate is set)
//   - no_op: the category tracks nothing
//   - universe: the category's updater universe equals updaters
//   - key_deps: key depends on exactly updaters, in resolution order
//   - order: the canonical order equals order
//   - error: synthesis fails with code (E2xx)
//   - warning: some warning of the category contains text
//
// # Deterministic Testing
//
// Artifacts are recorded with a fixed build ID and a deterministic logical
// clock, so golden snapshots are identical across runs.
package harness
