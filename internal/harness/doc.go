// Package harness runs solver conformance scenarios.
//
// A scenario is a YAML file naming one instance and the outcome it must
// produce:
//
//	name: irving
//	description: Irving's six-participant example needs one rotation
//	preferences:
//	  "1": ["4", "6", "2", "5", "3"]
//	  ...
//	expect:
//	  outcome: success
//	  matching: {"1": "6", "2": "3", "4": "5"}
//	  rotations: 1
//	assertions:
//	  - type: trace_count
//	    kind: rotation
//	    count: 1
//
// Run solves the instance with tracing on and records the preference table
// at every checkpoint. Scenarios pass when the outcome matches and every
// assertion holds. RunWithGolden additionally pins the rendered tables in a
// goldie snapshot, so any change to the order of removals shows up as a diff.
//
// Malformed instances are a valid scenario outcome ("malformed", with the
// input error code as reason), so validation rules are covered the same way.
package harness
