// Package harness runs declaration conformance scenarios.
//
// A scenario names a CUE model, a generation config and the declarations the
// backend must produce for them. The harness compiles and validates the
// model, builds the manifest and checks every assertion.
//
// # Scenario Format
//
//	name: mlp_ac_stream
//	description: "Catapult streams with block RAM weights"
//	model: ../models/mlp.cue        # relative to the scenario file
//	config:                         # same keys as the hlsdecl config file
//	  dialect: ac
//	  io_type: stream
//	assertions:
//	  - type: typedef
//	    name: input_t
//	    text: "typedef array<ac_fixed<16,6,true>, 16> input_t;"
//	  - type: declaration
//	    name: input_1
//	    kind: stream
//	    declaration: 'stream<input_t> input_1("input_1")'
//	  - type: kind_count
//	    kind: bram_weight
//	    count: 2
//	  - type: declaration_order
//	    names: [input_1, layer2_out]
//
// A scenario may instead expect the build to fail:
//
//	expect:
//	  error: DEGENERATE_SHAPE
//
// # Assertion Types
//
//   - typedef: a typedef with the given name exists, optionally with the given text
//   - declaration: a declaration with the given name exists; kind, type,
//     declaration and reference are checked when set
//   - kind_count: exactly count declarations have the given kind
//   - declaration_order: the named declarations appear in this order
//
// # Golden Files
//
// RunWithGolden compares the text form of the manifest with
// testdata/golden/{name}.golden. Regenerate with
//
//	go test ./internal/harness -update
package harness
