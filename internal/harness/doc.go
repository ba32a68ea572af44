// Package harness runs YAML scenarios against specialized routines.
//
// A scenario lists calls into the dot product and factorial routines, each
// with the kind to specialize to and the expected result or error code.
//
// # Scenario Format
//
//	name: dot_examples
//	description: "Dot products across kinds"
//	calls:
//	  - algorithm: dot
//	    kind: int32
//	    a: [1, 2, 3]
//	    b: [10, 20, 30]
//	    expect: 140
//	  - algorithm: dot
//	    kind: float32
//	    a: [0.1, 0.2]
//	    b: [3, 3]
//	    expect: 0.9
//	    tolerance: 1e-6
//	  - algorithm: factorial
//	    kind: int32
//	    n: 5
//	    expect: 120
//	  - algorithm: dot
//	    kind: bool
//	    error_code: E103
//
// Values are literals parsed for the call's kind at run time. Unknown fields
// are rejected, which catches typos such as "expects:".
//
// # Deterministic Reports
//
// Calls carry a sequence number starting at 1 and results are formatted in
// the canonical literal form of their kind, so a scenario always yields the
// same report. Reports are compared with golden files under testdata/golden.
//
// # Usage
//
//	scenario, err := harness.LoadScenario("testdata/scenarios/dot.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := harness.Run(scenario)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, msg := range result.Errors {
//	    log.Println(msg)
//	}
package harness
