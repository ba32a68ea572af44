package harness

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/sebdah/goldie/v2"
)

// Report renders the result as indented JSON with a trailing newline.
// Field order follows the struct definitions, so reports are byte-stable.
func (r *Result) Report() ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario and compares its report against a golden
// file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot run. A report mismatch fails t
// through goldie.
func RunWithGolden(t *testing.T, scenario *Scenario, opts ...Option) error {
	t.Helper()

	result, err := Run(scenario, opts...)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result's report against the golden file
// named name.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	report, err := result.Report()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, report)

	return nil
}
