package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/specialize/internal/ir"
	"github.com/roach88/specialize/internal/specialize"
)

// Scenario is a list of calls into specialized routines, each with its
// expected outcome.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden report.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Calls run in order, each against the routine for its algorithm and kind.
	Calls []Call `yaml:"calls"`
}

// Call invokes one specialized routine.
//
// Values are kept as literals and parsed for the call's kind when it runs,
// so the same file can exercise int32 and float64 routines alike.
type Call struct {
	// Algorithm is "dot" or "factorial".
	Algorithm string `yaml:"algorithm"`

	// Kind is the kind name the routine is specialized to ("int32", ...).
	Kind string `yaml:"kind"`

	// A and B are the dot product inputs.
	A []string `yaml:"a,omitempty"`
	B []string `yaml:"b,omitempty"`

	// N is the factorial input.
	N string `yaml:"n,omitempty"`

	// Expect is the expected result literal.
	Expect string `yaml:"expect,omitempty"`

	// Tolerance is the relative error accepted for float kinds.
	// Zero requires an exact match.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// ErrorCode, when set, expects the call to fail with this code
	// (e.g. "E103") instead of producing a value.
	ErrorCode string `yaml:"error_code,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
//
// Kinds are not required to be numeric: a call may name "bool" to check that
// the routine is rejected with E103.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Calls) == 0 {
		return fmt.Errorf("calls list is required and must be non-empty")
	}

	for i := range s.Calls {
		if err := validateCall(i, &s.Calls[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateCall validates a single call based on its algorithm.
func validateCall(index int, c *Call) error {
	if c.Algorithm == "" {
		return fmt.Errorf("calls[%d]: algorithm is required", index)
	}
	if !slices.Contains(specialize.Algorithms(), c.Algorithm) {
		return fmt.Errorf("calls[%d]: unknown algorithm %q", index, c.Algorithm)
	}
	if c.Kind == "" {
		return fmt.Errorf("calls[%d]: kind is required", index)
	}

	switch {
	case c.Expect == "" && c.ErrorCode == "":
		return fmt.Errorf("calls[%d]: one of expect or error_code is required", index)
	case c.Expect != "" && c.ErrorCode != "":
		return fmt.Errorf("calls[%d]: expect and error_code are mutually exclusive", index)
	}

	switch c.Algorithm {
	case specialize.AlgorithmDotProduct:
		if c.N != "" {
			return fmt.Errorf("calls[%d]: n is not an input of %s", index, c.Algorithm)
		}
	case specialize.AlgorithmFactorial:
		if c.N == "" {
			return fmt.Errorf("calls[%d]: n is required for %s", index, c.Algorithm)
		}
		if len(c.A) > 0 || len(c.B) > 0 {
			return fmt.Errorf("calls[%d]: a and b are not inputs of %s", index, c.Algorithm)
		}
	}

	if c.Tolerance < 0 {
		return fmt.Errorf("calls[%d]: tolerance must be non-negative", index)
	}
	if c.Tolerance > 0 {
		if kind, err := ir.ParseKind(c.Kind); err == nil && kind.IsInteger() {
			return fmt.Errorf("calls[%d]: tolerance applies to float kinds only, not %v", index, kind)
		}
	}

	return nil
}
