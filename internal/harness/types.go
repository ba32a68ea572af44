package harness

// CallEvent records one executed call. The golden report is the list of
// events, so every field is deterministic for a given scenario.
type CallEvent struct {
	Seq       int64    `json:"seq"`
	Algorithm string   `json:"algorithm"`
	Kind      string   `json:"kind"`
	A         []string `json:"a,omitempty"`
	B         []string `json:"b,omitempty"`
	N         string   `json:"n,omitempty"`
	Got       string   `json:"got,omitempty"`
	ErrorCode string   `json:"error_code,omitempty"`
	Pass      bool     `json:"pass"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the name of the scenario that produced this result.
	Scenario string `json:"scenario"`

	// Pass indicates overall success: every call matched its expectation.
	Pass bool `json:"pass"`

	// Calls contains one event per executed call, in order.
	Calls []CallEvent `json:"calls"`

	// Errors contains one message per failed call.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for scenario execution.
func NewResult(scenario string) *Result {
	return &Result{
		Scenario: scenario,
		Pass:     true,
		Calls:    []CallEvent{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddCall appends ev to the call trace.
func (r *Result) AddCall(ev CallEvent) {
	r.Calls = append(r.Calls, ev)
}
