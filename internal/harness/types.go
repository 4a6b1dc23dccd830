package harness

// TraceEvent records one executed flow step.
type TraceEvent struct {
	Step      int    `json:"step"`
	Action    string `json:"action"`
	Habit     string `json:"habit,omitempty"`
	Day       *int   `json:"day,omitempty"`
	Week      string `json:"week"`
	Outcome   string `json:"outcome"`
	Streak    *int   `json:"streak,omitempty"`
	Milestone string `json:"milestone,omitempty"`
	Revision  int64  `json:"revision"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	Trace []TraceEvent `json:"trace"`

	Errors []string `json:"errors,omitempty"`

	// Notices are the milestone messages delivered, in order.
	Notices []string `json:"notices,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

func (r *Result) addEvent(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
