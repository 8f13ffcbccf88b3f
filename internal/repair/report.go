package repair

// Step names one reconciliation step.
type Step string

const (
	StepGroup      Step = "group"
	StepUser       Step = "user"
	StepCgroups    Step = "cgroups"
	StepLimits     Step = "limits"
	StepAcceptNode Step = "accept-node"
)

type Outcome int

const (
	// OutcomePresent means nothing needed doing.
	OutcomePresent Outcome = iota
	OutcomeFixed
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePresent:
		return "present"
	case OutcomeFixed:
		return "fixed"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

type StepResult struct {
	// Gear is empty for node-wide steps.
	Gear    string
	Step    Step
	Outcome Outcome
	Err     error
}

type Report struct {
	RunID    string
	Gears    int
	Fixed    int
	Failures int
	Steps    []StepResult
}

func (r *Report) add(res StepResult) {
	r.Steps = append(r.Steps, res)
}

// OK reports whether the run finished without any failures.
func (r *Report) OK() bool {
	return r.Failures == 0
}

// Failed returns the failed steps in run order.
func (r *Report) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if s.Outcome == OutcomeFailed {
			out = append(out, s)
		}
	}
	return out
}
