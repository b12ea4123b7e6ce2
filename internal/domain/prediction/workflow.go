package prediction

// WorkflowState is a step of the prediction workflow. The sequence is
// Idle -> Analyzing -> ResultsReady -> Saved; a failed analysis or a
// discarded result returns to Idle.
type WorkflowState string

const (
	StateIdle         WorkflowState = "idle"
	StateAnalyzing    WorkflowState = "analyzing"
	StateResultsReady WorkflowState = "results_ready"
	StateSaved        WorkflowState = "saved"
)

// Workflow sequences a single analyze-then-save interaction. It carries no
// retry or cancellation semantics; the only failure transition is back to Idle.
type Workflow struct {
	state WorkflowState
}

func NewWorkflow() *Workflow {
	return &Workflow{state: StateIdle}
}

func (w *Workflow) State() WorkflowState {
	return w.state
}

// Begin starts an analysis from the idle state.
func (w *Workflow) Begin() error {
	if w.state != StateIdle {
		return ErrInvalidTransition
	}
	w.state = StateAnalyzing
	return nil
}

// Complete records a finished analysis, making results available to save.
func (w *Workflow) Complete() error {
	if w.state != StateAnalyzing {
		return ErrInvalidTransition
	}
	w.state = StateResultsReady
	return nil
}

// Fail aborts a running analysis and returns to idle.
func (w *Workflow) Fail() error {
	if w.state != StateAnalyzing {
		return ErrInvalidTransition
	}
	w.state = StateIdle
	return nil
}

// Save persists the ready results, ending the workflow.
func (w *Workflow) Save() error {
	if w.state != StateResultsReady {
		return ErrInvalidTransition
	}
	w.state = StateSaved
	return nil
}

// Discard throws away ready results and returns to idle.
func (w *Workflow) Discard() error {
	if w.state != StateResultsReady {
		return ErrInvalidTransition
	}
	w.state = StateIdle
	return nil
}
