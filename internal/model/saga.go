package model

import "time"

// SagaStep names one external step of module completion
type SagaStep string

const (
	StepAnswerCheck SagaStep = "answer_check"
	StepMint        SagaStep = "mint"
	StepPersist     SagaStep = "persist"
)

// StepStatus is the recorded outcome of a saga step
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepSucceeded StepStatus = "succeeded"
	StepFailed    StepStatus = "failed"
)

// StepOutcome records one attempt of a step
type StepOutcome struct {
	Step   SagaStep   `json:"step" bson:"step"`
	Status StepStatus `json:"status" bson:"status"`
	Error  string     `json:"error,omitempty" bson:"error,omitempty"`
	At     time.Time  `json:"at" bson:"at"`
}

// CompletionSaga tracks check -> mint -> persist for one module
type CompletionSaga struct {
	ID          string        `json:"id" bson:"_id"`
	SessionID   string        `json:"sessionId" bson:"sessionId"`
	Email       string        `json:"email" bson:"email"`
	CourseID    string        `json:"courseId" bson:"courseId"`
	ModuleIndex int           `json:"moduleIndex" bson:"moduleIndex"`
	Mint        *MintResult   `json:"mint,omitempty" bson:"mint,omitempty"`
	Steps       []StepOutcome `json:"steps" bson:"steps"`
	Reconciled  bool          `json:"reconciled" bson:"reconciled"`
	UpdatedAt   time.Time     `json:"updatedAt" bson:"updatedAt"`

	// Pending is the persistence call to replay during reconciliation
	Pending *SaveProjectRequest `json:"pending,omitempty" bson:"pending,omitempty"`
}

// Record appends a step outcome
func (s *CompletionSaga) Record(step SagaStep, status StepStatus, err error) {
	o := StepOutcome{Step: step, Status: status, At: time.Now()}
	if err != nil {
		o.Error = err.Error()
	}
	s.Steps = append(s.Steps, o)
	s.UpdatedAt = o.At
}

// Last returns the latest outcome for a step, if any
func (s *CompletionSaga) Last(step SagaStep) (StepOutcome, bool) {
	for i := len(s.Steps) - 1; i >= 0; i-- {
		if s.Steps[i].Step == step {
			return s.Steps[i], true
		}
	}
	return StepOutcome{}, false
}

// NeedsReconciliation is true when a token exists on chain but was not recorded
func (s *CompletionSaga) NeedsReconciliation() bool {
	if s.Mint == nil || !s.Mint.Success {
		return false
	}
	last, ok := s.Last(StepPersist)
	return !ok || last.Status != StepSucceeded
}
