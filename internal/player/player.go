// Package player implements the checkpoint player: it watches playback of a
// course video, pauses at module boundaries and only lets the learner move on
// after the module's quiz, project review and interview have passed.
package player

import (
	"context"
	"errors"

	"nishtha/internal/model"
)

// State is the coarse state of a player session
type State string

const (
	StatePlaying        State = "playing"
	StateCheckpoint     State = "checkpoint"
	StateModuleComplete State = "module_complete"
	// StateReconcile means a proof was minted but could not be recorded
	StateReconcile      State = "reconcile"
	StateCourseComplete State = "course_complete"
)

// Stage is the sub-step of an open checkpoint
type Stage string

const (
	StageNone      Stage = "none"
	StageQuiz      Stage = "quiz"
	StageProject   Stage = "project"
	StageInterview Stage = "interview"
)

// User-facing messages
const (
	MsgWrongAnswer       = "That's not quite right. Try again!"
	MsgBriefNotMet       = "Your project does not meet the brief's requirements."
	MsgInterviewWrong    = "That answer wasn't quite right. Please try again."
	MsgSaveFailed        = "Failed to save your project to the database."
	MsgUserNotFound      = "Auth Error: User not found. Please refresh."
	MsgMissingRepoURL    = "Please enter your GitHub repo URL."
	MsgMissingAnswer     = "Please enter an answer."
	MsgMissingOption     = "Please select an answer."
	MsgCourseComplete    = "Congratulations! You completed the course! Time to build your resume."
	mintFailedPrefix     = "NFT minting failed: "
	mintUnknownReason    = "Unknown reason"
	defaultReviewFailure = "Code review failed."
)

var (
	ErrNotLoaded     = errors.New("course not loaded")
	ErrInvalidCourse = errors.New("invalid course")
	ErrWrongStage    = errors.New("operation not allowed in current stage")
	ErrBusy          = errors.New("a submission is already in flight")
	ErrInvalidInput  = errors.New("invalid input")
	// ErrRejected wraps logical rejections and external call failures; the
	// stage is unchanged and LastError holds the message
	ErrRejected = errors.New("checkpoint rejected")
	// ErrReconcileNeeded means the proof exists on chain but is not recorded
	ErrReconcileNeeded = errors.New("proof minted but not recorded")
)

// Session is the identity a controller acts for
type Session struct {
	ID            string
	Email         string
	WalletAddress string
	CourseID      string
	CourseTitle   string
	VideoID       string
}

// Surface is the playback surface. Implementations must not call back into
// the controller: they run with the controller lock held.
type Surface interface {
	Pause()
	Seek(seconds float64)
	Play()
}

// Reviewer grades a repository against a project brief
type Reviewer interface {
	Review(ctx context.Context, repoURL, brief string) (*model.ProjectReview, error)
}

// AnswerChecker grades a free-text answer
type AnswerChecker interface {
	Check(ctx context.Context, question, answer string) (*model.AnswerCheck, error)
}

// Minter mints a proof-of-completion token
type Minter interface {
	Mint(ctx context.Context, req model.MintRequest) (*model.MintResult, error)
}

// ProofStore persists the proof record; it must be idempotent on the
// transaction hash
type ProofStore interface {
	SaveProject(ctx context.Context, req model.SaveProjectRequest) (*model.VerifiedProject, error)
}

// SagaRecorder stores completion saga outcomes for later reconciliation
type SagaRecorder interface {
	RecordSaga(ctx context.Context, saga *model.CompletionSaga) error
}

// EventKind names a notification emitted by the controller
type EventKind string

const (
	EventCheckpointOpened EventKind = "checkpoint"
	EventStageChanged     EventKind = "stage_changed"
	EventModuleComplete   EventKind = "module_complete"
	EventCourseComplete   EventKind = "course_complete"
	EventProofRecorded    EventKind = "proof_recorded"
	EventReconcileNeeded  EventKind = "reconcile_needed"
)

// Event is a notification for the learner
type Event struct {
	Kind        EventKind              `json:"kind"`
	ModuleIndex int                    `json:"moduleIndex"`
	Stage       Stage                  `json:"stage,omitempty"`
	Message     string                 `json:"message,omitempty"`
	Proof       *model.VerifiedProject `json:"proof,omitempty"`
}

// Notifier receives controller events. Like Surface, it runs under the lock.
type Notifier interface {
	Notify(e Event)
}

// Deps are the collaborators of a controller. Notifier and Sagas are optional.
type Deps struct {
	Surface  Surface
	Reviewer Reviewer
	Checker  AnswerChecker
	Minter   Minter
	Store    ProofStore
	Notifier Notifier
	Sagas    SagaRecorder
	// Skills recorded on every proof; defaults to DefaultSkills
	Skills []string
}

// DefaultSkills are attached to proof records when none are configured
var DefaultSkills = []string{"JavaScript", "HTML", "CSS"}
