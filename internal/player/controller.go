package player

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"nishtha/internal/model"
)

// checkpoint is the per-boundary session state, discarded on resolve or replay
type checkpoint struct {
	stage         Stage
	questionIndex int
	selected      *string
	repoURL       string
	review        *model.ProjectReview
	answer        string
	saga          *model.CompletionSaga
}

// Controller is the checkpoint player state machine. It is the only mutator
// of playback and checkpoint state; all methods are safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	session Session
	deps    Deps

	modules []model.Module
	index   int
	state   State
	playing bool
	elapsed float64

	cp      *checkpoint
	lastErr string
	busy    bool
	proofs  []model.VerifiedProject
}

// New creates a controller for one learner and course
func New(session Session, deps Deps) *Controller {
	if len(deps.Skills) == 0 {
		deps.Skills = DefaultSkills
	}
	return &Controller{
		session: session,
		deps:    deps,
		state:   StatePlaying,
	}
}

// LoadCourse installs the module list and resets the session to module 0
func (c *Controller) LoadCourse(modules []model.Module) error {
	if len(modules) == 0 {
		return fmt.Errorf("%w: no modules", ErrInvalidCourse)
	}
	for i, m := range modules {
		if m.StartTime < 0 || m.EndTime <= m.StartTime {
			return fmt.Errorf("%w: module %d has bounds [%v, %v]", ErrInvalidCourse, i, m.StartTime, m.EndTime)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.modules = append([]model.Module(nil), modules...)
	c.index = 0
	c.state = StatePlaying
	c.playing = false
	c.elapsed = modules[0].StartTime
	c.cp = nil
	c.lastErr = ""
	c.busy = false
	return nil
}

// OnPlaybackChange records play/pause reported by the surface
func (c *Controller) OnPlaybackChange(playing bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = playing
}

// OnTimeUpdate handles a periodic elapsed-time sample
func (c *Controller) OnTimeUpdate(elapsed float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = elapsed
	if c.modules == nil || c.cp != nil || c.state != StatePlaying {
		return
	}
	if elapsed >= c.modules[c.index].EndTime {
		c.openCheckpoint()
	}
}

// OnMediaEnded handles the end of the video
func (c *Controller) OnMediaEnded() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playing = false
	if c.modules == nil || c.cp != nil || c.state != StatePlaying {
		return
	}
	c.openCheckpoint()
}

// SelectOption records the highlighted quiz option without submitting it
func (c *Controller) SelectOption(option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cp == nil || c.cp.stage != StageQuiz {
		return ErrWrongStage
	}
	c.cp.selected = &option
	return nil
}

// SubmitQuizAnswer checks option against the current question. An empty
// option submits the previously selected one.
func (c *Controller) SubmitQuizAnswer(option string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modules == nil {
		return ErrNotLoaded
	}
	if c.cp == nil || c.cp.stage != StageQuiz || c.state != StateCheckpoint {
		return ErrWrongStage
	}
	if option == "" && c.cp.selected != nil {
		option = *c.cp.selected
	}
	if option == "" {
		c.lastErr = MsgMissingOption
		return ErrInvalidInput
	}

	m := &c.modules[c.index]
	q := m.QuizData[c.cp.questionIndex]
	if option != q.Answer {
		c.cp.selected = &option
		return c.reject(MsgWrongAnswer)
	}

	c.lastErr = ""
	c.cp.selected = nil
	if c.cp.questionIndex < len(m.QuizData)-1 {
		c.cp.questionIndex++
		return nil
	}
	if m.HasProject() {
		c.setStage(StageProject)
		return nil
	}
	c.completeModule()
	return nil
}

// SubmitProject sends the repository for review. The call runs without the
// lock held; concurrent submissions get ErrBusy.
func (c *Controller) SubmitProject(ctx context.Context, repoURL string) error {
	ctx = detach(ctx)
	c.mu.Lock()
	if err := c.beginSubmit(StageProject); err != nil {
		c.mu.Unlock()
		return err
	}
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		c.lastErr = MsgMissingRepoURL
		c.mu.Unlock()
		return ErrInvalidInput
	}
	if c.deps.Reviewer == nil {
		c.mu.Unlock()
		return c.failLocked(defaultReviewFailure)
	}
	c.busy = true
	c.lastErr = ""
	c.cp.repoURL = repoURL
	brief := c.modules[c.index].Brief()
	c.mu.Unlock()

	review, err := c.deps.Reviewer.Review(ctx, repoURL, brief)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	if err != nil {
		return c.reject(err.Error())
	}
	if review == nil {
		return c.reject(defaultReviewFailure)
	}
	if !review.SolvesBrief {
		msg := review.Feedback
		if msg == "" {
			msg = MsgBriefNotMet
		}
		return c.reject(msg)
	}
	c.cp.review = review
	c.setStage(StageInterview)
	return nil
}

// SubmitInterviewAnswer runs the completion saga: answer check, mint, then
// persistence. In the reconcile state it only retries persistence.
func (c *Controller) SubmitInterviewAnswer(ctx context.Context, text string) error {
	ctx = detach(ctx)
	c.mu.Lock()
	if c.state == StateReconcile {
		c.mu.Unlock()
		return c.RetryPersist(ctx)
	}
	if err := c.beginSubmit(StageInterview); err != nil {
		c.mu.Unlock()
		return err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		c.lastErr = MsgMissingAnswer
		c.mu.Unlock()
		return ErrInvalidInput
	}
	if c.session.Email == "" || c.session.WalletAddress == "" {
		c.lastErr = MsgUserNotFound
		c.mu.Unlock()
		return ErrInvalidInput
	}
	c.busy = true
	c.lastErr = ""
	c.cp.answer = text
	cp := c.cp
	m := c.modules[c.index]
	saga := &model.CompletionSaga{
		ID:          uuid.New().String(),
		SessionID:   c.session.ID,
		Email:       c.session.Email,
		CourseID:    c.session.CourseID,
		ModuleIndex: c.index,
		UpdatedAt:   time.Now(),
	}
	c.mu.Unlock()

	msg, mintErr := c.checkAndMint(ctx, saga, cp, m, text)
	if mintErr != nil {
		c.recordSaga(ctx, saga)
		c.mu.Lock()
		defer c.mu.Unlock()
		c.busy = false
		cp.saga = saga
		return c.reject(msg)
	}

	proof, err := c.persist(ctx, saga, cp, m)
	c.recordSaga(ctx, saga)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	cp.saga = saga
	if err != nil {
		return c.enterReconcile()
	}
	c.finishProof(proof)
	return nil
}

// RetryPersist retries the persistence step of a saga whose mint succeeded
func (c *Controller) RetryPersist(ctx context.Context) error {
	ctx = detach(ctx)
	c.mu.Lock()
	if c.state != StateReconcile || c.cp == nil || c.cp.saga == nil {
		c.mu.Unlock()
		return ErrWrongStage
	}
	if c.busy {
		c.mu.Unlock()
		return ErrBusy
	}
	c.busy = true
	c.lastErr = ""
	cp := c.cp
	saga := cloneSaga(cp.saga)
	m := c.modules[c.index]
	c.mu.Unlock()

	proof, err := c.persist(ctx, saga, cp, m)
	if err == nil {
		saga.Reconciled = true
	}
	c.recordSaga(ctx, saga)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
	cp.saga = saga
	if err != nil {
		return c.enterReconcile()
	}
	c.finishProof(proof)
	return nil
}

// ReplayCurrentModule discards the checkpoint and rewinds to the module start.
// It is refused in the reconcile state: the minted proof is still unrecorded.
func (c *Controller) ReplayCurrentModule() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.modules == nil {
		return ErrNotLoaded
	}
	if c.busy {
		return ErrBusy
	}
	if c.state == StateReconcile {
		return ErrWrongStage
	}
	start := c.modules[c.index].StartTime
	c.cp = nil
	c.lastErr = ""
	c.state = StatePlaying
	c.elapsed = start
	c.playing = true
	if s := c.deps.Surface; s != nil {
		s.Seek(start)
		s.Play()
	}
	return nil
}

// Stage returns the current checkpoint stage
func (c *Controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cp == nil {
		return StageNone
	}
	return c.cp.stage
}

// State returns the coarse state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ModuleIndex returns the current module index
func (c *Controller) ModuleIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// LastError returns the message shown with the current stage
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Elapsed returns the last observed elapsed time
func (c *Controller) Elapsed() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// Proofs returns the proof records stored during this session
func (c *Controller) Proofs() []model.VerifiedProject {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.VerifiedProject(nil), c.proofs...)
}

// Saga returns a copy of the open checkpoint's saga, if any
func (c *Controller) Saga() *model.CompletionSaga {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cp == nil || c.cp.saga == nil {
		return nil
	}
	return cloneSaga(c.cp.saga)
}

func cloneSaga(s *model.CompletionSaga) *model.CompletionSaga {
	out := *s
	out.Steps = append([]model.StepOutcome(nil), s.Steps...)
	if s.Mint != nil {
		mint := *s.Mint
		out.Mint = &mint
	}
	if s.Pending != nil {
		pending := *s.Pending
		out.Pending = &pending
	}
	return &out
}

// --- transitions, called with c.mu held ---

func (c *Controller) openCheckpoint() {
	if s := c.deps.Surface; s != nil {
		s.Pause()
	}
	c.playing = false
	c.state = StateCheckpoint
	c.cp = &checkpoint{stage: StageNone}
	c.lastErr = ""

	m := &c.modules[c.index]
	switch {
	case len(m.QuizData) > 0:
		c.cp.stage = StageQuiz
	case m.HasProject():
		c.cp.stage = StageProject
	default:
		c.completeModule()
		return
	}
	c.notify(Event{Kind: EventCheckpointOpened, ModuleIndex: c.index, Stage: c.cp.stage})
}

func (c *Controller) setStage(stage Stage) {
	c.cp.stage = stage
	c.notify(Event{Kind: EventStageChanged, ModuleIndex: c.index, Stage: stage})
}

func (c *Controller) completeModule() {
	c.state = StateModuleComplete
	c.cp = nil
	c.busy = false
	c.lastErr = ""
	done := c.index
	next := c.index + 1
	if next >= len(c.modules) {
		c.state = StateCourseComplete
		c.notify(Event{Kind: EventCourseComplete, ModuleIndex: done, Message: MsgCourseComplete})
		return
	}
	c.index = next
	start := c.modules[next].StartTime
	c.elapsed = start
	c.state = StatePlaying
	c.playing = true
	if s := c.deps.Surface; s != nil {
		s.Seek(start)
		s.Play()
	}
	c.notify(Event{Kind: EventModuleComplete, ModuleIndex: done})
}

func (c *Controller) enterReconcile() error {
	c.state = StateReconcile
	c.lastErr = MsgSaveFailed
	c.notify(Event{Kind: EventReconcileNeeded, ModuleIndex: c.index, Stage: StageInterview, Message: MsgSaveFailed})
	return fmt.Errorf("%w: %s", ErrReconcileNeeded, MsgSaveFailed)
}

func (c *Controller) finishProof(proof *model.VerifiedProject) {
	if proof != nil {
		c.proofs = append(c.proofs, *proof)
		c.notify(Event{Kind: EventProofRecorded, ModuleIndex: c.index, Proof: proof})
	}
	c.completeModule()
}

func (c *Controller) beginSubmit(stage Stage) error {
	if c.modules == nil {
		return ErrNotLoaded
	}
	if c.busy {
		return ErrBusy
	}
	if c.state != StateCheckpoint || c.cp == nil || c.cp.stage != stage {
		return ErrWrongStage
	}
	return nil
}

func (c *Controller) reject(msg string) error {
	c.lastErr = msg
	return fmt.Errorf("%w: %s", ErrRejected, msg)
}

func (c *Controller) failLocked(msg string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reject(msg)
}

func (c *Controller) notify(e Event) {
	if c.deps.Notifier != nil {
		c.deps.Notifier.Notify(e)
	}
}

// --- external saga steps, called without the lock ---

func (c *Controller) checkAndMint(ctx context.Context, saga *model.CompletionSaga, cp *checkpoint, m model.Module, text string) (string, error) {
	if c.deps.Checker == nil || c.deps.Minter == nil {
		err := fmt.Errorf("completion services not configured")
		saga.Record(model.StepAnswerCheck, model.StepFailed, err)
		return err.Error(), err
	}

	question := ""
	if cp.review != nil {
		question = cp.review.VerificationQuestion
	}
	check, err := c.deps.Checker.Check(ctx, question, text)
	if err != nil {
		saga.Record(model.StepAnswerCheck, model.StepFailed, err)
		return err.Error(), err
	}
	if check == nil || !check.IsCorrect {
		err := fmt.Errorf("answer incorrect")
		saga.Record(model.StepAnswerCheck, model.StepFailed, err)
		return MsgInterviewWrong, err
	}
	saga.Record(model.StepAnswerCheck, model.StepSucceeded, nil)

	mint, err := c.deps.Minter.Mint(ctx, model.MintRequest{
		UserWalletAddress: c.session.WalletAddress,
		ProjectName:       m.Name,
		CourseName:        c.session.CourseTitle,
	})
	if err != nil {
		saga.Record(model.StepMint, model.StepFailed, err)
		return mintFailedPrefix + err.Error(), err
	}
	if mint == nil || !mint.Success {
		reason := mintUnknownReason
		if mint != nil && mint.Error != "" {
			reason = mint.Error
		}
		err := fmt.Errorf("%s", reason)
		saga.Mint = mint
		saga.Record(model.StepMint, model.StepFailed, err)
		return mintFailedPrefix + reason, err
	}
	saga.Mint = mint
	saga.Record(model.StepMint, model.StepSucceeded, nil)
	return "", nil
}

func (c *Controller) persist(ctx context.Context, saga *model.CompletionSaga, cp *checkpoint, m model.Module) (*model.VerifiedProject, error) {
	if c.deps.Store == nil {
		err := fmt.Errorf("proof store not configured")
		saga.Record(model.StepPersist, model.StepFailed, err)
		return nil, err
	}
	feedback := ""
	if cp.review != nil {
		feedback = cp.review.Feedback
	}
	req := model.SaveProjectRequest{
		UserEmail:         c.session.Email,
		UserWalletAddress: c.session.WalletAddress,
		CourseName:        c.session.CourseTitle,
		ProjectName:       m.Name,
		ProjectBrief:      m.Brief(),
		AIFeedback:        feedback,
		Skills:            append([]string(nil), c.deps.Skills...),
		TransactionHash:   saga.Mint.TransactionHash,
		TokenID:           saga.Mint.TokenID,
	}
	saga.Pending = &req
	proof, err := c.deps.Store.SaveProject(ctx, req)
	if err != nil {
		saga.Record(model.StepPersist, model.StepFailed, err)
		return nil, err
	}
	saga.Record(model.StepPersist, model.StepSucceeded, nil)
	return proof, nil
}

func (c *Controller) recordSaga(ctx context.Context, saga *model.CompletionSaga) {
	if c.deps.Sagas == nil {
		return
	}
	// best effort, the in-memory saga stays authoritative
	_ = c.deps.Sagas.RecordSaga(ctx, saga)
}

// detach keeps the caller's values but drops its cancellation, so a
// submission runs to completion after its request goes away
func detach(ctx context.Context) context.Context {
	return context.WithoutCancel(ctx)
}
