package player

import "nishtha/internal/model"

// QuestionView is a quiz question without its answer
type QuestionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// Snapshot is a read-only view of the controller for clients
type Snapshot struct {
	SessionID            string                  `json:"sessionId"`
	CourseTitle          string                  `json:"courseTitle"`
	State                State                   `json:"state"`
	Stage                Stage                   `json:"stage"`
	ModuleIndex          int                     `json:"moduleIndex"`
	ModuleCount          int                     `json:"moduleCount"`
	ModuleName           string                  `json:"moduleName,omitempty"`
	NextCheckpoint       float64                 `json:"nextCheckpoint"`
	Elapsed              float64                 `json:"elapsed"`
	Playing              bool                    `json:"playing"`
	QuestionIndex        int                     `json:"questionIndex"`
	QuestionCount        int                     `json:"questionCount"`
	Question             *QuestionView           `json:"question,omitempty"`
	SelectedOption       string                  `json:"selectedOption,omitempty"`
	ProjectBrief         string                  `json:"projectBrief,omitempty"`
	Review               *model.ProjectReview    `json:"review,omitempty"`
	VerificationQuestion string                  `json:"verificationQuestion,omitempty"`
	LastError            string                  `json:"lastError,omitempty"`
	Busy                 bool                    `json:"busy"`
	Proofs               []model.VerifiedProject `json:"proofs,omitempty"`
}

// Snapshot captures the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Snapshot{
		SessionID:   c.session.ID,
		CourseTitle: c.session.CourseTitle,
		State:       c.state,
		Stage:       StageNone,
		ModuleIndex: c.index,
		ModuleCount: len(c.modules),
		Elapsed:     c.elapsed,
		Playing:     c.playing,
		LastError:   c.lastErr,
		Busy:        c.busy,
		Proofs:      append([]model.VerifiedProject(nil), c.proofs...),
	}
	if c.modules == nil {
		return s
	}
	m := &c.modules[c.index]
	s.ModuleName = m.Name
	s.NextCheckpoint = m.EndTime
	s.QuestionCount = len(m.QuizData)
	if c.cp == nil {
		return s
	}

	s.Stage = c.cp.stage
	switch c.cp.stage {
	case StageQuiz:
		q := m.QuizData[c.cp.questionIndex]
		s.QuestionIndex = c.cp.questionIndex
		s.Question = &QuestionView{Question: q.Question, Options: append([]string(nil), q.Options...)}
		if c.cp.selected != nil {
			s.SelectedOption = *c.cp.selected
		}
	case StageProject:
		s.ProjectBrief = m.Brief()
	case StageInterview:
		s.ProjectBrief = m.Brief()
		if c.cp.review != nil {
			r := *c.cp.review
			s.Review = &r
			s.VerificationQuestion = r.VerificationQuestion
		}
	}
	return s
}
