package model

import "time"

// PlayerSession is the cached metadata of one checkpoint player session
type PlayerSession struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	CourseID    string    `json:"courseId"`
	VideoID     string    `json:"videoId"`
	ModuleIndex int       `json:"moduleIndex"`
	State       string    `json:"state"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// StartSessionRequest opens a player session for a course
type StartSessionRequest struct {
	VideoID string `json:"videoId"`
}

// TimeSampleRequest carries one elapsed-time sample
type TimeSampleRequest struct {
	Elapsed float64 `json:"elapsed"`
}

// QuizSubmitRequest carries the selected option
type QuizSubmitRequest struct {
	Option string `json:"option"`
}

// ProjectSubmitRequest carries the repository URL
type ProjectSubmitRequest struct {
	RepoURL string `json:"repoUrl"`
}

// InterviewSubmitRequest carries the free-text answer
type InterviewSubmitRequest struct {
	Answer string `json:"answer"`
}
