package model

import "time"

// QuizQuestion is one multiple-choice check; Answer must equal one of Options exactly
type QuizQuestion struct {
	Question string   `json:"question" bson:"question" yaml:"question"`
	Options  []string `json:"options" bson:"options" yaml:"options"`
	Answer   string   `json:"answer" bson:"answer" yaml:"answer"`
}

// Module is one segment of the source video, gated by its checkpoint
type Module struct {
	Name         string         `json:"name" bson:"name" yaml:"name"`
	StartTime    float64        `json:"startTime" bson:"startTime" yaml:"startTime"` // seconds
	EndTime      float64        `json:"endTime" bson:"endTime" yaml:"endTime"`       // seconds, > StartTime
	QuizData     []QuizQuestion `json:"quizData" bson:"quizData" yaml:"quizData"`
	ProjectBrief *string        `json:"projectBrief" bson:"projectBrief,omitempty" yaml:"projectBrief"`
}

// HasProject reports whether the module carries a non-empty project brief
func (m *Module) HasProject() bool {
	return m.ProjectBrief != nil && *m.ProjectBrief != ""
}

// Brief returns the project brief or an empty string
func (m *Module) Brief() string {
	if m.ProjectBrief == nil {
		return ""
	}
	return *m.ProjectBrief
}

// Course is a generated course plan, cached per video URL
type Course struct {
	ID          string    `json:"id" bson:"_id,omitempty" yaml:"-"`
	VideoURL    string    `json:"videoURL" bson:"videoURL" yaml:"videoURL"`
	VideoID     string    `json:"videoID" bson:"videoID" yaml:"videoID"`
	CourseTitle string    `json:"courseTitle" bson:"courseTitle" yaml:"courseTitle"`
	Modules     []Module  `json:"modules" bson:"modules" yaml:"modules"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt" yaml:"-"`
}

// CoursePlan is the raw shape the planner model returns
type CoursePlan struct {
	CourseTitle string   `json:"courseTitle"`
	Modules     []Module `json:"modules"`
}

// GeneratedQuiz is the standalone quiz built from a whole video
type GeneratedQuiz struct {
	FullTranscript string         `json:"fullTranscript"`
	Quiz           []QuizQuestion `json:"quiz"`
}

// GeneratePlanRequest is the request body for course plan generation
type GeneratePlanRequest struct {
	VideoURL string `json:"videoURL"`
}
