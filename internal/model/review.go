package model

// ProjectReview is the reviewer's verdict on a submitted repository
type ProjectReview struct {
	SolvesBrief          bool    `json:"solvesBrief" bson:"solvesBrief"`
	QualityScore         float64 `json:"qualityScore" bson:"qualityScore"` // 1-10
	Feedback             string  `json:"feedback" bson:"feedback"`
	VerificationQuestion string  `json:"verificationQuestion" bson:"verificationQuestion"`
}

// ReviewRequest is the request body for a project review
type ReviewRequest struct {
	GithubRepoURL string `json:"githubRepoUrl"`
	ProjectBrief  string `json:"projectBrief"`
}

// AnswerCheckRequest is the request body for an interview answer check
type AnswerCheckRequest struct {
	Question   string `json:"question"`
	UserAnswer string `json:"userAnswer"`
}

// AnswerCheck is the grader's verdict
type AnswerCheck struct {
	IsCorrect bool `json:"isCorrect"`
}

// MintRequest asks for a proof token to be minted to a wallet
type MintRequest struct {
	UserWalletAddress string `json:"userWalletAddress"`
	ProjectName       string `json:"projectName"`
	CourseName        string `json:"courseName"`
}

// MintResult is the outcome of a proof mint
type MintResult struct {
	Success         bool   `json:"success" bson:"success"`
	TransactionHash string `json:"transactionHash" bson:"transactionHash"`
	TokenID         string `json:"tokenId" bson:"tokenId"`
	Message         string `json:"message,omitempty" bson:"message,omitempty"`
	Error           string `json:"error,omitempty" bson:"error,omitempty"`
}
