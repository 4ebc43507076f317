package model

import "time"

// VerifiedProject is a proof record: a minted token plus the project it certifies
type VerifiedProject struct {
	ID              string    `json:"id" bson:"id"`
	CourseName      string    `json:"courseName" bson:"courseName"`
	ProjectName     string    `json:"projectName,omitempty" bson:"projectName,omitempty"`
	ProjectBrief    string    `json:"projectBrief" bson:"projectBrief"`
	AIFeedback      string    `json:"aiFeedback,omitempty" bson:"aiFeedback,omitempty"`
	Skills          []string  `json:"skills" bson:"skills"`
	TransactionHash string    `json:"transactionHash,omitempty" bson:"transactionHash,omitempty"`
	TokenID         string    `json:"tokenId,omitempty" bson:"tokenId,omitempty"`
	VerifiedAt      time.Time `json:"verifiedAt" bson:"verifiedAt"`
}

// Learner is the persisted user profile
type Learner struct {
	ID               string            `json:"id" bson:"_id,omitempty"`
	Email            string            `json:"email" bson:"email"`
	WalletAddress    string            `json:"walletAddress,omitempty" bson:"walletAddress,omitempty"`
	VerifiedProjects []VerifiedProject `json:"verifiedProjects" bson:"verifiedProjects"`
}

// SaveProjectRequest is the persistence call issued after a successful mint
type SaveProjectRequest struct {
	UserEmail         string   `json:"userEmail"`
	UserWalletAddress string   `json:"userWalletAddress"`
	CourseName        string   `json:"courseName"`
	ProjectName       string   `json:"projectName,omitempty"`
	ProjectBrief      string   `json:"projectBrief"`
	AIFeedback        string   `json:"aiFeedback"`
	Skills            []string `json:"skills"`
	TransactionHash   string   `json:"transactionHash"`
	TokenID           string   `json:"tokenId"`
}

// Certificate is the public view of a single verified project
type Certificate struct {
	Email         string          `json:"email"`
	WalletAddress string          `json:"walletAddress,omitempty"`
	Project       VerifiedProject `json:"project"`
	ProofURL      string          `json:"proofUrl,omitempty"`
}
