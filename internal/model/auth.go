package model

import "github.com/golang-jwt/jwt/v5"

// LearnerClaims are JWT claims identifying the learner and their wallet
type LearnerClaims struct {
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for learner login
type LoginRequest struct {
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token         string `json:"token"`
	Email         string `json:"email"`
	WalletAddress string `json:"walletAddress"`
}
