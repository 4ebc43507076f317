package service

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"nishtha/internal/config"
	"nishtha/internal/model"
)

var (
	ErrInvalidCredentials = invalidInput("A valid email and wallet address are required")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates learner tokens
type AuthService struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(cfg *config.AuthConfig) *AuthService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AuthService{
		jwtSecret: []byte(cfg.JWTSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// Login identifies a learner by email and wallet address and returns a token
func (s *AuthService) Login(email, walletAddress string) (*model.LoginResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	walletAddress = strings.TrimSpace(walletAddress)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := ValidateWalletAddress(walletAddress); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	claims := &model.LearnerClaims{
		Email:         email,
		WalletAddress: walletAddress,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return nil, err
	}

	return &model.LoginResponse{
		Token:         tokenString,
		Email:         email,
		WalletAddress: walletAddress,
	}, nil
}

// ValidateLearnerToken validates a learner JWT and returns its claims
func (s *AuthService) ValidateLearnerToken(tokenString string) (*model.LearnerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.LearnerClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*model.LearnerClaims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
