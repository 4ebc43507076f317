package middleware

import (
	"context"
	"net/http"
	"strings"

	"nishtha/internal/model"
	"nishtha/internal/service"
)

type contextKey string

const (
	EmailKey  contextKey = "email"
	WalletKey contextKey = "walletAddress"
)

// TokenValidator validates learner tokens
type TokenValidator interface {
	ValidateLearnerToken(token string) (*model.LearnerClaims, error)
}

// AuthMiddleware provides JWT authentication middleware
type AuthMiddleware struct {
	authSvc TokenValidator
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(authSvc TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{authSvc: authSvc}
}

// RequireLearner validates the learner JWT from the Authorization header,
// falling back to the token query param for WebSocket upgrades
func (m *AuthMiddleware) RequireLearner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractBearerToken(r)
		if token == "" {
			token = r.URL.Query().Get("token")
		}
		if token == "" {
			http.Error(w, `{"error":"missing authorization"}`, http.StatusUnauthorized)
			return
		}

		claims, err := m.authSvc.ValidateLearnerToken(token)
		if err != nil {
			http.Error(w, `{"error":"`+service.ErrInvalidToken.Error()+`"}`, http.StatusUnauthorized)
			return
		}

		ctx := WithLearner(r.Context(), claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// WithLearner stores the learner identity in ctx
func WithLearner(ctx context.Context, claims *model.LearnerClaims) context.Context {
	ctx = context.WithValue(ctx, EmailKey, claims.Email)
	return context.WithValue(ctx, WalletKey, claims.WalletAddress)
}

// GetEmail extracts the learner email from context
func GetEmail(ctx context.Context) string {
	if v, ok := ctx.Value(EmailKey).(string); ok {
		return v
	}
	return ""
}

// GetWallet extracts the learner wallet address from context
func GetWallet(ctx context.Context) string {
	if v, ok := ctx.Value(WalletKey).(string); ok {
		return v
	}
	return ""
}

// GetLearner rebuilds the learner claims from context
func GetLearner(ctx context.Context) *model.LearnerClaims {
	email := GetEmail(ctx)
	if email == "" {
		return nil
	}
	return &model.LearnerClaims{Email: email, WalletAddress: GetWallet(ctx)}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if auth == "" {
		return ""
	}
	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
