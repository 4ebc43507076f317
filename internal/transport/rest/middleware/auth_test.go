package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nishtha/internal/model"
)

type stubValidator struct{}

func (stubValidator) ValidateLearnerToken(token string) (*model.LearnerClaims, error) {
	if token != "good" {
		return nil, errors.New("bad token")
	}
	return &model.LearnerClaims{Email: "dev@example.com", WalletAddress: "0xabc"}, nil
}

func TestRequireLearner(t *testing.T) {
	var seen *model.LearnerClaims
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetLearner(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := NewAuthMiddleware(stubValidator{}).RequireLearner(next)

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{"bearer header", "Bearer good", "", http.StatusNoContent},
		{"lowercase scheme", "bearer good", "", http.StatusNoContent},
		{"query token", "", "?token=good", http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", "", http.StatusUnauthorized},
		{"invalid", "Bearer nope", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			r := httptest.NewRequest("GET", "/v1/profile"+tt.query, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)

			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusNoContent && (seen == nil || seen.Email != "dev@example.com" || seen.WalletAddress != "0xabc") {
				t.Errorf("learner not in context: %+v", seen)
			}
		})
	}
}

func TestGetLearnerWithoutIdentity(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	if GetLearner(r.Context()) != nil || GetEmail(r.Context()) != "" || GetWallet(r.Context()) != "" {
		t.Error("empty context should carry no learner")
	}
}
