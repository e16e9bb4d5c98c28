package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iho/pointswallet/internal/adapter/http/middleware"
	"github.com/iho/pointswallet/internal/domain"
	"github.com/iho/pointswallet/internal/infrastructure/auth"
)

// withSession attaches session claims for accountID to the request.
func withSession(r *http.Request, accountID string) *http.Request {
	claims := &auth.Claims{AccountID: accountID, Email: accountID + "@example.com"}
	ctx := context.WithValue(r.Context(), middleware.SessionContextKey, claims)
	return r.WithContext(ctx)
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrAccountNotFound, http.StatusNotFound},
		{domain.ErrInsufficientBalance, http.StatusUnprocessableEntity},
		{domain.ErrInsufficientPoints, http.StatusUnprocessableEntity},
		{domain.ErrRecipientConflict, http.StatusConflict},
		{domain.ErrDuplicateEmail, http.StatusConflict},
		{domain.ErrUnauthorized, http.StatusUnauthorized},
		{domain.ErrExpiredToken, http.StatusUnauthorized},
		{domain.ErrSelfTransfer, http.StatusBadRequest},
		{domain.ErrInvalidAmount, http.StatusBadRequest},
		{domain.ErrInvalidPoints, http.StatusBadRequest},
		{domain.ErrMissingRecipient, http.StatusBadRequest},
		{errors.New("something else"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := mapDomainError(tt.err); got != tt.want {
			t.Fatalf("mapDomainError(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestParseIntQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/transactions?limit=10&offset=abc", nil)

	if got := parseIntQuery(req, "limit", 50); got != 10 {
		t.Fatalf("expected limit 10, got %d", got)
	}
	if got := parseIntQuery(req, "offset", 0); got != 0 {
		t.Fatalf("expected offset fallback 0, got %d", got)
	}
	if got := parseIntQuery(req, "missing", 7); got != 7 {
		t.Fatalf("expected default 7, got %d", got)
	}
}
