package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	s := NewService("secret")
	res, err := s.IssueGuest("Ada")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.User.UserID, "user_") {
		t.Fatalf("user id = %q", res.User.UserID)
	}

	id, err := s.ValidateToken(res.Token)
	if err != nil {
		t.Fatal(err)
	}
	if id != res.User {
		t.Fatalf("identity = %+v, want %+v", id, res.User)
	}
}

func TestValidateRejects(t *testing.T) {
	s := NewService("secret")
	res, _ := s.IssueGuest("Ada")

	if _, err := NewService("other").ValidateToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret err = %v", err)
	}

	s.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	if _, err := s.ValidateToken(res.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired err = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := NewService("secret")
	res, _ := s.IssueGuest("Ada")
	h := s.AuthMiddleware(http.HandlerFunc(NewHandler(s).Me))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no header status = %d", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), res.User.UserID) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestGuestHandler(t *testing.T) {
	h := NewHandler(NewService("secret"))

	rec := httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"displayName":"  "}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("blank name status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Guest(rec, httptest.NewRequest(http.MethodPost, "/auth/guest", strings.NewReader(`{"displayName":"Ada"}`)))
	if rec.Code != http.StatusCreated || !strings.Contains(rec.Body.String(), `"token"`) {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
}
