package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"codemcq-service/internal/domain"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Hour)
	token, err := issuer.Issue("u1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	userID, err := NewVerifier("s3cret").Verify(token)
	if err != nil || userID != "u1" {
		t.Fatalf("verify: %q %v", userID, err)
	}
	if _, err := NewVerifier("other").Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewIssuer("s3cret", time.Minute)
	issuer.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, _ := issuer.Issue("u1")
	if _, err := NewVerifier("s3cret").Verify(token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected expired token rejected, got %v", err)
	}
}

func TestGuard(t *testing.T) {
	token, _ := NewIssuer("s3cret", time.Hour).Issue("u42")
	verifier := NewVerifier("s3cret")

	var seen string
	handler := Guard(verifier, func(w http.ResponseWriter, _ *http.Request, d Decision) {
		http.Error(w, d.Reason, http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	cases := []struct {
		name   string
		header string
		query  string
		status int
		user   string
	}{
		{name: "header", header: "Bearer " + token, status: http.StatusOK, user: "u42"},
		{name: "lowercase scheme", header: "bearer " + token, status: http.StatusOK, user: "u42"},
		{name: "query", query: "?access_token=" + token, status: http.StatusOK, user: "u42"},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer nope", status: http.StatusUnauthorized},
		{name: "basic scheme", header: "Basic " + token, status: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		seen = ""
		req := httptest.NewRequest(http.MethodGet, "/api/dashboard"+tc.query, nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.status || seen != tc.user {
			t.Fatalf("%s: got status %d user %q", tc.name, rec.Code, seen)
		}
	}
}
