package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestIssuer(t *testing.T) *Issuer {
	t.Helper()
	iss, err := NewIssuer(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer: %v", err)
	}
	return iss
}

func TestIssuerRejectsShortSecret(t *testing.T) {
	if _, err := NewIssuer("short", 0); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestIssueAndVerify(t *testing.T) {
	iss := newTestIssuer(t)
	token, exp, err := iss.Issue(User{ID: "u1", Email: "t@example.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Error("expiry should be in the future")
	}

	u, err := iss.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if u.ID != "u1" || u.Email != "t@example.com" {
		t.Errorf("unexpected user %+v", u)
	}

	other, _ := NewIssuer(strings.Repeat("x", MinSecretLength), time.Hour)
	if _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken for wrong secret, got %v", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	iss := newTestIssuer(t)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := iss.Issue(User{ID: "u1"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	iss.now = time.Now
	if _, err := iss.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	iss := newTestIssuer(t)
	token, _, _ := iss.Issue(User{ID: "u42"})

	var seen User
	h := Middleware(iss)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
	}))

	tests := []struct {
		name   string
		header string
		query  string
		want   int
	}{
		{"missing", "", "", http.StatusUnauthorized},
		{"garbage", "Bearer nope", "", http.StatusUnauthorized},
		{"header", "Bearer " + token, "", http.StatusOK},
		{"lowercase scheme", "bearer " + token, "", http.StatusOK},
		{"query", "", "?token=" + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = User{}
			req := httptest.NewRequest(http.MethodGet, "/x"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
			if tt.want == http.StatusOK && seen.ID != "u42" {
				t.Errorf("user not in context: %+v", seen)
			}
		})
	}
}

func TestHandleReadyOnce(t *testing.T) {
	h := NewHandle()
	select {
	case <-h.Ready():
		t.Fatal("handle should not be ready yet")
	default:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, _, err := h.Wait(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}

	done := make(chan User)
	go func() {
		u, _, _ := h.Wait(context.Background())
		done <- u
	}()
	h.Set(User{ID: "a"}, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "t"}))
	if u := <-done; u.ID != "a" {
		t.Errorf("expected user a, got %+v", u)
	}

	// A second Set must not panic on the closed channel.
	h.Set(User{ID: "b"}, nil)
	u, _, _ := h.Wait(context.Background())
	if u.ID != "b" {
		t.Errorf("expected updated user, got %+v", u)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	creds, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if creds.Valid() {
		t.Error("empty credentials should not be valid")
	}
	if _, err := creds.TokenSource(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}

	creds.Token = "tok"
	creds.Expiry = time.Now().Add(time.Hour)
	creds.Google = &GoogleCredentials{ClientID: "cid"}
	if err := Save(creds); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path, _ := CredentialPath()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	loaded, _ := Load()
	ts, err := loaded.TokenSource()
	if err != nil {
		t.Fatalf("TokenSource: %v", err)
	}
	tok, _ := ts.Token()
	if tok.AccessToken != "tok" {
		t.Errorf("unexpected token %q", tok.AccessToken)
	}

	if err := Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	cleared, _ := Load()
	if cleared.Token != "" || cleared.Google == nil || cleared.Google.ClientID != "cid" {
		t.Errorf("Clear should keep the OAuth client only: %+v", cleared)
	}
}

func TestGoogleExchange(t *testing.T) {
	userinfo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case "Bearer good":
			w.Write([]byte(`{"sub":"123","email":"t@example.com","email_verified":true}`))
		case "Bearer unverified":
			w.Write([]byte(`{"sub":"9","email":"x@example.com","email_verified":false}`))
		default:
			http.Error(w, "invalid token", http.StatusUnauthorized)
		}
	}))
	defer userinfo.Close()

	iss := newTestIssuer(t)
	r := chi.NewRouter()
	RegisterRoutes(r, iss, userinfo.URL)

	exchange := func(token string) (*httptest.ResponseRecorder, TokenResponse) {
		body := strings.NewReader(`{"access_token":"` + token + `"}`)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/google", body))
		var resp TokenResponse
		json.NewDecoder(w.Body).Decode(&resp)
		return w, resp
	}

	w, resp := exchange("good")
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("expected success, got %d %+v", w.Code, resp)
	}
	if resp.User.ID != "google:123" {
		t.Errorf("unexpected user %+v", resp.User)
	}

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	if !strings.Contains(me.Body.String(), "t@example.com") {
		t.Errorf("unexpected /auth/me body %s", me.Body.String())
	}

	if w, _ := exchange("bad"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for rejected token, got %d", w.Code)
	}
	if w, _ := exchange("unverified"); w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 for unverified email, got %d", w.Code)
	}
	if w, _ := exchange(""); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty token, got %d", w.Code)
	}
}
