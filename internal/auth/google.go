package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/exec"
	"runtime"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserinfoURL is the OpenID Connect userinfo endpoint used to
// resolve a Google access token to an identity.
const GoogleUserinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

var googleScopes = []string{"openid", "email"}

// RunGoogleOAuth performs the OAuth2 browser flow for Google sign-in.
// It starts a local HTTP server, opens the browser for user consent,
// and exchanges the authorization code for tokens.
func RunGoogleOAuth(ctx context.Context, clientID, clientSecret string) (*oauth2.Token, error) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting local server: %w", err)
	}
	port := listener.Addr().(*net.TCPAddr).Port

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       googleScopes,
		Endpoint:     google.Endpoint,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", port),
	}

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			errMsg := r.URL.Query().Get("error")
			if errMsg == "" {
				errMsg = "no authorization code received"
			}
			fmt.Fprintf(w, "<html><body><h2>Sign-in failed</h2><p>%s</p><p>You can close this tab.</p></body></html>", errMsg)
			errCh <- fmt.Errorf("OAuth callback error: %s", errMsg)
			return
		}
		fmt.Fprint(w, "<html><body><h2>Signed in to CLIL Studio</h2><p>You can close this tab and return to the terminal.</p></body></html>")
		codeCh <- code
	})

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("local server error: %w", err)
		}
	}()
	defer server.Close()

	authURL := conf.AuthCodeURL("state", oauth2.AccessTypeOnline)
	fmt.Printf("\nOpening browser for Google sign-in...\n")
	fmt.Printf("If the browser doesn't open, visit this URL:\n%s\n\n", authURL)
	openBrowser(authURL)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Minute):
		return nil, fmt.Errorf("sign-in timed out after 5 minutes")
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return token, nil
}

type googleUserinfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// GoogleUser resolves an access token to the Google account it belongs to
// by calling the userinfo endpoint with it.
func GoogleUser(ctx context.Context, userinfoURL string, ts oauth2.TokenSource) (User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return User{}, fmt.Errorf("building userinfo request: %w", err)
	}
	resp, err := oauth2.NewClient(ctx, ts).Do(req)
	if err != nil {
		return User{}, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return User{}, fmt.Errorf("%w: userinfo returned %d: %s", ErrInvalidToken, resp.StatusCode, body)
	}

	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return User{}, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Sub == "" || !info.EmailVerified {
		return User{}, fmt.Errorf("%w: google account has no verified email", ErrInvalidToken)
	}
	return User{ID: "google:" + info.Sub, Email: info.Email}, nil
}

func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
