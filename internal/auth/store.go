package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
)

// ErrNotLoggedIn is returned when no usable token is stored.
var ErrNotLoggedIn = errors.New("not logged in; run 'clilstudio auth login'")

// GoogleCredentials stores the OAuth2 client used for Google sign-in.
type GoogleCredentials struct {
	ClientID     string `json:"client_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`
}

// Credentials is what the CLI remembers between runs.
type Credentials struct {
	Server string             `json:"server,omitempty"`
	Token  string             `json:"token,omitempty"`
	Expiry time.Time          `json:"expiry,omitempty"`
	User   User               `json:"user,omitempty"`
	Google *GoogleCredentials `json:"google,omitempty"`
}

// Valid reports whether the stored token exists and has not expired.
func (c *Credentials) Valid() bool {
	return c.Token != "" && (c.Expiry.IsZero() || time.Now().Before(c.Expiry))
}

// TokenSource returns the stored token as a bearer token source.
func (c *Credentials) TokenSource() (oauth2.TokenSource, error) {
	if !c.Valid() {
		return nil, ErrNotLoggedIn
	}
	return oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: c.Token,
		TokenType:   "Bearer",
		Expiry:      c.Expiry,
	}), nil
}

// CredentialPath returns the path to the credentials file (~/.clilstudio/credentials.json).
func CredentialPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".clilstudio", "credentials.json"), nil
}

// Load reads the stored credentials.
// Returns empty credentials if the file doesn't exist.
func Load() (*Credentials, error) {
	path, err := CredentialPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, fmt.Errorf("reading credentials: %w", err)
	}

	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing credentials: %w", err)
	}
	return &creds, nil
}

// Save writes credentials with owner-only permissions.
func Save(creds *Credentials) error {
	path, err := CredentialPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling credentials: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}
	return nil
}

// Clear forgets the stored token but keeps the OAuth client settings.
func Clear() error {
	creds, err := Load()
	if err != nil {
		return err
	}
	creds.Token = ""
	creds.Expiry = time.Time{}
	creds.User = User{}
	return Save(creds)
}
