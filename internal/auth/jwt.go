package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HS256 secret the issuer accepts.
const MinSecretLength = 32

// DefaultTTL is how long issued tokens stay valid.
const DefaultTTL = 30 * 24 * time.Hour

var ErrInvalidToken = errors.New("invalid or expired token")

// User identifies the owner of a request.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// Claims are the JWT claims of a clilstudio token. The subject is the
// user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewIssuer creates an Issuer. A zero ttl uses DefaultTTL.
func NewIssuer(secret string, ttl time.Duration) (*Issuer, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("jwt secret must be at least %d characters", MinSecretLength)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Issuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for u and its expiry.
func (i *Issuer) Issue(u User) (string, time.Time, error) {
	if strings.TrimSpace(u.ID) == "" {
		return "", time.Time{}, errors.New("user id is required")
	}
	now := i.now()
	exp := now.Add(i.ttl)
	claims := Claims{
		Email: u.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			Issuer:    "clilstudio",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return token, exp, nil
}

// Verify checks the signature and expiry of a token and returns its user.
func (i *Issuer) Verify(token string) (User, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return User{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return User{}, ErrInvalidToken
	}
	return User{ID: claims.Subject, Email: claims.Email}, nil
}
