// internal/auth/auth.go
//
// Credentials and session tokens.
// Responsibilities:
//   - Signup rules for usernames and passwords.
//   - bcrypt password hashing and verification.
//   - HS256 JWT issue/verify (sub = user id, username, iat, exp).
//   - Auth cookie set/clear and token extraction (Bearer header or cookie).

package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUsernameLength = errors.New("username must be 3–24 chars")
	ErrUsernameChars  = errors.New("username: letters, numbers, underscore only")
	ErrPasswordLength = errors.New("password must be 8–100 chars")
	ErrInvalidToken   = errors.New("invalid token")
)

// NormalizeUsername trims surrounding whitespace.
func NormalizeUsername(u string) string {
	return strings.TrimSpace(u)
}

// ValidateSignup enforces the username and password rules.
func ValidateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return ErrUsernameLength
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return ErrUsernameChars
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return ErrPasswordLength
	}
	return nil
}

// HashPassword returns a bcrypt hash at the default cost.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// Claims is the JWT payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Tokens signs and verifies session tokens and owns the auth cookie.
type Tokens struct {
	Secret     []byte
	TTL        time.Duration
	CookieName string
	Secure     bool // Secure + SameSite=None cookies, for cross-site production clients
	Now        func() time.Time
}

func (t *Tokens) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Sign issues a token for the user and returns it with its expiry.
func (t *Tokens) Sign(userID, username string) (string, time.Time, error) {
	now := t.now()
	exp := now.Add(t.TTL)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := tok.SignedString(t.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return s, exp, nil
}

// Parse verifies signature, algorithm and expiry and returns the claims.
func (t *Tokens) Parse(raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return t.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !tok.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SetCookie writes the auth cookie.
func (t *Tokens) SetCookie(w http.ResponseWriter, token string, exp time.Time) {
	c := t.cookie()
	c.Value = token
	c.Expires = exp
	http.SetCookie(w, c)
}

// ClearCookie deletes the auth cookie.
func (t *Tokens) ClearCookie(w http.ResponseWriter) {
	c := t.cookie()
	c.MaxAge = -1
	http.SetCookie(w, c)
}

func (t *Tokens) cookie() *http.Cookie {
	sameSite := http.SameSiteLaxMode
	if t.Secure {
		sameSite = http.SameSiteNoneMode
	}
	return &http.Cookie{
		Name:     t.CookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   t.Secure,
		SameSite: sameSite,
	}
}

// FromRequest extracts a token from "Authorization: Bearer" or the auth cookie.
func (t *Tokens) FromRequest(r *http.Request) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(t.CookieName); err == nil {
		return c.Value
	}
	return ""
}
