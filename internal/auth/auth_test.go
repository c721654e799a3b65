package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestValidateSignup(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		want     error
	}{
		{"ok", "player_1", "hunter2hunter2", nil},
		{"short name", "ab", "hunter2hunter2", ErrUsernameLength},
		{"long name", strings.Repeat("a", 25), "hunter2hunter2", ErrUsernameLength},
		{"bad chars", "bad name", "hunter2hunter2", ErrUsernameChars},
		{"short password", "player", "short", ErrPasswordLength},
		{"long password", "player", strings.Repeat("p", 101), ErrPasswordLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := ValidateSignup(tt.username, tt.password); !errors.Is(err, tt.want) {
				t.Errorf("ValidateSignup() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPasswordHash(t *testing.T) {
	h, err := HashPassword("correct horse")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword(h, "correct horse") {
		t.Error("CheckPassword rejected the right password")
	}
	if CheckPassword(h, "wrong horse") {
		t.Error("CheckPassword accepted the wrong password")
	}
}

func newTokens(now time.Time) *Tokens {
	return &Tokens{
		Secret:     []byte("test-secret"),
		TTL:        time.Hour,
		CookieName: "wordle_token",
		Now:        func() time.Time { return now },
	}
}

func TestTokens(t *testing.T) {
	now := time.Now().Truncate(time.Second)
	tk := newTokens(now)

	raw, exp, err := tk.Sign("user-1", "alice")
	if err != nil {
		t.Fatal(err)
	}
	if !exp.Equal(now.Add(time.Hour)) {
		t.Errorf("exp = %v", exp)
	}

	t.Run("round trip", func(t *testing.T) {
		c, err := tk.Parse(raw)
		if err != nil {
			t.Fatal(err)
		}
		if c.Subject != "user-1" || c.Username != "alice" {
			t.Errorf("claims = %+v", c)
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := newTokens(now)
		other.Secret = []byte("other")
		if _, err := other.Parse(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		later := newTokens(now.Add(2 * time.Hour))
		if _, err := later.Parse(raw); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := tk.Parse("not.a.token"); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Parse() error = %v, want ErrInvalidToken", err)
		}
	})
}

func TestFromRequest(t *testing.T) {
	tk := newTokens(time.Now())

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := tk.FromRequest(r); got != "" {
		t.Errorf("no credentials: got %q", got)
	}

	r.AddCookie(&http.Cookie{Name: "wordle_token", Value: "from-cookie"})
	if got := tk.FromRequest(r); got != "from-cookie" {
		t.Errorf("cookie: got %q", got)
	}

	r.Header.Set("Authorization", "Bearer from-header")
	if got := tk.FromRequest(r); got != "from-header" {
		t.Errorf("header wins: got %q", got)
	}
}

func TestCookies(t *testing.T) {
	tk := newTokens(time.Now())
	tk.Secure = true

	w := httptest.NewRecorder()
	tk.SetCookie(w, "tok", time.Now().Add(time.Hour))
	c := w.Result().Cookies()
	if len(c) != 1 || c[0].Value != "tok" || !c[0].HttpOnly || !c[0].Secure || c[0].SameSite != http.SameSiteNoneMode {
		t.Fatalf("SetCookie() = %+v", c)
	}

	w = httptest.NewRecorder()
	tk.ClearCookie(w)
	c = w.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 {
		t.Errorf("ClearCookie() = %+v", c)
	}
}
