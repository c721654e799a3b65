// internal/httpserver/routes_auth.go
//
// Account routes and the auth middleware.
//   - POST /auth/signup → create user, set session cookie
//   - POST /auth/login  → verify password, set session cookie
//   - POST /auth/logout → clear cookie
//   - GET  /auth/me     → current user (requires auth)
//   - GET  /stats/me    → current user's stats (requires auth)

package httpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-rounds/internal/auth"
	"github.com/robalobadob/wordle-rounds/internal/users"
)

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ctxUserKey is the context key type for the authenticated *users.User.
type ctxUserKey struct{}

func currentUser(r *http.Request) *users.User {
	u, _ := r.Context().Value(ctxUserKey{}).(*users.User)
	return u
}

func (s *Server) mountAuthRoutes(r chi.Router) {
	lr := s.limited(r)
	lr.Post("/auth/signup", s.handleSignup)
	lr.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.With(s.requireAuth).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		u := currentUser(r)
		writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
	})
	r.With(s.requireAuth).Get("/stats/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	username := auth.NormalizeUsername(body.Username)
	if err := auth.ValidateSignup(username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_signup", err.Error())
		return
	}
	hash, err := auth.HashPassword(body.Password)
	if err != nil {
		s.Log.Error().Err(err).Msg("hash password")
		writeError(w, http.StatusInternalServerError, "hash_failed", "")
		return
	}
	u, err := s.Users.Create(r.Context(), username, hash)
	if errors.Is(err, users.ErrUsernameTaken) {
		writeError(w, http.StatusConflict, "username_taken", "Username taken")
		return
	}
	if err != nil {
		s.Log.Error().Err(err).Msg("create user")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	if !s.startSession(w, u) {
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if !decodeJSON(w, r, &body) {
		return
	}
	u, err := s.Users.ByUsername(r.Context(), auth.NormalizeUsername(body.Username))
	if err != nil && !errors.Is(err, users.ErrNotFound) {
		s.Log.Error().Err(err).Msg("find user")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	if u == nil || !auth.CheckPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid username or password")
		return
	}
	if !s.startSession(w, u) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": u.ID, "username": u.Username})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.Tokens.ClearCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) startSession(w http.ResponseWriter, u *users.User) bool {
	tok, exp, err := s.Tokens.Sign(u.ID, u.Username)
	if err != nil {
		s.Log.Error().Err(err).Msg("sign token")
		writeError(w, http.StatusInternalServerError, "sign_failed", "")
		return false
	}
	s.Tokens.SetCookie(w, tok, exp)
	return true
}

// requireAuth enforces a valid token for an existing user and puts the user
// into the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := s.Tokens.FromRequest(r)
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "")
			return
		}
		claims, err := s.Tokens.Parse(raw)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "")
			return
		}
		u, err := s.Users.ByID(r.Context(), claims.Subject)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_token", "")
			return
		}
		ctx := context.WithValue(r.Context(), ctxUserKey{}, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
