// internal/httpserver/routes_wordle.go
//
// Wordle game routes (all require auth). The player is identified by the
// session; the current game is always the player's most recent record.
//   - GET  /wordle         → resume the game in progress or start a new one
//   - POST /wordle/new     → same as GET; only starts fresh when the last game is over
//     (in daily mode, not before the next UTC day)
//   - POST /wordle/guess   → submit a guess for the current game
//   - GET  /wordle/history → recent games with their boards
//   - GET  /leaderboard    → top players (public)

package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/wordle-rounds/internal/game"
)

type guessReq struct {
	Guess string `json:"guess"`
}

// boardRes is the game as the client renders it. The answer is only
// revealed once the game is over.
type boardRes struct {
	GameID     int64       `json:"gameId"`
	State      game.State  `json:"state"`
	Round      int         `json:"round"`
	WinRound   int         `json:"winRound"`
	Tiles      []game.Tile `json:"tiles"`
	Answer     string      `json:"answer,omitempty"`
	Period     string      `json:"period,omitempty"`
	StartedAt  time.Time   `json:"startedAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}

func newBoard(g *game.Game, grid game.Grid) boardRes {
	b := boardRes{
		GameID:     g.ID,
		State:      g.State,
		Round:      g.Round,
		WinRound:   g.WinRound,
		Tiles:      grid[:],
		Period:     g.Period,
		StartedAt:  g.StartedAt,
		FinishedAt: g.FinishedAt,
	}
	if g.State.Terminal() {
		b.Answer = g.Answer
	}
	return b
}

func (s *Server) mountWordle(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/wordle", s.handleCurrent)
		r.Post("/wordle/new", s.handleCurrent)
		s.limited(r).Post("/wordle/guess", s.handleGuess)
		r.Get("/wordle/history", s.handleHistory)
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	g, grid, err := s.Engine.Current(r.Context(), currentUser(r).ID)
	if err != nil {
		writeGameError(w, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newBoard(g, grid))
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	var req guessReq
	if !decodeJSON(w, r, &req) {
		return
	}
	g, grid, err := s.Engine.Play(r.Context(), currentUser(r).ID, req.Guess)
	if err != nil {
		writeGameError(w, s.Log, err)
		return
	}
	writeJSON(w, http.StatusOK, newBoard(g, grid))
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := queryLimit(r, 20, 100)
	list, err := s.Games.History(r.Context(), currentUser(r).ID, limit)
	if err != nil {
		writeGameError(w, s.Log, err)
		return
	}
	out := make([]boardRes, 0, len(list))
	for _, g := range list {
		out = append(out, newBoard(g, game.Reconstruct(g)))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.Users.Leaderboard(r.Context(), queryLimit(r, 20, 100))
	if err != nil {
		s.Log.Error().Err(err).Msg("leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error", "")
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// queryLimit reads ?limit=, clamped to [1, max].
func queryLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
