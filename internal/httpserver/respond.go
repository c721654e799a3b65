package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/robalobadob/wordle-rounds/internal/game"
	"github.com/robalobadob/wordle-rounds/internal/store"
)

const maxBody = 1 << 16

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	body := map[string]string{"error": code}
	if message != "" {
		body["message"] = message
	}
	writeJSON(w, status, body)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "")
		return false
	}
	return true
}

// writeGameError maps engine errors to status codes and player-facing messages.
func writeGameError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, game.ErrGuessLength):
		writeError(w, http.StatusBadRequest, "invalid_guess", "5 letters only!")
	case errors.Is(err, game.ErrNotInWordList):
		writeError(w, http.StatusBadRequest, "invalid_guess", "Word not accepted!")
	case errors.Is(err, game.ErrGameTerminal):
		writeError(w, http.StatusConflict, "game_finished", "Start a new game.")
	case errors.Is(err, game.ErrAlreadyPlayed):
		writeError(w, http.StatusConflict, "already_played", "Come back tomorrow.")
	case errors.Is(err, game.ErrNoGame):
		writeError(w, http.StatusNotFound, "no_game", "")
	case errors.Is(err, store.ErrStale):
		writeError(w, http.StatusConflict, "stale_game", "The game changed, reload and try again.")
	default:
		log.Error().Err(err).Msg("game request failed")
		writeError(w, http.StatusInternalServerError, "store_error", "")
	}
}
