package http

import (
	"encoding/json"
	"net/http"

	"quiz-battle-service/internal/game"
)

// NewHighScoresHandler serves the persisted top-10 leaderboard.
func NewHighScoresHandler(service *game.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		scores, err := service.HighScores(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(scores)
	}
}
