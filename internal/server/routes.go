package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/scythe504/snake-arena/internal"
	"github.com/scythe504/snake-arena/internal/leaderboard"
)

const maxBodyBytes = 1 << 16

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(s.corsMiddleware)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.HelloWorldHandler).Methods(http.MethodGet)
	api.HandleFunc("/rooms/joinable", s.GetRoomToJoin).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", s.GetLeaderboard).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/submit-score", s.SubmitScore).Methods(http.MethodPost, http.MethodOptions)

	r.HandleFunc("/ws", s.coordinator.HandleWebSocket)

	if s.staticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.staticDir)))
	}

	return r
}

var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":      "*",
	"Access-Control-Allow-Methods":     "GET, POST, OPTIONS",
	"Access-Control-Allow-Headers":     "Accept, Authorization, Content-Type",
	"Access-Control-Allow-Credentials": "false",
}

// corsMiddleware opens the API to any origin. Preflight requests end here;
// websocket handshakes always reach the upgrader.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range corsHeaders {
			w.Header().Set(k, v)
		}
		upgrade := strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
		if r.Method == http.MethodOptions && !upgrade {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) HelloWorldHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"message": "Hello World",
		"rooms":   s.coordinator.Registry().Len(),
	})
}

func (s *Server) GetRoomToJoin(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if roomID := s.coordinator.Registry().GetJoinableRoom(); roomID != "" {
		s.writeTimed(w, start, http.StatusOK, roomID)
		return
	}
	s.writeTimed(w, start, http.StatusNotFound, "No joinable rooms available")
}

func (s *Server) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.board.Top(s.topN))
}

type submitScoreRequest struct {
	PlayerName string `json:"playerName"`
	Score      *int   `json:"score"`
}

type submitScoreResponse struct {
	Success bool `json:"success"`
	Rank    int  `json:"rank"`
}

func (s *Server) SubmitScore(w http.ResponseWriter, r *http.Request) {
	var body submitScoreRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		s.log.Debug("Rejected score submission body", "error", err)
		s.writeError(w, http.StatusBadRequest, "Player name and score required")
		return
	}

	rank, err := s.board.Submit(r.Context(), body.PlayerName, body.Score)
	if err != nil {
		var verr *leaderboard.ValidationError
		if errors.As(err, &verr) {
			s.writeError(w, http.StatusBadRequest, verr.Msg)
			return
		}
		s.log.Error("Score submission failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, submitScoreResponse{Success: true, Rank: rank})
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// writeTimed wraps data in the envelope carrying server side timings.
func (s *Server) writeTimed(w http.ResponseWriter, start time.Time, status int, data any) {
	startMs, endMs := start.UnixMilli(), time.Now().UnixMilli()
	s.writeJSON(w, status, internal.Response{
		StatusCode:    status,
		RespStartTime: startMs,
		RespEndTime:   endMs,
		NetRespTime:   endMs - startMs,
		Data:          data,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Warn("Error encoding response", "error", err)
	}
}
