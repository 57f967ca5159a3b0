/* handlers.go
 * Contains the REST handlers for the pool: leaderboard, players, predictions,
 * settlement, fixtures, results and bet status. Handlers are methods on Server
 * so tests can drive them through httptest without a listener.
 * Authors: Jamie Barkway
 */

package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/JamieBarkway/group-bet/api/api"
	"github.com/JamieBarkway/group-bet/api/shared"

	"github.com/go-playground/validator/v10"
)

type predictionRequest struct {
	Username string       `json:"username" validate:"required"`
	Type     string       `json:"type" validate:"required,oneof=Home Away BTTS O2.5"`
	Match    matchPayload `json:"match" validate:"required"`
}

type matchPayload struct {
	HomeName     string    `json:"homeName" validate:"required"`
	AwayName     string    `json:"awayName" validate:"required"`
	StartTimeUTC time.Time `json:"startDateTimeUtc" validate:"required"`
	EventID      string    `json:"eventId" validate:"required"`
	League       string    `json:"league"`
}

type removeRequest struct {
	Username string `json:"username" validate:"required"`
	Round    int    `json:"round" validate:"gte=0"`
}

type betPlacedRequest struct {
	Username string `json:"username" validate:"required"`
}

type oddsRequest struct {
	Round int                `json:"round" validate:"required,gte=1"`
	Odds  map[string]float64 `json:"odds" validate:"required,min=1"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Routes binds every endpoint onto a fresh mux
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/leaderboard", s.LeaderboardHandler)
	mux.HandleFunc("GET /api/players", s.PlayersHandler)
	mux.HandleFunc("POST /api/predictions", s.SubmitPredictionHandler)
	mux.HandleFunc("DELETE /api/predictions", s.RemovePredictionHandler)
	mux.HandleFunc("POST /api/settle", s.SettleHandler)
	mux.HandleFunc("GET /api/fixtures", s.FixturesHandler)
	mux.HandleFunc("GET /api/results", s.ResultsHandler)
	mux.HandleFunc("GET /api/bet-status", s.BetStatusHandler)
	mux.HandleFunc("POST /api/bet-status", s.MarkBetPlacedHandler)
	mux.HandleFunc("POST /api/odds", s.SetOddsHandler)
	return mux
}

// LeaderboardHandler returns the aggregated standings sorted by win percentage
func (s *Server) LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	rows, err := s.api.Leaderboard(r.Context())
	if err != nil {
		s.internalError(w, "leaderboard failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, rows)
}

// PlayersHandler returns every player with their full result history
func (s *Server) PlayersHandler(w http.ResponseWriter, r *http.Request) {
	players, err := s.api.Players(r.Context())
	if err != nil {
		s.internalError(w, "players failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, players)
}

// SubmitPredictionHandler records a new pick for the open round
func (s *Server) SubmitPredictionHandler(w http.ResponseWriter, r *http.Request) {
	var req predictionRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	pick := api.PickRequest{
		Type: shared.PickType(req.Type),
		Match: shared.Match{
			HomeName:     req.Match.HomeName,
			AwayName:     req.Match.AwayName,
			StartTimeUTC: req.Match.StartTimeUTC,
			EventID:      req.Match.EventID,
			League:       req.Match.League,
		},
	}

	if err := s.api.SubmitPrediction(r.Context(), req.Username, pick); err != nil {
		s.mapAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

// RemovePredictionHandler deletes a pick; a round of 0 means the pending one
func (s *Server) RemovePredictionHandler(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.api.RemovePrediction(r.Context(), req.Username, req.Round); err != nil {
		s.mapAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SettleHandler triggers settlement of the open round
func (s *Server) SettleHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.SettleRound(r.Context())
	if err != nil {
		s.internalError(w, "settlement failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// FixturesHandler returns upcoming fixtures, soonest first
func (s *Server) FixturesHandler(w http.ResponseWriter, r *http.Request) {
	fixtures, err := s.api.UpcomingFixtures(r.Context())
	if err != nil {
		s.internalError(w, "fixtures failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, fixtures)
}

// ResultsHandler returns the raw per-league results feed with fetch statuses
func (s *Server) ResultsHandler(w http.ResponseWriter, r *http.Request) {
	results, statuses, err := s.api.Fetcher.FetchResults(r.Context())
	if err != nil {
		s.internalError(w, "results failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"results":  results,
		"statuses": statuses,
	})
}

// BetStatusHandler reports the current round and who placed the real bet
func (s *Server) BetStatusHandler(w http.ResponseWriter, r *http.Request) {
	info, err := s.api.BetStatus(r.Context())
	if err != nil {
		s.internalError(w, "bet status failed", err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

// MarkBetPlacedHandler records who placed the real bet for the current round
func (s *Server) MarkBetPlacedHandler(w http.ResponseWriter, r *http.Request) {
	var req betPlacedRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.api.MarkBetPlaced(r.Context(), req.Username); err != nil {
		s.mapAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetOddsHandler records bookmaker odds against a round's predictions
func (s *Server) SetOddsHandler(w http.ResponseWriter, r *http.Request) {
	var req oddsRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	if err := s.api.SetOdds(r.Context(), req.Round, req.Odds); err != nil {
		s.mapAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// decodeAndValidate decodes the JSON body into dst and validates it, writing
// a 400 and returning false on any failure
func (s *Server) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid field: " + verrs[0].Field()})
		} else {
			s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request"})
		}
		return false
	}
	return true
}

// mapAPIError translates the API's sentinel errors onto HTTP statuses
func (s *Server) mapAPIError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, api.ErrUnknownPlayer):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, api.ErrUnknownRound), errors.Is(err, api.ErrNotPending):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, api.ErrPendingExists), errors.Is(err, api.ErrFixtureTaken):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, api.ErrInvalidPickType), errors.Is(err, api.ErrMissingFixture),
		errors.Is(err, api.ErrInvalidOdds):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	default:
		s.internalError(w, "request failed", err)
	}
}

func (s *Server) internalError(w http.ResponseWriter, msg string, err error) {
	s.log.Errorw(msg, "error", err)
	s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Errorw("response encoding failed", "error", err)
	}
}
