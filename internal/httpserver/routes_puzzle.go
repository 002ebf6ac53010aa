// internal/httpserver/routes_puzzle.go
//
// HTTP routes for the daily puzzle.
//   - GET  /puzzle?date=YYYY-MM-DD → the day's board (cached, fresh or fallback)
//   - HEAD /puzzle?date=YYYY-MM-DD → 200 if the day is already stored, else 404
//
// date defaults to today in the server's timezone. GET always answers 200
// with a playable board; only a malformed date is a client error.

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/konnections/internal/daily"
	"github.com/robalobadob/konnections/internal/provider"
	"github.com/robalobadob/konnections/internal/puzzle"
)

// PuzzleResponse is the body of GET /puzzle.
type PuzzleResponse struct {
	Puzzle     *puzzle.Board       `json:"puzzle"`
	Cached     bool                `json:"cached"`
	Provenance provider.Provenance `json:"provenance"`
	Fallback   bool                `json:"fallback,omitempty"`
	CacheError string              `json:"cacheError,omitempty"`
}

var errBadDate = errors.New("invalid_date")

// NewPuzzleResponse maps a provider result onto the wire shape.
func NewPuzzleResponse(res provider.Result) PuzzleResponse {
	body := PuzzleResponse{
		Puzzle:     res.Board,
		Cached:     res.Provenance == provider.Cached,
		Provenance: res.Provenance,
		Fallback:   res.Provenance == provider.Fallback,
	}
	if res.CacheErr != nil {
		body.CacheError = res.CacheErr.Error()
	}
	return body
}

func (s *Server) mountPuzzle(r chi.Router) {
	r.Get("/puzzle", s.handleGetPuzzle)
	r.Head("/puzzle", s.handleHeadPuzzle)
}

// dateParam returns the requested date key, or today's.
func (s *Server) dateParam(r *http.Request) (string, error) {
	key := r.URL.Query().Get("date")
	if key == "" {
		return daily.Today(s.opt.Now(), s.opt.Location), nil
	}
	if _, err := daily.ParseKey(key); err != nil {
		return "", errBadDate
	}
	return key, nil
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	key, err := s.dateParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}

	res := s.opt.Provider.Obtain(r.Context(), key)
	data, err := json.Marshal(NewPuzzleResponse(res))
	if err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("encode puzzle response")
		writeError(w, http.StatusInternalServerError, "encode_failed")
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleHeadPuzzle(w http.ResponseWriter, r *http.Request) {
	key, err := s.dateParam(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	ok, err := s.opt.Store.Exists(r.Context(), key)
	if err != nil {
		log.Ctx(r.Context()).Warn().Err(err).Str("date", key).Msg("store exists check failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusOK)
}
