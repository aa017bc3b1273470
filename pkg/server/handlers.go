package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/codeGROOVE-dev/sociomatch/pkg/match"
	"github.com/codeGROOVE-dev/sociomatch/pkg/profile"
	"github.com/codeGROOVE-dev/sociomatch/pkg/request"
	"github.com/codeGROOVE-dev/sociomatch/pkg/resultcache"
)

// MatchResponse is the body returned by POST /v1/match.
type MatchResponse struct {
	Results []profile.MatchResult `json:"results"`
}

// API exposes HTTP handlers for scoring requests.
type API struct {
	logger *slog.Logger
	scorer *match.Scorer
	cache  *resultcache.Cache
	limits request.Limits
}

// NewAPI constructs an API. A nil cache disables response caching.
func NewAPI(logger *slog.Logger, scorer *match.Scorer, cache *resultcache.Cache, limits request.Limits) *API {
	return &API{
		logger: logger,
		scorer: scorer,
		cache:  cache,
		limits: limits,
	}
}

func (a *API) handleMatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	req, err := request.DecodeMatch(r.Body, a.limits)
	if err != nil {
		a.badRequest(w, err)
		return
	}

	body, err := a.cached(r.Context(), "match", req, func() any {
		return MatchResponse{Results: a.scorer.Rank(req.Person, req.Profiles)}
	})
	if err != nil {
		a.logger.Error("failed to rank profiles", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to rank profiles")
		return
	}
	respondRaw(w, http.StatusOK, body)
}

func (a *API) handleScore(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	req, err := request.DecodeScore(r.Body, a.limits)
	if err != nil {
		a.badRequest(w, err)
		return
	}

	body, err := a.cached(r.Context(), "score", req, func() any {
		return a.scorer.Score(req.Person, req.Profile)
	})
	if err != nil {
		a.logger.Error("failed to score profile", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to score profile")
		return
	}
	respondRaw(w, http.StatusOK, body)
}

// cached encodes the result of compute, memoized on the canonical form of req.
// Ages in bios resolve against the current year, so the year is part of the key.
func (a *API) cached(ctx context.Context, namespace string, req any, compute func() any) ([]byte, error) {
	canonical, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	namespace = namespace + "@" + strconv.Itoa(a.scorer.Now().Year())
	return a.cache.GetSet(ctx, resultcache.Key(namespace, canonical), func(context.Context) ([]byte, error) {
		return json.Marshal(compute())
	})
}

func (a *API) badRequest(w http.ResponseWriter, err error) {
	var verr *request.ValidationError
	if !errors.As(err, &verr) {
		a.logger.Warn("failed to read request", "error", err)
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}

	a.logger.Debug("rejected request", "problems", verr.Problems)
	status := http.StatusBadRequest
	if errors.Is(err, request.ErrTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	writeError(w, status, "invalid request", verr.Problems...)
}
