// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/report"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(db *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: db, cfg: cfg}
}

// lookup resolves the share slug in the path. It writes the error response
// itself and reports false on failure.
func (h *ResultsHandler) lookup(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return models.Election{}, false
	}

	election, err := electionBySlug(h.db, shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return models.Election{}, false
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Election{}, false
	}
	return election, true
}

// GetElection handles GET /elections/:slug
// Returns the election and its candidates, but NOT results
func (h *ResultsHandler) GetElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookup(w, r)
	if !ok {
		return
	}

	response, err := electionWithCandidates(h.db, election)
	if err != nil {
		slog.Error("failed to load election details", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, response)
}

// GetResults handles GET /elections/:slug/results
// Returns 403 until the election is closed. With ?format=text the round
// report is rendered as plain text.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookup(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusClosed {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are hidden until the election is closed")
		return
	}

	e, err := LoadElection(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load election", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	res, err := e.Run()
	if err != nil && !errors.Is(err, irv.ErrNoWinner) {
		slog.Error("failed to tabulate election", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to tabulate election")
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := report.Result(w, res); err != nil {
			slog.Error("failed to write report", "error", err)
		}
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ResultsResponse{
		Election: election,
		Result:   toTabulationResult(res),
	})
}

// GetBallotCount handles GET /elections/:slug/ballot-count
// Visible while the election is open
func (h *ResultsHandler) GetBallotCount(w http.ResponseWriter, r *http.Request) {
	election, ok := h.lookup(w, r)
	if !ok {
		return
	}

	count, err := countBallots(h.db, election.ID)
	if err != nil {
		slog.Error("failed to count ballots", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, map[string]int{
		"ballot_count": count,
	})
}
