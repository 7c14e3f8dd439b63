// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
)

type VotingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVotingHandler(db *sql.DB, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{db: db, cfg: cfg}
}

// SubmitBallot handles POST /elections/:slug/ballots
func (h *VotingHandler) SubmitBallot(w http.ResponseWriter, r *http.Request) {
	shareSlug := r.PathValue("slug")
	if shareSlug == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "slug is required")
		return
	}

	var req models.SubmitBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.VoterName = strings.TrimSpace(req.VoterName)
	if req.VoterName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_name is required")
		return
	}
	if len(req.VoterName) > 100 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "voter_name must be at most 100 characters")
		return
	}

	election, err := electionBySlug(h.db, shareSlug)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Election not found")
		return
	}
	if err != nil {
		slog.Error("failed to query election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if election.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	// Validate the ranking against the registered candidates
	ro, err := loadRoster(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	ballot, err := ro.election.AddBallot(req.VoterName, req.Preferences)
	if errors.Is(err, irv.ErrUnknownCandidate) || errors.Is(err, irv.ErrDuplicatePreference) {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		slog.Error("failed to validate ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.SlugSalt)
	userAgent := r.UserAgent()

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	// Recheck inside the transaction so a concurrent close wins
	var status string
	if err := tx.QueryRow(`SELECT status FROM election WHERE id = $1`, election.ID).Scan(&status); err != nil {
		slog.Error("failed to recheck election status", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open for voting")
		return
	}

	var seq int
	err = tx.QueryRow(`
		SELECT COALESCE(MAX(seq), 0) + 1 FROM ballot WHERE election_id = $1
	`, election.ID).Scan(&seq)
	if err != nil {
		slog.Error("failed to allocate ballot sequence", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	ballotID := auth.NewID()
	_, err = tx.Exec(`
		INSERT INTO ballot (id, election_id, seq, voter_name, submitted_at, ip_hash, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, ballotID, election.ID, seq, req.VoterName, time.Now().UTC(), ipHash, userAgent)
	if err != nil {
		slog.Error("failed to insert ballot", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	for choice, candidateID := range ballot.Preferences() {
		_, err = tx.Exec(`
			INSERT INTO preference (ballot_id, choice, candidate_id)
			VALUES ($1, $2, $3)
		`, ballotID, choice, ro.rowIDs[candidateID])
		if err != nil {
			slog.Error("failed to insert preference", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save preferences")
			return
		}
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to submit ballot")
		return
	}

	message := "Ballot submitted successfully"
	if ballot.Exhausted() {
		message = "Blank ballot recorded"
	}

	slog.Info("ballot submitted",
		"election_id", election.ID,
		"ballot_id", ballotID,
		"preferences", len(ballot.Preferences()),
	)

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitBallotResponse{
		BallotID: ballotID,
		Message:  message,
	})
}
