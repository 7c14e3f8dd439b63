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

type ElectionHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewElectionHandler(db *sql.DB, cfg cliparse.Config) *ElectionHandler {
	return &ElectionHandler{db: db, cfg: cfg}
}

const electionColumns = `id, name, description, status, tie_break, share_slug, created_at, closed_at`

func scanElection(row *sql.Row) (models.Election, error) {
	var e models.Election
	err := row.Scan(
		&e.ID, &e.Name, &e.Description, &e.Status, &e.TieBreak,
		&e.ShareSlug, &e.CreatedAt, &e.ClosedAt,
	)
	return e, err
}

func electionByID(db *sql.DB, electionID string) (models.Election, error) {
	return scanElection(db.QueryRow(`SELECT `+electionColumns+` FROM election WHERE id = $1`, electionID))
}

func electionBySlug(db *sql.DB, slug string) (models.Election, error) {
	return scanElection(db.QueryRow(`SELECT `+electionColumns+` FROM election WHERE share_slug = $1`, slug))
}

func listCandidates(db *sql.DB, electionID string) ([]models.Candidate, error) {
	rows, err := db.Query(`
		SELECT id, election_id, name, description
		FROM candidate
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	candidates := []models.Candidate{}
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.ElectionID, &c.Name, &c.Description); err != nil {
			return nil, err
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

func countBallots(db *sql.DB, electionID string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM ballot WHERE election_id = $1`, electionID).Scan(&count)
	return count, err
}

func electionWithCandidates(db *sql.DB, election models.Election) (models.ElectionWithCandidates, error) {
	candidates, err := listCandidates(db, election.ID)
	if err != nil {
		return models.ElectionWithCandidates{}, err
	}
	count, err := countBallots(db, election.ID)
	if err != nil {
		return models.ElectionWithCandidates{}, err
	}
	return models.ElectionWithCandidates{
		Election:    election,
		Candidates:  candidates,
		BallotCount: count,
	}, nil
}

// authorize checks the X-Admin-Key header and loads the election.
// It writes the error response itself and reports false on failure.
func (h *ElectionHandler) authorize(w http.ResponseWriter, r *http.Request) (models.Election, bool) {
	electionID := r.PathValue("id")
	if electionID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "election_id is required")
		return models.Election{}, false
	}

	adminKey := r.Header.Get("X-Admin-Key")
	if err := auth.ValidateAdminKey(electionID, adminKey, h.cfg.AdminKeySalt); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid admin key")
		return models.Election{}, false
	}

	election, err := electionByID(h.db, electionID)
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

// CreateElection handles POST /elections
func (h *ElectionHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.CreateElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	rule := strings.ToLower(strings.TrimSpace(req.TieBreak))
	if rule == "" {
		rule = strings.ToLower(strings.TrimSpace(h.cfg.TieBreak))
	}
	if rule == "" {
		rule = models.TieBreakEarlier
	}
	if rule != models.TieBreakEarlier && rule != models.TieBreakLater {
		middleware.ErrorResponse(w, http.StatusBadRequest, "tie_break must be earlier or later")
		return
	}

	electionID := auth.NewID()
	adminKey := auth.GenerateAdminKey(electionID, h.cfg.AdminKeySalt)

	_, err := h.db.Exec(`
		INSERT INTO election (id, name, description, status, tie_break, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, electionID, req.Name, req.Description, models.StatusDraft, rule, time.Now().UTC())
	if err != nil {
		slog.Error("failed to insert election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create election")
		return
	}

	slog.Info("election created", "election_id", electionID, "name", req.Name, "tie_break", rule)

	middleware.JSONResponse(w, http.StatusCreated, models.CreateElectionResponse{
		ElectionID: electionID,
		AdminKey:   adminKey,
	})
}

// GetElectionAdmin handles GET /elections/:id/admin
func (h *ElectionHandler) GetElectionAdmin(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
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

// AddCandidate handles POST /elections/:id/candidates
func (h *ElectionHandler) AddCandidate(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	var req models.AddCandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if election.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot add candidates to non-draft election")
		return
	}

	// Let the tabulator's registry decide, so stored names follow its rules
	ro, err := loadRoster(h.db, election.ID)
	if err != nil {
		slog.Error("failed to load candidates", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	candidate, err := ro.election.AddCandidate(req.Name, req.Description)
	switch {
	case errors.Is(err, irv.ErrEmptyName):
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	case errors.Is(err, irv.ErrDuplicateCandidate):
		middleware.ErrorResponse(w, http.StatusConflict, "Candidate already registered")
		return
	case err != nil:
		slog.Error("failed to register candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	candidateID := auth.NewID()
	_, err = h.db.Exec(`
		INSERT INTO candidate (id, election_id, seq, name, name_key, description)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, candidateID, election.ID, candidate.ID, candidate.Name, irv.NormalizeName(candidate.Name), candidate.Description)
	if err != nil {
		slog.Error("failed to insert candidate", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add candidate")
		return
	}

	slog.Info("candidate added", "election_id", election.ID, "candidate_id", candidateID, "name", candidate.Name)

	middleware.JSONResponse(w, http.StatusCreated, models.AddCandidateResponse{
		CandidateID: candidateID,
	})
}

// OpenElection handles POST /elections/:id/open
func (h *ElectionHandler) OpenElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusDraft {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not in draft status")
		return
	}

	var candidateCount int
	err := h.db.QueryRow(`SELECT COUNT(*) FROM candidate WHERE election_id = $1`, election.ID).Scan(&candidateCount)
	if err != nil {
		slog.Error("failed to count candidates", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if candidateCount < 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Election must have at least 1 candidate")
		return
	}

	shareSlug := auth.GenerateShareSlug(election.ID, h.cfg.SlugSalt)

	_, err = h.db.Exec(`
		UPDATE election
		SET status = $1, share_slug = $2
		WHERE id = $3
	`, models.StatusOpen, shareSlug, election.ID)
	if err != nil {
		slog.Error("failed to open election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open election")
		return
	}

	slog.Info("election opened", "election_id", election.ID, "share_slug", shareSlug)

	middleware.JSONResponse(w, http.StatusOK, models.OpenElectionResponse{
		ShareSlug: shareSlug,
		ShareURL:  strings.TrimRight(h.cfg.BaseURL, "/") + "/elections/" + shareSlug,
	})
}

// CloseElection handles POST /elections/:id/close
// Seals the inputs and returns the tabulation, which is not stored
func (h *ElectionHandler) CloseElection(w http.ResponseWriter, r *http.Request) {
	election, ok := h.authorize(w, r)
	if !ok {
		return
	}

	if election.Status != models.StatusOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	closedAt := time.Now().UTC()
	res, err := h.db.Exec(`
		UPDATE election
		SET status = $1, closed_at = $2
		WHERE id = $3 AND status = $4
	`, models.StatusClosed, closedAt, election.ID, models.StatusOpen)
	if err != nil {
		slog.Error("failed to close election", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close election")
		return
	}

	// Another request closed it first
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		middleware.ErrorResponse(w, http.StatusConflict, "Election is not open")
		return
	}

	result, err := TabulateElection(h.db, election.ID)
	if err != nil {
		slog.Error("failed to tabulate election", "error", err, "election_id", election.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to tabulate election")
		return
	}

	slog.Info("election closed", "election_id", election.ID, "outcome", result.Outcome)

	middleware.JSONResponse(w, http.StatusOK, models.CloseElectionResponse{
		ClosedAt: closedAt,
		Result:   result,
	})
}
