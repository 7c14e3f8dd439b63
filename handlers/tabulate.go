// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/runoff/ballotfile"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/irv"
	"github.com/danielhkuo/runoff/middleware"
	"github.com/danielhkuo/runoff/models"
)

// roster is a stored election's candidate list loaded into memory
type roster struct {
	election *irv.Election
	rowIDs   map[int]string // irv candidate id -> candidate row id
}

// loadRoster replays the stored candidates, in registration order, into a
// fresh election
func loadRoster(db *sql.DB, electionID string) (*roster, error) {
	var name, description, tieBreak string
	err := db.QueryRow(`
		SELECT name, description, tie_break FROM election WHERE id = $1
	`, electionID).Scan(&name, &description, &tieBreak)
	if err != nil {
		return nil, fmt.Errorf("failed to load election: %w", err)
	}

	tie, err := irv.ParseTieBreak(tieBreak)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(`
		SELECT id, name, description FROM candidate
		WHERE election_id = $1
		ORDER BY seq
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load candidates: %w", err)
	}
	defer rows.Close()

	ro := &roster{
		election: irv.New(name, description, irv.WithTieBreak(tie)),
		rowIDs:   make(map[int]string),
	}
	for rows.Next() {
		var rowID, cname, cdesc string
		if err := rows.Scan(&rowID, &cname, &cdesc); err != nil {
			return nil, err
		}
		c, err := ro.election.AddCandidate(cname, cdesc)
		if err != nil {
			return nil, fmt.Errorf("stored candidate %s: %w", rowID, err)
		}
		ro.rowIDs[c.ID] = rowID
	}

	return ro, rows.Err()
}

// LoadElection rebuilds a stored election with all of its ballots, replayed
// in submission order
func LoadElection(db *sql.DB, electionID string) (*irv.Election, error) {
	ro, err := loadRoster(db, electionID)
	if err != nil {
		return nil, err
	}
	e := ro.election

	rows, err := db.Query(`
		SELECT b.id, b.voter_name, c.name
		FROM ballot b
		LEFT JOIN preference p ON p.ballot_id = b.id
		LEFT JOIN candidate c ON c.id = p.candidate_id
		WHERE b.election_id = $1
		ORDER BY b.seq, p.choice
	`, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ballots: %w", err)
	}
	defer rows.Close()

	var (
		currentID string
		voter     string
		prefs     []string
		pending   bool
	)
	flush := func() error {
		if !pending {
			return nil
		}
		if _, err := e.AddBallot(voter, prefs); err != nil {
			return fmt.Errorf("stored ballot %s: %w", currentID, err)
		}
		return nil
	}

	for rows.Next() {
		var ballotID, voterName string
		var candidate sql.NullString
		if err := rows.Scan(&ballotID, &voterName, &candidate); err != nil {
			return nil, err
		}

		if !pending || ballotID != currentID {
			if err := flush(); err != nil {
				return nil, err
			}
			currentID, voter, prefs, pending = ballotID, voterName, []string{}, true
		}
		if candidate.Valid {
			prefs = append(prefs, candidate.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}

	return e, nil
}

// TabulateElection loads a stored election and runs it. A no-winner outcome
// is a result, not an error.
func TabulateElection(db *sql.DB, electionID string) (models.TabulationResult, error) {
	e, err := LoadElection(db, electionID)
	if err != nil {
		return models.TabulationResult{}, err
	}
	return runElection(e)
}

func runElection(e *irv.Election) (models.TabulationResult, error) {
	res, err := e.Run()
	if err != nil && !errors.Is(err, irv.ErrNoWinner) {
		return models.TabulationResult{}, err
	}
	return toTabulationResult(res), nil
}

func toTabulationResult(res *irv.Result) models.TabulationResult {
	out := models.TabulationResult{
		Outcome:      string(res.Outcome),
		WinnerVotes:  res.WinnerVotes,
		TotalBallots: res.Total,
		Exhausted:    res.Exhausted,
		Rounds:       make([]models.Round, 0, len(res.Rounds)),
		Final:        toStandings(res.Final),
	}
	if res.Winner != nil {
		name := res.Winner.Name
		out.Winner = &name
	}

	for _, r := range res.Rounds {
		round := models.Round{
			Number:     r.Number,
			Countable:  r.Countable,
			Exhausted:  r.Exhausted,
			Standings:  toStandings(r.Standings),
			Eliminated: []models.Elimination{},
		}
		for _, el := range r.Eliminated {
			elim := models.Elimination{
				Candidate: el.Name,
				Votes:     el.Votes,
				Transfers: []models.Transfer{},
			}
			for _, t := range el.Transfers {
				elim.Transfers = append(elim.Transfers, models.Transfer{
					To:        t.To,
					Exhausted: t.Exhausted,
					Ballots:   t.Ballots,
				})
			}
			round.Eliminated = append(round.Eliminated, elim)
		}
		out.Rounds = append(out.Rounds, round)
	}

	return out
}

func toStandings(rows []irv.Standing) []models.Standing {
	out := make([]models.Standing, len(rows))
	for i, row := range rows {
		out[i] = models.Standing{
			Name:   row.Name,
			Votes:  row.Votes,
			Status: string(row.Status),
		}
	}
	return out
}

type TabulateHandler struct {
	cfg cliparse.Config
}

func NewTabulateHandler(cfg cliparse.Config) *TabulateHandler {
	return &TabulateHandler{cfg: cfg}
}

// Tabulate handles POST /tabulate
// Body is a ballot file; nothing is stored
func (h *TabulateHandler) Tabulate(w http.ResponseWriter, r *http.Request) {
	body, err := middleware.ReadTextBody(r)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusRequestEntityTooLarge, "Ballot file too large")
		return
	}

	rule := r.URL.Query().Get("tie_break")
	if rule == "" {
		rule = h.cfg.TieBreak
	}
	tie, err := irv.ParseTieBreak(rule)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	e, err := ballotfile.Load(strings.NewReader(body), irv.WithTieBreak(tie))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := runElection(e)
	if err != nil {
		slog.Error("tabulation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Tabulation failed")
		return
	}

	slog.Info("ballot file tabulated",
		"candidates", len(e.Candidates()),
		"ballots", e.TotalBallots(),
		"outcome", result.Outcome,
	)

	middleware.JSONResponse(w, http.StatusOK, result)
}
