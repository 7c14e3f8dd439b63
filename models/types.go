// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Election status constants
const (
	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Tie-break rule constants
const (
	TieBreakEarlier = "earlier"
	TieBreakLater   = "later"
)

// Tabulation outcome constants
const (
	OutcomeWinner   = "winner"
	OutcomeNoWinner = "no_winner"
)

// Request types

type CreateElectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	TieBreak    string `json:"tie_break,omitempty"`
}

type AddCandidateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type SubmitBallotRequest struct {
	VoterName   string   `json:"voter_name"`
	Preferences []string `json:"preferences"` // candidate names, first choice first
}

// Response types

type CreateElectionResponse struct {
	ElectionID string `json:"election_id"`
	AdminKey   string `json:"admin_key"`
}

type AddCandidateResponse struct {
	CandidateID string `json:"candidate_id"`
}

type OpenElectionResponse struct {
	ShareSlug string `json:"share_slug"`
	ShareURL  string `json:"share_url"`
}

type SubmitBallotResponse struct {
	BallotID string `json:"ballot_id"`
	Message  string `json:"message"`
}

type CloseElectionResponse struct {
	ClosedAt time.Time        `json:"closed_at"`
	Result   TabulationResult `json:"result"`
}

type ResultsResponse struct {
	Election Election         `json:"election"`
	Result   TabulationResult `json:"result"`
}

// Domain types

type Election struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	TieBreak    string     `json:"tie_break"`
	ShareSlug   *string    `json:"share_slug,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ClosedAt    *time.Time `json:"closed_at,omitempty"`
}

type Candidate struct {
	ID          string `json:"id"`
	ElectionID  string `json:"election_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ElectionWithCandidates struct {
	Election    Election    `json:"election"`
	Candidates  []Candidate `json:"candidates"`
	BallotCount int         `json:"ballot_count"`
}

// Tabulation types

type Standing struct {
	Name   string `json:"name"`
	Votes  int    `json:"votes"`
	Status string `json:"status"` // active, eliminated or exhausted
}

type Transfer struct {
	To        string `json:"to,omitempty"`
	Exhausted bool   `json:"exhausted,omitempty"`
	Ballots   int    `json:"ballots"`
}

type Elimination struct {
	Candidate string     `json:"candidate"`
	Votes     int        `json:"votes"`
	Transfers []Transfer `json:"transfers"`
}

type Round struct {
	Number     int           `json:"number"`
	Countable  int           `json:"countable"`
	Exhausted  int           `json:"exhausted"`
	Standings  []Standing    `json:"standings"`
	Eliminated []Elimination `json:"eliminated"`
}

type TabulationResult struct {
	Outcome      string     `json:"outcome"`
	Winner       *string    `json:"winner,omitempty"`
	WinnerVotes  int        `json:"winner_votes"`
	TotalBallots int        `json:"total_ballots"`
	Exhausted    int        `json:"exhausted_ballots"`
	Rounds       []Round    `json:"rounds"`
	Final        []Standing `json:"final"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
