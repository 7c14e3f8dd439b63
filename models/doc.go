// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

  - CreateElectionRequest: name, description, tie_break
  - AddCandidateRequest: name, description
  - SubmitBallotRequest: voter_name, preferences (ranked candidate names)

# Response Types

  - CreateElectionResponse: election_id, admin_key
  - AddCandidateResponse: candidate_id
  - OpenElectionResponse: share_slug, share_url
  - SubmitBallotResponse: ballot_id, message
  - CloseElectionResponse: closed_at, result
  - ResultsResponse: election, result
  - ErrorResponse: error, message

# Tabulation Types

TabulationResult mirrors an irv.Result: the outcome, the winner (absent when
every ballot was exhausted), every round with its standings and
eliminations, and the final standings.

# Constants

Status values:

	StatusDraft  = "draft"
	StatusOpen   = "open"
	StatusClosed = "closed"

Tie-break rules:

	TieBreakEarlier = "earlier"
	TieBreakLater   = "later"
*/
package models
