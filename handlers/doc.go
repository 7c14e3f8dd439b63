// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the runoff API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - ElectionHandler: Election lifecycle (create, candidates, open, close)
  - VotingHandler: Ballot submission
  - ResultsHandler: Public election info and results
  - TabulateHandler: Stateless tabulation of a ballot file

Handlers are created via constructor functions that accept *sql.DB and Config:

	electionHandler := handlers.NewElectionHandler(db, cfg)

# Election Lifecycle

Elections progress through three states: draft → open → closed

	POST /elections                   → CreateElection (returns admin_key)
	POST /elections/{id}/candidates   → AddCandidate (draft only)
	POST /elections/{id}/open         → OpenElection (generates share_slug)
	POST /elections/{id}/close        → CloseElection (returns the tabulation)

Admin operations require the X-Admin-Key header.

# Voting

Voters rank candidates by name through the share slug:

	POST /elections/{slug}/ballots → SubmitBallot

Candidate names match case-insensitively. A ranking that names an unknown
candidate, or the same candidate twice, is rejected with 400. An empty
ranking is accepted and counts as exhausted from the start.

# Tabulation

Only the inputs are stored. Results are recomputed from them on demand:

	result, err := handlers.TabulateElection(db, electionID)

Stored candidates and ballots are replayed into an irv.Election in
registration and submission order, so repeated tabulations agree.
*/
package handlers
