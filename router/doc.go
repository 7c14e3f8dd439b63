// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the runoff API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Election management (admin, requires X-Admin-Key):

	POST /elections                 - Create election
	GET  /elections/{id}/admin      - Election details
	POST /elections/{id}/candidates - Register candidate
	POST /elections/{id}/open       - Open for voting
	POST /elections/{id}/close      - Close and tabulate

Voting (public, uses share slug):

	POST /elections/{slug}/ballots - Submit a ranking

Results (public):

	GET /elections/{slug}              - Election info and candidates
	GET /elections/{slug}/results      - Round-by-round results (closed only)
	GET /elections/{slug}/ballot-count - Ballot count

Stateless:

	POST /tabulate - Tabulate a ballot file sent as the body

Every route except /health and / is wrapped in middleware.WithLogging.
*/
package router
