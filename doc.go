// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for runoff.

runoff counts ranked-choice elections by instant-runoff voting: the weakest
candidate is eliminated each round and their ballots move to the next
choice still standing, until someone holds a majority of the ballots that
are still countable.

# Tabulating a Ballot File

With -f the program reads one ballot file, prints every round and exits:

	go run . -f ballots.txt
	go run . -f ballots.txt -tie-break later -v

Exit status is 0 with a winner, 2 when every ballot was exhausted and 1 on
input errors.

# Starting the Server

Without -f the HTTP API starts. Settings come from flags, the environment
or a dotenv file (-env, default .env):

	DATABASE_URL=runoff.db ADMIN_KEY_SALT=... SLUG_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..."

# Configuration

Required settings for the server:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC
  - SLUG_SALT (-slug-salt): Secret for share slugs and IP hashes

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - BASE_URL (-base-url): Public URL used in share links
  - TIE_BREAK (-tie-break): earlier or later (default: earlier)

# Architecture

  - irv: Candidate registry, ballot store, ranking and tabulation
  - ballotfile: Ballot file parsing
  - report: Plain-text round reports
  - handlers: HTTP request handlers (elections, voting, results, tabulate)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: Admin keys, share slugs and IDs
  - db: Connection and schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
