// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Modes

With -f the program tabulates one ballot file and exits; server settings are
neither read nor validated. Without -f it serves the HTTP API.

# CLI Flags

	-f           Ballot file to tabulate
	-v           Debug logging (every ballot assignment)
	-tie-break   earlier (default) or later
	-p           Server port
	-d           Database URL
	-t           Database type: sqlite (default) or postgres
	-base-url    Public base URL used in share links
	-admin-salt  Admin key salt
	-slug-salt   Share slug salt
	-env         Dotenv file to load (default .env, optional)

# Environment Variables

Flags fall back to environment variables:

	TIE_BREAK      → -tie-break
	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	BASE_URL       → -base-url
	ADMIN_KEY_SALT → -admin-salt
	SLUG_SALT      → -slug-salt

CLI flags take precedence over environment variables, and variables already
set in the environment take precedence over the dotenv file.

# Validation

In server mode ParseFlags returns an error if DATABASE_URL, ADMIN_KEY_SALT or
SLUG_SALT is missing, or if the database type is unknown. An unknown
tie-break rule is rejected in both modes.
*/
package cliparse
