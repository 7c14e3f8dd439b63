// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Drivers

Open picks the driver from the config:

  - sqlite (default): modernc.org/sqlite, pure Go
  - postgres: github.com/lib/pq

	conn, err := db.Open(cfg)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
The DDL and every query in the handlers use $N placeholders, which both
drivers accept.

# Tables

Only election inputs are stored. Results are recomputed from these rows
whenever they are requested.

  - election: metadata, lifecycle state, tie-break rule
  - candidate: registered candidates in registration order (seq)
  - ballot: one row per submitted ballot
  - preference: ranked choices of a ballot

# Relationships

	election 1──* candidate
	election 1──* ballot
	ballot 1──* preference *──1 candidate

All foreign keys use ON DELETE CASCADE.
*/
package db
