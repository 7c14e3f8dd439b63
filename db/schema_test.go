// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"

	"github.com/danielhkuo/runoff/cliparse"
)

func TestCreateSchema_Idempotent(t *testing.T) {
	conn, err := Open(cliparse.Config{DatabaseType: "sqlite", DatabaseURL: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema call %d failed: %v", i+1, err)
		}
	}

	for _, table := range []string{"election", "candidate", "ballot", "preference"} {
		var count int
		err := conn.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to query sqlite_master: %v", err)
		}
		if count != 1 {
			t.Errorf("Expected table %s to exist", table)
		}
	}
}

func TestCreateSchema_RejectsUnknownStatus(t *testing.T) {
	conn, err := Open(cliparse.Config{DatabaseURL: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(`INSERT INTO election (id, name, status) VALUES ($1, $2, $3)`, "e1", "x", "archived")
	if err == nil {
		t.Error("Expected CHECK constraint to reject status 'archived'")
	}
}
