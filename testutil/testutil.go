// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/runoff/auth"
	"github.com/danielhkuo/runoff/cliparse"
	"github.com/danielhkuo/runoff/db"
	"github.com/danielhkuo/runoff/irv"
)

// TestDBURL is an in-memory SQLite database, private to its connection
const TestDBURL = ":memory:"

// SetupTestDB creates a fresh in-memory database with the full schema
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open(GetTestConfig())
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  TestDBURL,
		DatabaseType: "sqlite",
		AdminKeySalt: "test-admin-salt",
		SlugSalt:     "test-slug-salt",
		BaseURL:      "http://localhost:3318",
		TieBreak:     "earlier",
	}
}

// CreateTestElection inserts an election and returns its ID, admin key and
// share slug. status should be "draft", "open", or "closed"; the slug is
// empty for drafts.
func CreateTestElection(t *testing.T, db *sql.DB, cfg cliparse.Config, status string) (electionID, adminKey, shareSlug string) {
	t.Helper()

	electionID = auth.NewID()
	adminKey = auth.GenerateAdminKey(electionID, cfg.AdminKeySalt)

	var slug *string
	if status == "open" || status == "closed" {
		s := auth.GenerateShareSlug(electionID, cfg.SlugSalt)
		slug = &s
		shareSlug = s
	}

	var closedAt *time.Time
	if status == "closed" {
		now := time.Now().UTC()
		closedAt = &now
	}

	_, err := db.Exec(`
		INSERT INTO election (id, name, description, status, tie_break, share_slug, created_at, closed_at)
		VALUES ($1, 'Test Election', 'A test election', $2, 'earlier', $3, $4, $5)
	`, electionID, status, slug, time.Now().UTC(), closedAt)
	if err != nil {
		t.Fatalf("Failed to create test election: %v", err)
	}

	return electionID, adminKey, shareSlug
}

// AddTestCandidate registers a candidate after any existing ones and returns
// its row ID
func AddTestCandidate(t *testing.T, db *sql.DB, electionID, name string) string {
	t.Helper()

	var seq int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(seq), 0) + 1 FROM candidate WHERE election_id = $1
	`, electionID).Scan(&seq)
	if err != nil {
		t.Fatalf("Failed to number test candidate: %v", err)
	}

	candidateID := auth.NewID()
	_, err = db.Exec(`
		INSERT INTO candidate (id, election_id, seq, name, name_key, description)
		VALUES ($1, $2, $3, $4, $5, '')
	`, candidateID, electionID, seq, name, irv.NormalizeName(name))
	if err != nil {
		t.Fatalf("Failed to create test candidate: %v", err)
	}

	return candidateID
}

// SubmitTestBallot stores a ballot ranking the given candidate row IDs, first
// choice first
func SubmitTestBallot(t *testing.T, db *sql.DB, electionID, voterName string, candidateIDs ...string) string {
	t.Helper()

	var seq int
	err := db.QueryRow(`
		SELECT COALESCE(MAX(seq), 0) + 1 FROM ballot WHERE election_id = $1
	`, electionID).Scan(&seq)
	if err != nil {
		t.Fatalf("Failed to number test ballot: %v", err)
	}

	ballotID := auth.NewID()
	_, err = db.Exec(`
		INSERT INTO ballot (id, election_id, seq, voter_name, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, ballotID, electionID, seq, voterName, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}

	for choice, candidateID := range candidateIDs {
		_, err := db.Exec(`
			INSERT INTO preference (ballot_id, choice, candidate_id)
			VALUES ($1, $2, $3)
		`, ballotID, choice, candidateID)
		if err != nil {
			t.Fatalf("Failed to create test preference: %v", err)
		}
	}

	return ballotID
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
