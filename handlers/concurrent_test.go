// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/testutil"
)

// TestConcurrentBallotSubmissions verifies that simultaneous submissions are
// all stored, each with its own sequence number
func TestConcurrentBallotSubmissions(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	testutil.AddTestCandidate(t, db, electionID, "A")
	testutil.AddTestCandidate(t, db, electionID, "B")
	testutil.AddTestCandidate(t, db, electionID, "C")

	numVoters := 10
	names := []string{"a", "b", "c"}

	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(voterIdx int) {
			defer wg.Done()

			prefs := []string{
				names[voterIdx%3],
				names[(voterIdx+1)%3],
			}
			req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
				models.SubmitBallotRequest{VoterName: fmt.Sprintf("voter%d", voterIdx), Preferences: prefs}, nil)
			req.SetPathValue("slug", shareSlug)
			w := httptest.NewRecorder()

			votingHandler.SubmitBallot(w, req)

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful submissions, got %d", numVoters, successCount.Load())
	}

	var ballotCount, distinctSeq, prefCount int
	err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT seq) FROM ballot WHERE election_id = $1", electionID).Scan(&ballotCount, &distinctSeq)
	if err != nil {
		t.Fatalf("Failed to count ballots: %v", err)
	}
	if ballotCount != numVoters || distinctSeq != numVoters {
		t.Errorf("Expected %d ballots with distinct sequence numbers, got %d ballots and %d sequences",
			numVoters, ballotCount, distinctSeq)
	}

	err = db.QueryRow(`
		SELECT COUNT(*) FROM preference p
		JOIN ballot b ON b.id = p.ballot_id
		WHERE b.election_id = $1
	`, electionID).Scan(&prefCount)
	if err != nil {
		t.Fatalf("Failed to count preferences: %v", err)
	}
	if prefCount != 2*numVoters {
		t.Errorf("Expected %d preferences, got %d", 2*numVoters, prefCount)
	}

	res, err := TabulateElection(db, electionID)
	if err != nil {
		t.Fatalf("TabulateElection failed: %v", err)
	}
	if res.TotalBallots != numVoters {
		t.Errorf("Expected %d ballots tabulated, got %d", numVoters, res.TotalBallots)
	}
}

// TestConcurrentElectionClose verifies that when several admins close the same
// election at once, exactly one close succeeds
func TestConcurrentElectionClose(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	electionHandler := NewElectionHandler(db, cfg)

	electionID, adminKey, _ := testutil.CreateTestElection(t, db, cfg, "open")
	a := testutil.AddTestCandidate(t, db, electionID, "A")
	testutil.AddTestCandidate(t, db, electionID, "B")
	testutil.SubmitTestBallot(t, db, electionID, "v1", a)

	numAttempts := 3
	var successCount, conflictCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			req := testutil.MakeRequest("POST", "/elections/"+electionID+"/close", nil,
				map[string]string{"X-Admin-Key": adminKey})
			req.SetPathValue("id", electionID)
			w := httptest.NewRecorder()

			electionHandler.CloseElection(w, req)

			switch w.Code {
			case http.StatusOK:
				successCount.Add(1)
			case http.StatusConflict:
				conflictCount.Add(1)
			}
		}()
	}

	wg.Wait()

	if successCount.Load() != 1 {
		t.Errorf("Expected exactly one successful close, got %d", successCount.Load())
	}
	if conflictCount.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflictCount.Load())
	}

	var status string
	err := db.QueryRow("SELECT status FROM election WHERE id = $1", electionID).Scan(&status)
	if err != nil {
		t.Fatalf("Failed to query election status: %v", err)
	}
	if status != models.StatusClosed {
		t.Errorf("Expected election status 'closed', got '%s'", status)
	}
}

// TestParallelElections verifies that ballots land in the right election when
// several run at once
func TestParallelElections(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)

	numElections := 3
	ballotsEach := 4
	slugs := make([]string, numElections)
	ids := make([]string, numElections)
	for i := range slugs {
		ids[i], _, slugs[i] = testutil.CreateTestElection(t, db, cfg, "open")
		testutil.AddTestCandidate(t, db, ids[i], fmt.Sprintf("Candidate%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < numElections; i++ {
		for j := 0; j < ballotsEach; j++ {
			wg.Add(1)
			go func(electionIdx, voterIdx int) {
				defer wg.Done()
				req := testutil.MakeRequest("POST", "/elections/"+slugs[electionIdx]+"/ballots",
					models.SubmitBallotRequest{
						VoterName:   fmt.Sprintf("voter%d", voterIdx),
						Preferences: []string{fmt.Sprintf("candidate%d", electionIdx)},
					}, nil)
				req.SetPathValue("slug", slugs[electionIdx])
				votingHandler.SubmitBallot(httptest.NewRecorder(), req)
			}(i, j)
		}
	}
	wg.Wait()

	for i, id := range ids {
		res, err := TabulateElection(db, id)
		if err != nil {
			t.Fatalf("TabulateElection failed for election %d: %v", i, err)
		}
		want := fmt.Sprintf("Candidate%d", i)
		if res.Winner == nil || *res.Winner != want {
			t.Errorf("Election %d: expected winner %s, got %v", i, want, res.Winner)
		}
		if res.WinnerVotes != ballotsEach {
			t.Errorf("Election %d: expected %d votes, got %d", i, ballotsEach, res.WinnerVotes)
		}
	}
}
