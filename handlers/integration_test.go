// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/runoff/models"
	"github.com/danielhkuo/runoff/testutil"
)

// TestFullElectionWorkflow runs the 2000 race end to end over HTTP:
// 1. Create election
// 2. Register candidates
// 3. Open election
// 4. Voters submit rankings
// 5. Results stay sealed while open
// 6. Close election
// 7. Verify rounds and winner
func TestFullElectionWorkflow(t *testing.T) {
	db := testutil.SetupTestDB(t)

	cfg := testutil.GetTestConfig()
	electionHandler := NewElectionHandler(db, cfg)
	votingHandler := NewVotingHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	// Step 1: Create an election
	createReq := models.CreateElectionRequest{Name: "TEST", Description: "test issue"}
	body, _ := json.Marshal(createReq)
	req := httptest.NewRequest("POST", "/elections", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	electionHandler.CreateElection(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Step 1 - Create election failed: %d - %s", w.Code, w.Body.String())
	}

	var createResp models.CreateElectionResponse
	json.NewDecoder(w.Body).Decode(&createResp)
	electionID := createResp.ElectionID
	adminKey := createResp.AdminKey
	t.Logf("Step 1 - Created election: %s", electionID)

	// Step 2: Register the four candidates
	for _, c := range []models.AddCandidateRequest{
		{Name: "Bush", Description: "R"},
		{Name: "Gore", Description: "D"},
		{Name: "Nader", Description: "G"},
		{Name: "Browne", Description: "L"},
	} {
		req := testutil.MakeRequest("POST", "/elections/"+electionID+"/candidates", c,
			map[string]string{"X-Admin-Key": adminKey})
		req.SetPathValue("id", electionID)
		w := httptest.NewRecorder()
		electionHandler.AddCandidate(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Step 2 - Add candidate '%s' failed: %d - %s", c.Name, w.Code, w.Body.String())
		}
	}

	// Step 3: Open
	req = testutil.MakeRequest("POST", "/elections/"+electionID+"/open", nil,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	electionHandler.OpenElection(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 3 - Open failed: %d - %s", w.Code, w.Body.String())
	}

	var openResp models.OpenElectionResponse
	json.NewDecoder(w.Body).Decode(&openResp)
	shareSlug := openResp.ShareSlug
	t.Logf("Step 3 - Opened election with slug: %s", shareSlug)

	// Step 4: 19 voters rank the candidates
	groups := []struct {
		prefix string
		count  int
		prefs  []string
	}{
		{"con", 6, []string{"BUSH"}},
		{"bizcon", 3, []string{"browne", "Bush"}},
		{"liberal", 6, []string{"gore"}},
		{"techie", 2, []string{"browne", "nader", "gore"}},
		{"green", 2, []string{"nader", "gore"}},
	}
	submitted := 0
	for _, g := range groups {
		for i := 1; i <= g.count; i++ {
			ballot := models.SubmitBallotRequest{
				VoterName:   g.prefix + string(rune('0'+i)),
				Preferences: g.prefs,
			}
			req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots", ballot, nil)
			req.SetPathValue("slug", shareSlug)
			w := httptest.NewRecorder()
			votingHandler.SubmitBallot(w, req)

			if w.Code != http.StatusCreated {
				t.Fatalf("Step 4 - Ballot for %s failed: %d - %s", ballot.VoterName, w.Code, w.Body.String())
			}
			submitted++
		}
	}
	t.Logf("Step 4 - %d ballots submitted", submitted)

	// Step 5: Results are sealed while open
	req = testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, req)

	if w.Code != http.StatusForbidden {
		t.Fatalf("Step 5 - Expected 403 while open, got %d", w.Code)
	}

	// Step 6: Close
	req = testutil.MakeRequest("POST", "/elections/"+electionID+"/close", nil,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w = httptest.NewRecorder()
	electionHandler.CloseElection(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 6 - Close failed: %d - %s", w.Code, w.Body.String())
	}

	var closeResp models.CloseElectionResponse
	json.NewDecoder(w.Body).Decode(&closeResp)

	// Step 7: Nader falls first, then Browne; Gore wins 10 of 19
	req = testutil.MakeRequest("GET", "/elections/"+shareSlug+"/results", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w = httptest.NewRecorder()
	resultsHandler.GetResults(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Step 7 - Get results failed: %d - %s", w.Code, w.Body.String())
	}

	var resultsResp models.ResultsResponse
	json.NewDecoder(w.Body).Decode(&resultsResp)

	for _, res := range []models.TabulationResult{closeResp.Result, resultsResp.Result} {
		if res.Winner == nil || *res.Winner != "Gore" {
			t.Fatalf("Step 7 - Expected Gore to win, got %v", res.Winner)
		}
		if res.WinnerVotes != 10 || res.TotalBallots != 19 {
			t.Errorf("Step 7 - Expected 10 of 19 votes, got %d of %d", res.WinnerVotes, res.TotalBallots)
		}
		if len(res.Rounds) != 3 {
			t.Fatalf("Step 7 - Expected 3 rounds, got %d", len(res.Rounds))
		}
		if got := res.Rounds[0].Eliminated[0].Candidate; got != "Nader" {
			t.Errorf("Step 7 - Expected Nader eliminated first, got %s", got)
		}
		if got := res.Rounds[1].Eliminated[0].Candidate; got != "Browne" {
			t.Errorf("Step 7 - Expected Browne eliminated second, got %s", got)
		}
	}

	t.Logf("Step 7 - Winner: %s with %d votes", *resultsResp.Result.Winner, resultsResp.Result.WinnerVotes)
}

func TestCannotVoteAfterClose(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	electionHandler := NewElectionHandler(db, cfg)
	votingHandler := NewVotingHandler(db, cfg)

	electionID, adminKey, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	testutil.AddTestCandidate(t, db, electionID, "Alpha")

	req := testutil.MakeRequest("POST", "/elections/"+electionID+"/close", nil,
		map[string]string{"X-Admin-Key": adminKey})
	req.SetPathValue("id", electionID)
	w := httptest.NewRecorder()
	electionHandler.CloseElection(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	req = testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
		models.SubmitBallotRequest{VoterName: "late", Preferences: []string{"alpha"}}, nil)
	req.SetPathValue("slug", shareSlug)
	w = httptest.NewRecorder()
	votingHandler.SubmitBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestBallotCountAccuracy(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	votingHandler := NewVotingHandler(db, cfg)
	resultsHandler := NewResultsHandler(db, cfg)

	electionID, _, shareSlug := testutil.CreateTestElection(t, db, cfg, "open")
	testutil.AddTestCandidate(t, db, electionID, "Alpha")

	// Rejected ballots must not be counted
	for _, prefs := range [][]string{{"alpha"}, {"beta"}, {"alpha", "alpha"}, {}} {
		req := testutil.MakeRequest("POST", "/elections/"+shareSlug+"/ballots",
			models.SubmitBallotRequest{VoterName: "voter", Preferences: prefs}, nil)
		req.SetPathValue("slug", shareSlug)
		votingHandler.SubmitBallot(httptest.NewRecorder(), req)
	}

	req := testutil.MakeRequest("GET", "/elections/"+shareSlug+"/ballot-count", nil, nil)
	req.SetPathValue("slug", shareSlug)
	w := httptest.NewRecorder()
	resultsHandler.GetBallotCount(w, req)

	var resp map[string]int
	testutil.AssertJSON(t, w, &resp)
	if resp["ballot_count"] != 2 {
		t.Errorf("Expected 2 accepted ballots, got %d", resp["ballot_count"])
	}
}
