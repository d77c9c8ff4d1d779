// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/models"
	"github.com/JasonByun5/pollify/testutil"
)

// TestFullVotingWorkflow tests the complete end-to-end workflow:
// 1. Create poll as an authenticated author
// 2. Voters cast votes
// 3. Verify results
// 4. Look up a voter's history
// 5. Delete poll and confirm it is gone
func TestFullVotingWorkflow(t *testing.T) {
	cfg := testutil.GetTestConfig(t)
	svc := setupService(t, cfg)
	auth := middleware.Authenticate(cfg.JWTSecret, false)

	ph := NewPollHandler(svc, cfg)
	vh := NewVotingHandler(svc, cfg)
	rh := NewResultsHandler(svc, cfg)

	// Step 1
	req := lunchRequest(models.TypeMulti)
	req.Author = ""
	w := httptest.NewRecorder()
	auth(ph.CreatePoll)(w, testutil.MakeRequest("POST", "/polls", req, testutil.BearerHeader(t, "alice")))
	testutil.AssertStatus(t, w, http.StatusCreated)

	var poll models.CreatePollResponse
	testutil.AssertJSON(t, w, &poll)
	if poll.Author != "alice" {
		t.Fatalf("Expected author alice, got %q", poll.Author)
	}
	t.Logf("Created poll %d", poll.PollNumber)

	// Step 2
	ballots := map[string]int{"bob": 1, "carol": 1, "dave": 0, "erin": 2}
	for voter, idx := range ballots {
		w := vote(t, vh, poll.PollNumber, models.VoteRequest{OptionID: poll.Options[idx].ID}, testutil.BearerHeader(t, voter))
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	// Step 3
	tally := getResults(t, rh, poll.PollNumber)
	if tally.TotalVotes != 4 {
		t.Fatalf("Expected 4 votes, got %d", tally.TotalVotes)
	}
	if tally.Options[1].VoteCount != 2 || tally.Options[1].Percentage != 50 {
		t.Errorf("Expected Sushi to lead with 50%%, got %+v", tally.Options[1])
	}

	// Step 4
	hreq := httptest.NewRequest("GET", "/polls/x/votes/carol", nil)
	hreq.SetPathValue("pollId", strconv.Itoa(poll.PollNumber))
	hreq.SetPathValue("userId", "carol")
	w = httptest.NewRecorder()
	vh.GetUserVotes(w, hreq)
	testutil.AssertStatus(t, w, http.StatusOK)

	var history models.UserVotesResponse
	testutil.AssertJSON(t, w, &history)
	if !history.HasVoted || len(history.Votes) != 1 || history.Votes[0].OptionID != poll.Options[1].ID {
		t.Errorf("Unexpected history for carol: %+v", history)
	}

	// Step 5
	w = httptest.NewRecorder()
	auth(ph.DeletePoll)(w, withPollID(testutil.MakeRequest("DELETE", "/polls/x", nil, testutil.BearerHeader(t, "alice")), poll.PollNumber))
	testutil.AssertStatus(t, w, http.StatusOK)

	w = httptest.NewRecorder()
	ph.GetPoll(w, withPollID(httptest.NewRequest("GET", "/polls/x", nil), poll.PollNumber))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	w = httptest.NewRecorder()
	rh.GetResults(w, withPollID(httptest.NewRequest("GET", "/results/x", nil), poll.PollNumber))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}
