// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/JasonByun5/pollify/cliparse"
	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/models"
	"github.com/JasonByun5/pollify/polls"
)

type VotingHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewVotingHandler(svc *polls.Service, cfg cliparse.Config) *VotingHandler {
	return &VotingHandler{svc: svc, cfg: cfg}
}

// Vote handles PATCH /polls/{pollId}
// The body carries exactly one of optionId (multi), ranking (rank) or
// votes (yes/no). An authenticated subject overrides userId.
func (h *VotingHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req models.VoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	shapes := 0
	for _, present := range []bool{req.OptionID != "", len(req.Ranking) > 0, len(req.Votes) > 0} {
		if present {
			shapes++
		}
	}
	if shapes != 1 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "body must contain exactly one of optionId, ranking or votes")
		return
	}

	voter := req.UserID
	if requester := middleware.Requester(r.Context()); requester != "" {
		voter = requester
	}

	switch {
	case len(req.Votes) > 0:
		choices := make(map[string]models.Choice, len(req.Votes))
		for optionID, choice := range req.Votes {
			choices[optionID] = models.Choice(choice)
		}

		n, err := h.svc.VoteBatch(r.Context(), pollID, choices, voter)
		if err != nil {
			writeError(w, r, err, "record votes")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Message: "Votes recorded", Recorded: n})

	case len(req.Ranking) > 0:
		opt, err := h.svc.VoteRanking(r.Context(), pollID, req.Ranking, voter)
		if err != nil {
			writeError(w, r, err, "record vote")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Message: "Vote recorded", Option: &opt, Recorded: 1})

	default:
		opt, err := h.svc.Vote(r.Context(), pollID, req.OptionID, voter)
		if err != nil {
			writeError(w, r, err, "record vote")
			return
		}
		middleware.JSONResponse(w, http.StatusOK, models.VoteResponse{Message: "Vote recorded", Option: &opt, Recorded: 1})
	}
}

// GetUserVotes handles GET /polls/{pollId}/votes/{userId}
func (h *VotingHandler) GetUserVotes(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	votes, err := h.svc.UserVotes(r.Context(), pollID, r.PathValue("userId"))
	if err != nil {
		writeError(w, r, err, "get votes")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserVotesResponse{
		HasVoted: len(votes) > 0,
		Votes:    votes,
	})
}
