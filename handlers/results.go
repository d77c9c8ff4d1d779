// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/JasonByun5/pollify/cliparse"
	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/polls"
)

type ResultsHandler struct {
	svc *polls.Service
	cfg cliparse.Config
}

func NewResultsHandler(svc *polls.Service, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{svc: svc, cfg: cfg}
}

// GetResults handles GET /results/{pollId}
// Tallies are computed from the option counters on every request.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	tally, err := h.svc.Tally(r.Context(), pollID)
	if err != nil {
		writeError(w, r, err, "compute results")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, tally)
}
