// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"emperror.dev/errors"

	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/models"
)

// writeError maps service errors to status codes. Store failures are logged
// and the client gets a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error, action string) {
	var verr *models.ValidationError
	var partial *models.PartialFailureError

	switch {
	case errors.As(err, &verr):
		middleware.ErrorResponse(w, http.StatusBadRequest, verr.Error())
	case errors.As(err, &partial):
		slog.Error("failed to "+action,
			"request_id", middleware.RequestID(r.Context()),
			"applied", partial.Applied, "failed", partial.Failed, "error", partial.Err)
		middleware.ErrorResponse(w, http.StatusInternalServerError,
			fmt.Sprintf("Votes partially recorded: %d applied, %d failed", partial.Applied, partial.Failed))
	case errors.Is(err, models.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
	case errors.Is(err, models.ErrOptionNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, "Option not found")
	case errors.Is(err, models.ErrForbidden):
		middleware.ErrorResponse(w, http.StatusForbidden, "Only the poll author can do that")
	case errors.Is(err, models.ErrAlreadyVoted):
		middleware.ErrorResponse(w, http.StatusConflict, "You have already voted on this poll")
	default:
		slog.Error("failed to "+action, "request_id", middleware.RequestID(r.Context()), "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to "+action)
	}
}

// pollIDParam reads the numeric {pollId} path value, writing a 400 if it
// is not a number.
func pollIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.PathValue("pollId")
	pollID, err := strconv.Atoi(raw)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "pollId must be a number")
		return 0, false
	}
	return pollID, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
