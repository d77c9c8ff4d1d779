// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/JasonByun5/pollify/blob"
	"github.com/JasonByun5/pollify/cliparse"
	"github.com/JasonByun5/pollify/handlers"
	"github.com/JasonByun5/pollify/metrics"
	"github.com/JasonByun5/pollify/middleware"
	"github.com/JasonByun5/pollify/polls"
)

func NewRouter(svc *polls.Service, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(svc, cfg)
	votingHandler := handlers.NewVotingHandler(svc, cfg)
	resultsHandler := handlers.NewResultsHandler(svc, cfg)

	optionalAuth := middleware.Authenticate(cfg.JWTSecret, false)
	authorAuth := middleware.Authenticate(cfg.JWTSecret, cfg.RequireAuth)

	route := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Poll management
	route("POST /polls", authorAuth(pollHandler.CreatePoll))
	route("GET /polls", pollHandler.ListPolls)
	route("GET /polls/by-author/{authorId}", pollHandler.ListByAuthor)
	route("GET /polls/{pollId}", pollHandler.GetPoll)
	route("DELETE /polls/{pollId}", authorAuth(pollHandler.DeletePoll))

	// Voting
	route("PATCH /polls/{pollId}", middleware.RateLimit(cfg.VoteRateLimit, optionalAuth(votingHandler.Vote)))
	route("GET /polls/{pollId}/votes/{userId}", votingHandler.GetUserVotes)

	// Results
	route("GET /results/{pollId}", resultsHandler.GetResults)

	// Option images
	images := http.StripPrefix(blob.URLPrefix, http.FileServer(http.Dir(cfg.BlobDir)))
	route("GET "+blob.URLPrefix+"{key}", images.ServeHTTP)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollify API v1"))
	})

	return mux
}
