// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollify API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(svc, cfg)

# Endpoints

Operational:

	GET /health  - Liveness
	GET /metrics - Prometheus metrics
	GET /        - Banner

Polls:

	POST   /polls                      - Create poll (token required when RequireAuth)
	GET    /polls                      - List polls, newest first
	GET    /polls/by-author/{authorId} - List an author's polls
	GET    /polls/{pollId}             - Get poll with options
	DELETE /polls/{pollId}             - Delete poll (author only)

Voting:

	PATCH /polls/{pollId}                - Cast a vote (rate limited per IP)
	GET   /polls/{pollId}/votes/{userId} - A user's recorded votes

Results and media:

	GET /results/{pollId} - Computed tally
	GET /images/{key}     - Stored option images

Every API route is wrapped with request logging and latency metrics.
Bearer tokens are optional on all routes except create and delete when
RequireAuth is set; a token that is present must be valid.
*/
package router
