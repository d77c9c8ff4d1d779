// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollify API.

# Handler Types

Each handler is a struct holding the poll service and config:

  - PollHandler: create, list, fetch and delete polls
  - VotingHandler: vote casting and per-user vote history
  - ResultsHandler: computed tallies

Handlers are created via constructor functions:

	pollHandler := handlers.NewPollHandler(svc, cfg)

# Polls

	POST   /polls                     → CreatePoll (multipart or JSON)
	GET    /polls                     → ListPolls
	GET    /polls/by-author/{authorId} → ListByAuthor
	GET    /polls/{pollId}            → GetPoll
	DELETE /polls/{pollId}            → DeletePoll (author only)

Multipart creates carry a "payload" field with the JSON request and one
"files" part per option, in option order. An empty part means the option
has no image.

# Voting

	PATCH /polls/{pollId}                → Vote
	GET   /polls/{pollId}/votes/{userId} → GetUserVotes

A vote body has exactly one of optionId (multi), ranking (rank) or votes
(yes/no batch). When a bearer token is present its subject is the voter.

# Results

	GET /results/{pollId} → GetResults

Service errors are mapped to status codes in respond.go.
*/
package handlers
