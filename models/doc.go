// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and error types for the API.

# Request Types

  - CreatePollRequest: author, title, description, type, options
  - OptionRequest: name, description
  - VoteRequest: optionId, ranking, votes, userId

# Response Types

  - CreatePollResponse: pollId plus the created poll
  - VoteResponse: message, updated option or recorded count
  - UserVotesResponse: has_voted, votes
  - ErrorResponse: error, message

# Domain Types

  - Poll: poll metadata, keyed by the shareable 6-digit poll_id
  - PollOption: option with type-dependent counters
  - Vote: audit record of a single recorded vote
  - Tally, OptionTally: computed results, never persisted

# Constants

Poll types:

	TypeMulti = "multi"
	TypeYesNo = "yes/no"
	TypeRank  = "rank"

Tri-state choices for yes/no polls:

	ChoiceYes   = "yes"
	ChoiceNo    = "no"
	ChoiceMaybe = "maybe"

# Errors

ValidationError, ErrNotFound, ErrOptionNotFound, ErrForbidden, ErrAlreadyVoted
and PartialFailureError map to HTTP 400, 404, 404, 403, 409 and 500.
ErrDuplicatePollID never leaves the poll service.
*/
package models
