// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Poll type constants
const (
	TypeMulti = "multi"
	TypeYesNo = "yes/no"
	TypeRank  = "rank"
)

// ValidPollType reports whether t is one of the recognized poll types.
func ValidPollType(t string) bool {
	switch t {
	case TypeMulti, TypeYesNo, TypeRank:
		return true
	}
	return false
}

// Choice is a tri-state answer on a yes/no poll option.
type Choice string

const (
	ChoiceYes   Choice = "yes"
	ChoiceNo    Choice = "no"
	ChoiceMaybe Choice = "maybe"
)

func (c Choice) Valid() bool {
	return c == ChoiceYes || c == ChoiceNo || c == ChoiceMaybe
}

// Counter returns the option counter incremented by this choice.
func (c Choice) Counter() Counter {
	switch c {
	case ChoiceYes:
		return CounterYes
	case ChoiceNo:
		return CounterNo
	default:
		return CounterMaybe
	}
}

// Counter names an option vote counter column.
type Counter string

const (
	CounterVotes Counter = "vote_count"
	CounterYes   Counter = "yes_votes"
	CounterNo    Counter = "no_votes"
	CounterMaybe Counter = "maybe_votes"
)

// Vote type tags recorded on audit rows
const (
	VoteTypeMulti = "multi"
	VoteTypeYes   = string(ChoiceYes)
	VoteTypeNo    = string(ChoiceNo)
	VoteTypeMaybe = string(ChoiceMaybe)
)

// Request types

type OptionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Desc        string `json:"desc"`
}

// CreatePollRequest is the JSON carried in the "payload" form field.
type CreatePollRequest struct {
	Author      string          `json:"author"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Desc        string          `json:"desc"`
	Type        string          `json:"type"`
	Options     []OptionRequest `json:"options"`
}

// VoteRequest is one of three shapes:
// {optionId}, {ranking: [...]} or {votes: {optionId: choice}}
type VoteRequest struct {
	OptionID string            `json:"optionId"`
	Ranking  []string          `json:"ranking"`
	Votes    map[string]string `json:"votes"`
	UserID   string            `json:"userId"`
}

// Response types

type CreatePollResponse struct {
	PollNumber int `json:"pollId"`
	Poll
}

type VoteResponse struct {
	Message  string      `json:"message"`
	Option   *PollOption `json:"option,omitempty"`
	Recorded int         `json:"recorded,omitempty"`
}

type UserVotesResponse struct {
	HasVoted bool   `json:"has_voted"`
	Votes    []Vote `json:"votes"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// Domain types

type Poll struct {
	ID          string       `json:"id" db:"id"`
	PollID      int          `json:"poll_id" db:"poll_id"`
	Author      string       `json:"author" db:"author"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	Type        string       `json:"type" db:"type"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	Options     []PollOption `json:"poll_options" db:"-"`
}

// PollOption counters are nil when they do not apply to the poll type:
// multi and rank polls carry VoteCount, yes/no polls carry the other three.
type PollOption struct {
	ID          string `json:"id" db:"id"`
	PollID      int    `json:"poll_id" db:"poll_id"`
	Position    int    `json:"index" db:"position"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	ImageURL    string `json:"image_url" db:"image_url"`
	ImageKey    string `json:"-" db:"image_key"`
	VoteCount   *int64 `json:"vote_count,omitempty" db:"vote_count"`
	YesVotes    *int64 `json:"yes_votes,omitempty" db:"yes_votes"`
	NoVotes     *int64 `json:"no_votes,omitempty" db:"no_votes"`
	MaybeVotes  *int64 `json:"maybe_votes,omitempty" db:"maybe_votes"`
}

type Vote struct {
	ID        string    `json:"id" db:"id"`
	PollID    int       `json:"poll_id" db:"poll_id"`
	OptionID  string    `json:"option_id" db:"option_id"`
	VoterID   string    `json:"voter_id,omitempty" db:"voter_id"`
	VoteType  string    `json:"vote_type" db:"vote_type"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Tally types

type OptionTally struct {
	OptionID   string  `json:"option_id"`
	Title      string  `json:"title"`
	VoteCount  int64   `json:"vote_count"`
	Percentage float64 `json:"percentage"`
	YesVotes   int64   `json:"yes_votes"`
	NoVotes    int64   `json:"no_votes"`
	MaybeVotes int64   `json:"maybe_votes"`
	Net        int64   `json:"net"`
}

type Tally struct {
	PollID     int           `json:"poll_id"`
	Type       string        `json:"type"`
	TotalVotes int64         `json:"total_votes"`
	Options    []OptionTally `json:"options"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
