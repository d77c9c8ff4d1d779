// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"

	"github.com/JasonByun5/pollify/models"
)

// Store is the durable relational store for polls, options and votes.
// *db.Store implements it.
type Store interface {
	PollNumberExists(ctx context.Context, pollID int) (bool, error)
	InsertPoll(ctx context.Context, p models.Poll) error
	InsertOptions(ctx context.Context, opts []models.PollOption) error
	GetPoll(ctx context.Context, pollID int) (models.Poll, error)
	ListPolls(ctx context.Context) ([]models.Poll, error)
	ListPollsByAuthor(ctx context.Context, author string) ([]models.Poll, error)
	IncrementOption(ctx context.Context, pollID int, optionID string, counter models.Counter) (models.PollOption, error)
	InsertVote(ctx context.Context, v models.Vote) error
	FindVotes(ctx context.Context, pollID int, voterID string) ([]models.Vote, error)
	DeleteVotes(ctx context.Context, pollID int) error
	DeleteOptions(ctx context.Context, pollID int) error
	DeletePollRow(ctx context.Context, pollID int) error
}

// BlobStore holds option images. *blob.FileStore implements it.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}
