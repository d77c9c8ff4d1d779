// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"html"
	"log/slog"
	"strings"
	"sync"
	"time"

	"emperror.dev/errors"
	"github.com/AlekSi/pointer"
	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/JasonByun5/pollify/auth"
	"github.com/JasonByun5/pollify/blob"
	"github.com/JasonByun5/pollify/metrics"
	"github.com/JasonByun5/pollify/models"
)

// DefaultMaxIDAttempts bounds how many shareable ids are drawn per poll
const DefaultMaxIDAttempts = 5

var errNotImage = errors.New("upload is not an image")

type Config struct {
	// MaxIDAttempts caps poll id draws, across both the existence check
	// and unique-constraint conflicts at insert.
	MaxIDAttempts int

	// SingleVote rejects a voter who already has a vote on the poll.
	SingleVote bool
}

// ImageUpload is an option image as received from the client
type ImageUpload struct {
	Filename string
	Data     []byte
}

type OptionInput struct {
	Name        string
	Description string
	Image       *ImageUpload
}

type CreateInput struct {
	Author      string
	Title       string
	Description string
	Type        string
	Options     []OptionInput
}

// Service implements poll creation, retrieval, voting, tallying and
// deletion on top of a Store and a BlobStore.
type Service struct {
	store Store
	blobs BlobStore
	cfg   Config

	newPollNumber func() (int, error)
	newID         func() string
	now           func() time.Time
	policy        *bluemonday.Policy
	voters        voterLocks
}

func NewService(store Store, blobs BlobStore, cfg Config) *Service {
	if cfg.MaxIDAttempts <= 0 {
		cfg.MaxIDAttempts = DefaultMaxIDAttempts
	}
	return &Service{
		store:         store,
		blobs:         blobs,
		cfg:           cfg,
		newPollNumber: auth.GeneratePollNumber,
		newID:         uuid.NewString,
		now:           func() time.Time { return time.Now().UTC() },
		policy:        bluemonday.StrictPolicy(),
	}
}

// Create validates the input, assigns a shareable poll id, uploads option
// images and persists the poll with its options. If the options cannot be
// stored, the poll row and any uploaded images are removed again.
func (s *Service) Create(ctx context.Context, in CreateInput) (models.Poll, error) {
	poll, options, err := s.prepare(in)
	if err != nil {
		return models.Poll{}, err
	}

	if err := s.insertPoll(ctx, &poll); err != nil {
		return models.Poll{}, err
	}
	for i := range options {
		options[i].PollID = poll.PollID
	}

	uploaded := s.uploadImages(ctx, poll.PollID, in.Options, options)

	if err := s.store.InsertOptions(ctx, options); err != nil {
		slog.Error("failed to insert options, rolling back poll", "poll_id", poll.PollID, "error", err)
		s.rollbackCreate(context.WithoutCancel(ctx), poll.PollID, uploaded)
		return models.Poll{}, err
	}

	poll.Options = options
	metrics.PollsCreated.Inc()
	slog.Info("poll created", "poll_id", poll.PollID, "author", poll.Author, "type", poll.Type, "options", len(options))

	return poll, nil
}

func (s *Service) prepare(in CreateInput) (models.Poll, []models.PollOption, error) {
	title, err := s.clean("title", in.Title)
	if err != nil {
		return models.Poll{}, nil, err
	}
	if title == "" {
		return models.Poll{}, nil, models.NewValidationError("title", "title is required")
	}
	description, err := s.clean("description", in.Description)
	if err != nil {
		return models.Poll{}, nil, err
	}
	if !models.ValidPollType(in.Type) {
		return models.Poll{}, nil, models.NewValidationError("type", "type must be one of multi, yes/no, rank")
	}
	author := strings.TrimSpace(in.Author)
	if author == "" {
		return models.Poll{}, nil, models.NewValidationError("author", "author is required")
	}
	if len(in.Options) == 0 {
		return models.Poll{}, nil, models.NewValidationError("options", "at least one option is required")
	}

	poll := models.Poll{
		ID:          s.newID(),
		Author:      author,
		Title:       title,
		Description: description,
		Type:        in.Type,
		CreatedAt:   s.now(),
	}

	options := make([]models.PollOption, 0, len(in.Options))
	for i, o := range in.Options {
		name, err := s.clean("options", o.Name)
		if err != nil {
			return models.Poll{}, nil, err
		}
		if name == "" {
			return models.Poll{}, nil, models.NewValidationError("options", "option %d: name is required", i+1)
		}
		desc, err := s.clean("options", o.Description)
		if err != nil {
			return models.Poll{}, nil, err
		}

		opt := models.PollOption{
			ID:          s.newID(),
			Position:    i,
			Title:       name,
			Description: desc,
		}
		if in.Type == models.TypeYesNo {
			opt.YesVotes = pointer.ToInt64(0)
			opt.NoVotes = pointer.ToInt64(0)
			opt.MaybeVotes = pointer.ToInt64(0)
		} else {
			opt.VoteCount = pointer.ToInt64(0)
		}
		options = append(options, opt)
	}

	return poll, options, nil
}

// clean trims user text and rejects anything the strict HTML policy would
// change. Accepted text is stored exactly as sent.
func (s *Service) clean(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if html.UnescapeString(s.policy.Sanitize(v)) != html.UnescapeString(v) {
		return "", models.NewValidationError(field, "%s must not contain HTML markup", field)
	}
	return v, nil
}

// insertPoll assigns a shareable id and inserts the poll row. A candidate
// that collides with an existing poll is redrawn; once the attempt budget is
// spent the last candidate is used as is. A unique-constraint conflict at
// insert also triggers a redraw while budget remains.
func (s *Service) insertPoll(ctx context.Context, p *models.Poll) error {
	attempts := 0
	for {
		n, err := s.pickPollNumber(ctx, &attempts)
		if err != nil {
			return err
		}
		p.PollID = n

		err = s.store.InsertPoll(ctx, *p)
		if err == nil {
			return nil
		}
		if !errors.Is(err, models.ErrDuplicatePollID) || attempts >= s.cfg.MaxIDAttempts {
			return errors.WrapIf(err, "failed to insert poll")
		}
		slog.Warn("poll id taken at insert, drawing another", "poll_id", n)
	}
}

func (s *Service) pickPollNumber(ctx context.Context, attempts *int) (int, error) {
	var n int
	for *attempts < s.cfg.MaxIDAttempts {
		*attempts++

		candidate, err := s.newPollNumber()
		if err != nil {
			return 0, err
		}
		n = candidate

		taken, err := s.store.PollNumberExists(ctx, n)
		if err != nil {
			return 0, err
		}
		if !taken {
			return n, nil
		}
		slog.Debug("poll id collision", "poll_id", n, "attempt", *attempts)
	}
	return n, nil
}

// uploadImages uploads every attached image concurrently and records the
// key and URL on the matching option. Failed uploads leave the option
// without an image. Returns the keys that were stored.
func (s *Service) uploadImages(ctx context.Context, pollID int, inputs []OptionInput, options []models.PollOption) []string {
	var wg sync.WaitGroup
	for i, in := range inputs {
		if in.Image == nil || len(in.Image.Data) == 0 {
			continue
		}

		wg.Add(1)
		go func(i int, img *ImageUpload) {
			defer wg.Done()

			key, url, err := s.uploadImage(ctx, pollID, i, img)
			if err != nil {
				slog.Warn("image upload failed, continuing without image",
					"poll_id", pollID, "option", i, "filename", img.Filename, "error", err)
				metrics.BlobFailures.WithLabelValues("put").Inc()
				return
			}
			options[i].ImageKey = key
			options[i].ImageURL = url
		}(i, in.Image)
	}
	wg.Wait()

	var keys []string
	for _, opt := range options {
		if opt.ImageKey != "" {
			keys = append(keys, opt.ImageKey)
		}
	}
	return keys
}

func (s *Service) uploadImage(ctx context.Context, pollID, index int, img *ImageUpload) (string, string, error) {
	mime := mimetype.Detect(img.Data)
	if !strings.HasPrefix(mime.String(), "image/") {
		return "", "", errors.WithDetails(errNotImage, "detected", mime.String())
	}

	key := blob.Key(pollID, index, img.Filename)
	url, err := s.blobs.Put(ctx, key, mime.String(), img.Data)
	if err != nil {
		return "", "", err
	}

	slog.Debug("image uploaded", "poll_id", pollID, "key", key, "size", humanize.Bytes(uint64(len(img.Data))))
	return key, url, nil
}

func (s *Service) rollbackCreate(ctx context.Context, pollID int, uploaded []string) {
	s.removeBlobs(ctx, uploaded)
	if err := s.store.DeletePollRow(ctx, pollID); err != nil {
		slog.Error("failed to roll back poll", "poll_id", pollID, "error", err)
	}
}

// removeBlobs is best effort; failures are logged and counted only
func (s *Service) removeBlobs(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(ctx, key); err != nil {
			slog.Warn("failed to delete image", "key", key, "error", err)
			metrics.BlobFailures.WithLabelValues("delete").Inc()
		}
	}
}

// Get returns one poll with its options, or models.ErrNotFound
func (s *Service) Get(ctx context.Context, pollID int) (models.Poll, error) {
	return s.store.GetPoll(ctx, pollID)
}

// List returns every poll, newest first
func (s *Service) List(ctx context.Context) ([]models.Poll, error) {
	return s.store.ListPolls(ctx)
}

// ListByAuthor returns the author's polls, newest first
func (s *Service) ListByAuthor(ctx context.Context, author string) ([]models.Poll, error) {
	if strings.TrimSpace(author) == "" {
		return nil, models.NewValidationError("authorId", "author is required")
	}
	return s.store.ListPollsByAuthor(ctx, author)
}

// Tally loads the poll and computes its results
func (s *Service) Tally(ctx context.Context, pollID int) (models.Tally, error) {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return models.Tally{}, err
	}
	return ComputeTally(poll), nil
}

// Delete removes the poll with its votes, option images and options, in
// that order. Image removal is best effort. A failure deleting votes or
// options stops the cascade and leaves the poll row in place.
// A non-empty requester must be the poll author.
func (s *Service) Delete(ctx context.Context, pollID int, requester string) error {
	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return err
	}
	if requester != "" && requester != poll.Author {
		return models.ErrForbidden
	}

	if err := s.store.DeleteVotes(ctx, pollID); err != nil {
		return errors.WrapIf(err, "failed to delete poll votes")
	}

	var keys []string
	for _, opt := range poll.Options {
		if opt.ImageKey != "" {
			keys = append(keys, opt.ImageKey)
		}
	}
	s.removeBlobs(ctx, keys)

	if err := s.store.DeleteOptions(ctx, pollID); err != nil {
		return errors.WrapIf(err, "failed to delete poll options")
	}
	if err := s.store.DeletePollRow(ctx, pollID); err != nil {
		return errors.WrapIf(err, "failed to delete poll")
	}

	metrics.PollsDeleted.Inc()
	slog.Info("poll deleted", "poll_id", pollID, "options", len(poll.Options))

	return nil
}
