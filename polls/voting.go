// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"emperror.dev/errors"

	"github.com/JasonByun5/pollify/metrics"
	"github.com/JasonByun5/pollify/models"
)

// Vote records a single vote for a multi or rank poll option.
func (s *Service) Vote(ctx context.Context, pollID int, optionID, voterID string) (models.PollOption, error) {
	if strings.TrimSpace(optionID) == "" {
		return models.PollOption{}, models.NewValidationError("optionId", "optionId is required")
	}

	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollOption{}, err
	}
	if poll.Type == models.TypeYesNo {
		return models.PollOption{}, models.NewValidationError("votes", "yes/no polls take a votes map")
	}

	return s.recordSingle(ctx, poll, optionID, voterID)
}

// VoteRanking records a rank vote. The full ranking is validated and the
// first-ranked option is credited.
func (s *Service) VoteRanking(ctx context.Context, pollID int, ranking []string, voterID string) (models.PollOption, error) {
	if len(ranking) == 0 {
		return models.PollOption{}, models.NewValidationError("ranking", "ranking must not be empty")
	}

	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return models.PollOption{}, err
	}
	if poll.Type != models.TypeRank {
		return models.PollOption{}, models.NewValidationError("ranking", "ranking is only accepted for rank polls")
	}

	seen := make(map[string]bool, len(ranking))
	for _, id := range ranking {
		if seen[id] {
			return models.PollOption{}, models.NewValidationError("ranking", "option %q is ranked twice", id)
		}
		seen[id] = true
		if !hasOption(poll, id) {
			return models.PollOption{}, models.NewValidationError("ranking", "unknown option %q", id)
		}
	}

	return s.recordSingle(ctx, poll, ranking[0], voterID)
}

func (s *Service) recordSingle(ctx context.Context, poll models.Poll, optionID, voterID string) (models.PollOption, error) {
	if !hasOption(poll, optionID) {
		return models.PollOption{}, models.NewValidationError("optionId", "unknown option %q", optionID)
	}
	defer s.serializeVoter(poll.PollID, voterID)()
	if err := s.checkVoter(ctx, poll.PollID, voterID); err != nil {
		return models.PollOption{}, err
	}

	opt, err := s.store.IncrementOption(ctx, poll.PollID, optionID, models.CounterVotes)
	if err != nil {
		return models.PollOption{}, errors.WrapIf(err, "failed to record vote")
	}

	// single-option votes are audited as multi for rank polls too
	metrics.VotesRecorded.WithLabelValues(poll.Type).Inc()
	s.audit(ctx, poll.PollID, optionID, voterID, models.VoteTypeMulti)

	slog.Info("vote recorded", "poll_id", poll.PollID, "option_id", optionID, "type", poll.Type)
	return opt, nil
}

// VoteBatch applies a yes/no/maybe choice to each listed option of a yes/no
// poll. Increments run concurrently and are independent: when some fail the
// successful ones stay applied and a *models.PartialFailureError is returned.
// When all fail the combined error is returned.
func (s *Service) VoteBatch(ctx context.Context, pollID int, votes map[string]models.Choice, voterID string) (int, error) {
	if len(votes) == 0 {
		return 0, models.NewValidationError("votes", "at least one vote is required")
	}

	poll, err := s.store.GetPoll(ctx, pollID)
	if err != nil {
		return 0, err
	}
	if poll.Type != models.TypeYesNo {
		return 0, models.NewValidationError("optionId", "%s polls take a single optionId", poll.Type)
	}

	for optionID, choice := range votes {
		if !choice.Valid() {
			return 0, models.NewValidationError("votes", "choice %q for option %q must be yes, no or maybe", choice, optionID)
		}
		if !hasOption(poll, optionID) {
			return 0, models.NewValidationError("votes", "unknown option %q", optionID)
		}
	}
	defer s.serializeVoter(pollID, voterID)()
	if err := s.checkVoter(ctx, pollID, voterID); err != nil {
		return 0, err
	}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		errs    []error
	)
	for optionID, choice := range votes {
		wg.Add(1)
		go func(optionID string, choice models.Choice) {
			defer wg.Done()

			if _, err := s.store.IncrementOption(ctx, pollID, optionID, choice.Counter()); err != nil {
				mu.Lock()
				errs = append(errs, errors.WrapIff(err, "failed to record %s vote for option %s", choice, optionID))
				mu.Unlock()
				return
			}

			metrics.VotesRecorded.WithLabelValues(string(choice)).Inc()
			s.audit(ctx, pollID, optionID, voterID, string(choice))

			mu.Lock()
			applied++
			mu.Unlock()
		}(optionID, choice)
	}
	wg.Wait()

	switch {
	case len(errs) == 0:
		slog.Info("votes recorded", "poll_id", pollID, "count", applied)
		return applied, nil
	case applied == 0:
		return 0, errors.Combine(errs...)
	default:
		slog.Warn("batch vote partially applied", "poll_id", pollID, "applied", applied, "failed", len(errs))
		return applied, &models.PartialFailureError{Applied: applied, Failed: len(errs), Err: errors.Combine(errs...)}
	}
}

// UserVotes returns the votes a voter has cast on a poll, oldest first.
func (s *Service) UserVotes(ctx context.Context, pollID int, voterID string) ([]models.Vote, error) {
	if strings.TrimSpace(voterID) == "" {
		return nil, models.NewValidationError("userId", "userId is required")
	}

	exists, err := s.store.PollNumberExists(ctx, pollID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrNotFound
	}

	return s.store.FindVotes(ctx, pollID, voterID)
}

// HasUserVoted reports whether the voter has any recorded vote on the poll.
func (s *Service) HasUserVoted(ctx context.Context, pollID int, voterID string) (bool, error) {
	votes, err := s.UserVotes(ctx, pollID, voterID)
	if err != nil {
		return false, err
	}
	return len(votes) > 0, nil
}

// checkVoter enforces one vote per voter when single-vote mode is on
func (s *Service) checkVoter(ctx context.Context, pollID int, voterID string) error {
	if !s.cfg.SingleVote {
		return nil
	}
	if strings.TrimSpace(voterID) == "" {
		return models.NewValidationError("userId", "userId is required when single-vote mode is on")
	}

	votes, err := s.store.FindVotes(ctx, pollID, voterID)
	if err != nil {
		return err
	}
	if len(votes) > 0 {
		return models.ErrAlreadyVoted
	}
	return nil
}

// serializeVoter holds the voter's slot on the poll from the single-vote
// check until the audit record is written. It is a no-op unless single-vote
// mode is on and the voter is known.
func (s *Service) serializeVoter(pollID int, voterID string) func() {
	if !s.cfg.SingleVote || voterID == "" {
		return func() {}
	}
	return s.voters.lock(pollID, voterID)
}

// audit writes the vote record. Counters are authoritative, so a failed
// insert is logged and the vote still counts.
func (s *Service) audit(ctx context.Context, pollID int, optionID, voterID, voteType string) {
	if voterID == "" {
		return
	}

	v := models.Vote{
		ID:        s.newID(),
		PollID:    pollID,
		OptionID:  optionID,
		VoterID:   voterID,
		VoteType:  voteType,
		CreatedAt: s.now(),
	}
	if err := s.store.InsertVote(ctx, v); err != nil {
		slog.Warn("failed to record vote audit", "poll_id", pollID, "option_id", optionID, "error", err)
	}
}

func hasOption(p models.Poll, optionID string) bool {
	for _, opt := range p.Options {
		if opt.ID == optionID {
			return true
		}
	}
	return false
}
