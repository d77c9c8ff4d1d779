// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"emperror.dev/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/JasonByun5/pollify/models"
)

const pollColumns = `id, poll_id, author, title, description, type, created_at`

const optionColumns = `id, poll_id, position, title, description, image_url, image_key,
	vote_count, yes_votes, no_votes, maybe_votes`

// Store persists polls, options and votes. Queries are written with "?"
// placeholders and rebound for the connected driver.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// PollNumberExists reports whether a poll already uses the shareable id
func (s *Store) PollNumberExists(ctx context.Context, pollID int) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, s.db.Rebind(`
		SELECT EXISTS(SELECT 1 FROM polls WHERE poll_id = ?)
	`), pollID)
	if err != nil {
		return false, errors.WrapIf(err, "failed to check poll id")
	}
	return exists, nil
}

// InsertPoll inserts the poll row only. A taken poll_id yields
// models.ErrDuplicatePollID.
func (s *Store) InsertPoll(ctx context.Context, p models.Poll) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO polls (id, poll_id, author, title, description, type, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`), p.ID, p.PollID, p.Author, p.Title, p.Description, p.Type, p.CreatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return models.ErrDuplicatePollID
		}
		return errors.WrapIf(err, "failed to insert poll")
	}
	return nil
}

// InsertOptions inserts all options in one transaction
func (s *Store) InsertOptions(ctx context.Context, opts []models.PollOption) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.WrapIf(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, opt := range opts {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO poll_options (`+optionColumns+`)
			VALUES (:id, :poll_id, :position, :title, :description, :image_url, :image_key,
				:vote_count, :yes_votes, :no_votes, :maybe_votes)
		`, opt)
		if err != nil {
			return errors.WrapIf(err, "failed to insert option")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.WrapIf(err, "failed to commit options")
	}
	return nil
}

// GetPoll returns one poll with its options ordered by position
func (s *Store) GetPoll(ctx context.Context, pollID int) (models.Poll, error) {
	var p models.Poll
	err := s.db.GetContext(ctx, &p, s.db.Rebind(`
		SELECT `+pollColumns+` FROM polls WHERE poll_id = ?
	`), pollID)
	if err == sql.ErrNoRows {
		return models.Poll{}, models.ErrNotFound
	}
	if err != nil {
		return models.Poll{}, errors.WrapIf(err, "failed to query poll")
	}

	polls := []models.Poll{p}
	if err := s.attachOptions(ctx, polls); err != nil {
		return models.Poll{}, err
	}
	return polls[0], nil
}

// ListPolls returns every poll, newest first
func (s *Store) ListPolls(ctx context.Context) ([]models.Poll, error) {
	polls := []models.Poll{}
	err := s.db.SelectContext(ctx, &polls, `
		SELECT `+pollColumns+` FROM polls ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, errors.WrapIf(err, "failed to query polls")
	}
	if err := s.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

// ListPollsByAuthor returns the author's polls, newest first
func (s *Store) ListPollsByAuthor(ctx context.Context, author string) ([]models.Poll, error) {
	polls := []models.Poll{}
	err := s.db.SelectContext(ctx, &polls, s.db.Rebind(`
		SELECT `+pollColumns+` FROM polls WHERE author = ? ORDER BY created_at DESC, id
	`), author)
	if err != nil {
		return nil, errors.WrapIf(err, "failed to query polls by author")
	}
	if err := s.attachOptions(ctx, polls); err != nil {
		return nil, err
	}
	return polls, nil
}

func (s *Store) attachOptions(ctx context.Context, polls []models.Poll) error {
	if len(polls) == 0 {
		return nil
	}

	ids := make([]int, len(polls))
	for i, p := range polls {
		ids[i] = p.PollID
	}

	query, args, err := sqlx.In(`
		SELECT `+optionColumns+` FROM poll_options
		WHERE poll_id IN (?)
		ORDER BY poll_id, position
	`, ids)
	if err != nil {
		return errors.WrapIf(err, "failed to build options query")
	}

	var options []models.PollOption
	if err := s.db.SelectContext(ctx, &options, s.db.Rebind(query), args...); err != nil {
		return errors.WrapIf(err, "failed to query options")
	}

	byPoll := make(map[int][]models.PollOption, len(polls))
	for _, opt := range options {
		byPoll[opt.PollID] = append(byPoll[opt.PollID], opt)
	}
	for i := range polls {
		polls[i].Options = byPoll[polls[i].PollID]
		if polls[i].Options == nil {
			polls[i].Options = []models.PollOption{}
		}
	}
	return nil
}

// IncrementOption atomically adds one to the option's counter and returns
// the updated option. A missing option, or a counter that does not apply to
// the option (NULL), yields models.ErrOptionNotFound.
func (s *Store) IncrementOption(ctx context.Context, pollID int, optionID string, counter models.Counter) (models.PollOption, error) {
	col, err := counterColumn(counter)
	if err != nil {
		return models.PollOption{}, err
	}

	query := fmt.Sprintf(`
		UPDATE poll_options SET %[1]s = %[1]s + 1
		WHERE id = ? AND poll_id = ? AND %[1]s IS NOT NULL
		RETURNING `+optionColumns, col)

	var opt models.PollOption
	err = s.db.GetContext(ctx, &opt, s.db.Rebind(query), optionID, pollID)
	if err == sql.ErrNoRows {
		return models.PollOption{}, models.ErrOptionNotFound
	}
	if err != nil {
		return models.PollOption{}, errors.WrapIf(err, "failed to increment option")
	}
	return opt, nil
}

func counterColumn(c models.Counter) (string, error) {
	switch c {
	case models.CounterVotes, models.CounterYes, models.CounterNo, models.CounterMaybe:
		return string(c), nil
	}
	return "", errors.Errorf("unknown counter %q", c)
}

// InsertVote appends an audit record
func (s *Store) InsertVote(ctx context.Context, v models.Vote) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`
		INSERT INTO votes (id, poll_id, option_id, voter_id, vote_type, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`), v.ID, v.PollID, v.OptionID, v.VoterID, v.VoteType, v.CreatedAt)
	if err != nil {
		return errors.WrapIf(err, "failed to insert vote")
	}
	return nil
}

// FindVotes returns the voter's audit records for a poll, oldest first
func (s *Store) FindVotes(ctx context.Context, pollID int, voterID string) ([]models.Vote, error) {
	votes := []models.Vote{}
	err := s.db.SelectContext(ctx, &votes, s.db.Rebind(`
		SELECT id, poll_id, option_id, voter_id, vote_type, created_at
		FROM votes
		WHERE poll_id = ? AND voter_id = ?
		ORDER BY created_at, id
	`), pollID, voterID)
	if err != nil {
		return nil, errors.WrapIf(err, "failed to query votes")
	}
	return votes, nil
}

func (s *Store) DeleteVotes(ctx context.Context, pollID int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM votes WHERE poll_id = ?`), pollID)
	return errors.WrapIf(err, "failed to delete votes")
}

func (s *Store) DeleteOptions(ctx context.Context, pollID int) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM poll_options WHERE poll_id = ?`), pollID)
	return errors.WrapIf(err, "failed to delete options")
}

// DeletePollRow deletes the poll row only; children must be gone already
func (s *Store) DeletePollRow(ctx context.Context, pollID int) error {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM polls WHERE poll_id = ?`), pollID)
	if err != nil {
		return errors.WrapIf(err, "failed to delete poll")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.WrapIf(err, "failed to delete poll")
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}

	return false
}
