// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"emperror.dev/errors"
	"github.com/AlekSi/pointer"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JasonByun5/pollify/models"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := Open(driverSQLite, filepath.Join(t.TempDir(), "pollify.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, CreateSchema(conn))
	return conn
}

func seedPoll(t *testing.T, s *Store, pollID int, author, pollType string, created time.Time) models.Poll {
	t.Helper()
	ctx := context.Background()

	p := models.Poll{
		ID:        fmt.Sprintf("poll-%d", pollID),
		PollID:    pollID,
		Author:    author,
		Title:     "Lunch",
		Type:      pollType,
		CreatedAt: created,
	}
	require.NoError(t, s.InsertPoll(ctx, p))

	var opts []models.PollOption
	for i, title := range []string{"Pizza", "Sushi"} {
		opt := models.PollOption{
			ID:       p.ID + "-opt-" + title,
			PollID:   pollID,
			Position: i,
			Title:    title,
		}
		if pollType == models.TypeYesNo {
			opt.YesVotes, opt.NoVotes, opt.MaybeVotes = pointer.ToInt64(0), pointer.ToInt64(0), pointer.ToInt64(0)
		} else {
			opt.VoteCount = pointer.ToInt64(0)
		}
		opts = append(opts, opt)
	}
	require.NoError(t, s.InsertOptions(ctx, opts))

	p.Options = opts
	return p
}

func TestCreateSchema_Idempotent(t *testing.T) {
	conn := openTestDB(t)
	assert.NoError(t, CreateSchema(conn))
}

func TestStore_InsertAndGet(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seeded := seedPoll(t, s, 123456, "alice", models.TypeMulti, created)

	exists, err := s.PollNumberExists(ctx, 123456)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.PollNumberExists(ctx, 654321)
	require.NoError(t, err)
	assert.False(t, exists)

	got, err := s.GetPoll(ctx, 123456)
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, got.ID)
	assert.Equal(t, "alice", got.Author)
	assert.True(t, created.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
	require.Len(t, got.Options, 2)
	assert.Equal(t, "Pizza", got.Options[0].Title)
	assert.Equal(t, "Sushi", got.Options[1].Title)
	require.NotNil(t, got.Options[0].VoteCount)
	assert.Nil(t, got.Options[0].YesVotes)

	_, err = s.GetPoll(ctx, 111111)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestStore_DuplicatePollID(t *testing.T) {
	s := NewStore(openTestDB(t))
	seedPoll(t, s, 123456, "alice", models.TypeMulti, time.Now().UTC())

	err := s.InsertPoll(context.Background(), models.Poll{
		ID:        "other",
		PollID:    123456,
		Author:    "bob",
		Title:     "Dinner",
		Type:      models.TypeMulti,
		CreatedAt: time.Now().UTC(),
	})
	assert.True(t, errors.Is(err, models.ErrDuplicatePollID), "got %v", err)
}

func TestStore_ListPolls(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	seedPoll(t, s, 100001, "alice", models.TypeMulti, base)
	seedPoll(t, s, 100002, "bob", models.TypeYesNo, base.Add(time.Hour))
	seedPoll(t, s, 100003, "alice", models.TypeRank, base.Add(2*time.Hour))

	all, err := s.ListPolls(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 100003, all[0].PollID)
	assert.Equal(t, 100001, all[2].PollID)
	for _, p := range all {
		assert.Len(t, p.Options, 2)
	}

	mine, err := s.ListPollsByAuthor(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, 100003, mine[0].PollID)

	none, err := s.ListPollsByAuthor(ctx, "carol")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStore_IncrementOption(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	multi := seedPoll(t, s, 200001, "alice", models.TypeMulti, time.Now().UTC())
	yesNo := seedPoll(t, s, 200002, "alice", models.TypeYesNo, time.Now().UTC())

	opt, err := s.IncrementOption(ctx, multi.PollID, multi.Options[0].ID, models.CounterVotes)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *opt.VoteCount)

	opt, err = s.IncrementOption(ctx, yesNo.PollID, yesNo.Options[1].ID, models.CounterMaybe)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *opt.MaybeVotes)
	assert.Equal(t, int64(0), *opt.YesVotes)

	t.Run("counter not applicable", func(t *testing.T) {
		_, err := s.IncrementOption(ctx, multi.PollID, multi.Options[0].ID, models.CounterYes)
		assert.True(t, errors.Is(err, models.ErrOptionNotFound))
	})

	t.Run("option from another poll", func(t *testing.T) {
		_, err := s.IncrementOption(ctx, multi.PollID, yesNo.Options[0].ID, models.CounterYes)
		assert.True(t, errors.Is(err, models.ErrOptionNotFound))
	})

	t.Run("unknown counter", func(t *testing.T) {
		_, err := s.IncrementOption(ctx, multi.PollID, multi.Options[0].ID, models.Counter("score; DROP TABLE polls"))
		assert.Error(t, err)
	})
}

func TestStore_IncrementOption_Concurrent(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	p := seedPoll(t, s, 300001, "alice", models.TypeMulti, time.Now().UTC())

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.IncrementOption(ctx, p.PollID, p.Options[1].ID, models.CounterVotes)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := s.GetPoll(ctx, p.PollID)
	require.NoError(t, err)
	assert.Equal(t, int64(n), *got.Options[1].VoteCount)
}

func TestStore_Votes(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	p := seedPoll(t, s, 400001, "alice", models.TypeMulti, time.Now().UTC())

	for i, opt := range p.Options {
		require.NoError(t, s.InsertVote(ctx, models.Vote{
			ID:        opt.ID + "-vote",
			PollID:    p.PollID,
			OptionID:  opt.ID,
			VoterID:   "bob",
			VoteType:  models.VoteTypeMulti,
			CreatedAt: time.Now().UTC().Add(time.Duration(i) * time.Second),
		}))
	}

	votes, err := s.FindVotes(ctx, p.PollID, "bob")
	require.NoError(t, err)
	require.Len(t, votes, 2)
	assert.Equal(t, p.Options[0].ID, votes[0].OptionID)

	votes, err = s.FindVotes(ctx, p.PollID, "carol")
	require.NoError(t, err)
	assert.Empty(t, votes)
}

func TestStore_DeleteCascadeOrder(t *testing.T) {
	s := NewStore(openTestDB(t))
	ctx := context.Background()
	p := seedPoll(t, s, 500001, "alice", models.TypeMulti, time.Now().UTC())

	require.NoError(t, s.InsertVote(ctx, models.Vote{
		ID: "v1", PollID: p.PollID, OptionID: p.Options[0].ID, VoterID: "bob",
		VoteType: models.VoteTypeMulti, CreatedAt: time.Now().UTC(),
	}))

	// children still reference the poll
	assert.Error(t, s.DeletePollRow(ctx, p.PollID))

	require.NoError(t, s.DeleteVotes(ctx, p.PollID))
	require.NoError(t, s.DeleteOptions(ctx, p.PollID))
	require.NoError(t, s.DeletePollRow(ctx, p.PollID))

	_, err := s.GetPoll(ctx, p.PollID)
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.DeletePollRow(ctx, p.PollID)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}
