// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"testing"

	"github.com/AlekSi/pointer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JasonByun5/pollify/models"
)

func TestPercentage(t *testing.T) {
	tests := []struct {
		count, total int64
		want         float64
	}{
		{0, 0, 0},
		{5, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 1, 100},
		{1, 8, 12.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Percentage(tt.count, tt.total), "%d/%d", tt.count, tt.total)
	}
}

func TestComputeTally_Multi(t *testing.T) {
	poll := models.Poll{
		PollID: 123456,
		Type:   models.TypeMulti,
		Options: []models.PollOption{
			{ID: "a", Title: "Pizza", VoteCount: pointer.ToInt64(2)},
			{ID: "b", Title: "Sushi", VoteCount: pointer.ToInt64(1)},
			{ID: "c", Title: "Tacos", VoteCount: pointer.ToInt64(0)},
		},
	}

	tally := ComputeTally(poll)

	assert.Equal(t, 123456, tally.PollID)
	assert.Equal(t, int64(3), tally.TotalVotes)
	require.Len(t, tally.Options, 3)
	assert.Equal(t, 66.7, tally.Options[0].Percentage)
	assert.Equal(t, 33.3, tally.Options[1].Percentage)
	assert.Equal(t, float64(0), tally.Options[2].Percentage)
}

func TestComputeTally_NoVotes(t *testing.T) {
	poll := models.Poll{
		Type: models.TypeRank,
		Options: []models.PollOption{
			{ID: "a", VoteCount: pointer.ToInt64(0)},
			{ID: "b", VoteCount: nil},
		},
	}

	tally := ComputeTally(poll)

	assert.Equal(t, int64(0), tally.TotalVotes)
	for _, opt := range tally.Options {
		assert.Equal(t, float64(0), opt.Percentage)
	}
}

func TestComputeTally_YesNo(t *testing.T) {
	poll := models.Poll{
		Type: models.TypeYesNo,
		Options: []models.PollOption{
			{ID: "a", YesVotes: pointer.ToInt64(3), NoVotes: pointer.ToInt64(1), MaybeVotes: pointer.ToInt64(2)},
			{ID: "b", YesVotes: pointer.ToInt64(0), NoVotes: pointer.ToInt64(4), MaybeVotes: pointer.ToInt64(0)},
		},
	}

	tally := ComputeTally(poll)

	assert.Equal(t, int64(10), tally.TotalVotes)
	assert.Equal(t, int64(2), tally.Options[0].Net)
	assert.Equal(t, int64(-4), tally.Options[1].Net)
	assert.Equal(t, int64(0), tally.Options[0].VoteCount)
}

func TestComputeTally_Empty(t *testing.T) {
	tally := ComputeTally(models.Poll{Type: models.TypeMulti})
	assert.NotNil(t, tally.Options)
	assert.Empty(t, tally.Options)
}
