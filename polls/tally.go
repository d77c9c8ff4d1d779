// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"math"

	"github.com/JasonByun5/pollify/models"
)

// ComputeTally derives results from the stored counters. It has no side
// effects and can be recomputed at any time.
//
// For multi and rank polls the total is the sum of vote_count and each
// option gets a percentage rounded to one decimal. For yes/no polls the
// total counts every yes, no and maybe, and Net is yes minus no.
func ComputeTally(p models.Poll) models.Tally {
	t := models.Tally{
		PollID:  p.PollID,
		Type:    p.Type,
		Options: make([]models.OptionTally, 0, len(p.Options)),
	}

	for _, opt := range p.Options {
		ot := models.OptionTally{OptionID: opt.ID, Title: opt.Title}
		if p.Type == models.TypeYesNo {
			ot.YesVotes = value(opt.YesVotes)
			ot.NoVotes = value(opt.NoVotes)
			ot.MaybeVotes = value(opt.MaybeVotes)
			ot.Net = ot.YesVotes - ot.NoVotes
			t.TotalVotes += ot.YesVotes + ot.NoVotes + ot.MaybeVotes
		} else {
			ot.VoteCount = value(opt.VoteCount)
			t.TotalVotes += ot.VoteCount
		}
		t.Options = append(t.Options, ot)
	}

	if p.Type != models.TypeYesNo {
		for i := range t.Options {
			t.Options[i].Percentage = Percentage(t.Options[i].VoteCount, t.TotalVotes)
		}
	}

	return t
}

// Percentage returns count/total as a percent with one decimal place,
// or 0 when total is 0.
func Percentage(count, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(count)*1000/float64(total)) / 10
}

func value(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
