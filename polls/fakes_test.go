// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"context"
	"sort"
	"sync"

	"emperror.dev/errors"

	"github.com/JasonByun5/pollify/models"
)

// memStore is an in-memory Store with failure injection
type memStore struct {
	mu      sync.Mutex
	polls   map[int]models.Poll
	options map[int][]models.PollOption
	votes   []models.Vote

	// reported by PollNumberExists without being stored
	taken map[int]bool

	insertDuplicates int
	failOptions      error
	failIncrement    map[string]error
	failDeleteVotes  error
	failVoteInsert   error
}

func newMemStore() *memStore {
	return &memStore{
		polls:         map[int]models.Poll{},
		options:       map[int][]models.PollOption{},
		taken:         map[int]bool{},
		failIncrement: map[string]error{},
	}
}

func (m *memStore) PollNumberExists(_ context.Context, pollID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.polls[pollID]
	return ok || m.taken[pollID], nil
}

func (m *memStore) InsertPoll(_ context.Context, p models.Poll) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertDuplicates > 0 {
		m.insertDuplicates--
		return models.ErrDuplicatePollID
	}
	if _, ok := m.polls[p.PollID]; ok {
		return models.ErrDuplicatePollID
	}
	m.polls[p.PollID] = p
	return nil
}

func (m *memStore) InsertOptions(_ context.Context, opts []models.PollOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOptions != nil {
		return m.failOptions
	}
	for _, opt := range opts {
		m.options[opt.PollID] = append(m.options[opt.PollID], cloneOption(opt))
	}
	return nil
}

func (m *memStore) GetPoll(_ context.Context, pollID int) (models.Poll, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(pollID)
}

func (m *memStore) load(pollID int) (models.Poll, error) {
	p, ok := m.polls[pollID]
	if !ok {
		return models.Poll{}, models.ErrNotFound
	}
	p.Options = []models.PollOption{}
	for _, opt := range m.options[pollID] {
		p.Options = append(p.Options, cloneOption(opt))
	}
	return p, nil
}

func (m *memStore) ListPolls(_ context.Context) ([]models.Poll, error) {
	return m.list(func(models.Poll) bool { return true }), nil
}

func (m *memStore) ListPollsByAuthor(_ context.Context, author string) ([]models.Poll, error) {
	return m.list(func(p models.Poll) bool { return p.Author == author }), nil
}

func (m *memStore) list(keep func(models.Poll) bool) []models.Poll {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Poll{}
	for id, p := range m.polls {
		if keep(p) {
			loaded, _ := m.load(id)
			out = append(out, loaded)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *memStore) IncrementOption(_ context.Context, pollID int, optionID string, counter models.Counter) (models.PollOption, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failIncrement[optionID]; err != nil {
		return models.PollOption{}, err
	}
	for i, opt := range m.options[pollID] {
		if opt.ID != optionID {
			continue
		}
		var c *int64
		switch counter {
		case models.CounterVotes:
			c = opt.VoteCount
		case models.CounterYes:
			c = opt.YesVotes
		case models.CounterNo:
			c = opt.NoVotes
		case models.CounterMaybe:
			c = opt.MaybeVotes
		}
		if c == nil {
			return models.PollOption{}, models.ErrOptionNotFound
		}
		*c++
		return cloneOption(m.options[pollID][i]), nil
	}
	return models.PollOption{}, models.ErrOptionNotFound
}

func (m *memStore) InsertVote(_ context.Context, v models.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failVoteInsert != nil {
		return m.failVoteInsert
	}
	m.votes = append(m.votes, v)
	return nil
}

func (m *memStore) FindVotes(_ context.Context, pollID int, voterID string) ([]models.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Vote{}
	for _, v := range m.votes {
		if v.PollID == pollID && v.VoterID == voterID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memStore) DeleteVotes(_ context.Context, pollID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDeleteVotes != nil {
		return m.failDeleteVotes
	}
	kept := m.votes[:0]
	for _, v := range m.votes {
		if v.PollID != pollID {
			kept = append(kept, v)
		}
	}
	m.votes = kept
	return nil
}

func (m *memStore) DeleteOptions(_ context.Context, pollID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.options, pollID)
	return nil
}

func (m *memStore) DeletePollRow(_ context.Context, pollID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.polls[pollID]; !ok {
		return models.ErrNotFound
	}
	if len(m.options[pollID]) > 0 {
		return errors.New("poll still has options")
	}
	delete(m.polls, pollID)
	return nil
}

func (m *memStore) voteCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.votes)
}

func cloneOption(o models.PollOption) models.PollOption {
	dup := func(p *int64) *int64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	o.VoteCount = dup(o.VoteCount)
	o.YesVotes = dup(o.YesVotes)
	o.NoVotes = dup(o.NoVotes)
	o.MaybeVotes = dup(o.MaybeVotes)
	return o
}

// memBlobs is an in-memory BlobStore
type memBlobs struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted    []string
	failPut    bool
	failDelete bool
}

func newMemBlobs() *memBlobs {
	return &memBlobs{objects: map[string][]byte{}}
}

func (b *memBlobs) Put(_ context.Context, key, _ string, data []byte) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failPut {
		return "", errors.New("bucket unavailable")
	}
	b.objects[key] = data
	return "http://blobs.test/images/" + key, nil
}

func (b *memBlobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failDelete {
		return errors.New("bucket unavailable")
	}
	delete(b.objects, key)
	b.deleted = append(b.deleted, key)
	return nil
}

func (b *memBlobs) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.objects)
}
