// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package polls

import (
	"strconv"
	"sync"
)

// voterLocks hands out one mutex per poll and voter. Entries are dropped
// once nobody holds or waits on them.
type voterLocks struct {
	mu    sync.Mutex
	locks map[string]*voterLock
}

type voterLock struct {
	sync.Mutex
	refs int
}

// lock blocks until the caller owns the (pollID, voterID) slot and returns
// the matching unlock.
func (l *voterLocks) lock(pollID int, voterID string) func() {
	key := strconv.Itoa(pollID) + "/" + voterID

	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*voterLock)
	}
	vl, ok := l.locks[key]
	if !ok {
		vl = &voterLock{}
		l.locks[key] = vl
	}
	vl.refs++
	l.mu.Unlock()

	vl.Lock()
	return func() {
		vl.Unlock()

		l.mu.Lock()
		vl.refs--
		if vl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
