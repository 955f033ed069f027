package service

import "sync"

// listingLocks serializes validate-and-insert sequences per listing so two
// concurrent window creations cannot both pass the overlap check. The map
// grows with the number of distinct listings touched; entries are a bare
// mutex each, so no eviction is performed.
type listingLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newListingLocks() *listingLocks {
	return &listingLocks{locks: make(map[uint]*sync.Mutex)}
}

// Acquire locks the mutex for the given listing and returns its unlock func.
func (l *listingLocks) Acquire(listingID uint) func() {
	l.mu.Lock()
	m, ok := l.locks[listingID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[listingID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
