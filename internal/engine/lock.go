package engine

import "sync"

// itemLocks hands out one mutex per content item id so transitions on the
// same item serialize while different items proceed in parallel. Entries are
// reference counted and removed once the last holder releases.
type itemLocks struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newItemLocks() *itemLocks {
	return &itemLocks{m: make(map[string]*lockEntry)}
}

// Acquire blocks until the lock for id is held and returns the release
// function.
func (l *itemLocks) Acquire(id string) func() {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &lockEntry{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()

	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
