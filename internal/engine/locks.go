package engine

import "sync"

// spaceLocks serializes transitions per space. Every state change locks
// the space's mutex for the whole read-validate-save cycle, so two
// concurrent entries on the same space cannot both pass the guard.
type spaceLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSpaceLocks() *spaceLocks {
	return &spaceLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the mutex for key and returns its unlock function.
func (l *spaceLocks) acquire(key string) func() {
	l.mu.Lock()
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
