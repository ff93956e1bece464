package library

import (
	"sort"
	"sync"
)

// nameLocks serializes operations per sanitized piece name so concurrent
// requests against the same directory cannot interleave between the
// existence check and the mutation.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newNameLocks() *nameLocks {
	return &nameLocks{locks: make(map[string]*sync.Mutex)}
}

func (n *nameLocks) lock(name string) func() {
	n.mu.Lock()
	l, ok := n.locks[name]
	if !ok {
		l = &sync.Mutex{}
		n.locks[name] = l
	}
	n.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// lockAll acquires locks for several names in sorted order to keep lock
// acquisition deadlock free. Duplicate names are locked once.
func (n *nameLocks) lockAll(names ...string) func() {
	unique := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		unique = append(unique, name)
	}
	sort.Strings(unique)

	unlocks := make([]func(), 0, len(unique))
	for _, name := range unique {
		unlocks = append(unlocks, n.lock(name))
	}
	return func() {
		for i := len(unlocks) - 1; i >= 0; i-- {
			unlocks[i]()
		}
	}
}
