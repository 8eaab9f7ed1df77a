package app

import (
	"sort"
	"sync"
)

// accountLocks serializes read-modify-write sequences per account number.
// Transfers lock both accounts; locks are always acquired in ascending
// number order so two opposing transfers cannot deadlock.
type accountLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: make(map[int64]*sync.Mutex)}
}

func (l *accountLocks) get(number int64) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[number]
	if !ok {
		m = &sync.Mutex{}
		l.locks[number] = m
	}
	return m
}

// acquire locks the given account numbers in ascending order and returns a
// release function that unlocks them in reverse. Duplicate numbers are
// locked once.
func (l *accountLocks) acquire(numbers ...int64) (release func()) {
	sorted := make([]int64, 0, len(numbers))
	seen := make(map[int64]struct{}, len(numbers))
	for _, n := range numbers {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		sorted = append(sorted, n)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	held := make([]*sync.Mutex, 0, len(sorted))
	for _, n := range sorted {
		m := l.get(n)
		m.Lock()
		held = append(held, m)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
