package pkg

import "sync"

// KeyedMutex - serializes read-modify-write cycles per record id so two
// near-simultaneous requests for the same table or game state cannot both
// validate against a stale read.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[string]*keyedLock),
	}
}

// Lock - acquires the lock for key and returns the matching unlock. Entries
// are reference-counted and dropped once the last holder releases, so the map
// only grows with concurrently locked keys.
func (that *KeyedMutex) Lock(key string) func() {
	that.mu.Lock()
	lock, ok := that.locks[key]
	if !ok {
		lock = &keyedLock{}
		that.locks[key] = lock
	}
	lock.refs++
	that.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		that.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(that.locks, key)
		}
		that.mu.Unlock()
	}
}
