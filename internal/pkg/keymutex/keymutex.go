package keymutex

import (
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
)

// KeyMutex provides lazily-allocated mutexes keyed by string, so operations
// on unrelated keys never block each other. Used to serialize redemptions per
// token value, toggles per (employee, event) pair, and approvals per
// employee.
type KeyMutex struct {
	mus *xsync.MapOf[string, *sync.Mutex]
}

func New() *KeyMutex {
	return &KeyMutex{
		mus: xsync.NewMapOf[string, *sync.Mutex](),
	}
}

// Lock acquires the mutex for key and returns its unlock function.
func (k *KeyMutex) Lock(key string) func() {
	mu, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu.Lock()
	return mu.Unlock
}
