// Package queue provides per-specialist serialization for queue transitions.
package queue

import (
	"sync"

	"github.com/google/uuid"
)

// Locks hands out one mutex per specialist so transitions on the same queue
// run strictly one at a time within this process. Row locks inside the
// transaction still protect against other processes; this keeps local
// contention off the database.
type Locks struct {
	mutexes sync.Map
}

// NewLocks creates an empty lock set.
func NewLocks() *Locks {
	return &Locks{}
}

// Lock acquires the mutex for one specialist and returns the unlock func.
func (l *Locks) Lock(specialistID uuid.UUID) func() {
	value, _ := l.mutexes.LoadOrStore(specialistID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
