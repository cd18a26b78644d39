package queue

import (
	"sync"
	"testing"

	"github.com/google/uuid"
)

func TestLockSerializesSameSpecialist(t *testing.T) {
	locks := NewLocks()
	specialistID := uuid.New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := locks.Lock(specialistID)
			defer unlock()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Fatalf("expected 50 serialized increments, got %d", counter)
	}
}

func TestLockIndependentSpecialists(t *testing.T) {
	locks := NewLocks()
	first := uuid.New()
	second := uuid.New()

	unlockFirst := locks.Lock(first)
	defer unlockFirst()

	// A different specialist's lock must not block.
	done := make(chan struct{})
	go func() {
		unlock := locks.Lock(second)
		unlock()
		close(done)
	}()

	<-done
}
