package spin

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLock_MutualExclusion(t *testing.T) {
	var l Lock
	var counter int

	const goroutines = 32
	const increments = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, goroutines*increments, counter)
}

func TestLock_TryLock(t *testing.T) {
	var l Lock

	assert.True(t, l.TryLock())
	assert.False(t, l.TryLock())

	l.Unlock()
	assert.True(t, l.TryLock())
	l.Unlock()
}
