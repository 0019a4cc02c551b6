package dispatch

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_DrainRunsInPostingOrder(t *testing.T) {
	q := NewQueue()

	var got []int
	for i := 0; i < 10; i++ {
		n := i
		q.Post(func() { got = append(got, n) })
	}

	assert.Equal(t, 10, q.Pending())
	q.Drain()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_PostFromOtherGoroutines(t *testing.T) {
	q := NewQueue()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Post(func() {})
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 800, q.Pending())

	// Wake must have fired at least once
	select {
	case <-q.Wake():
	default:
		t.Fatal("expected wake signal after posts")
	}

	q.Drain()
	assert.Equal(t, 0, q.Pending())
}

func TestQueue_ClosedQueueDropsWork(t *testing.T) {
	q := NewQueue()
	q.Close()

	ran := false
	q.Post(func() { ran = true })
	q.Drain()

	assert.False(t, ran)
	assert.Equal(t, 0, q.Pending())
}
