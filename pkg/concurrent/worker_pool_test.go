package concurrent

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](3, 10)
	for i := 1; i <= 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Start(func(job int) int { return job * job })
	wp.Wait()

	sum := 0
	for res := range wp.CollectResults() {
		sum += res
	}
	assert.Equal(t, 385, sum)
}

func TestMapKeepsOrder(t *testing.T) {
	var calls int32
	jobs := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	got := Map(2, jobs, func(s string) int {
		atomic.AddInt32(&calls, 1)
		return len(s)
	})

	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)
	assert.Equal(t, int32(5), calls)
}

func TestMapEmpty(t *testing.T) {
	got := Map(4, []int{}, func(i int) int { return i })
	assert.Empty(t, got)
}
