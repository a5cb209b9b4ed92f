package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWorkerPool(t *testing.T) {
	wp := NewWorkerPool(4)
	defer wp.Close()
	assert.Equal(t, 4, wp.NumWorkers())

	defaulted := NewWorkerPool(0)
	defer defaulted.Close()
	assert.Equal(t, runtime.NumCPU(), defaulted.NumWorkers())
}

func TestMapPreservesOrder(t *testing.T) {
	wp := NewWorkerPool(4)
	defer wp.Close()

	items := make([]int, 100)
	for i := range items {
		items[i] = i * 10
	}

	results := Map(wp, items, func(idx, item int) int {
		return item + idx
	})

	require.Len(t, results, 100)
	for i, r := range results {
		assert.Equal(t, i*11, r)
	}
}

func TestMapRunsEveryItem(t *testing.T) {
	wp := NewWorkerPool(8)
	defer wp.Close()

	var calls atomic.Int64
	Map(wp, make([]struct{}, 50), func(int, struct{}) int {
		calls.Add(1)
		return 0
	})
	assert.Equal(t, int64(50), calls.Load())
}

func TestMapEmpty(t *testing.T) {
	wp := NewWorkerPool(2)
	defer wp.Close()

	assert.Nil(t, Map(wp, nil, func(int, int) int { return 0 }))
}
