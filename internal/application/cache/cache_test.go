package cache_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alejandrodnm/bbfs/internal/application/cache"
	"github.com/alejandrodnm/bbfs/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingMetrics struct {
	mu     sync.Mutex
	hits   map[string]int
	misses map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{hits: map[string]int{}, misses: map[string]int{}}
}

func (m *countingMetrics) CacheHit(kind string) {
	m.mu.Lock()
	m.hits[kind]++
	m.mu.Unlock()
}

func (m *countingMetrics) CacheMiss(kind string) {
	m.mu.Lock()
	m.misses[kind]++
	m.mu.Unlock()
}

func (m *countingMetrics) BacktestRun(time.Duration, int) {}
func (m *countingMetrics) Refresh(domain.RefreshStatus)   {}

func TestGetOrCompute_HitAfterMiss(t *testing.T) {
	m := newCountingMetrics()
	c := cache.New(m)
	calls := 0
	fn := func() (int, error) { calls++; return 42, nil }

	v, err := cache.GetOrCompute(c, 1, cache.KindSummary, fn)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = cache.GetOrCompute(c, 1, cache.KindSummary, fn)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, m.misses["summary"])
	assert.Equal(t, 1, m.hits["summary"])
}

func TestGetOrCompute_KeyedByVersionAndKind(t *testing.T) {
	c := cache.New(nil)

	a, _ := cache.GetOrCompute(c, 1, cache.KindSummary, func() (string, error) { return "v1", nil })
	b, _ := cache.GetOrCompute(c, 2, cache.KindSummary, func() (string, error) { return "v2", nil })
	d, _ := cache.GetOrCompute(c, 1, cache.KindBreakdown, func() (string, error) { return "bd", nil })

	assert.Equal(t, "v1", a)
	assert.Equal(t, "v2", b)
	assert.Equal(t, "bd", d)
	assert.Equal(t, 3, c.Len())
}

func TestGetOrCompute_ErrorNotStored(t *testing.T) {
	c := cache.New(nil)
	boom := errors.New("boom")

	_, err := cache.GetOrCompute(c, 1, cache.KindBacktest, func() ([]int, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())

	v, err := cache.GetOrCompute(c, 1, cache.KindBacktest, func() ([]int, error) { return []int{1}, nil })
	require.NoError(t, err)
	assert.Equal(t, []int{1}, v)
}

func TestPut_Replaces(t *testing.T) {
	c := cache.New(nil)
	_, _ = cache.GetOrCompute(c, 3, cache.KindBacktest, func() (int, error) { return 1, nil })

	cache.Put(c, 3, cache.KindBacktest, 2)

	v, err := cache.GetOrCompute(c, 3, cache.KindBacktest, func() (int, error) { return 99, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidate_DropsEverything(t *testing.T) {
	c := cache.New(nil)
	cache.Put(c, 1, cache.KindSummary, 1)
	cache.Put(c, 1, cache.KindTune, 1)

	c.Invalidate()
	assert.Equal(t, 0, c.Len())

	v, err := cache.GetOrCompute(c, 1, cache.KindSummary, func() (int, error) { return 7, nil })
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

func TestGetOrCompute_ConcurrentMissesCollapse(t *testing.T) {
	c := cache.New(nil)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]int, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.GetOrCompute(c, 1, cache.KindBacktest, func() (int, error) {
				calls.Add(1)
				<-release
				return 5, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}()
	}

	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, v := range results {
		assert.Equal(t, 5, v)
	}
}

func TestGetOrCompute_InvalidateDuringCompute(t *testing.T) {
	c := cache.New(nil)
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan int)
	go func() {
		v, _ := cache.GetOrCompute(c, 1, cache.KindSummary, func() (int, error) {
			close(started)
			<-release
			return 1, nil
		})
		done <- v
	}()

	<-started
	c.Invalidate()
	close(release)

	assert.Equal(t, 1, <-done, "callers still get the value")
	assert.Equal(t, 0, c.Len(), "but it is not stored")

	v, err := cache.GetOrCompute(c, 1, cache.KindSummary, func() (int, error) { return 2, nil })
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
