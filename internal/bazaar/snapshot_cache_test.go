package bazaar

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	release chan struct{} // when non-nil, each fetch waits for it
	err     error
}

func (f *fakeFetcher) FetchSnapshot(ctx context.Context) (*Response, error) {
	n := f.calls.Add(1)
	if f.release != nil {
		<-f.release
	}
	if f.err != nil {
		return nil, f.err
	}
	return &Response{Success: true, LastUpdated: int64(n), Products: map[string]Product{}}, nil
}

func TestSnapshotCache_HitWithinTTL(t *testing.T) {
	f := &fakeFetcher{}
	sc := NewSnapshotCache(f, time.Minute)
	now := time.Unix(1000, 0)
	sc.now = func() time.Time { return now }

	first, err := sc.Snapshot(context.Background())
	require.NoError(t, err)
	now = now.Add(30 * time.Second)
	second, err := sc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), f.calls.Load())
	assert.Equal(t, 30*time.Second, sc.Age())
}

func TestSnapshotCache_RefetchAfterTTL(t *testing.T) {
	f := &fakeFetcher{}
	sc := NewSnapshotCache(f, time.Minute)
	now := time.Unix(1000, 0)
	sc.now = func() time.Time { return now }

	first, err := sc.Snapshot(context.Background())
	require.NoError(t, err)
	now = now.Add(time.Minute)
	second, err := sc.Snapshot(context.Background())
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestSnapshotCache_ZeroTTLAlwaysFetches(t *testing.T) {
	f := &fakeFetcher{}
	sc := NewSnapshotCache(f, 0)
	for i := 0; i < 3; i++ {
		_, err := sc.Snapshot(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestSnapshotCache_CoalescesConcurrentMisses(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	sc := NewSnapshotCache(f, time.Minute)

	var wg sync.WaitGroup
	results := make([]*Response, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := sc.Snapshot(context.Background())
			assert.NoError(t, err)
			results[i] = resp
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(f.release)
	wg.Wait()

	assert.Equal(t, int32(1), f.calls.Load())
	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestSnapshotCache_ErrorNotCached(t *testing.T) {
	f := &fakeFetcher{err: errors.New("boom")}
	sc := NewSnapshotCache(f, time.Minute)

	_, err := sc.Snapshot(context.Background())
	require.Error(t, err)
	assert.Equal(t, time.Duration(0), sc.Age())

	f.err = nil
	resp, err := sc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, resp)
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestSnapshotCache_WaiterGivesUp(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	defer close(f.release)
	sc := NewSnapshotCache(f, time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := sc.Snapshot(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSnapshotCache_Clear(t *testing.T) {
	f := &fakeFetcher{}
	sc := NewSnapshotCache(f, time.Minute)

	_, err := sc.Snapshot(context.Background())
	require.NoError(t, err)
	sc.Clear()
	assert.Equal(t, time.Duration(0), sc.Age())

	_, err = sc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(2), f.calls.Load())
}
