package bazaar

import (
	"context"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"bazaar-flipper/internal/metrics"
)

// Fetcher downloads a fresh snapshot. *Client satisfies it.
type Fetcher interface {
	FetchSnapshot(ctx context.Context) (*Response, error)
}

// SnapshotCache keeps the last bazaar snapshot for ttl and coalesces
// concurrent refreshes into one download. A ttl of 0 disables reuse but keeps
// the coalescing.
type SnapshotCache struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	resp      *Response
	fetchedAt time.Time

	group singleflight.Group
}

// NewSnapshotCache wraps fetcher with a TTL cache.
func NewSnapshotCache(fetcher Fetcher, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{fetcher: fetcher, ttl: ttl, now: time.Now}
}

// get returns the cached snapshot while it is fresh.
func (sc *SnapshotCache) get() (*Response, bool) {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.resp == nil || sc.ttl <= 0 {
		return nil, false
	}
	if sc.now().Sub(sc.fetchedAt) >= sc.ttl {
		return nil, false
	}
	return sc.resp, true
}

func (sc *SnapshotCache) put(resp *Response) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.resp = resp
	sc.fetchedAt = sc.now()
}

// Snapshot returns a fresh-enough snapshot, downloading at most once across
// concurrent callers. The shared download is not cancelled when one waiting
// caller gives up.
func (sc *SnapshotCache) Snapshot(ctx context.Context) (*Response, error) {
	if resp, ok := sc.get(); ok {
		metrics.SnapshotCacheLookups.WithLabelValues(metrics.ResultHit).Inc()
		log.Printf("[BAZAAR] SnapshotCache HIT (%d products, age=%s)", len(resp.Products), sc.Age().Round(time.Millisecond))
		return resp, nil
	}
	metrics.SnapshotCacheLookups.WithLabelValues(metrics.ResultMiss).Inc()

	ch := sc.group.DoChan("snapshot", func() (interface{}, error) {
		if resp, ok := sc.get(); ok {
			return resp, nil
		}
		resp, err := sc.fetcher.FetchSnapshot(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		sc.put(resp)
		log.Printf("[BAZAAR] SnapshotCache MISS (%d products, updated=%s)",
			len(resp.Products), resp.UpdatedAt().Format("15:04:05"))
		return resp, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Response), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Age is the time since the cached snapshot was stored, or 0 when empty.
func (sc *SnapshotCache) Age() time.Duration {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	if sc.resp == nil {
		return 0
	}
	return sc.now().Sub(sc.fetchedAt)
}

// Clear drops the cached snapshot.
func (sc *SnapshotCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.resp = nil
	sc.fetchedAt = time.Time{}
}
