package fetcher

import (
	"context"
	"sync"

	"github.com/jmylchreest/docpull/internal/logger"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency caps in-flight requests for FetchAll.
const DefaultConcurrency = 10

// FetchAll fetches every URL with at most concurrency requests in flight.
// The result maps each URL to its markup; a failed fetch is logged and
// maps to the empty string.
func FetchAll(ctx context.Context, f Fetcher, urls []string, opts Options, concurrency int) map[string]string {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make(map[string]string, len(urls))
	)
	set := func(u, html string) {
		mu.Lock()
		results[u] = html
		mu.Unlock()
	}

	for _, u := range urls {
		if err := sem.Acquire(ctx, 1); err != nil {
			logger.Warn("fetch cancelled", "url", u, "error", err)
			set(u, "")
			continue
		}
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			defer sem.Release(1)
			content, err := f.Fetch(ctx, u, opts)
			if err != nil {
				logger.Info("fetch failed", "url", u, "error", err)
				set(u, "")
				return
			}
			set(u, content.HTML)
		}(u)
	}
	wg.Wait()
	return results
}
