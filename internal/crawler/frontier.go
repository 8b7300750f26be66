package crawler

// Entry is a URL awaiting a visit and its distance from a seed.
type Entry struct {
	URL   string
	Depth int
}

// Frontier is the FIFO work queue of one discovery call together with its
// visited set. It is owned by a single goroutine and is not safe for
// concurrent use.
type Frontier struct {
	queue   []Entry
	visited map[string]bool
}

// NewFrontier creates a frontier holding seeds at depth 0.
func NewFrontier(seeds ...string) *Frontier {
	f := &Frontier{visited: make(map[string]bool)}
	for _, s := range seeds {
		f.Push(s, 0)
	}
	return f
}

// Push enqueues rawURL at depth. It reports false when the URL was already
// visited. Queued duplicates are tolerated; PopBatch skips them.
func (f *Frontier) Push(rawURL string, depth int) bool {
	if f.visited[NormalizeURL(rawURL)] {
		return false
	}
	f.queue = append(f.queue, Entry{URL: rawURL, Depth: depth})
	return true
}

// PopBatch dequeues up to n entries that are unvisited and within maxDepth,
// marking each visited. Entries failing either check are dropped. It may
// return fewer than n entries while the frontier is non-empty only when the
// frontier has been drained.
func (f *Frontier) PopBatch(n, maxDepth int) []Entry {
	batch := make([]Entry, 0, n)
	for len(f.queue) > 0 && len(batch) < n {
		e := f.queue[0]
		f.queue = f.queue[1:]
		key := NormalizeURL(e.URL)
		if f.visited[key] || e.Depth > maxDepth {
			continue
		}
		f.visited[key] = true
		batch = append(batch, e)
	}
	return batch
}

// Visited reports whether rawURL has been dequeued.
func (f *Frontier) Visited(rawURL string) bool {
	return f.visited[NormalizeURL(rawURL)]
}

// VisitedCount returns the number of distinct URLs dequeued.
func (f *Frontier) VisitedCount() int {
	return len(f.visited)
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	return len(f.queue)
}
