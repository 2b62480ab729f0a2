package hub

import "sync"

// infoCache memoizes repo metadata with a hard size cap. When full, the
// oldest insertion is dropped, which is close enough to LRU for the short
// bursts of lookups model comparison produces.
type infoCache struct {
	mu    sync.Mutex
	max   int
	repos map[string]Repo
	order []string
}

func newInfoCache(max int) *infoCache {
	if max <= 0 {
		max = 100
	}
	return &infoCache{
		max:   max,
		repos: make(map[string]Repo, max),
	}
}

func (c *infoCache) get(key string) (Repo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	repo, ok := c.repos[key]
	return repo, ok
}

func (c *infoCache) put(key string, repo Repo) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.repos[key]; !exists {
		if len(c.order) >= c.max {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.repos, oldest)
		}
		c.order = append(c.order, key)
	}
	c.repos[key] = repo
}
