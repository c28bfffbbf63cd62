package analyzer

import (
	"encoding/json"

	"code-analyzer/src/service/cache"
	"code-analyzer/src/service/extractor"
	"code-analyzer/src/util"
)

// resultCache stores extraction results keyed by language and content hash.
// Cache failures are logged and treated as misses.
type resultCache struct {
	store cache.Store
}

func cacheKey(language, contentHash string) string {
	return language + ":" + contentHash
}

func (c *resultCache) get(key string) (*extractor.Result, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	data, found, err := c.store.Get(key)
	if err != nil {
		util.Warn("Cache read failed for %s: %v", key, err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	var res extractor.Result
	if err := json.Unmarshal(data, &res); err != nil {
		util.Warn("Discarding corrupt cache entry %s: %v", key, err)
		return nil, false
	}
	util.Debug("Extraction cache hit for %s", key)
	return &res, true
}

func (c *resultCache) put(key string, res *extractor.Result) {
	if c == nil || c.store == nil {
		return
	}

	data, err := json.Marshal(res)
	if err != nil {
		util.Warn("Cannot encode extraction result for %s: %v", key, err)
		return
	}
	if err := c.store.Set(key, data); err != nil {
		util.Warn("Cache write failed for %s: %v", key, err)
	}
}
