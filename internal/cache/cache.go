package cache

import (
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// JSONCache stores values as JSON in a fixed size freecache.
// freecache is safe for concurrent use, so no extra locking is needed.
type JSONCache struct {
	cache      *freecache.Cache
	expireSecs int
}

func NewJSONCache(sizeMB, expireSecs int) *JSONCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	return &JSONCache{
		cache:      freecache.NewCache(sizeMB * megabyte),
		expireSecs: expireSecs,
	}
}

// Get unmarshals the cached value for key into dst and reports whether it was found.
// An entry that cannot be decoded is evicted and reported as a miss.
func (c *JSONCache) Get(key string, dst any) bool {
	valueBytes, err := c.cache.Get([]byte(key))
	if err != nil {
		return false
	}
	if err := json.Unmarshal(valueBytes, dst); err != nil {
		log.Errorf("unmarshal cached value [%s]: %s", key, err)
		c.cache.Del([]byte(key))
		return false
	}
	return true
}

func (c *JSONCache) Set(key string, v any) error {
	valueBytes, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value [%s]: %w", key, err)
	}
	if err := c.cache.Set([]byte(key), valueBytes, c.expireSecs); err != nil {
		return fmt.Errorf("set cache value [%s]: %w", key, err)
	}
	return nil
}

func (c *JSONCache) Delete(key string) {
	c.cache.Del([]byte(key))
}
