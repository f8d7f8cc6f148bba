package prompts

import (
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type loader interface {
	Load(name string) (string, error)
}

type CachedLoader struct {
	loader loader
	cache  *gocache.Cache
}

func NewCachedLoader(loader loader, ttl time.Duration) *CachedLoader {
	return &CachedLoader{loader: loader, cache: gocache.New(ttl, 2*ttl)}
}

func (c *CachedLoader) Load(name string) (string, error) {
	if value, found := c.cache.Get(name); found {
		return value.(string), nil
	}

	content, err := c.loader.Load(name)
	if err != nil {
		return "", err
	}

	c.cache.Set(name, content, gocache.DefaultExpiration)
	return content, nil
}
