package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/ErdunE/mira-astrology-companion/internal/ports/cache"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// Cache in-memory реализация cache.Cache, живёт в пределах одного процесса
// (тёплый Lambda-контейнер или локальный сервер), когда Redis не настроен
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	now   func() time.Time
}

func NewCache(now func() time.Time) cache.Cache {
	if now == nil {
		now = time.Now
	}
	return &Cache{
		items: make(map[string]entry),
		now:   now,
	}
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()

	if !ok {
		return "", cache.ErrMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		delete(c.items, key)
		c.mu.Unlock()
		return "", cache.ErrMiss
	}
	return e.value, nil
}

// Set ttl <= 0 хранит значение без срока
func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	e := entry{value: value}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func (c *Cache) Close() error {
	return nil
}
