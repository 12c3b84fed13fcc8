package store

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"konsol-admin/pkg/logger"
)

// Cache menyimpan payload mentah per collection di Redis. Kebijakannya
// last-write-wins per nama resource: setiap write ke sebuah collection
// menghapus entri cache-nya, sehingga tidak ada pembacaan yang melihat
// data basi setelah write selesai.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCache(rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{rdb: rdb, ttl: ttl}
}

func cacheKey(resource string) string {
	return "collection:" + resource
}

// Get mengembalikan payload cache untuk resource, jika ada.
// Receiver nil berarti caching mati (dipakai di unit test).
func (c *Cache) Get(ctx context.Context, resource string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(resource)).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Set menyimpan payload collection dengan TTL.
func (c *Cache) Set(ctx context.Context, resource string, raw []byte) {
	if c == nil {
		return
	}
	if err := c.rdb.SetEX(ctx, cacheKey(resource), raw, c.ttl).Err(); err != nil {
		logger.ErrorLogger.Error("Error caching collection",
			zap.String("resource", resource), zap.Error(err))
	}
}

// Invalidate menghapus cache sebuah collection setelah write.
func (c *Cache) Invalidate(ctx context.Context, resource string) {
	if c == nil {
		return
	}
	c.rdb.Del(ctx, cacheKey(resource))
}
