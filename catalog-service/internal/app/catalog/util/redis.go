package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mobodokan/catalog-service/internal/app/catalog/entity"
	"mobodokan/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	productsCacheKey = "products:newest"
	productsCacheTTL = 5 * time.Minute
)

// RedisClient caches the default newest-first product listing so the
// storefront home and products pages do not hit MongoDB on every render.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFrom wraps an already-configured client, used by tests.
func NewRedisClientFrom(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetProducts(ctx context.Context, products []entity.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("failed to marshal products: %w", err)
	}

	if err := r.client.Set(ctx, productsCacheKey, data, productsCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("catalog-service", "set")
		return fmt.Errorf("failed to set products in cache: %w", err)
	}

	return nil
}

func (r *RedisClient) GetProducts(ctx context.Context) ([]entity.Product, error) {
	data, err := r.client.Get(ctx, productsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("catalog-service", productsCacheKey)
			return nil, nil
		}
		metrics.RecordRedisError("catalog-service", "get")
		return nil, fmt.Errorf("failed to get products from cache: %w", err)
	}

	var products []entity.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to unmarshal products: %w", err)
	}

	metrics.RecordCacheHit("catalog-service", productsCacheKey)
	return products, nil
}

func (r *RedisClient) DeleteProducts(ctx context.Context) error {
	if err := r.client.Del(ctx, productsCacheKey).Err(); err != nil {
		metrics.RecordRedisError("catalog-service", "del")
		return fmt.Errorf("failed to delete products from cache: %w", err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
