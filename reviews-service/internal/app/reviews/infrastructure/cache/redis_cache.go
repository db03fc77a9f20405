package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mobodokan/pkg/metrics"
	"mobodokan/reviews-service/internal/app/reviews/entity"

	"github.com/redis/go-redis/v9"
)

const (
	testimonialsCacheKey = "reviews:testimonials"
	testimonialsCacheTTL = 5 * time.Minute
)

// RedisCache holds the global newest-reviews feed so the storefront home
// page does not hit MongoDB on every render.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr, password string, db int) (*RedisCache, error) {
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

	return &RedisCache{client: client}, nil
}

// NewRedisCacheFrom wraps an already-configured client, used by tests.
func NewRedisCacheFrom(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) SetTestimonials(ctx context.Context, reviews []entity.Review) error {
	data, err := json.Marshal(reviews)
	if err != nil {
		return fmt.Errorf("failed to marshal testimonials: %w", err)
	}

	if err := r.client.Set(ctx, testimonialsCacheKey, data, testimonialsCacheTTL).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", "set")
		return fmt.Errorf("failed to set testimonials in cache: %w", err)
	}

	return nil
}

func (r *RedisCache) GetTestimonials(ctx context.Context) ([]entity.Review, error) {
	data, err := r.client.Get(ctx, testimonialsCacheKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("reviews-service", testimonialsCacheKey)
			return nil, nil
		}
		metrics.RecordRedisError("reviews-service", "get")
		return nil, fmt.Errorf("failed to get testimonials from cache: %w", err)
	}

	var reviews []entity.Review
	if err := json.Unmarshal(data, &reviews); err != nil {
		return nil, fmt.Errorf("failed to unmarshal testimonials: %w", err)
	}

	metrics.RecordCacheHit("reviews-service", testimonialsCacheKey)
	return reviews, nil
}

func (r *RedisCache) DeleteTestimonials(ctx context.Context) error {
	if err := r.client.Del(ctx, testimonialsCacheKey).Err(); err != nil {
		metrics.RecordRedisError("reviews-service", "del")
		return fmt.Errorf("failed to delete testimonials from cache: %w", err)
	}
	return nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
