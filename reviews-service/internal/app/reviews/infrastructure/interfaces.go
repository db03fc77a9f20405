package infrastructure

import (
	"context"

	"mobodokan/reviews-service/internal/app/reviews/entity"
)

// MessagePublisher publishes review events to the message queue (Kafka).
// Used for dependency injection and to simplify testing.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}

// TestimonialsCache caches the global newest-reviews feed served on the
// storefront home page.
type TestimonialsCache interface {
	SetTestimonials(ctx context.Context, reviews []entity.Review) error
	GetTestimonials(ctx context.Context) ([]entity.Review, error)
	DeleteTestimonials(ctx context.Context) error
	Close() error
}
