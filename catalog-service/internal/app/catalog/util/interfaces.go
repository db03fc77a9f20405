package util

import (
	"context"

	"mobodokan/catalog-service/internal/app/catalog/entity"
)

// ProductCache caches the default newest-first product listing.
// Used for dependency injection and to simplify testing.
type ProductCache interface {
	SetProducts(ctx context.Context, products []entity.Product) error
	GetProducts(ctx context.Context) ([]entity.Product, error)
	DeleteProducts(ctx context.Context) error
	Close() error
}

// MessagePublisher publishes catalog events to the message queue (Kafka).
// Used for dependency injection and to simplify testing.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
