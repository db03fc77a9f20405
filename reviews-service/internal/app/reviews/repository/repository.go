package repository

import (
	"context"

	"mobodokan/reviews-service/internal/app/reviews/entity"
)

// ReviewRepository defines the reviews collection contract. Reviews are
// append-only: there is no update or delete.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByProductID(ctx context.Context, productID string) ([]entity.Review, error)
	GetLatest(ctx context.Context, limit int64) ([]entity.Review, error)
	GetRatingSummary(ctx context.Context, productID string) (*entity.RatingSummary, error)
}
