package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mobodokan/pkg/logger"
	"mobodokan/pkg/metrics"
	"mobodokan/reviews-service/internal/app/reviews/entity"
	"mobodokan/reviews-service/internal/app/reviews/infrastructure"
	"mobodokan/reviews-service/internal/app/reviews/repository"
)

// TestimonialsLimit caps the unscoped review listing: the storefront only
// ever shows the 10 most recent reviews globally.
const TestimonialsLimit = 10

// ReviewService owns the reviews collection contract: creation, per-product
// listing, the global testimonials feed and rating statistics.
type ReviewService struct {
	reviewRepo    repository.ReviewRepository
	cache         infrastructure.TestimonialsCache
	kafkaProducer infrastructure.MessagePublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	cache infrastructure.TestimonialsCache,
	kafkaProducer infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:    reviewRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// CreateReview stores a review and returns it with its new identifier.
// CreatedAt is always stamped server-side. The product reference is not
// checked for existence — it is weak by design.
func (s *ReviewService) CreateReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error) {
	review := &entity.Review{
		ProductID: req.ProductID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		UserName:  req.UserName,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsCreated.Inc()
	metrics.ReviewsRating.Observe(float64(review.Rating))

	event := entity.ReviewEvent{
		EventType: "REVIEW_CREATED",
		ReviewID:  review.ID.Hex(),
		ProductID: review.ProductID,
		Rating:    review.Rating,
		UserName:  review.UserName,
		Timestamp: time.Now().UTC(),
	}
	if err := s.publishReviewEvent(ctx, event); err != nil {
		// The review is already stored; event delivery is best-effort.
		logger.Warn().Err(err).Msg("failed to publish review created event")
	}

	if err := s.cache.DeleteTestimonials(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate testimonials cache")
	}

	return review, nil
}

// GetReviewsByProduct returns every review for one product, newest first.
func (s *ReviewService) GetReviewsByProduct(ctx context.Context, productID string) ([]entity.Review, error) {
	reviews, err := s.reviewRepo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviews: %w", err)
	}

	return reviews, nil
}

// GetTestimonials returns the newest reviews across all products, capped at
// TestimonialsLimit and served through the cache when possible.
func (s *ReviewService) GetTestimonials(ctx context.Context) ([]entity.Review, error) {
	if cached, err := s.cache.GetTestimonials(ctx); err == nil && cached != nil {
		return cached, nil
	}

	reviews, err := s.reviewRepo.GetLatest(ctx, TestimonialsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to get testimonials: %w", err)
	}

	if err := s.cache.SetTestimonials(ctx, reviews); err != nil {
		logger.Warn().Err(err).Msg("failed to cache testimonials")
	}

	return reviews, nil
}

// RefreshTestimonials reloads the testimonials cache from the store. Called
// by the scheduled warmer.
func (s *ReviewService) RefreshTestimonials(ctx context.Context) error {
	reviews, err := s.reviewRepo.GetLatest(ctx, TestimonialsLimit)
	if err != nil {
		return fmt.Errorf("failed to refresh testimonials: %w", err)
	}

	if err := s.cache.SetTestimonials(ctx, reviews); err != nil {
		return fmt.Errorf("failed to cache testimonials: %w", err)
	}

	return nil
}

// GetRatingSummary returns the aggregated rating statistics of one product.
func (s *ReviewService) GetRatingSummary(ctx context.Context, productID string) (*entity.RatingSummary, error) {
	summary, err := s.reviewRepo.GetRatingSummary(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating summary: %w", err)
	}

	return summary, nil
}

func (s *ReviewService) publishReviewEvent(ctx context.Context, event entity.ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal review event: %w", err)
	}

	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID, data); err != nil {
		return fmt.Errorf("failed to publish to kafka: %w", err)
	}

	return nil
}
