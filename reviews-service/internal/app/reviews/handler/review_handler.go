package handler

import (
	"context"
	"net/http"

	"mobodokan/pkg/logger"
	"mobodokan/reviews-service/internal/app/reviews/entity"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type ReviewServiceInterface interface {
	CreateReview(ctx context.Context, req *entity.CreateReviewRequest) (*entity.Review, error)
	GetReviewsByProduct(ctx context.Context, productID string) ([]entity.Review, error)
	GetTestimonials(ctx context.Context) ([]entity.Review, error)
	GetRatingSummary(ctx context.Context, productID string) (*entity.RatingSummary, error)
}

type ReviewHandler struct {
	reviewService ReviewServiceInterface
	validator     *validator.Validate
}

func NewReviewHandler(reviewService ReviewServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validator:     validator.New(),
	}
}

// CreateReview handles POST /reviews. Any caller with the three required
// fields may submit; there is no authentication on this path.
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	var req entity.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Missing required fields"})
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), &req)
	if err != nil {
		logger.Error().Err(err).Msg("review create failed")
		c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to create review"})
		return
	}

	c.JSON(http.StatusCreated, entity.Response{Success: true, Data: review})
}

// ListReviews handles GET /reviews. With a productId parameter it returns
// every review for that product; without one it returns the global
// testimonials feed (the 10 newest reviews). Both newest first.
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	productID := c.Query("productId")

	var (
		reviews []entity.Review
		err     error
	)
	if productID != "" {
		reviews, err = h.reviewService.GetReviewsByProduct(c.Request.Context(), productID)
	} else {
		reviews, err = h.reviewService.GetTestimonials(c.Request.Context())
	}
	if err != nil {
		logger.Error().Err(err).Msg("review listing failed")
		c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Data: reviews})
}

// GetRatingSummary handles GET /reviews/summary.
func (h *ReviewHandler) GetRatingSummary(c *gin.Context) {
	productID := c.Query("productId")
	if productID == "" {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "productId is required"})
		return
	}

	summary, err := h.reviewService.GetRatingSummary(c.Request.Context(), productID)
	if err != nil {
		logger.Error().Err(err).Msg("rating summary failed")
		c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to fetch rating summary"})
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Data: summary})
}
