package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mobodokan/catalog-service/internal/app/catalog/entity"
	"mobodokan/catalog-service/internal/app/catalog/repository"
	"mobodokan/catalog-service/internal/app/catalog/util"
	"mobodokan/pkg/logger"
	"mobodokan/pkg/metrics"
)

var (
	// Business-logic errors mapped to HTTP outcomes in handlers.
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product id")
	ErrForbidden        = errors.New("product owned by another seller")
)

// CatalogService owns the products collection contract: validated CRUD plus
// the filtered/sorted/limited listing. It coordinates the repository, the
// listing cache and the Kafka producer.
type CatalogService struct {
	productRepo   repository.ProductRepository
	cache         util.ProductCache
	kafkaProducer util.MessagePublisher
}

func NewCatalogService(
	productRepo repository.ProductRepository,
	cache util.ProductCache,
	kafkaProducer util.MessagePublisher,
) *CatalogService {
	return &CatalogService{
		productRepo:   productRepo,
		cache:         cache,
		kafkaProducer: kafkaProducer,
	}
}

// CreateProduct inserts a product owned by the acting seller and returns the
// store-assigned identifier. Creation time is stamped server-side; caller
// timestamps and identifiers are never trusted.
func (s *CatalogService) CreateProduct(ctx context.Context, owner entity.Owner, req *entity.CreateProductRequest) (string, error) {
	now := time.Now().UTC()
	product := &entity.Product{
		ProductName: req.ProductName,
		Brand:       req.Brand,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Description: req.Description,
		Image:       req.Image,
		UserEmail:   owner.Email,
		UserName:    owner.Name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return "", fmt.Errorf("failed to create product: %w", err)
	}

	metrics.ProductsCreated.Inc()

	s.publishProductEvent(ctx, "PRODUCT_CREATED", product)
	s.invalidateListing(ctx)

	return product.ID.Hex(), nil
}

// GetProduct fetches one product by identifier.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			return nil, ErrInvalidProductID
		case errors.Is(err, repository.ErrProductNotFound):
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return product, nil
}

// ListProducts returns the products matching the query. The plain
// newest-first listing is served from the cache when possible; since the
// cached sequence is already in requested order, a limit is just its prefix.
func (s *CatalogService) ListProducts(ctx context.Context, query entity.ProductQuery) ([]entity.Product, error) {
	if query.Default() {
		if cached, err := s.cache.GetProducts(ctx); err == nil && cached != nil {
			return limitProducts(cached, query.Limit), nil
		}

		products, err := s.productRepo.Find(ctx, entity.ProductQuery{})
		if err != nil {
			return nil, fmt.Errorf("failed to list products: %w", err)
		}

		if err := s.cache.SetProducts(ctx, products); err != nil {
			// The listing came from the store; a cold cache is not fatal.
			logger.Warn().Err(err).Msg("failed to cache product listing")
		}

		return limitProducts(products, query.Limit), nil
	}

	products, err := s.productRepo.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return products, nil
}

// UpdateProduct merges the supplied fields into the product after verifying
// the acting identity owns it. Ownership is a hard precondition here, not a
// UI-level convention.
func (s *CatalogService) UpdateProduct(ctx context.Context, id string, owner entity.Owner, req *entity.UpdateProductRequest) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			return ErrInvalidProductID
		case errors.Is(err, repository.ErrProductNotFound):
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if existing.UserEmail != owner.Email {
		return ErrForbidden
	}

	if err := s.productRepo.Update(ctx, id, req); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to update product: %w", err)
	}

	metrics.ProductsUpdated.Inc()

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		updated = existing
	}
	s.publishProductEvent(ctx, "PRODUCT_UPDATED", updated)
	s.invalidateListing(ctx)

	return nil
}

// DeleteProduct removes the product permanently after the ownership check.
// Reviews referencing it are left dangling; the reference is weak.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string, owner entity.Owner) error {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrInvalidProductID):
			return ErrInvalidProductID
		case errors.Is(err, repository.ErrProductNotFound):
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to get product: %w", err)
	}

	if existing.UserEmail != owner.Email {
		return ErrForbidden
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to delete product: %w", err)
	}

	metrics.ProductsDeleted.Inc()

	s.publishProductEvent(ctx, "PRODUCT_DELETED", existing)
	s.invalidateListing(ctx)

	return nil
}

// Categories returns the fixed category set.
func (s *CatalogService) Categories() []string {
	return entity.Categories
}

func (s *CatalogService) publishProductEvent(ctx context.Context, eventType string, product *entity.Product) {
	event := entity.ProductEvent{
		EventType:   eventType,
		ProductID:   product.ID.Hex(),
		ProductName: product.ProductName,
		Category:    product.Category,
		Price:       product.Price,
		UserEmail:   product.UserEmail,
		Timestamp:   time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal product event")
		return
	}

	// The mutation already happened; event delivery is best-effort.
	if err := s.kafkaProducer.PublishMessage(ctx, event.ProductID, data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Msg("failed to publish product event")
	}
}

func (s *CatalogService) invalidateListing(ctx context.Context) {
	if err := s.cache.DeleteProducts(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate product listing cache")
	}
}

func limitProducts(products []entity.Product, limit int64) []entity.Product {
	if limit > 0 && int64(len(products)) > limit {
		return products[:limit]
	}
	return products
}
