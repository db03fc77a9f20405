package repository

import (
	"context"
	"errors"

	"mobodokan/catalog-service/internal/app/catalog/entity"
)

var (
	// Standard repository errors handled in the service layer.
	ErrProductNotFound  = errors.New("product not found")
	ErrInvalidProductID = errors.New("invalid product id")
)

// ProductRepository defines the products collection contract.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	Find(ctx context.Context, query entity.ProductQuery) ([]entity.Product, error)
	Update(ctx context.Context, id string, req *entity.UpdateProductRequest) error
	Delete(ctx context.Context, id string) error
}
