package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"mobodokan/catalog-service/internal/app/catalog/entity"
	"mobodokan/catalog-service/internal/app/catalog/infrastructure"
	"mobodokan/catalog-service/internal/app/catalog/service"
	"mobodokan/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// Uploads larger than this are rejected before touching the hosting API.
const maxUploadBytes = 10 << 20

type CatalogServiceInterface interface {
	CreateProduct(ctx context.Context, owner entity.Owner, req *entity.CreateProductRequest) (string, error)
	GetProduct(ctx context.Context, id string) (*entity.Product, error)
	ListProducts(ctx context.Context, query entity.ProductQuery) ([]entity.Product, error)
	UpdateProduct(ctx context.Context, id string, owner entity.Owner, req *entity.UpdateProductRequest) error
	DeleteProduct(ctx context.Context, id string, owner entity.Owner) error
	Categories() []string
}

type CatalogHandler struct {
	catalogService CatalogServiceInterface
	uploader       infrastructure.ImageUploader
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService CatalogServiceInterface, uploader infrastructure.ImageUploader) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		uploader:       uploader,
		validator:      validator.New(),
	}
}

// CreateProduct handles POST /products.
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Unauthorized"})
		return
	}

	var req entity.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: formatValidationError(err)})
		return
	}

	id, err := h.catalogService.CreateProduct(c.Request.Context(), owner, &req)
	if err != nil {
		// Store failures stay in the server log; the response carries a
		// generic message only.
		logger.Error().Err(err).Msg("product create failed")
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, entity.Response{Success: true, Data: id})
}

// ListProducts handles GET /products with optional search, category, sort
// and limit query parameters.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	query := entity.ProductQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Sort:     c.Query("sort"),
		Limit:    parseLimit(c.Query("limit")),
	}

	products, err := h.catalogService.ListProducts(c.Request.Context(), query)
	if err != nil {
		logger.Error().Err(err).Msg("product listing failed")
		c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Data: products})
}

// GetProduct handles GET /products/:id.
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.catalogService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProductID):
			c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid product ID"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, entity.Response{Success: false, Error: "Product not found"})
		default:
			logger.Error().Err(err).Msg("product fetch failed")
			c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to fetch product"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Data: product})
}

// UpdateProduct handles PUT /products/:id.
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Unauthorized"})
		return
	}

	var req entity.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid request body"})
		return
	}

	if err := h.validator.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: formatValidationError(err)})
		return
	}

	if err := h.catalogService.UpdateProduct(c.Request.Context(), c.Param("id"), owner, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProductID):
			c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid product ID"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, entity.Response{Success: false, Error: "Product not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, entity.Response{Success: false, Error: "You do not own this product"})
		default:
			logger.Error().Err(err).Msg("product update failed")
			c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to update product"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Message: "Product updated successfully"})
}

// DeleteProduct handles DELETE /products/:id.
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	owner, ok := ownerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Unauthorized"})
		return
	}

	if err := h.catalogService.DeleteProduct(c.Request.Context(), c.Param("id"), owner); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidProductID):
			c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Invalid product ID"})
		case errors.Is(err, service.ErrProductNotFound):
			c.JSON(http.StatusNotFound, entity.Response{Success: false, Error: "Product not found"})
		case errors.Is(err, service.ErrForbidden):
			c.JSON(http.StatusForbidden, entity.Response{Success: false, Error: "You do not own this product"})
		default:
			logger.Error().Err(err).Msg("product delete failed")
			c.JSON(http.StatusInternalServerError, entity.Response{Success: false, Error: "Failed to delete product"})
		}
		return
	}

	c.JSON(http.StatusOK, entity.Response{Success: true, Message: "Product deleted successfully"})
}

// ListCategories handles GET /products/categories.
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, entity.Response{Success: true, Data: h.catalogService.Categories()})
}

// UploadImage handles POST /uploads: the image is forwarded to the hosting
// API and the caller gets back the durable URL to store on a product.
func (h *CatalogHandler) UploadImage(c *gin.Context) {
	if _, ok := ownerFromContext(c); !ok {
		c.JSON(http.StatusUnauthorized, entity.Response{Success: false, Error: "Unauthorized"})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Image file is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Failed to read image"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, entity.Response{Success: false, Error: "Image exceeds the size limit"})
		return
	}

	imageURL, err := h.uploader.Upload(c.Request.Context(), data, header.Filename)
	if err != nil {
		logger.Error().Err(err).Msg("image upload failed")
		c.JSON(http.StatusBadGateway, entity.Response{Success: false, Error: "Failed to upload image"})
		return
	}

	c.JSON(http.StatusCreated, entity.Response{Success: true, Data: imageURL})
}

// parseLimit mirrors the tolerant contract: anything unparseable or
// non-positive means unbounded.
func parseLimit(raw string) int64 {
	if raw == "" {
		return 0
	}
	limit, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
