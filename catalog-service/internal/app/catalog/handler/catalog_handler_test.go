package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mobodokan/catalog-service/internal/app/catalog/entity"
	"mobodokan/catalog-service/internal/app/catalog/repository"
	"mobodokan/catalog-service/internal/app/catalog/repository/mocks"
	"mobodokan/catalog-service/internal/app/catalog/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Test environment helpers

func setupTestHandler() (*CatalogHandler, *mocks.MockProductRepository, *mocks.MockProductCache, *mocks.MockMessagePublisher, *mocks.MockImageUploader) {
	productRepo := new(mocks.MockProductRepository)
	cache := new(mocks.MockProductCache)
	producer := new(mocks.MockMessagePublisher)
	uploader := new(mocks.MockImageUploader)

	catalogService := service.NewCatalogService(productRepo, cache, producer)
	handler := NewCatalogHandler(catalogService, uploader)

	return handler, productRepo, cache, producer, uploader
}

func newTestProduct() *entity.Product {
	now := time.Now().UTC()
	return &entity.Product{
		ID:          primitive.NewObjectID(),
		ProductName: "Galaxy S24",
		Brand:       "Samsung",
		Category:    entity.CategoryPhone,
		Price:       899.99,
		Stock:       12,
		UserEmail:   "seller@example.com",
		UserName:    "Seller",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func newAuthedContext(w *httptest.ResponseRecorder) (*gin.Context, *gin.Engine) {
	c, r := gin.CreateTestContext(w)
	c.Set("owner", entity.Owner{Email: "seller@example.com", Name: "Seller"})
	return c, r
}

func assertableInternalError() error {
	return errors.New("connection refused to internal store")
}

// ==================== Create Tests ====================

func TestCatalogHandler_CreateProduct_Success(t *testing.T) {
	// Arrange
	handler, productRepo, cache, producer, _ := setupTestHandler()

	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).Return(nil)
	producer.On("PublishMessage", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	cache.On("DeleteProducts", mock.Anything).Return(nil)

	body, _ := json.Marshal(entity.CreateProductRequest{
		ProductName: "Galaxy S24",
		Brand:       "Samsung",
		Category:    entity.CategoryPhone,
		Price:       899.99,
		Stock:       12,
	})

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	// Act
	handler.CreateProduct(c)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.NotEmpty(t, response.Data)
}

func TestCatalogHandler_CreateProduct_MissingName(t *testing.T) {
	// Arrange
	handler, _, _, _, _ := setupTestHandler()

	body, _ := json.Marshal(map[string]interface{}{"price": 10})

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	// Act
	handler.CreateProduct(c)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Success)
}

func TestCatalogHandler_CreateProduct_StoreErrorIsGeneric(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	productRepo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Product")).
		Return(assertableInternalError())

	body, _ := json.Marshal(entity.CreateProductRequest{ProductName: "Galaxy S24"})

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")

	// Act
	handler.CreateProduct(c)

	// Assert: the internal detail never leaks into the response body.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused to internal store")
	assert.Contains(t, w.Body.String(), "Failed to create product")
}

func TestCatalogHandler_CreateProduct_Unauthenticated(t *testing.T) {
	// Arrange
	handler, _, _, _, _ := setupTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("{}"))
	c.Request.Header.Set("Content-Type", "application/json")

	// Act
	handler.CreateProduct(c)

	// Assert
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// ==================== List Tests ====================

func TestCatalogHandler_ListProducts_Default(t *testing.T) {
	// Arrange
	handler, productRepo, cache, _, _ := setupTestHandler()

	stored := []entity.Product{*newTestProduct(), *newTestProduct()}
	cache.On("GetProducts", mock.Anything).Return(nil, nil)
	productRepo.On("Find", mock.Anything, entity.ProductQuery{}).Return(stored, nil)
	cache.On("SetProducts", mock.Anything, stored).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products", nil)

	// Act
	handler.ListProducts(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)

	var response entity.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Len(t, response.Data, 2)
}

func TestCatalogHandler_ListProducts_QueryParamsForwarded(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	expected := entity.ProductQuery{
		Search:   "galaxy",
		Category: entity.CategoryPhone,
		Sort:     entity.SortPriceDesc,
		Limit:    5,
	}
	productRepo.On("Find", mock.Anything, expected).Return([]entity.Product{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products?search=galaxy&category=Phone&sort=price_desc&limit=5", nil)

	// Act
	handler.ListProducts(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_BogusLimitMeansUnbounded(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	expected := entity.ProductQuery{Category: entity.CategoryLaptop}
	productRepo.On("Find", mock.Anything, expected).Return([]entity.Product{}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products?category=Laptop&limit=abc", nil)

	// Act
	handler.ListProducts(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestCatalogHandler_ListProducts_EmptyStoreReturnsEmptyArray(t *testing.T) {
	// Arrange
	handler, productRepo, cache, _, _ := setupTestHandler()

	cache.On("GetProducts", mock.Anything).Return(nil, nil)
	productRepo.On("Find", mock.Anything, entity.ProductQuery{}).Return([]entity.Product{}, nil)
	cache.On("SetProducts", mock.Anything, []entity.Product{}).Return(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products", nil)

	// Act
	handler.ListProducts(c)

	// Assert: data is [], not null.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"data":[]`)
}

// ==================== Get Tests ====================

func TestCatalogHandler_GetProduct_Success(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	product := newTestProduct()
	productRepo.On("GetByID", mock.Anything, product.ID.Hex()).Return(product, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/"+product.ID.Hex(), nil)
	c.Params = gin.Params{{Key: "id", Value: product.ID.Hex()}}

	// Act
	handler.GetProduct(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), product.ProductName)
}

func TestCatalogHandler_GetProduct_InvalidID(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	productRepo.On("GetByID", mock.Anything, "not-hex").Return(nil, repository.ErrInvalidProductID)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/not-hex", nil)
	c.Params = gin.Params{{Key: "id", Value: "not-hex"}}

	// Act
	handler.GetProduct(c)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid product ID")
}

func TestCatalogHandler_GetProduct_NotFound(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	id := primitive.NewObjectID().Hex()
	productRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrProductNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}

	// Act
	handler.GetProduct(c)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Product not found")
}

// ==================== Update Tests ====================

func TestCatalogHandler_UpdateProduct_Forbidden(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	existing := newTestProduct()
	existing.UserEmail = "someone-else@example.com"
	id := existing.ID.Hex()
	productRepo.On("GetByID", mock.Anything, id).Return(existing, nil)

	body, _ := json.Marshal(map[string]interface{}{"price": 1})

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/products/"+id, bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id}}

	// Act
	handler.UpdateProduct(c)

	// Assert
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "You do not own this product")
}

func TestCatalogHandler_UpdateProduct_Success(t *testing.T) {
	// Arrange
	handler, productRepo, cache, producer, _ := setupTestHandler()

	existing := newTestProduct()
	id := existing.ID.Hex()
	productRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	productRepo.On("Update", mock.Anything, id, mock.AnythingOfType("*entity.UpdateProductRequest")).Return(nil)
	producer.On("PublishMessage", mock.Anything, id, mock.Anything).Return(nil)
	cache.On("DeleteProducts", mock.Anything).Return(nil)

	body, _ := json.Marshal(map[string]interface{}{"price": 799.99})

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPut, "/products/"+id, bytes.NewBuffer(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: id}}

	// Act
	handler.UpdateProduct(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product updated successfully")
}

// ==================== Delete Tests ====================

func TestCatalogHandler_DeleteProduct_NotFound(t *testing.T) {
	// Arrange
	handler, productRepo, _, _, _ := setupTestHandler()

	id := primitive.NewObjectID().Hex()
	productRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrProductNotFound)

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}

	// Act
	handler.DeleteProduct(c)

	// Assert
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCatalogHandler_DeleteProduct_Success(t *testing.T) {
	// Arrange
	handler, productRepo, cache, producer, _ := setupTestHandler()

	existing := newTestProduct()
	id := existing.ID.Hex()
	productRepo.On("GetByID", mock.Anything, id).Return(existing, nil)
	productRepo.On("Delete", mock.Anything, id).Return(nil)
	producer.On("PublishMessage", mock.Anything, id, mock.Anything).Return(nil)
	cache.On("DeleteProducts", mock.Anything).Return(nil)

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/products/"+id, nil)
	c.Params = gin.Params{{Key: "id", Value: id}}

	// Act
	handler.DeleteProduct(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Product deleted successfully")
}

// ==================== Categories Tests ====================

func TestCatalogHandler_ListCategories(t *testing.T) {
	// Arrange
	handler, _, _, _, _ := setupTestHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/products/categories", nil)

	// Act
	handler.ListCategories(c)

	// Assert
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Phone")
	assert.Contains(t, w.Body.String(), "Watch")
}

// ==================== Upload Tests ====================

func TestCatalogHandler_UploadImage_Success(t *testing.T) {
	// Arrange
	handler, _, _, _, uploader := setupTestHandler()

	uploader.On("Upload", mock.Anything, []byte("fake-image-bytes"), "photo.png").
		Return("https://images.example.com/photo.png", nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	// Act
	handler.UploadImage(c)

	// Assert
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "https://images.example.com/photo.png")
}

func TestCatalogHandler_UploadImage_MissingFile(t *testing.T) {
	// Arrange
	handler, _, _, _, _ := setupTestHandler()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	// Act
	handler.UploadImage(c)

	// Assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Image file is required")
}

func TestCatalogHandler_UploadImage_UpstreamFailure(t *testing.T) {
	// Arrange
	handler, _, _, _, uploader := setupTestHandler()

	uploader.On("Upload", mock.Anything, mock.Anything, mock.Anything).
		Return("", assertableInternalError())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	c, _ := newAuthedContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/uploads", &buf)
	c.Request.Header.Set("Content-Type", mw.FormDataContentType())

	// Act
	handler.UploadImage(c)

	// Assert
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to upload image")
}
