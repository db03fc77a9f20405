package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mobodokan/catalog-service/internal/app/catalog/entity"
	"mobodokan/pkg/metrics"
	"mobodokan/pkg/mongodb"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName        = "catalog-service"
	productsCollection = "products"
)

type productRepository struct {
	db *mongodb.Client
}

// NewProductRepository creates the MongoDB-backed products repository. The
// underlying connection is shared and lazily established on first use, so
// construction never dials the store.
func NewProductRepository(db *mongodb.Client) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(productsCollection), nil
}

// Create inserts one product and fills in its store-assigned identifier.
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, productsCollection)
	result, err := coll.InsertOne(ctx, product)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return nil
}

// GetByID fetches one product. A malformed identifier fails with
// ErrInvalidProductID before the store is touched.
func (r *productRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidProductID
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, productsCollection)
	defer timer.ObserveDuration()

	var product entity.Product
	err = coll.FindOne(ctx, bson.M{"_id": objectID}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// Find returns the products matching the query. Filters are AND-combined;
// an empty result is a valid outcome, not an error.
func (r *productRepository) Find(ctx context.Context, query entity.ProductQuery) ([]entity.Product, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find products: %w", err)
	}

	filter := bson.M{}
	if query.Search != "" {
		filter["productName"] = bson.M{"$regex": primitive.Regex{Pattern: query.Search, Options: "i"}}
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}

	opts := options.Find().SetSort(sortOption(query.Sort))
	if query.Limit > 0 {
		opts.SetLimit(query.Limit)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, productsCollection)
	defer timer.ObserveDuration()

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := []entity.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// Update performs a field-level merge: only the fields present in the
// request are written, and updatedAt is stamped to the current time.
func (r *productRepository) Update(ctx context.Context, id string, req *entity.UpdateProductRequest) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidProductID
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.ProductName != nil {
		set["productName"] = *req.ProductName
	}
	if req.Brand != nil {
		set["brand"] = *req.Brand
	}
	if req.Category != nil {
		set["category"] = *req.Category
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Stock != nil {
		set["stock"] = *req.Stock
	}
	if req.Description != nil {
		set["description"] = *req.Description
	}
	if req.Image != nil {
		set["image"] = *req.Image
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpUpdate, productsCollection)
	result, err := coll.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": set})
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpUpdate)
		return fmt.Errorf("failed to update product: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

// Delete removes one product permanently. Reviews referencing it are left
// in place; the reference is weak and never cascaded.
func (r *productRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrInvalidProductID
	}

	coll, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpDelete, productsCollection)
	result, err := coll.DeleteOne(ctx, bson.M{"_id": objectID})
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrProductNotFound
	}

	return nil
}

func sortOption(sort string) bson.D {
	switch sort {
	case entity.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case entity.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
