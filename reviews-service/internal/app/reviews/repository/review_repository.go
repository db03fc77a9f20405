package repository

import (
	"context"
	"fmt"

	"mobodokan/pkg/metrics"
	"mobodokan/pkg/mongodb"
	"mobodokan/reviews-service/internal/app/reviews/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	serviceName       = "reviews-service"
	reviewsCollection = "reviews"
)

type reviewRepository struct {
	db *mongodb.Client
}

// NewReviewRepository creates the MongoDB-backed reviews repository. The
// underlying connection is shared and lazily established on first use.
func NewReviewRepository(db *mongodb.Client) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.db.Database(ctx)
	if err != nil {
		return nil, err
	}
	return db.Collection(reviewsCollection), nil
}

// Create inserts one review and fills in its store-assigned identifier.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	coll, err := r.collection(ctx)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpInsert, reviewsCollection)
	result, err := coll.InsertOne(ctx, review)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpInsert)
		return fmt.Errorf("failed to create review: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		review.ID = oid
	}

	return nil
}

// GetByProductID returns every review for one product, newest first,
// unbounded.
func (r *reviewRepository) GetByProductID(ctx context.Context, productID string) ([]entity.Review, error) {
	return r.find(ctx, bson.M{"productId": productID}, 0)
}

// GetLatest returns the newest reviews across all products, capped at
// limit. Used for the testimonials feed.
func (r *reviewRepository) GetLatest(ctx context.Context, limit int64) ([]entity.Review, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *reviewRepository) find(ctx context.Context, filter bson.M, limit int64) ([]entity.Review, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpFind, reviewsCollection)
	defer timer.ObserveDuration()

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := []entity.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpFind)
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}

	return reviews, nil
}

// GetRatingSummary aggregates average rating and review count for one
// product. A product with no reviews yields a zero summary, not an error.
func (r *reviewRepository) GetRatingSummary(ctx context.Context, productID string) (*entity.RatingSummary, error) {
	coll, err := r.collection(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "productId", Value: productID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	timer := metrics.NewMongoTimer(serviceName, metrics.MongoOpAggregate, reviewsCollection)
	defer timer.ObserveDuration()

	cursor, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpAggregate)
		return nil, fmt.Errorf("failed to summarize reviews: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Average float64 `bson:"average"`
		Count   int64   `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		metrics.RecordMongoError(serviceName, metrics.MongoOpAggregate)
		return nil, fmt.Errorf("failed to decode review summary: %w", err)
	}

	summary := &entity.RatingSummary{ProductID: productID}
	if len(results) > 0 {
		summary.Average = results[0].Average
		summary.Count = results[0].Count
	}

	return summary, nil
}
