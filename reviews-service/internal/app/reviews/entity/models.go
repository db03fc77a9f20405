package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one rating+comment against one product. Reviews are immutable
// after creation: the contract has no update or delete operation, and they
// are retained indefinitely. ProductID is a weak reference — deleting a
// product leaves its reviews dangling.
type Review struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProductID string             `json:"productId" bson:"productId"`
	Rating    int                `json:"rating" bson:"rating"`
	Comment   string             `json:"comment" bson:"comment"`
	UserName  string             `json:"userName" bson:"userName"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// RatingSummary aggregates the rating statistics of one product.
type RatingSummary struct {
	ProductID string  `json:"productId"`
	Average   float64 `json:"average"`
	Count     int64   `json:"count"`
}

// ReviewEvent is published to Kafka when a review is created.
type ReviewEvent struct {
	EventType string    `json:"event_type"` // REVIEW_CREATED
	ReviewID  string    `json:"review_id"`
	ProductID string    `json:"product_id"`
	Rating    int       `json:"rating"`
	UserName  string    `json:"user_name"`
	Timestamp time.Time `json:"timestamp"`
}
