package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product categories offered by the storefront. The set is fixed; the
// frontend filter dropdown is built from it.
const (
	CategoryPhone       = "Phone"
	CategoryTablet      = "Tablet"
	CategoryLaptop      = "Laptop"
	CategoryAccessories = "Accessories"
	CategoryWatch       = "Watch"
)

// Categories lists every product category in display order.
var Categories = []string{
	CategoryPhone,
	CategoryTablet,
	CategoryLaptop,
	CategoryAccessories,
	CategoryWatch,
}

// Product is one item for sale. The owner identity (UserEmail/UserName) is
// captured from the seller's token at creation time and never reassigned;
// UserName is a snapshot, not live-synced with the identity provider.
type Product struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ProductName string             `json:"productName" bson:"productName"`
	Brand       string             `json:"brand" bson:"brand"`
	Category    string             `json:"category" bson:"category"`
	Price       float64            `json:"price" bson:"price"`
	Stock       int                `json:"stock" bson:"stock"`
	Description string             `json:"description" bson:"description"`
	Image       string             `json:"image,omitempty" bson:"image,omitempty"`
	UserEmail   string             `json:"userEmail" bson:"userEmail"`
	UserName    string             `json:"userName" bson:"userName"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Owner is the authenticated caller identity supplied by the external
// identity provider, as extracted from the verified token.
type Owner struct {
	Email string
	Name  string
}

// ProductEvent is published to Kafka on every catalog mutation.
type ProductEvent struct {
	EventType   string    `json:"event_type"` // PRODUCT_CREATED, PRODUCT_UPDATED, PRODUCT_DELETED
	ProductID   string    `json:"product_id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	UserEmail   string    `json:"user_email"`
	Timestamp   time.Time `json:"timestamp"`
}
