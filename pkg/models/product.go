package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ProductStatusHidden = 0
	ProductStatusActive = 1
)

type Product struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name" json:"name"`
	RealPrice        float64            `bson:"realPrice" json:"realPrice"`
	PromotionalPrice float64            `bson:"promotionalPrice" json:"promotionalPrice"`
	Description      string             `bson:"description,omitempty" json:"description,omitempty"`
	SensorValve      string             `bson:"sensorValve,omitempty" json:"sensorValve,omitempty"`
	// Feature is a JSON-encoded map of attribute name to value, stored as a
	// plain string the way the storefront submits it.
	Feature        string    `bson:"feature,omitempty" json:"feature,omitempty"`
	Detail         string    `bson:"detail,omitempty" json:"detail,omitempty"`
	Status         int       `bson:"status" json:"status"`
	Quantity       int       `bson:"quantity" json:"quantity"`
	Images         string    `bson:"images" json:"images"` // comma-joined filenames
	WarrantyPeriod string    `bson:"warrantyPeriod,omitempty" json:"warrantyPeriod,omitempty"`
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ProductUpdate struct {
	Name             *string  `bson:"name,omitempty" json:"name,omitempty"`
	RealPrice        *float64 `bson:"realPrice,omitempty" json:"realPrice,omitempty"`
	PromotionalPrice *float64 `bson:"promotionalPrice,omitempty" json:"promotionalPrice,omitempty"`
	Description      *string  `bson:"description,omitempty" json:"description,omitempty"`
	SensorValve      *string  `bson:"sensorValve,omitempty" json:"sensorValve,omitempty"`
	Feature          *string  `bson:"feature,omitempty" json:"feature,omitempty"`
	Detail           *string  `bson:"detail,omitempty" json:"detail,omitempty"`
	Status           *int     `bson:"status,omitempty" json:"status,omitempty"`
	Quantity         *int     `bson:"quantity,omitempty" json:"quantity,omitempty"`
	Images           *string  `bson:"images,omitempty" json:"images,omitempty"`
	WarrantyPeriod   *string  `bson:"warrantyPeriod,omitempty" json:"warrantyPeriod,omitempty"`
}
